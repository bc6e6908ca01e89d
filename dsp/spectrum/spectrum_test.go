package spectrum

import (
	"math"
	"testing"
)

const testSampleRate = 44100.0

func sine(n int, hz, sampleRate float64) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * hz * float64(i) / sampleRate)
	}

	return buf
}

func TestNewAnalyzerRejectsNonPowerOfTwo(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 1, 3, 100, 1000} {
		if _, err := NewAnalyzer(size); err == nil {
			t.Fatalf("NewAnalyzer(%d) accepted a bad size", size)
		}
	}
}

func TestAnalyzerFindsSineBin(t *testing.T) {
	t.Parallel()

	const fftSize = 4096

	a, err := NewAnalyzer(fftSize)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	// Pick a frequency centered on a bin to avoid leakage.
	bin := 100
	hz := a.BinFrequency(bin, testSampleRate)
	signal := sine(fftSize, hz, testSampleRate)

	mags := make([]float64, a.NumBins())

	_, err = a.Magnitudes(mags, signal)
	if err != nil {
		t.Fatalf("Magnitudes: %v", err)
	}

	if got := DominantBin(mags); got != bin {
		t.Fatalf("dominant bin = %d, want %d", got, bin)
	}
}

func TestAnalyzerZeroPadsShortSignal(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(1024)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	mags := make([]float64, a.NumBins())

	_, err = a.Magnitudes(mags, []float64{1})
	if err != nil {
		t.Fatalf("Magnitudes: %v", err)
	}

	for i, m := range mags {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			t.Fatalf("bin %d = %g, want finite", i, m)
		}
	}
}

func TestAnalyzerRejectsWrongBufferSize(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(256)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	if _, err := a.Magnitudes(make([]float64, 10), nil); err == nil {
		t.Fatal("Magnitudes accepted a wrong-sized buffer")
	}
}

func TestToneDetectorIsSelective(t *testing.T) {
	t.Parallel()

	const n = 8192

	signal := sine(n, 1000, testSampleRate)

	atTone, err := TonePower(signal, 1000, testSampleRate)
	if err != nil {
		t.Fatalf("TonePower: %v", err)
	}

	offTone, err := TonePower(signal, 2000, testSampleRate)
	if err != nil {
		t.Fatalf("TonePower: %v", err)
	}

	if atTone <= 0 {
		t.Fatalf("power at tone = %g, want > 0", atTone)
	}

	if offTone >= atTone/100 {
		t.Fatalf("off-tone power %g not well below on-tone power %g", offTone, atTone)
	}
}

func TestToneDetectorValidatesInputs(t *testing.T) {
	t.Parallel()

	if _, err := NewToneDetector(100, 0); err == nil {
		t.Fatal("accepted zero sample rate")
	}

	if _, err := NewToneDetector(-1, testSampleRate); err == nil {
		t.Fatal("accepted negative frequency")
	}

	if _, err := NewToneDetector(testSampleRate, testSampleRate); err == nil {
		t.Fatal("accepted frequency above Nyquist")
	}
}

func TestToneDetectorResetClearsAccumulation(t *testing.T) {
	t.Parallel()

	d, err := NewToneDetector(500, testSampleRate)
	if err != nil {
		t.Fatalf("NewToneDetector: %v", err)
	}

	d.Feed(sine(4096, 500, testSampleRate))

	if d.Power() == 0 {
		t.Fatal("no power accumulated")
	}

	d.Reset()

	if d.Power() != 0 {
		t.Fatalf("power after reset = %g, want 0", d.Power())
	}
}
