package design

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/filter/biquad"
)

// responseAt evaluates the biquad transfer function magnitude at freq.
func responseAt(c biquad.Coefficients, freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	z := cmplx.Exp(complex(0, -w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*z + complex(c.B2, 0)*z*z
	den := complex(1, 0) + complex(c.A1, 0)*z + complex(c.A2, 0)*z*z

	return cmplx.Abs(num / den)
}

func TestLowpassAttenuatesAboveCutoff(t *testing.T) {
	c := Lowpass(1000, defaultQ, 48000)

	low := responseAt(c, 100, 48000)
	high := responseAt(c, 10000, 48000)

	if low < 0.9 || low > 1.1 {
		t.Fatalf("passband response: got %v, want near 1", low)
	}

	if high > 0.05 {
		t.Fatalf("stopband response: got %v, want < 0.05", high)
	}
}

func TestHighpassAttenuatesBelowCutoff(t *testing.T) {
	c := Highpass(1000, defaultQ, 48000)

	low := responseAt(c, 50, 48000)
	high := responseAt(c, 12000, 48000)

	if high < 0.9 || high > 1.1 {
		t.Fatalf("passband response: got %v, want near 1", high)
	}

	if low > 0.05 {
		t.Fatalf("stopband response: got %v, want < 0.05", low)
	}
}

func TestPeakBoostsAtCenterOnly(t *testing.T) {
	c := Peak(1000, 12, defaultQ, 48000)

	center := responseAt(c, 1000, 48000)
	far := responseAt(c, 10000, 48000)

	wantCenter := math.Pow(10, 12.0/20)
	if math.Abs(center-wantCenter) > 0.1 {
		t.Fatalf("center gain: got %v, want %v", center, wantCenter)
	}

	if math.Abs(far-1) > 0.15 {
		t.Fatalf("far-field gain: got %v, want near 1", far)
	}
}

func TestHighShelfOnePoleGains(t *testing.T) {
	gain := 0.25
	c := HighShelfOnePole(2000, gain, 48000)

	dc := responseAt(c, 1, 48000)
	top := responseAt(c, 23000, 48000)

	if math.Abs(dc-1) > 0.02 {
		t.Fatalf("DC gain: got %v, want 1", dc)
	}

	if math.Abs(top-gain) > 0.05 {
		t.Fatalf("Nyquist-side gain: got %v, want %v", top, gain)
	}
}

func TestLowpassOnePoleRollsOff(t *testing.T) {
	c := LowpassOnePole(1000, 48000)

	if got := responseAt(c, 10, 48000); math.Abs(got-1) > 0.02 {
		t.Fatalf("DC gain: got %v, want 1", got)
	}

	corner := responseAt(c, 1000, 48000)
	if math.Abs(corner-1/math.Sqrt2) > 0.03 {
		t.Fatalf("corner gain: got %v, want %v", corner, 1/math.Sqrt2)
	}
}

func TestInvalidFrequencyDegradesToIdentity(t *testing.T) {
	for _, freq := range []float64{0, -100, 24000, math.NaN(), math.Inf(1)} {
		if got := Lowpass(freq, defaultQ, 48000); got != biquad.Identity() {
			t.Fatalf("freq=%v: got %+v, want identity", freq, got)
		}
	}

	if got := Peak(1000, 6, defaultQ, -1); got != biquad.Identity() {
		t.Fatalf("bad sample rate: got %+v, want identity", got)
	}
}

func TestControlPointFreqMapping(t *testing.T) {
	p := ControlPoint{Type: TypeLowPass, Freq: FreqReferenceSetting, Gain: GainCenter}
	if got := p.FreqHz(); math.Abs(got-FreqReferenceHz) > 1e-9 {
		t.Fatalf("reference setting: got %v Hz, want %v", got, FreqReferenceHz)
	}

	// Four settings steps is one octave.
	oct := ControlPoint{Type: TypeLowPass, Freq: FreqReferenceSetting - 4, Gain: GainCenter}
	if got := oct.FreqHz(); math.Abs(got-FreqReferenceHz/2) > 1e-9 {
		t.Fatalf("one octave down: got %v Hz, want %v", got, FreqReferenceHz/2)
	}
}

func TestControlPointGainMapping(t *testing.T) {
	neutral := ControlPoint{Gain: GainCenter}
	if got := neutral.GainLinear(); got != 1 {
		t.Fatalf("neutral gain: got %v, want 1", got)
	}

	boosted := ControlPoint{Gain: GainCenter + 2}
	if got := boosted.GainLinear(); math.Abs(got-2) > 1e-12 {
		t.Fatalf("two steps up: got %v, want 2", got)
	}
}

func TestCanInterpolateWithRequiresSameType(t *testing.T) {
	a := ControlPoint{Type: TypeLowPass}
	b := ControlPoint{Type: TypeLowPass, Freq: 10}
	c := ControlPoint{Type: TypePeak}

	if !a.CanInterpolateWith(b) {
		t.Fatal("same-type points should interpolate")
	}

	if a.CanInterpolateWith(c) {
		t.Fatal("cross-type points must not interpolate")
	}
}

func TestFromLegacyProducesLowpassInRange(t *testing.T) {
	p := FromLegacy(5, 3)

	if p.Type != TypeLowPass {
		t.Fatalf("type: got %v, want lowpass", p.Type)
	}

	if p.Freq < 0 || p.Freq > FreqRange-1 {
		t.Fatalf("freq setting out of range: %v", p.Freq)
	}

	if p.Gain < GainCenter || p.Gain > GainRange-1 {
		t.Fatalf("gain setting out of range: %v", p.Gain)
	}

	// Higher cutoff must map to a higher corner frequency.
	if FromLegacy(8, 3).FreqHz() <= FromLegacy(2, 3).FreqHz() {
		t.Fatal("legacy cutoff mapping is not monotonic")
	}
}

func TestFromLegacyClampsOutOfRangeInputs(t *testing.T) {
	p := FromLegacy(100, -5)

	if p.Freq != FreqRange-1 {
		t.Fatalf("cutoff clamp: got %v, want %v", p.Freq, float64(FreqRange-1))
	}

	if p.Gain != GainCenter {
		t.Fatalf("peak clamp: got %v, want %v", p.Gain, float64(GainCenter))
	}
}

func TestScratchEnsureReusesCapacity(t *testing.T) {
	var s Scratch

	s.Ensure(4)
	if len(s.From) != 4 || len(s.To) != 4 {
		t.Fatalf("lengths after Ensure(4): %d, %d", len(s.From), len(s.To))
	}

	from := &s.From[0]
	s.Ensure(2)

	if &s.From[0] != from {
		t.Fatal("Ensure reallocated when shrinking")
	}
}
