package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Analyzer computes magnitude spectra of rendered audio blocks. It is
// meant for verifying effect output (sideband placement, filter
// rolloff, echo periodicity), not for visualization, so it windows and
// transforms one block at a time with no overlap bookkeeping.
type Analyzer struct {
	fftSize int
	window  []float64
	input   []complex128
	output  []complex128
	re      []float64
	im      []float64
	plan    *algofft.Plan[complex128]
}

// NewAnalyzer creates an analyzer for the given power-of-two FFT size.
func NewAnalyzer(fftSize int) (*Analyzer, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two >= 2: %d", fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum fft plan: %w", err)
	}

	window := make([]float64, fftSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize)))
	}

	bins := fftSize/2 + 1

	return &Analyzer{
		fftSize: fftSize,
		window:  window,
		input:   make([]complex128, fftSize),
		output:  make([]complex128, fftSize),
		re:      make([]float64, bins),
		im:      make([]float64, bins),
		plan:    plan,
	}, nil
}

// FFTSize returns the analyzer's transform size.
func (a *Analyzer) FFTSize() int {
	return a.fftSize
}

// NumBins returns the number of non-redundant spectrum bins.
func (a *Analyzer) NumBins() int {
	return a.fftSize/2 + 1
}

// Magnitudes fills dst with the Hann-windowed magnitude spectrum of
// signal. The signal is truncated or zero-padded to the FFT size; dst
// must hold NumBins values. The returned slice aliases dst.
func (a *Analyzer) Magnitudes(dst, signal []float64) ([]float64, error) {
	if len(dst) != a.NumBins() {
		return nil, fmt.Errorf("magnitude buffer must hold %d bins: %d", a.NumBins(), len(dst))
	}

	for i := range a.input {
		sample := 0.0
		if i < len(signal) {
			sample = signal[i]
		}

		a.input[i] = complex(sample*a.window[i], 0)
	}

	if err := a.plan.Forward(a.output, a.input); err != nil {
		return nil, fmt.Errorf("spectrum forward fft: %w", err)
	}

	for i := range a.re {
		a.re[i] = real(a.output[i])
		a.im[i] = imag(a.output[i])
	}

	vecmath.Magnitude(dst, a.re, a.im)

	return dst, nil
}

// BinFrequency returns the center frequency in Hz of the given bin.
func (a *Analyzer) BinFrequency(bin int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(a.fftSize)
}

// DominantBin returns the index of the largest magnitude bin.
func DominantBin(mags []float64) int {
	best := 0
	for i, m := range mags {
		if m > mags[best] {
			best = i
		}
	}

	return best
}
