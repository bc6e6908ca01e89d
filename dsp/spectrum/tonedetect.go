package spectrum

import (
	"fmt"
	"math"
)

// ToneDetector measures the energy of one frequency in a rendered
// block using the Goertzel recurrence. It accumulates across Feed
// calls until Reset, which makes it convenient for checking carrier
// and sideband placement in modulated output.
type ToneDetector struct {
	coeff  float64
	s0, s1 float64
}

// NewToneDetector creates a detector for frequency hz at the given
// sample rate.
func NewToneDetector(hz, sampleRate float64) (*ToneDetector, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sample rate must be > 0: %v", sampleRate)
	}

	if hz < 0 || hz > sampleRate/2 || math.IsNaN(hz) {
		return nil, fmt.Errorf("frequency must be between 0 and sampleRate/2: %v", hz)
	}

	return &ToneDetector{coeff: 2 * math.Cos(2*math.Pi*hz/sampleRate)}, nil
}

// Feed accumulates a block of samples.
func (d *ToneDetector) Feed(block []float64) {
	s0, s1 := d.s0, d.s1

	coeff := d.coeff
	for _, x := range block {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}

	d.s0, d.s1 = s0, s1
}

// Power returns the squared magnitude of the accumulated component.
func (d *ToneDetector) Power() float64 {
	return d.s0*d.s0 + d.s1*d.s1 - d.coeff*d.s0*d.s1
}

// Magnitude returns the magnitude of the accumulated component.
func (d *ToneDetector) Magnitude() float64 {
	p := d.Power()
	if p <= 0 {
		return 0
	}

	return math.Sqrt(p)
}

// Reset clears the accumulated state.
func (d *ToneDetector) Reset() {
	d.s0 = 0
	d.s1 = 0
}

// TonePower measures one frequency's power in a block in one shot.
func TonePower(block []float64, hz, sampleRate float64) (float64, error) {
	d, err := NewToneDetector(hz, sampleRate)
	if err != nil {
		return 0, err
	}

	d.Feed(block)

	return d.Power(), nil
}
