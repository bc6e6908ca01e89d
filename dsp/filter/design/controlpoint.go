package design

import (
	"math"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/core"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/filter/biquad"
)

// FilterType tags a control point's filter shape.
type FilterType int

const (
	TypeNone FilterType = iota
	TypeLowPass
	TypeHighPass
	TypePeak
)

// Settings-domain constants for EQ control points. Frequency settings step
// in quarter octaves around a reference point; gain settings step in half
// powers of two around a neutral center.
const (
	FreqRange            = 34
	FreqReferenceSetting = 28
	FreqReferenceHz      = 8000.0
	FreqStepOctaves      = 0.25

	GainRange  = 15
	GainCenter = 7
	GainStep   = 0.5

	// MaxControlPoints caps the EQ cascade length per instrument.
	MaxControlPoints = 8
)

// ControlPoint is the canonical description of one EQ filter stage: a
// filter type plus frequency and gain in settings units.
type ControlPoint struct {
	Type FilterType
	Freq float64
	Gain float64
}

// FreqHz converts the frequency setting to Hz on the geometric scale.
func (p ControlPoint) FreqHz() float64 {
	setting := core.Clamp(p.Freq, 0, FreqRange-1)

	return FreqReferenceHz * math.Pow(2, (setting-FreqReferenceSetting)*FreqStepOctaves)
}

// GainLinear converts the gain setting to a linear amplitude factor.
func (p ControlPoint) GainLinear() float64 {
	setting := core.Clamp(p.Gain, 0, GainRange-1)

	return math.Pow(2, (setting-GainCenter)*GainStep)
}

// CanInterpolateWith reports whether a coefficient gradient from p to
// other is meaningful. Two structurally different filter types cannot be
// interpolated; the consumer snaps to the end coefficients instead.
func (p ControlPoint) CanInterpolateWith(other ControlPoint) bool {
	return p.Type == other.Type
}

// ToCoefficients designs the biquad for this control point at the given
// sample rate. The peak type converts linear gain to dB for the RBJ
// formula; low/high-pass use the gain setting to tilt resonance the same
// way a resonance knob would.
func (p ControlPoint) ToCoefficients(sampleRate float64) biquad.Coefficients {
	gain := p.GainLinear()

	switch p.Type {
	case TypeLowPass:
		return Lowpass(p.FreqHz(), resonanceQ(gain), sampleRate)
	case TypeHighPass:
		return Highpass(p.FreqHz(), resonanceQ(gain), sampleRate)
	case TypePeak:
		return Peak(p.FreqHz(), core.LinearToDB(gain), defaultQ, sampleRate)
	default:
		return biquad.Identity()
	}
}

// resonanceQ maps a linear gain setting to a quality factor: neutral gain
// gives the Butterworth Q, boosted gain sharpens the corner.
func resonanceQ(gain float64) float64 {
	if gain <= 0 {
		return defaultQ
	}

	return defaultQ * math.Sqrt(gain)
}
