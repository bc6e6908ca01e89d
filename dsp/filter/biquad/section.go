package biquad

import "github.com/dragoncoder047/dragonbox-sub004/dsp/core"

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Identity returns pass-through coefficients.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// Lerp interpolates every coefficient linearly from c to other by t.
// Only meaningful between two sets designed for the same filter type;
// interpolating across a type change is resolved upstream by snapping.
func (c Coefficients) Lerp(t float64, other Coefficients) Coefficients {
	return Coefficients{
		B0: core.Lerp(t, c.B0, other.B0),
		B1: core.Lerp(t, c.B1, other.B1),
		B2: core.Lerp(t, c.B2, other.B2),
		A1: core.Lerp(t, c.A1, other.A1),
		A2: core.Lerp(t, c.A2, other.A2),
	}
}

// Section is a single biquad filter with coefficients and internal state.
// It implements Direct Form II Transposed processing.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

// ProcessBlockRamp filters buf in-place while sliding the coefficients
// linearly from "from" at the first sample to "to" after the last. The
// per-sample coefficient step is exact: accumulating it len(buf) times
// lands on "to", so consecutive ticks chain without parameter jumps.
// The section's stored coefficients are left at "to".
func (s *Section) ProcessBlockRamp(buf []float64, from, to Coefficients) {
	n := len(buf)
	if n == 0 {
		s.Coefficients = to
		return
	}

	inv := 1 / float64(n)
	b0, b1, b2 := from.B0, from.B1, from.B2
	a1, a2 := from.A1, from.A2
	db0 := (to.B0 - from.B0) * inv
	db1 := (to.B1 - from.B1) * inv
	db2 := (to.B2 - from.B2) * inv
	da1 := (to.A1 - from.A1) * inv
	da2 := (to.A2 - from.A2) * inv
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y

		b0 += db0
		b1 += db1
		b2 += db2
		a1 += da1
		a2 += da2
	}

	s.d0, s.d1 = d0, d1
	s.Coefficients = to
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}

// State returns the current delay-line state [d0, d1].
func (s *Section) State() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [2]float64) {
	s.d0 = state[0]
	s.d1 = state[1]
}
