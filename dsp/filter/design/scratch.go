package design

import "github.com/dragoncoder047/dragonbox-sub004/dsp/filter/biquad"

// Scratch holds the reusable start/end coefficient buffers used while
// recomputing an EQ cascade for one tick. One Scratch belongs to one
// engine and must not be shared across concurrently computed instruments;
// the per-tick contract is single-threaded, so a single active caller at a
// time is guaranteed by construction.
type Scratch struct {
	From []biquad.Coefficients
	To   []biquad.Coefficients
}

// Ensure sizes both buffers to n sections, reusing capacity.
func (s *Scratch) Ensure(n int) {
	if cap(s.From) < n {
		s.From = make([]biquad.Coefficients, n)
		s.To = make([]biquad.Coefficients, n)

		return
	}

	s.From = s.From[:n]
	s.To = s.To[:n]
}
