package fxchain

import (
	"github.com/dragoncoder047/dragonbox-sub004/dsp/filter/biquad"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/filter/design"
)

// eqFX cascades up to MaxControlPoints biquad sections per channel.
// Coefficients ramp linearly across the tick when every control point
// keeps its filter type; a type or count change snaps to the new
// coefficients instead, since a gradient between different filter
// shapes passes through meaningless intermediate responses.
type eqFX struct {
	chains  [2]biquad.Chain
	scratch design.Scratch

	prev     []design.ControlPoint
	legacy   [1]design.ControlPoint
	havePrev bool
	ramp     bool
}

func (r *eqFX) Compute(ctx *RenderContext, s Settings) {
	points := s.ControlPoints
	if s.HasLegacy && len(points) == 0 {
		r.legacy[0] = design.FromLegacy(s.LegacyCutoff, s.LegacyPeak)
		points = r.legacy[:]
	}

	if len(points) > design.MaxControlPoints {
		points = points[:design.MaxControlPoints]
	}

	n := len(points)
	r.scratch.Ensure(n)

	for i, p := range points {
		r.scratch.To[i] = p.ToCoefficients(ctx.SampleRate)
	}

	r.ramp = r.havePrev && len(r.prev) == n
	if r.ramp {
		for i := range points {
			if !points[i].CanInterpolateWith(r.prev[i]) {
				r.ramp = false

				break
			}
		}
	}

	r.chains[0].SetLength(n)
	r.chains[1].SetLength(n)

	if r.ramp {
		for i := range n {
			r.scratch.From[i] = r.chains[0].Section(i).Coefficients
		}
	} else {
		for ch := range r.chains {
			for i := range n {
				sec := r.chains[ch].Section(i)
				sec.Coefficients = r.scratch.To[i]
				sec.Reset()
			}
		}
	}

	r.prev = append(r.prev[:0], points...)
	r.havePrev = true
}

func (r *eqFX) Process(left, right []float64) {
	if r.ramp {
		r.chains[0].ProcessBlockRamp(left, r.scratch.From, r.scratch.To)
		r.chains[1].ProcessBlockRamp(right, r.scratch.From, r.scratch.To)

		return
	}

	r.chains[0].ProcessBlock(left)
	r.chains[1].ProcessBlock(right)
}

func (r *eqFX) Deactivate() {
	r.chains[0].Reset()
	r.chains[1].Reset()
}

func (r *eqFX) Flush() {}

func (r *eqFX) Tail() (float64, float64) { return 0, 0 }
