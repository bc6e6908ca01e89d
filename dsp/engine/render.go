package engine

import (
	"math"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/automation"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/core"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/fxchain"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/tone"
)

// NextTick renders one tick of stereo audio and returns the buffers.
// The slices alias internal storage and stay valid until the next call.
func (e *Engine) NextTick() (left, right []float64) {
	n := e.tickSamples()

	e.left = core.EnsureLen(e.left, n)
	e.right = core.EnsureLen(e.right, n)
	core.Zero(e.left)
	core.Zero(e.right)

	for index, inst := range e.instruments {
		inst.left = core.EnsureLen(inst.left, n)
		inst.right = core.EnsureLen(inst.right, n)
		core.Zero(inst.left)
		core.Zero(inst.right)

		for i := range e.active {
			if e.active[i].instrument == index {
				e.renderTone(&e.active[i], inst, n)
			}
		}

		ctx := fxchain.RenderContext{
			SampleRate:            e.sampleRate,
			SamplesPerTick:        e.samplesPerTick,
			RoundedSamplesPerTick: n,
			Resolver:              automation.Resolver{Env: inst.env, Mod: inst.mod},
		}

		inst.chain.ComputeTick(&ctx)
		inst.chain.Process(inst.left, inst.right)

		vol := inst.params.Volume
		for i := 0; i < n; i++ {
			e.left[i] += vol * inst.left[i]
			e.right[i] += vol * inst.right[i]
		}
	}

	e.recycleFinishedTones()

	for i := 0; i < n; i++ {
		e.left[i] = core.Clamp(e.left[i], -1, 1)
		e.right[i] = core.Clamp(e.right[i], -1, 1)
	}

	return e.left, e.right
}

// Render fills the given stereo buffers, ticking internally as needed.
// Both slices must have equal length.
func (e *Engine) Render(left, right []float64) {
	pos := 0

	for pos < len(left) {
		if e.carryPos >= len(e.carryLeft) {
			tickL, tickR := e.NextTick()
			e.carryLeft = append(e.carryLeft[:0], tickL...)
			e.carryRight = append(e.carryRight[:0], tickR...)
			e.carryPos = 0
		}

		copied := copy(left[pos:], e.carryLeft[e.carryPos:])
		copy(right[pos:], e.carryRight[e.carryPos:e.carryPos+copied])
		e.carryPos += copied
		pos += copied
	}
}

// renderTone adds one tone's tick output into the instrument buffers.
// Expression and pitch bend resolve to per-sample deltas here; the
// sample loop itself only accumulates.
func (e *Engine) renderTone(at *activeTone, inst *instrument, n int) {
	t := at.tone

	target := at.velocity
	if t.Released {
		target = 0
	}

	expr, exprDelta := automation.Linear(t.Expression, target, n)
	t.ExpressionDelta = exprDelta

	bendStart := math.Pow(2, t.PitchBend/12)
	bendEnd := math.Pow(2, t.NextPitchBend/12)
	bend, bendDelta := automation.Linear(bendStart, bendEnd, n)

	voices := 1
	if at.unison {
		voices = 2
	}

	// The per-voice detune is constant within the tick; only the bend
	// ramp varies per sample.
	var detune [tone.MaxUnisonVoices]float64
	for v := 0; v < voices; v++ {
		detune[v] = math.Pow(2, t.UnisonDetunes[v]/12)
	}

	norm := 1.0 / float64(voices)

	for i := 0; i < n; i++ {
		x := 0.0

		for v := 0; v < voices; v++ {
			if at.sine {
				x += math.Sin(2 * math.Pi * t.Phases[v])

				t.Phases[v] += at.baseDelta[v] * detune[v] * bend
				if t.Phases[v] >= 1 {
					t.Phases[v] -= math.Floor(t.Phases[v])
				}
			} else {
				t.PhaseDeltas[v] = at.baseDelta[v] * detune[v] * bend
				x += t.NextChipSample(v, inst.params.Wave)
			}
		}

		x = t.FilterSample(x * norm)

		sample := expr * x
		inst.left[i] += sample
		inst.right[i] += sample

		expr += exprDelta
		bend += bendDelta
	}

	t.Expression = target
	t.PrevPitchBend = t.PitchBend
	t.PitchBend = t.NextPitchBend
	t.AgeInSamples += n
}

// recycleFinishedTones returns faded-out released tones to the pool.
func (e *Engine) recycleFinishedTones() {
	write := 0

	for i := range e.active {
		at := e.active[i]
		if at.tone.Released && at.tone.Expression < releaseFloor {
			e.tones.Release(at.tone)

			continue
		}

		e.active[write] = at
		write++
	}

	e.active = e.active[:write]
}
