package fxchain

import (
	"math"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/automation"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/core"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/delayline"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/grain"
)

const (
	granularMaxGrains   = 32
	granularMinSizeSec  = 0.01
	granularMaxSizeSec  = 0.3
	granularMaxDelaySec = 1.0
	granularMaxRangeSec = 0.5
)

// granularFX scatters enveloped grains read from a delay line over the
// dry signal. Grain spawning happens at tick boundaries only; the
// per-sample loop just advances envelopes and reads taps. A mix of
// zero leaves the dry signal bit-exact.
type granularFX struct {
	sampleRate float64

	mix      float64
	mixDelta float64

	pool  *grain.Pool
	lines [2]delayline.Line
}

func (r *granularFX) Compute(ctx *RenderContext, s Settings) {
	n := ctx.RoundedSamplesPerTick
	r.sampleRate = ctx.SampleRate

	if r.pool == nil {
		seed := int64(s.GetNum("seed", 1))
		r.pool = grain.NewPool(grain.DefaultCapacity, seed)
	}

	mixStart, mixEnd := ctx.value(automation.TargetGranularMix, s.GetNum("mix", 0))
	mixStart = core.Clamp(mixStart, 0, 1)
	mixEnd = core.Clamp(mixEnd, 0, 1)
	r.mix, r.mixDelta = automation.Linear(mixStart, mixEnd, n)

	_, amountEnd := ctx.value(automation.TargetGrainAmount, s.GetNum("amount", 0.5))
	maxCount := int(math.Round(core.Clamp(amountEnd, 0, 1) * granularMaxGrains))
	r.pool.SetMaxCount(maxCount)

	_, sizeEnd := ctx.value(automation.TargetGrainSize, s.GetNum("size", 0.5))
	sizeSec := granularMinSizeSec + core.Clamp(sizeEnd, 0, 1)*(granularMaxSizeSec-granularMinSizeSec)

	_, rangeEnd := ctx.value(automation.TargetGrainRange, s.GetNum("range", 0.5))
	rangeSec := core.Clamp(rangeEnd, 0, 1) * granularMaxRangeSec

	_, delayEnd := ctx.value(automation.TargetGrainDelay, s.GetNum("delay", 0.1))
	baseDelaySec := core.Clamp(delayEnd, 0, granularMaxDelaySec)

	bell := s.GetNum("envelope", 0) >= 0.5

	need := delayline.FitSampleCount((granularMaxDelaySec+granularMaxRangeSec)*ctx.SampleRate + 2)
	r.lines[0].EnsureCapacity(need)
	r.lines[1].EnsureCapacity(need)

	budget := r.pool.SpawnBudget()
	for range budget {
		g := r.pool.Spawn()
		if g == nil {
			break
		}

		positionSec := baseDelaySec + r.pool.Rand()*rangeSec
		g.Position = positionSec*ctx.SampleRate + 1

		// Scatter onsets across the tick so a burst of spawns at the
		// tick boundary does not start in phase.
		g.Delay = int(r.pool.Rand() * float64(n))

		maxAge := int(sizeSec * ctx.SampleRate)
		if maxAge < 2 {
			maxAge = 2
		}

		if bell {
			g.InitRaisedCosineBell(maxAge, 1)
		} else {
			g.InitParabolic(maxAge, 1)
		}
	}
}

func (r *granularFX) Process(left, right []float64) {
	mix := r.mix

	for i := range left {
		r.lines[0].Write(left[i])
		r.lines[1].Write(right[i])

		wetL := 0.0
		wetR := 0.0

		for gi := 0; gi < r.pool.Len(); {
			g := r.pool.Grain(gi)

			if g.Delay > 0 {
				g.Delay--
				gi++

				continue
			}

			env := g.Envelope()

			// Even grains feed the left channel, odd the right.
			if gi&1 == 0 {
				wetL += env * r.lines[0].ReadFractional(g.Position)
			} else {
				wetR += env * r.lines[1].ReadFractional(g.Position)
			}

			if g.Advance() {
				gi++
			} else {
				r.pool.Retire(gi)
			}
		}

		left[i] += mix * (wetL - left[i])
		right[i] += mix * (wetR - right[i])
		mix += r.mixDelta
	}

	r.mix = mix
	r.lines[0].MarkDirty()
	r.lines[1].MarkDirty()
}

func (r *granularFX) Deactivate() {
	if r.pool != nil {
		r.pool.Reset()
	}
}

func (r *granularFX) Flush() {
	r.lines[0].Flush()
	r.lines[1].Flush()

	if r.pool != nil {
		r.pool.Reset()
	}
}

func (r *granularFX) Tail() (float64, float64) {
	maxRemaining := 0.0
	maxDelay := 0.0

	if r.pool != nil {
		for i := 0; i < r.pool.Len(); i++ {
			g := r.pool.Grain(i)

			remaining := float64(g.Delay + g.MaxAgeInSamples - g.AgeInSamples)
			if remaining > maxRemaining {
				maxRemaining = remaining
			}

			if g.Position > maxDelay {
				maxDelay = g.Position
			}
		}
	}

	rate := math.Max(r.sampleRate, 1)

	return maxRemaining / rate, maxDelay
}
