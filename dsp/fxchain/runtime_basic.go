package fxchain

import (
	"math"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/automation"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/core"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/delayline"
)

// gainFX scales both channels by the mix volume, ramped across the tick.
type gainFX struct {
	gain      float64
	gainDelta float64
}

func (r *gainFX) Compute(ctx *RenderContext, s Settings) {
	start, end := ctx.value(automation.TargetMixVolume, s.GetNum("volume", 1))
	r.gain, r.gainDelta = automation.Linear(start, end, ctx.RoundedSamplesPerTick)
}

func (r *gainFX) Process(left, right []float64) {
	gain := r.gain

	for i := range left {
		left[i] *= gain
		right[i] *= gain
		gain += r.gainDelta
	}

	r.gain = gain
}

func (r *gainFX) Deactivate() {}

func (r *gainFX) Flush() {}

func (r *gainFX) Tail() (float64, float64) { return 0, 0 }

// panFX places the signal in the stereo field with a level crossfade
// plus a short Haas delay on the far channel.
type panFX struct {
	volL, volLDelta     float64
	volR, volRDelta     float64
	delayL, delayLDelta float64
	delayR, delayRDelta float64

	lineL delayline.Line
	lineR delayline.Line
}

func (r *panFX) Compute(ctx *RenderContext, s Settings) {
	n := ctx.RoundedSamplesPerTick

	panStart, panEnd := ctx.value(automation.TargetPan, s.GetNum("pan", 0))
	panStart = core.Clamp(panStart, -1, 1)
	panEnd = core.Clamp(panEnd, -1, 1)

	spreadStart, spreadEnd := ctx.value(automation.TargetPanDelay, s.GetNum("delay", 0))
	spreadStart = core.Clamp(spreadStart, 0, 1)
	spreadEnd = core.Clamp(spreadEnd, 0, 1)

	maxDelay := panMaxDelaySec * ctx.SampleRate

	volLStart := math.Min(1, 1-panStart)
	volLEnd := math.Min(1, 1-panEnd)
	volRStart := math.Min(1, 1+panStart)
	volREnd := math.Min(1, 1+panEnd)
	r.volL, r.volLDelta = automation.Linear(volLStart, volLEnd, n)
	r.volR, r.volRDelta = automation.Linear(volRStart, volREnd, n)

	// The channel opposite the pan direction is delayed.
	dlStart := math.Max(0, panStart) * spreadStart * maxDelay
	dlEnd := math.Max(0, panEnd) * spreadEnd * maxDelay
	drStart := math.Max(0, -panStart) * spreadStart * maxDelay
	drEnd := math.Max(0, -panEnd) * spreadEnd * maxDelay
	r.delayL, r.delayLDelta = automation.Linear(dlStart, dlEnd, n)
	r.delayR, r.delayRDelta = automation.Linear(drStart, drEnd, n)

	need := delayline.FitSampleCount(maxDelay + 2)
	r.lineL.EnsureCapacity(need)
	r.lineR.EnsureCapacity(need)
}

func (r *panFX) Process(left, right []float64) {
	volL, volR := r.volL, r.volR
	delayL, delayR := r.delayL, r.delayR

	for i := range left {
		r.lineL.Write(left[i])
		r.lineR.Write(right[i])

		left[i] = r.lineL.ReadFractional(1+delayL) * volL
		right[i] = r.lineR.ReadFractional(1+delayR) * volR

		volL += r.volLDelta
		volR += r.volRDelta
		delayL += r.delayLDelta
		delayR += r.delayRDelta
	}

	r.volL, r.volR = volL, volR
	r.delayL, r.delayR = delayL, delayR
	r.lineL.MarkDirty()
	r.lineR.MarkDirty()
}

func (r *panFX) Deactivate() {}

func (r *panFX) Flush() {
	r.lineL.Flush()
	r.lineR.Flush()
}

func (r *panFX) Tail() (float64, float64) {
	return 0, math.Max(r.delayL, r.delayR)
}

// distortionFX runs a normalized saturating waveshaper. The amount curve
// is tuned so a slider of zero is exactly the identity.
type distortionFX struct {
	amount      float64
	amountDelta float64
	drive       float64
	driveDelta  float64
}

func (r *distortionFX) Compute(ctx *RenderContext, s Settings) {
	n := ctx.RoundedSamplesPerTick

	sliderStart, sliderEnd := ctx.value(automation.TargetDistortion, s.GetNum("distortion", 0))
	sliderStart = core.Clamp(sliderStart, 0, 1)
	sliderEnd = core.Clamp(sliderEnd, 0, 1)

	driveStart, driveEnd := ctx.value(automation.TargetDistortionDrive, 1)
	driveStart *= distortionDrive(sliderStart)
	driveEnd *= distortionDrive(sliderEnd)

	r.amount, r.amountDelta = automation.Linear(distortionAmount(sliderStart), distortionAmount(sliderEnd), n)
	r.drive, r.driveDelta = automation.Linear(driveStart, driveEnd, n)
}

func (r *distortionFX) Process(left, right []float64) {
	amount, drive := r.amount, r.drive

	for i := range left {
		wl := left[i] * drive
		wr := right[i] * drive
		left[i] = wl / (amount + (1-amount)*math.Abs(wl))
		right[i] = wr / (amount + (1-amount)*math.Abs(wr))

		amount += r.amountDelta
		drive += r.driveDelta
	}

	r.amount, r.drive = amount, drive
}

func (r *distortionFX) Deactivate() {}

func (r *distortionFX) Flush() {}

func (r *distortionFX) Tail() (float64, float64) { return 0, 0 }

// bitcrusherFX holds samples at a swept rate and quantizes them. Rate
// and quantization step both ramp geometrically so octave-scaled
// settings stay octave-scaled mid-tick.
type bitcrusherFX struct {
	phase           float64
	phaseDelta      float64
	phaseDeltaRatio float64
	scale           float64
	scaleRatio      float64
	foldLevel       float64
	foldLevelRatio  float64

	heldL float64
	heldR float64
}

func (r *bitcrusherFX) Compute(ctx *RenderContext, s Settings) {
	n := ctx.RoundedSamplesPerTick

	freqStart, freqEnd := ctx.value(automation.TargetBitcrusherFrequency, s.GetNum("frequency", 0.5))
	freqStart = core.Clamp(freqStart, 0, 1)
	freqEnd = core.Clamp(freqEnd, 0, 1)

	quantStart, quantEnd := ctx.value(automation.TargetBitcrusherQuantization, s.GetNum("quantization", 0.5))
	quantStart = core.Clamp(quantStart, 0, 1)
	quantEnd = core.Clamp(quantEnd, 0, 1)

	r.phaseDelta, r.phaseDeltaRatio = automation.Geometric(
		bitcrusherPhaseDelta(freqStart, ctx.SampleRate),
		bitcrusherPhaseDelta(freqEnd, ctx.SampleRate),
		n,
	)
	r.scale, r.scaleRatio = automation.Geometric(
		bitcrusherScale(quantStart),
		bitcrusherScale(quantEnd),
		n,
	)
	r.foldLevel, r.foldLevelRatio = automation.Geometric(
		bitcrusherFoldLevel(quantStart),
		bitcrusherFoldLevel(quantEnd),
		n,
	)
}

func (r *bitcrusherFX) Process(left, right []float64) {
	phase := r.phase
	phaseDelta := r.phaseDelta
	scale := r.scale
	foldLevel := r.foldLevel

	for i := range left {
		phase += phaseDelta
		if phase >= 1 {
			phase -= math.Floor(phase)
			r.heldL = math.Round(foldSample(left[i], foldLevel)/scale) * scale
			r.heldR = math.Round(foldSample(right[i], foldLevel)/scale) * scale
		}

		left[i] = r.heldL
		right[i] = r.heldR

		phaseDelta *= r.phaseDeltaRatio
		scale *= r.scaleRatio
		foldLevel *= r.foldLevelRatio
	}

	r.phase = phase
	r.phaseDelta = phaseDelta
	r.scale = scale
	r.foldLevel = foldLevel
}

func (r *bitcrusherFX) Deactivate() {
	r.phase = 0
	r.heldL = 0
	r.heldR = 0
}

func (r *bitcrusherFX) Flush() {}

func (r *bitcrusherFX) Tail() (float64, float64) { return 0, 0 }

// ringModFX multiplies the signal by a sine carrier, crossfaded by mix.
// A short fade envelope suppresses clicks when the carrier switches on
// or off between ticks.
type ringModFX struct {
	phase      float64
	hz         float64
	hzDelta    float64
	mix        float64
	mixDelta   float64
	fade       float64
	fadeTarget float64
	fadeStep   float64

	sampleRate float64
}

func (r *ringModFX) Compute(ctx *RenderContext, s Settings) {
	n := ctx.RoundedSamplesPerTick
	r.sampleRate = ctx.SampleRate

	hzStart, hzEnd := ctx.value(automation.TargetRingModHertz, s.GetNum("hertz", 0.5))
	hzStart = ringModHz(core.Clamp(hzStart, 0, 1))
	hzEnd = ringModHz(core.Clamp(hzEnd, 0, 1))

	mixStart, mixEnd := ctx.value(automation.TargetRingModMix, s.GetNum("mix", 1))
	mixStart = core.Clamp(mixStart, 0, 1)
	mixEnd = core.Clamp(mixEnd, 0, 1)

	r.hz, r.hzDelta = automation.Linear(hzStart, hzEnd, n)
	r.mix, r.mixDelta = automation.Linear(mixStart, mixEnd, n)

	r.fadeTarget = 0
	if hzEnd > 0 && mixEnd > 0 {
		r.fadeTarget = 1
	}

	r.fadeStep = 1 / (ringModFadeSeconds * ctx.SampleRate)
}

func (r *ringModFX) Process(left, right []float64) {
	phase := r.phase
	hz := r.hz
	mix := r.mix
	fade := r.fade

	for i := range left {
		carrier := math.Sin(2 * math.Pi * phase)
		wet := mix * fade

		left[i] += wet * (left[i]*carrier - left[i])
		right[i] += wet * (right[i]*carrier - right[i])

		phase += hz / r.sampleRate
		if phase >= 1 {
			phase -= math.Floor(phase)
		}

		if fade < r.fadeTarget {
			fade = math.Min(r.fadeTarget, fade+r.fadeStep)
		} else if fade > r.fadeTarget {
			fade = math.Max(r.fadeTarget, fade-r.fadeStep)
		}

		hz += r.hzDelta
		mix += r.mixDelta
	}

	r.phase = phase
	r.hz = hz
	r.mix = mix
	r.fade = fade
}

func (r *ringModFX) Deactivate() {
	r.phase = 0
	r.fade = 0
}

func (r *ringModFX) Flush() {}

func (r *ringModFX) Tail() (float64, float64) { return 0, 0 }
