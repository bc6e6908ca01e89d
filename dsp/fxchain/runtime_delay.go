package fxchain

import (
	"math"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/automation"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/core"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/delayline"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/filter/biquad"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/filter/design"
)

// chorusTapCount is the number of modulated taps per channel. The tap
// LFO phases are spread so left and right never line up.
const chorusTapCount = 2

var chorusPhaseOffsets = [2][chorusTapCount]float64{
	{0, 0.5},
	{0.25, 0.75},
}

// chorusFX thickens the signal with LFO-modulated delay taps. Tap
// delays are evaluated at tick boundaries and ramped linearly between
// them, so the inner loop never calls the LFO.
type chorusFX struct {
	phase      float64
	sampleRate float64

	mix      float64
	mixDelta float64

	tapDelay      [2][chorusTapCount]float64
	tapDelayDelta [2][chorusTapCount]float64

	lines [2]delayline.Line
}

func (r *chorusFX) Compute(ctx *RenderContext, s Settings) {
	n := ctx.RoundedSamplesPerTick
	r.sampleRate = ctx.SampleRate

	mixStart, mixEnd := ctx.value(automation.TargetChorusDepth, s.GetNum("chorus", 0.5))
	mixStart = core.Clamp(mixStart, 0, 1)
	mixEnd = core.Clamp(mixEnd, 0, 1)
	r.mix, r.mixDelta = automation.Linear(mixStart, mixEnd, n)

	speedStart, speedEnd := ctx.value(automation.TargetChorusSpeed, s.GetNum("speed", 0.3))
	speedStart = core.Clamp(speedStart, 0, 1) * chorusMaxSpeedHz
	speedEnd = core.Clamp(speedEnd, 0, 1) * chorusMaxSpeedHz

	phaseEnd := r.phase + 0.5*(speedStart+speedEnd)*ctx.SamplesPerTick/ctx.SampleRate

	for ch := range 2 {
		for tap := range chorusTapCount {
			offset := chorusPhaseOffsets[ch][tap]
			startSec := chorusBaseDelaySec + chorusDepthSec*math.Sin(2*math.Pi*(r.phase+offset))
			endSec := chorusBaseDelaySec + chorusDepthSec*math.Sin(2*math.Pi*(phaseEnd+offset))
			r.tapDelay[ch][tap], r.tapDelayDelta[ch][tap] = automation.Linear(
				startSec*ctx.SampleRate, endSec*ctx.SampleRate, n)
		}
	}

	r.phase = phaseEnd - math.Floor(phaseEnd)

	need := delayline.FitSampleCount(chorusMaxDelaySec*ctx.SampleRate + 2)
	r.lines[0].EnsureCapacity(need)
	r.lines[1].EnsureCapacity(need)
}

func (r *chorusFX) Process(left, right []float64) {
	mix := r.mix
	tapDelay := r.tapDelay

	for i := range left {
		r.lines[0].Write(left[i])
		r.lines[1].Write(right[i])

		wetL := 0.0
		wetR := 0.0

		for tap := range chorusTapCount {
			wetL += r.lines[0].ReadFractional(1 + tapDelay[0][tap])
			wetR += r.lines[1].ReadFractional(1 + tapDelay[1][tap])
			tapDelay[0][tap] += r.tapDelayDelta[0][tap]
			tapDelay[1][tap] += r.tapDelayDelta[1][tap]
		}

		wetL /= chorusTapCount
		wetR /= chorusTapCount

		left[i] += mix * (wetL - left[i])
		right[i] += mix * (wetR - right[i])
		mix += r.mixDelta
	}

	r.mix = mix
	r.tapDelay = tapDelay
	r.lines[0].MarkDirty()
	r.lines[1].MarkDirty()
}

func (r *chorusFX) Deactivate() {
	r.phase = 0
}

func (r *chorusFX) Flush() {
	r.lines[0].Flush()
	r.lines[1].Flush()
}

func (r *chorusFX) Tail() (float64, float64) {
	return 0, (chorusBaseDelaySec + chorusDepthSec) * r.sampleRate
}

// flangerFX sweeps a single short tap with feedback on both channels.
type flangerFX struct {
	phase      float64
	sampleRate float64

	feedback      float64
	feedbackDelta float64
	tapDelay      [2]float64
	tapDelayDelta [2]float64

	lines [2]delayline.Line
}

func (r *flangerFX) Compute(ctx *RenderContext, s Settings) {
	n := ctx.RoundedSamplesPerTick
	r.sampleRate = ctx.SampleRate

	depthStart, depthEnd := ctx.value(automation.TargetFlangerDepth, s.GetNum("depth", 0.5))
	depthStart = core.Clamp(depthStart, 0, 1) * flangerDepthSec
	depthEnd = core.Clamp(depthEnd, 0, 1) * flangerDepthSec

	speedStart, speedEnd := ctx.value(automation.TargetFlangerSpeed, s.GetNum("speed", 0.25))
	speedStart = core.Clamp(speedStart, 0, 1) * flangerMaxSpeedHz
	speedEnd = core.Clamp(speedEnd, 0, 1) * flangerMaxSpeedHz

	fbStart, fbEnd := ctx.value(automation.TargetFlangerFeedback, s.GetNum("feedback", 0.3))
	fbStart = core.Clamp(fbStart, 0, 1) * flangerMaxFeedback
	fbEnd = core.Clamp(fbEnd, 0, 1) * flangerMaxFeedback
	r.feedback, r.feedbackDelta = automation.Linear(fbStart, fbEnd, n)

	phaseEnd := r.phase + 0.5*(speedStart+speedEnd)*ctx.SamplesPerTick/ctx.SampleRate

	// The right channel sweeps a quarter cycle behind the left.
	for ch := range 2 {
		offset := 0.25 * float64(ch)
		lfoStart := 0.5 + 0.5*math.Sin(2*math.Pi*(r.phase+offset))
		lfoEnd := 0.5 + 0.5*math.Sin(2*math.Pi*(phaseEnd+offset))
		startSec := flangerBaseDelaySec + depthStart*lfoStart
		endSec := flangerBaseDelaySec + depthEnd*lfoEnd
		r.tapDelay[ch], r.tapDelayDelta[ch] = automation.Linear(
			startSec*ctx.SampleRate, endSec*ctx.SampleRate, n)
	}

	r.phase = phaseEnd - math.Floor(phaseEnd)

	need := delayline.FitSampleCount(flangerMaxDelaySec*ctx.SampleRate + 2)
	r.lines[0].EnsureCapacity(need)
	r.lines[1].EnsureCapacity(need)
}

func (r *flangerFX) Process(left, right []float64) {
	feedback := r.feedback
	tapDelay := r.tapDelay

	for i := range left {
		wetL := r.lines[0].ReadFractional(1 + tapDelay[0])
		wetR := r.lines[1].ReadFractional(1 + tapDelay[1])

		r.lines[0].Write(left[i] + feedback*wetL)
		r.lines[1].Write(right[i] + feedback*wetR)

		left[i] = 0.5 * (left[i] + wetL)
		right[i] = 0.5 * (right[i] + wetR)

		tapDelay[0] += r.tapDelayDelta[0]
		tapDelay[1] += r.tapDelayDelta[1]
		feedback += r.feedbackDelta
	}

	r.feedback = feedback
	r.tapDelay = tapDelay
	r.lines[0].MarkDirty()
	r.lines[1].MarkDirty()
}

func (r *flangerFX) Deactivate() {
	r.phase = 0
}

func (r *flangerFX) Flush() {
	r.lines[0].Flush()
	r.lines[1].Flush()
}

func (r *flangerFX) Tail() (float64, float64) {
	cycleSec := (flangerBaseDelaySec + 0.5*flangerDepthSec)

	return tailSecondsForDecay(r.feedback, cycleSec), flangerMaxDelaySec * r.sampleRate
}

// echoFX is a stereo feedback delay with continuous ping-pong
// crossfeed and a high shelf in the feedback path to darken repeats.
type echoFX struct {
	sampleRate float64

	mult       float64
	multDelta  float64
	mix        float64
	mixDelta   float64
	delay      float64
	delayDelta float64
	cross      float64
	crossDelta float64

	lines [2]delayline.Line
	shelf [2]biquad.Section
}

func (r *echoFX) Compute(ctx *RenderContext, s Settings) {
	n := ctx.RoundedSamplesPerTick
	firstUse := r.sampleRate == 0
	r.sampleRate = ctx.SampleRate

	sustainStart, sustainEnd := ctx.value(automation.TargetEchoSustain, s.GetNum("sustain", 0.5))
	r.mult, r.multDelta = automation.Linear(echoMult(sustainStart), echoMult(sustainEnd), n)

	mixStart, mixEnd := ctx.value(automation.TargetEchoMix, s.GetNum("mix", 1))
	mixStart = core.Clamp(mixStart, 0, 1)
	mixEnd = core.Clamp(mixEnd, 0, 1)
	r.mix, r.mixDelta = automation.Linear(mixStart, mixEnd, n)

	delayStart, delayEnd := ctx.value(automation.TargetEchoDelay, s.GetNum("delaySeconds", 0.3))
	delayStart = core.Clamp(delayStart, 0, echoMaxDelaySec) * ctx.SampleRate
	delayEnd = core.Clamp(delayEnd, 0, echoMaxDelaySec) * ctx.SampleRate
	delayStart = math.Max(delayStart, 1)
	delayEnd = math.Max(delayEnd, 1)
	r.delay, r.delayDelta = automation.Linear(delayStart, delayEnd, n)

	// Ping-pong arrives in [-1, 1]; crossfeed in [0, 1].
	ppStart, ppEnd := ctx.value(automation.TargetEchoPingPong, s.GetNum("pingPong", 0))
	crossStart := core.Clamp((ppStart+1)*0.5, 0, 1)
	crossEnd := core.Clamp((ppEnd+1)*0.5, 0, 1)
	r.cross, r.crossDelta = automation.Linear(crossStart, crossEnd, n)

	if firstUse {
		shelf := design.HighShelfOnePole(echoShelfHz, echoShelfGain, ctx.SampleRate)
		r.shelf[0] = *biquad.NewSection(shelf)
		r.shelf[1] = *biquad.NewSection(shelf)
	}

	need := delayline.FitSampleCount(math.Max(delayStart, delayEnd) + 2)
	r.lines[0].EnsureCapacity(need)
	r.lines[1].EnsureCapacity(need)
}

func (r *echoFX) Process(left, right []float64) {
	mult := r.mult
	mix := r.mix
	delay := r.delay
	cross := r.cross

	for i := range left {
		tapL := r.lines[0].ReadFractional(delay)
		tapR := r.lines[1].ReadFractional(delay)

		wetL := mult * ((1-cross)*tapL + cross*tapR)
		wetR := mult * ((1-cross)*tapR + cross*tapL)

		wetL = core.FlushDenormals(r.shelf[0].ProcessSample(wetL))
		wetR = core.FlushDenormals(r.shelf[1].ProcessSample(wetR))

		r.lines[0].Write(left[i] + wetL)
		r.lines[1].Write(right[i] + wetR)

		left[i] += mix * wetL
		right[i] += mix * wetR

		mult += r.multDelta
		mix += r.mixDelta
		delay += r.delayDelta
		cross += r.crossDelta
	}

	r.mult = mult
	r.mix = mix
	r.delay = delay
	r.cross = cross
	r.lines[0].MarkDirty()
	r.lines[1].MarkDirty()
}

func (r *echoFX) Deactivate() {
	r.shelf[0].Reset()
	r.shelf[1].Reset()
}

func (r *echoFX) Flush() {
	r.lines[0].Flush()
	r.lines[1].Flush()
	r.shelf[0].Reset()
	r.shelf[1].Reset()
}

func (r *echoFX) Tail() (float64, float64) {
	cycleSec := r.delay / math.Max(r.sampleRate, 1)

	return tailSecondsForDecay(r.mult, cycleSec), r.delay
}

// Reverb network geometry. Four taps circulate in one shared buffer;
// the prime-ish offsets keep the recirculation periods inharmonic.
const (
	reverbBufferSize = 16384
	reverbOffset1    = 3041
	reverbOffset2    = 6426
	reverbOffset3    = 10907
)

// reverbFX is a feedback delay network folded into one shared delay
// buffer. Each sample reads four taps, mixes them with a butterfly,
// scales by the sustain-derived feedback, shelf-filters, and writes
// the results back at the tap offsets.
type reverbFX struct {
	sampleRate float64

	mult      float64
	multDelta float64
	mix       float64
	mixDelta  float64

	line  delayline.Line
	shelf [4]biquad.Section
}

func (r *reverbFX) Compute(ctx *RenderContext, s Settings) {
	n := ctx.RoundedSamplesPerTick
	firstUse := r.sampleRate == 0
	r.sampleRate = ctx.SampleRate

	sustainStart, sustainEnd := ctx.value(automation.TargetReverbSustain, s.GetNum("sustain", 0.5))
	r.mult, r.multDelta = automation.Linear(reverbMult(sustainStart), reverbMult(sustainEnd), n)

	mixStart, mixEnd := ctx.value(automation.TargetReverbMix, s.GetNum("mix", 1))
	mixStart = core.Clamp(mixStart, 0, 1)
	mixEnd = core.Clamp(mixEnd, 0, 1)
	r.mix, r.mixDelta = automation.Linear(mixStart, mixEnd, n)

	if firstUse {
		shelf := design.HighShelfOnePole(reverbShelfHz, reverbShelfGain, ctx.SampleRate)
		for i := range r.shelf {
			r.shelf[i] = *biquad.NewSection(shelf)
		}
	}

	r.line.EnsureCapacity(reverbBufferSize / 2)
}

func (r *reverbFX) Process(left, right []float64) {
	mult := r.mult
	mix := r.mix

	buf := r.line.Samples()
	mask := r.line.Mask()
	pos := r.line.WriteIndex()

	for i := range left {
		input := 0.5 * (left[i] + right[i]) * mult

		tap0 := buf[pos&mask]
		tap1 := buf[(pos+reverbOffset1)&mask]
		tap2 := buf[(pos+reverbOffset2)&mask]
		tap3 := buf[(pos+reverbOffset3)&mask]

		sum01a := -(tap0 + input) + tap1
		sum01b := -(tap0 + input) - tap1
		sum23a := -tap2 + tap3
		sum23b := -tap2 - tap3

		out0 := core.FlushDenormals(r.shelf[0].ProcessSample(mult * (sum01a + sum23a)))
		out1 := core.FlushDenormals(r.shelf[1].ProcessSample(mult * (sum01b + sum23b)))
		out2 := core.FlushDenormals(r.shelf[2].ProcessSample(mult * (sum01a - sum23a)))
		out3 := core.FlushDenormals(r.shelf[3].ProcessSample(mult * (sum01b - sum23b)))

		buf[pos&mask] = out3
		buf[(pos+reverbOffset1)&mask] = out0
		buf[(pos+reverbOffset2)&mask] = out1
		buf[(pos+reverbOffset3)&mask] = out2
		pos++

		left[i] += mix * (tap1 + tap2)
		right[i] += mix * (tap2 + tap3)

		mult += r.multDelta
		mix += r.mixDelta
	}

	r.mult = mult
	r.mix = mix
	r.line.SetWriteIndex(pos)
	r.line.MarkDirty()
}

func (r *reverbFX) Deactivate() {
	for i := range r.shelf {
		r.shelf[i].Reset()
	}
}

func (r *reverbFX) Flush() {
	r.line.Flush()

	for i := range r.shelf {
		r.shelf[i].Reset()
	}
}

func (r *reverbFX) Tail() (float64, float64) {
	cycleSec := float64(reverbBufferSize) / (4 * math.Max(r.sampleRate, 1))

	// The butterfly doubles the per-pass gain.
	return tailSecondsForDecay(math.Min(2*r.mult, 0.999), cycleSec), reverbOffset3
}
