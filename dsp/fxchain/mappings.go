package fxchain

import "math"

// Parameter mapping constants. Sliders arrive in [0, 1]; these constants
// define the musical ranges they sweep.
const (
	bitcrusherMinHz     = 50.0
	bitcrusherMaxHz     = 8000.0
	bitcrusherMinScale  = 1.0 / 65536
	bitcrusherMaxScale  = 1.0
	bitcrusherFoldSpan  = 2.0 // fold level sweeps 2^0 down to 2^-foldSpan
	ringModMinHz        = 20.0
	ringModMaxHz        = 4000.0
	ringModFadeSeconds  = 0.02
	chorusMaxDelaySec   = 0.026
	chorusBaseDelaySec  = 0.011
	chorusDepthSec      = 0.0034
	chorusMaxSpeedHz    = 2.0
	flangerMaxDelaySec  = 0.012
	flangerBaseDelaySec = 0.0012
	flangerDepthSec     = 0.004
	flangerMaxSpeedHz   = 8.0
	flangerMaxFeedback  = 0.9
	echoMaxDelaySec     = 2.0
	echoMaxMult         = 0.95
	echoShelfHz         = 3200.0
	echoShelfGain       = 0.5
	reverbShelfHz       = 8000.0
	reverbShelfGain     = 0.5
	// The reverb butterfly matrix has a gain of 2, so feedback must
	// stay below 0.5 for the network to decay.
	reverbMaxMult = 0.45
	reverbSustainExp    = 0.5
	panMaxDelaySec      = 0.001

	// audibilityThreshold is the residual level below which a decaying
	// tail counts as silence: 1/256 of full scale.
	audibilityThreshold = 1.0 / 256
)

// distortionAmount maps the 0..1 slider through the hardness curve.
// Slider 0 yields exactly 1, the identity/bypass case.
func distortionAmount(slider float64) float64 {
	v := 1 - 0.895*(math.Pow(20, slider)-1)/19

	return v * v
}

// distortionDrive maps the 0..1 slider to pre-shaper gain. The nominal
// formula is (1+2s)/0.011 against a 0.011 base volume stage; the two
// cancel symbolically here so a slider of zero drives at exactly unity.
func distortionDrive(slider float64) float64 {
	return 1 + 2*slider
}

// bitcrusherPhaseDelta maps the 0..1 frequency setting to the
// sample-and-hold phase increment per sample, on a geometric Hz scale.
func bitcrusherPhaseDelta(setting, sampleRate float64) float64 {
	hz := bitcrusherMinHz * mathPower2(setting*mathLog2(bitcrusherMaxHz/bitcrusherMinHz))

	return hz / sampleRate
}

// bitcrusherScale maps the 0..1 quantization setting to the amplitude
// quantization step, geometric from transparent to one-bit coarse.
func bitcrusherScale(setting float64) float64 {
	return bitcrusherMinScale * mathPower2(setting*mathLog2(bitcrusherMaxScale/bitcrusherMinScale))
}

// bitcrusherFoldLevel maps the quantization setting to the wave-fold
// threshold, shrinking as quantization coarsens.
func bitcrusherFoldLevel(setting float64) float64 {
	return mathPower2(-bitcrusherFoldSpan * setting)
}

// ringModHz maps the 0..1 hertz setting to the carrier frequency on a
// geometric scale. A setting at or below zero maps to zero, which the
// fade envelope treats as "carrier off".
func ringModHz(setting float64) float64 {
	if setting <= 0 {
		return 0
	}

	return ringModMinHz * mathPower2(setting*mathLog2(ringModMaxHz/ringModMinHz))
}

// echoMult maps the 0..1 sustain setting to per-repeat amplitude.
func echoMult(sustain float64) float64 {
	m := sustain
	if m > echoMaxMult {
		m = echoMaxMult
	}

	if m < 0 {
		m = 0
	}

	return m
}

// reverbMult maps the 0..1 sustain setting to the network feedback
// amount, raised to a fixed exponent so the slider feels even.
func reverbMult(sustain float64) float64 {
	if sustain <= 0 {
		return 0
	}

	if sustain > 1 {
		sustain = 1
	}

	return reverbMaxMult * math.Pow(sustain, reverbSustainExp)
}

// tailSecondsForDecay estimates how long a feedback path attenuating by
// mult once per cycleSeconds takes to fall below the audibility
// threshold. A mult at or above 1 never decays; report a generous fixed
// tail instead of infinity.
func tailSecondsForDecay(mult, cycleSeconds float64) float64 {
	if mult <= 0 || cycleSeconds <= 0 {
		return cycleSeconds
	}

	if mult >= 1 {
		return 60
	}

	cycles := math.Log(audibilityThreshold) / math.Log(mult)

	return cycles * cycleSeconds
}

// foldSample reflects x into [-level, level] by triangle folding.
func foldSample(x, level float64) float64 {
	if level <= 0 {
		return 0
	}

	span := 4 * level

	r := math.Mod(x+level, span)
	if r < 0 {
		r += span
	}

	r -= 2 * level

	if r > level {
		r = 2*level - r
	} else if r < -level {
		r = -2*level - r
	}

	return r
}
