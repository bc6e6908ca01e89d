package fxchain

import (
	"math"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/automation"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/filter/design"
)

// EffectType tags one slot in an instrument's effect chain.
type EffectType int

const (
	EffectNone EffectType = iota
	EffectGain
	EffectPanning
	EffectDistortion
	EffectBitcrusher
	EffectRingMod
	EffectChorus
	EffectFlanger
	EffectEcho
	EffectReverb
	EffectEQFilter
	EffectGranular
)

// String returns the effect's configuration name.
func (t EffectType) String() string {
	switch t {
	case EffectGain:
		return "gain"
	case EffectPanning:
		return "panning"
	case EffectDistortion:
		return "distortion"
	case EffectBitcrusher:
		return "bitcrusher"
	case EffectRingMod:
		return "ring modulation"
	case EffectChorus:
		return "chorus"
	case EffectFlanger:
		return "flanger"
	case EffectEcho:
		return "echo"
	case EffectReverb:
		return "reverb"
	case EffectEQFilter:
		return "eq filter"
	case EffectGranular:
		return "granular"
	default:
		return "none"
	}
}

// Settings holds one slot's static configuration from the instrument data
// model. Numeric parameters live in Num and are read through GetNum so a
// missing or non-finite entry degrades to the effect's default instead of
// reaching sample math. The EQ effect additionally carries its control
// points and, for older configurations, the legacy cutoff/peak pair.
type Settings struct {
	Type EffectType
	Num  map[string]float64

	ControlPoints []design.ControlPoint
	LegacyCutoff  float64
	LegacyPeak    float64
	HasLegacy     bool
}

// GetNum safely extracts a numeric parameter, returning def if missing or
// invalid.
func (s Settings) GetNum(key string, def float64) float64 {
	if s.Num == nil {
		return def
	}

	v, ok := s.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// RenderContext carries one tick's environmental inputs: timing from the
// scheduling layer and the automation resolver merging envelopes with
// live modulation.
type RenderContext struct {
	SampleRate            float64
	SamplesPerTick        float64
	RoundedSamplesPerTick int
	Resolver              automation.Resolver
}

// value resolves a parameter's tick start/end pair through the resolver.
func (ctx *RenderContext) value(t automation.Target, setting float64) (float64, float64) {
	return ctx.Resolver.Value(t, setting)
}
