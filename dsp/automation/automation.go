// Package automation merges static instrument settings, envelope outputs,
// and live modulation into the (start, per-sample delta) pairs every
// effect consumes. It is the single place where "is this parameter being
// automated right now" is decided; everything downstream just accumulates.
package automation

import "math"

// Target enumerates the automatable parameters. Envelope multiplier
// arrays and modulation lookups are both indexed by Target.
type Target int

const (
	TargetNone Target = iota
	TargetNoteVolume
	TargetMixVolume
	TargetPan
	TargetPanDelay
	TargetDistortion
	TargetDistortionDrive
	TargetBitcrusherFrequency
	TargetBitcrusherQuantization
	TargetRingModMix
	TargetRingModHertz
	TargetChorusDepth
	TargetChorusSpeed
	TargetFlangerDepth
	TargetFlangerSpeed
	TargetFlangerFeedback
	TargetEchoSustain
	TargetEchoMix
	TargetEchoDelay
	TargetEchoPingPong
	TargetReverbSustain
	TargetReverbMix
	TargetGranularMix
	TargetGrainAmount
	TargetGrainSize
	TargetGrainRange
	TargetGrainDelay

	NumTargets
)

// Envelope carries the per-tick start/end multiplier for every target.
// A multiplier of 1 means "no envelope shaping this tick".
type Envelope struct {
	Start [NumTargets]float64
	End   [NumTargets]float64
}

// NewEnvelope returns an Envelope with all multipliers at 1.
func NewEnvelope() *Envelope {
	e := &Envelope{}
	e.Fill(1)

	return e
}

// Fill sets every start and end multiplier to v.
func (e *Envelope) Fill(v float64) {
	for i := range e.Start {
		e.Start[i] = v
		e.End[i] = v
	}
}

// Set assigns one target's start/end multiplier pair.
func (e *Envelope) Set(t Target, start, end float64) {
	e.Start[t] = start
	e.End[t] = end
}

// ModResolver is the capability the modulation layer supplies: whether a
// parameter is under live modulation right now, and if so its interpolated
// value at tick start and tick end.
type ModResolver interface {
	Active(t Target) bool
	Range(t Target) (start, end float64)
}

// Resolver combines one tick's envelope with an optional ModResolver.
// A nil Mod means no parameter is modulated.
type Resolver struct {
	Env *Envelope
	Mod ModResolver
}

// Value resolves one parameter for the current tick. Modulation, when
// active, replaces the static setting outright; otherwise the setting is
// shaped by the envelope multiplier pair.
func (r Resolver) Value(t Target, setting float64) (start, end float64) {
	if r.Mod != nil && r.Mod.Active(t) {
		return r.Mod.Range(t)
	}

	if r.Env == nil {
		return setting, setting
	}

	return setting * r.Env.Start[t], setting * r.Env.End[t]
}

// Linear converts a start/end pair into a start value and additive
// per-sample delta such that start + n*delta lands exactly on end.
func Linear(start, end float64, n int) (v0, delta float64) {
	if n <= 0 {
		return end, 0
	}

	return start, (end - start) / float64(n)
}

// Geometric converts a start/end pair into a start value and a
// multiplicative per-sample ratio such that start * ratio^n lands on end.
// Multiplicative quantities (bitcrusher phase delta, quantization scale)
// interpolate this way instead of linearly. Degenerate pairs (zero or
// sign-crossing) fall back to a flat ratio of 1 with the start snapped to
// the end value.
func Geometric(start, end float64, n int) (v0, ratio float64) {
	if n <= 0 {
		return end, 1
	}

	if start == 0 || end == 0 || (start < 0) != (end < 0) {
		return end, 1
	}

	return start, math.Pow(end/start, 1/float64(n))
}
