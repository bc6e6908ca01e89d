package fxchain

import (
	"errors"
	"fmt"
)

// Runtime is the per-slot processing and configuration contract. Compute
// runs once per tick and turns resolved parameters into start values and
// per-sample deltas; Process then runs the slot's block loop over exactly
// RoundedSamplesPerTick samples. Deactivate resets transient DSP history
// (filter state, oscillator phase) without touching buffer contents;
// Flush zeroes dirty delay-line contents once a tail has become
// inaudible. Tail reports the slot's current decay duration and delay
// length for the caller's bookkeeping.
type Runtime interface {
	Compute(ctx *RenderContext, s Settings)
	Process(left, right []float64)
	Deactivate()
	Flush()
	Tail() (seconds, delaySamples float64)
}

// Factory builds one Runtime instance for a slot.
type Factory func() Runtime

// Registry maps effect types to their factories.
type Registry struct {
	factories map[EffectType]Factory
}

var (
	errDuplicateEffect = errors.New("duplicate effect type")

	// ErrUnknownEffect is returned when a slot references an
	// unregistered effect type.
	ErrUnknownEffect = errors.New("unknown effect type")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[EffectType]Factory)}
}

// Register adds a factory for the given effect type.
func (r *Registry) Register(effectType EffectType, factory Factory) error {
	if effectType == EffectNone {
		return errors.New("cannot register the none effect")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[effectType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, effectType)
	}

	r.factories[effectType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(effectType EffectType, factory Factory) {
	err := r.Register(effectType, factory)
	if err != nil {
		panic("fxchain registry: " + err.Error())
	}
}

// Lookup returns the factory for the given effect type, or nil.
func (r *Registry) Lookup(effectType EffectType) Factory {
	return r.factories[effectType]
}

// DefaultRegistry returns a registry with every built-in effect
// registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(EffectGain, func() Runtime { return &gainFX{} })
	r.MustRegister(EffectPanning, func() Runtime { return &panFX{} })
	r.MustRegister(EffectDistortion, func() Runtime { return &distortionFX{} })
	r.MustRegister(EffectBitcrusher, func() Runtime { return &bitcrusherFX{} })
	r.MustRegister(EffectRingMod, func() Runtime { return &ringModFX{} })
	r.MustRegister(EffectChorus, func() Runtime { return &chorusFX{} })
	r.MustRegister(EffectFlanger, func() Runtime { return &flangerFX{} })
	r.MustRegister(EffectEcho, func() Runtime { return &echoFX{} })
	r.MustRegister(EffectReverb, func() Runtime { return &reverbFX{} })
	r.MustRegister(EffectEQFilter, func() Runtime { return &eqFX{} })
	r.MustRegister(EffectGranular, func() Runtime { return &granularFX{} })

	return r
}
