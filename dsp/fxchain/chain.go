package fxchain

import (
	"fmt"
	"math"
)

// slot pairs a configured effect with its runtime instance.
type slot struct {
	typ      EffectType
	settings Settings
	rt       Runtime
}

// Chain runs an instrument's ordered effect slots over stereo blocks.
// It owns the tail bookkeeping: once the input has been silent for
// longer than the chain's reported decay plus its delay latency, every
// dirty delay buffer is flushed and processing is skipped until signal
// returns.
type Chain struct {
	registry *Registry
	slots    []slot

	sampleRate    float64
	tailSeconds   float64
	delaySamples  float64
	silentSeconds float64
	flushed       bool
}

// NewChain creates a chain drawing effect runtimes from the given
// registry, or from DefaultRegistry when nil.
func NewChain(registry *Registry) *Chain {
	if registry == nil {
		registry = DefaultRegistry()
	}

	return &Chain{registry: registry}
}

// NumSlots returns the number of configured effect slots.
func (c *Chain) NumSlots() int {
	return len(c.slots)
}

// Configure synchronizes the slot list with the given settings.
// Runtimes are reused in place when a slot keeps its effect type, so
// delay history and filter state survive parameter edits; a slot whose
// type changes gets a fresh runtime.
func (c *Chain) Configure(settings []Settings) error {
	next := c.slots[:0]

	for i, s := range settings {
		if s.Type == EffectNone {
			continue
		}

		if i < len(c.slots) && c.slots[i].typ == s.Type {
			reused := c.slots[i]
			reused.settings = s
			next = append(next, reused)

			continue
		}

		factory := c.registry.Lookup(s.Type)
		if factory == nil {
			return fmt.Errorf("%w: %s", ErrUnknownEffect, s.Type)
		}

		next = append(next, slot{typ: s.Type, settings: s, rt: factory()})
	}

	c.slots = next

	return nil
}

// ComputeTick resolves every slot's parameters for the coming tick and
// refreshes the chain's tail estimate. Call once per tick, before
// Process.
func (c *Chain) ComputeTick(ctx *RenderContext) {
	c.sampleRate = ctx.SampleRate

	tail := 0.0
	delay := 0.0

	for i := range c.slots {
		c.slots[i].rt.Compute(ctx, c.slots[i].settings)

		slotTail, slotDelay := c.slots[i].rt.Tail()
		if slotTail > tail {
			tail = slotTail
		}

		delay += slotDelay
	}

	c.tailSeconds = tail
	c.delaySamples = delay
}

// TickReport summarizes one processed tick.
type TickReport struct {
	TailSeconds  float64
	DelaySamples float64
	Flushed      bool
}

// Process runs one tick's block through every slot in order. Both
// buffers must hold exactly the tick's sample count. When the input
// stays below the audibility threshold past the chain's tail, the
// slots are flushed once and processing is skipped until the input
// comes back.
func (c *Chain) Process(left, right []float64) TickReport {
	report := TickReport{TailSeconds: c.tailSeconds, DelaySamples: c.delaySamples}

	peak := blockPeak(left, right)
	if peak >= audibilityThreshold {
		c.silentSeconds = 0
		c.flushed = false
	} else if c.sampleRate > 0 {
		c.silentSeconds += float64(len(left)) / c.sampleRate
	}

	if c.flushed {
		return report
	}

	for i := range c.slots {
		c.slots[i].rt.Process(left, right)
	}

	holdSeconds := c.tailSeconds
	if c.sampleRate > 0 {
		holdSeconds += c.delaySamples / c.sampleRate
	}

	if c.silentSeconds > holdSeconds {
		c.Flush()
		c.flushed = true
		report.Flushed = true
	}

	return report
}

// Deactivate resets transient DSP state in every slot without touching
// delay buffers.
func (c *Chain) Deactivate() {
	for i := range c.slots {
		c.slots[i].rt.Deactivate()
	}
}

// Flush zeroes every slot's dirty delay buffers.
func (c *Chain) Flush() {
	for i := range c.slots {
		c.slots[i].rt.Flush()
	}
}

func blockPeak(left, right []float64) float64 {
	peak := 0.0

	for i := range left {
		if v := math.Abs(left[i]); v > peak {
			peak = v
		}

		if v := math.Abs(right[i]); v > peak {
			peak = v
		}
	}

	return peak
}
