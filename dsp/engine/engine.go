package engine

import (
	"fmt"
	"math"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/automation"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/filter/design"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/fxchain"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/tone"
)

const (
	// ticksPerBeat fixes the parameter automation rate relative to the
	// transport: 48 ticks per beat keeps ticks near a millisecond at
	// common tempos.
	ticksPerBeat = 48

	defaultTempoBPM  = 120.0
	minTempoBPM      = 1.0
	maxTempoBPM      = 500.0
	defaultToneCount = 32

	// releaseFloor is the expression level below which a released
	// tone is recycled: 1/256 of full scale.
	releaseFloor = 1.0 / 256

	// unisonDetuneCents is the full detune spread between the two
	// unison voices at a unison setting of 1.
	unisonDetuneCents = 20.0
)

// InstrumentParams configures one instrument slot.
type InstrumentParams struct {
	// Volume scales the instrument into the master mix.
	Volume float64

	// Wave selects chip-wave playback; nil renders a sine oscillator.
	Wave *tone.ChipWave

	// Unison in [0, 1] spreads a second detuned voice.
	Unison float64

	// NoteFilter configures the per-note filter cascade applied at
	// note start.
	NoteFilter []design.ControlPoint

	// Effects is the instrument's ordered effect chain.
	Effects []fxchain.Settings
}

type instrument struct {
	params InstrumentParams
	chain  *fxchain.Chain
	env    *automation.Envelope
	mod    automation.ModResolver

	left  []float64
	right []float64
}

// activeTone tracks one sounding note and its engine-side context.
type activeTone struct {
	tone       *tone.Tone
	instrument int
	velocity   float64
	baseDelta  [tone.MaxUnisonVoices]float64
	unison     bool
	sine       bool
}

// Engine is the tick-driven synthesis core: it owns the tone pool, the
// per-instrument effect chains, and the transport-derived tick clock.
// All parameter changes resolve at tick boundaries; the sample loops
// between them only add precomputed deltas.
type Engine struct {
	sampleRate     float64
	tempoBPM       float64
	samplesPerTick float64
	tickRemainder  float64

	registry    *fxchain.Registry
	instruments []*instrument
	tones       *tone.Pool
	active      []activeTone

	left  []float64
	right []float64

	carryLeft  []float64
	carryRight []float64
	carryPos   int
}

// Option configures an Engine.
type Option func(*Engine) error

// WithTempo sets the transport tempo in beats per minute.
func WithTempo(bpm float64) Option {
	return func(e *Engine) error {
		return e.SetTempo(bpm)
	}
}

// WithToneCapacity sets the size of the preallocated tone pool.
func WithToneCapacity(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return fmt.Errorf("tone capacity must be >= 1: %d", n)
		}

		e.tones = tone.NewPool(n)

		return nil
	}
}

// WithRegistry substitutes the effect registry used by new instruments.
func WithRegistry(r *fxchain.Registry) Option {
	return func(e *Engine) error {
		if r == nil {
			return fmt.Errorf("registry must not be nil")
		}

		e.registry = r

		return nil
	}
}

// New creates an engine at the given sample rate.
func New(sampleRate float64, opts ...Option) (*Engine, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	e := &Engine{
		sampleRate: sampleRate,
		registry:   fxchain.DefaultRegistry(),
		tones:      tone.NewPool(defaultToneCount),
	}

	if err := e.SetTempo(defaultTempoBPM); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// SetTempo updates the transport tempo and the derived tick length.
func (e *Engine) SetTempo(bpm float64) error {
	if bpm < minTempoBPM || bpm > maxTempoBPM || math.IsNaN(bpm) {
		return fmt.Errorf("tempo must be in [%g, %g]: %f", minTempoBPM, maxTempoBPM, bpm)
	}

	e.tempoBPM = bpm
	e.samplesPerTick = e.sampleRate * 60 / (bpm * ticksPerBeat)

	return nil
}

// SampleRate returns the engine's sample rate.
func (e *Engine) SampleRate() float64 {
	return e.sampleRate
}

// SamplesPerTick returns the current fractional tick length.
func (e *Engine) SamplesPerTick() float64 {
	return e.samplesPerTick
}

// TonePool exposes the engine's tone pool for capacity inspection.
func (e *Engine) TonePool() *tone.Pool {
	return e.tones
}

// AddInstrument appends an instrument and returns its index.
func (e *Engine) AddInstrument(p InstrumentParams) (int, error) {
	if math.IsNaN(p.Volume) || math.IsInf(p.Volume, 0) || p.Volume < 0 {
		return 0, fmt.Errorf("instrument volume must be >= 0: %f", p.Volume)
	}

	if len(p.NoteFilter) > tone.MaxNoteFilters {
		return 0, fmt.Errorf("at most %d note filter points: %d", tone.MaxNoteFilters, len(p.NoteFilter))
	}

	chain := fxchain.NewChain(e.registry)
	if err := chain.Configure(p.Effects); err != nil {
		return 0, fmt.Errorf("configure effects: %w", err)
	}

	e.instruments = append(e.instruments, &instrument{
		params: p,
		chain:  chain,
		env:    automation.NewEnvelope(),
	})

	return len(e.instruments) - 1, nil
}

// Envelope returns the automation envelope of the given instrument so
// callers can set per-tick parameter multipliers.
func (e *Engine) Envelope(index int) (*automation.Envelope, error) {
	if index < 0 || index >= len(e.instruments) {
		return nil, fmt.Errorf("instrument index out of range: %d", index)
	}

	return e.instruments[index].env, nil
}

// SetModResolver attaches a live modulation source to the given
// instrument. Modulated parameters override the envelope and static
// settings until the resolver is replaced or cleared with nil.
func (e *Engine) SetModResolver(index int, m automation.ModResolver) error {
	if index < 0 || index >= len(e.instruments) {
		return fmt.Errorf("instrument index out of range: %d", index)
	}

	e.instruments[index].mod = m

	return nil
}

// NoteOn starts a note on the given instrument and returns its tone
// handle. Velocity in [0, 1] scales expression.
func (e *Engine) NoteOn(index int, freqHz, velocity float64) (*tone.Tone, error) {
	if index < 0 || index >= len(e.instruments) {
		return nil, fmt.Errorf("instrument index out of range: %d", index)
	}

	if freqHz <= 0 || freqHz >= e.sampleRate/2 || math.IsNaN(freqHz) {
		return nil, fmt.Errorf("frequency must be in (0, %g): %f", e.sampleRate/2, freqHz)
	}

	if velocity < 0 || velocity > 1 || math.IsNaN(velocity) {
		return nil, fmt.Errorf("velocity must be in [0, 1]: %f", velocity)
	}

	t := e.tones.Acquire()
	if t == nil {
		return nil, fmt.Errorf("tone pool exhausted: %d tones", e.tones.Cap())
	}

	inst := e.instruments[index]

	at := activeTone{
		tone:       t,
		instrument: index,
		velocity:   velocity,
		unison:     inst.params.Unison > 0,
		sine:       inst.params.Wave == nil,
	}

	if at.sine {
		at.baseDelta[0] = freqHz / e.sampleRate
	} else {
		at.baseDelta[0] = freqHz * float64(len(inst.params.Wave.Samples)) / e.sampleRate
	}

	if at.unison {
		at.baseDelta[1] = at.baseDelta[0]
		t.UnisonDetunes[0] = -unisonDetuneCents * inst.params.Unison / 200
		t.UnisonDetunes[1] = unisonDetuneCents * inst.params.Unison / 200
	}

	for v := range at.baseDelta {
		t.PhaseDeltas[v] = at.baseDelta[v] * math.Pow(2, t.UnisonDetunes[v]/12)
	}

	t.NoteFilterCount = len(inst.params.NoteFilter)
	for i, p := range inst.params.NoteFilter {
		t.NoteFilters[i].Coefficients = p.ToCoefficients(e.sampleRate)
		t.NoteFilters[i].Reset()
	}

	e.active = append(e.active, at)

	return t, nil
}

// NoteOff releases the note; it fades out and recycles on its own.
func (e *Engine) NoteOff(t *tone.Tone) {
	if t != nil {
		t.Released = true
	}
}

// BendPitch schedules a pitch bend in semitones, reached by the end of
// the next tick.
func (e *Engine) BendPitch(t *tone.Tone, semitones float64) {
	if t != nil {
		t.NextPitchBend = semitones
	}
}

// tickSamples returns the next tick's whole-sample length, carrying the
// fractional remainder so the long-run rate matches samplesPerTick.
func (e *Engine) tickSamples() int {
	total := e.tickRemainder + e.samplesPerTick

	n := int(total)
	if n < 1 {
		n = 1
	}

	e.tickRemainder = total - float64(n)

	return n
}
