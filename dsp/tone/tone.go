package tone

import "github.com/dragoncoder047/dragonbox-sub004/dsp/filter/biquad"

// Compile-time voice maximums. Per-voice arrays are always sized to these
// so a pooled Tone never reallocates; unused slots stay zero.
const (
	// MaxOperators is the number of FM operators a tone can carry.
	MaxOperators = 4
	// MaxUnisonVoices is the number of detuned unison copies per tone.
	MaxUnisonVoices = 2
	// MaxNoteFilters is the number of cascaded note-filter sections.
	MaxNoteFilters = 2
)

// Tone is the continuous synthesis state of one sounding note. Tones are
// owned by a Pool, referenced (never copied) by the tick driver, and
// recycled through Reset when the note's release tail becomes inaudible.
type Tone struct {
	// Oscillator state per operator and unison voice.
	Phases      [MaxOperators * MaxUnisonVoices]float64
	PhaseDeltas [MaxOperators * MaxUnisonVoices]float64

	// Pitch interpolation across the tick: bend at the previous tick
	// boundary, the current interpolated bend, and the target for the
	// next boundary.
	PrevPitchBend float64
	PitchBend     float64
	NextPitchBend float64

	// Envelope-computer output driving note expression.
	Expression      float64
	ExpressionDelta float64

	// Operator feedback history.
	FeedbackOutputs [MaxOperators]float64

	// Unison detune offsets in fractional semitones.
	UnisonDetunes [MaxUnisonVoices]float64

	// Cascaded note-filter sections.
	NoteFilters [MaxNoteFilters]biquad.Section
	// NoteFilterCount is how many of NoteFilters are in use.
	NoteFilterCount int

	// Chip-wave / drum-sample playback state per unison voice: position
	// in source samples, travel direction for ping-pong looping, and the
	// source sample value at the last loop boundary. The boundary sample
	// keeps playback continuous when a loop reverses or wraps between
	// ticks; dropping it clicks audibly at every loop point.
	SamplePositions  [MaxUnisonVoices]float64
	SampleDirections [MaxUnisonVoices]float64
	BoundarySamples  [MaxUnisonVoices]float64

	// Liveness bookkeeping used by the pool and tick driver.
	Active       bool
	Released     bool
	AgeInSamples int
}

// Reset restores every numeric field to silence. It is idempotent,
// allocation-free, and must be called before a pooled Tone is reused for a
// new note. Directions reset to +1 (forward).
func (t *Tone) Reset() {
	for i := range t.Phases {
		t.Phases[i] = 0
		t.PhaseDeltas[i] = 0
	}

	t.PrevPitchBend = 0
	t.PitchBend = 0
	t.NextPitchBend = 0
	t.Expression = 0
	t.ExpressionDelta = 0

	for i := range t.FeedbackOutputs {
		t.FeedbackOutputs[i] = 0
	}

	for i := range t.UnisonDetunes {
		t.UnisonDetunes[i] = 0
	}

	for i := range t.NoteFilters {
		t.NoteFilters[i].Coefficients = biquad.Identity()
		t.NoteFilters[i].Reset()
	}

	t.NoteFilterCount = 0

	for i := 0; i < MaxUnisonVoices; i++ {
		t.SamplePositions[i] = 0
		t.SampleDirections[i] = 1
		t.BoundarySamples[i] = 0
	}

	t.Active = false
	t.Released = false
	t.AgeInSamples = 0
}

// FilterSample runs one sample through the active note-filter cascade.
func (t *Tone) FilterSample(x float64) float64 {
	for i := 0; i < t.NoteFilterCount; i++ {
		x = t.NoteFilters[i].ProcessSample(x)
	}

	return x
}
