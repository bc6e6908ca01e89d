// Package tone holds the per-note voice state of the synthesizer: pooled
// Tone records carrying oscillator phases, pitch interpolation, note
// filter histories, unison detune, and chip-wave playback bookkeeping.
// Tones are recycled through an explicit Reset instead of being
// reallocated, keeping the audio hot path allocation-free.
package tone
