// Package testutil provides deterministic signal generators and
// assertion helpers shared by the rendering and effect tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine renders a sine wave of the given frequency and amplitude.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Noise renders seeded white noise, reproducible across runs.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse renders a unit impulse at pos. An out-of-range pos yields
// silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// Silence renders a zero buffer.
func Silence(length int) []float64 {
	return make([]float64, length)
}
