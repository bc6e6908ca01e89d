package tone

import "github.com/dragoncoder047/dragonbox-sub004/dsp/interp"

// ChipWave is a looped single-cycle or drum waveform played back by a
// Tone. LoopStart/LoopEnd delimit the looped region in samples; PingPong
// reverses direction at the boundaries instead of wrapping.
type ChipWave struct {
	Samples   []float64
	LoopStart int
	LoopEnd   int
	PingPong  bool
}

// loopLength returns the usable loop span, clamped to the sample data.
func (w *ChipWave) loopBounds() (start, end int) {
	start, end = w.LoopStart, w.LoopEnd

	if end <= 0 || end > len(w.Samples) {
		end = len(w.Samples)
	}

	if start < 0 || start >= end {
		start = 0
	}

	return start, end
}

// NextChipSample advances the voice's playback position by its phase delta
// and returns the interpolated source sample. Ping-pong reflection and
// loop wrap both record the boundary sample so the waveform stays
// continuous across the discontinuity in position, including when the
// boundary falls between two ticks.
func (t *Tone) NextChipSample(voice int, w *ChipWave) float64 {
	if len(w.Samples) == 0 {
		return 0
	}

	start, end := w.loopBounds()
	span := float64(end - start)
	if span <= 0 {
		return w.Samples[start%len(w.Samples)]
	}

	pos := t.SamplePositions[voice]
	dir := t.SampleDirections[voice]
	if dir == 0 {
		dir = 1
	}

	pos += t.PhaseDeltas[voice] * dir

	if w.PingPong {
		// Mirror positions are start and end-1 so a reflected position
		// always lands strictly inside the loop. Reflect as often as
		// needed: a large phase delta can cross the loop more than once.
		top := float64(end - 1)
		bottom := float64(start)

		if top <= bottom {
			t.SamplePositions[voice] = bottom
			return sampleAt(w.Samples, bottom)
		}

		for {
			if pos > top {
				t.BoundarySamples[voice] = sampleAt(w.Samples, top)
				pos = 2*top - pos
				dir = -dir

				continue
			}

			if pos < bottom {
				t.BoundarySamples[voice] = sampleAt(w.Samples, bottom)
				pos = 2*bottom - pos
				dir = -dir

				continue
			}

			break
		}
	} else {
		for pos >= float64(end) {
			t.BoundarySamples[voice] = sampleAt(w.Samples, float64(end)-1)
			pos -= span
		}

		for pos < float64(start) {
			pos += span
		}
	}

	t.SamplePositions[voice] = pos
	t.SampleDirections[voice] = dir

	return sampleAt(w.Samples, pos)
}

func sampleAt(samples []float64, pos float64) float64 {
	if pos < 0 {
		pos = 0
	}

	i := int(pos)
	if i >= len(samples)-1 {
		return samples[len(samples)-1]
	}

	return interp.Linear2(pos-float64(i), samples[i], samples[i+1])
}
