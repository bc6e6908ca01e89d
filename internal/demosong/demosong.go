// Package demosong builds the short demonstration arrangement shared by
// the render and play commands.
package demosong

import (
	"fmt"
	"math"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/engine"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/filter/design"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/fxchain"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/tone"
)

// Note schedules one tone on one instrument. Ticks count from the start
// of the song; a note sounds on StartTick and releases on EndTick.
type Note struct {
	Instrument int
	Pitch      int
	StartTick  int
	EndTick    int
	Velocity   float64
}

// PitchHz converts the MIDI note number to Hertz (A4 = 69 = 440 Hz).
func (n Note) PitchHz() float64 {
	return 440 * math.Pow(2, float64(n.Pitch-69)/12)
}

// Sequencer drives an engine through a fixed note list one tick at a
// time. After the last note releases it keeps rendering until the
// effect tails have rung out.
type Sequencer struct {
	eng     *engine.Engine
	notes   []Note
	held    []heldNote
	tick    int
	endTick int
}

type heldNote struct {
	note Note
	tone *tone.Tone
}

const (
	ticksPerStep = 12

	// tailSeconds outlasts the echo and reverb tails so the chains
	// flush to true silence before the song ends.
	tailSeconds = 3.0
)

// New builds the demo arrangement at the given sample rate and tempo: a
// detuned sine lead through echo and a chip-wave bass through a lowpass
// note filter, distortion and reverb.
func New(sampleRate, tempoBPM float64) (*Sequencer, error) {
	eng, err := engine.New(sampleRate, engine.WithTempo(tempoBPM))
	if err != nil {
		return nil, err
	}

	lead, err := eng.AddInstrument(engine.InstrumentParams{
		Volume: 0.5,
		Unison: 0.3,
		Effects: []fxchain.Settings{
			{
				Type: fxchain.EffectEcho,
				Num: map[string]float64{
					"sustain":      0.5,
					"mix":          0.4,
					"delaySeconds": 0.25,
					"pingPong":     1,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("demosong: lead instrument: %w", err)
	}

	square := &tone.ChipWave{
		Samples: []float64{1, 1, 1, 1, -1, -1, -1, -1},
		LoopEnd: 8,
	}
	bass, err := eng.AddInstrument(engine.InstrumentParams{
		Volume: 0.4,
		Wave:   square,
		NoteFilter: []design.ControlPoint{
			{Type: design.TypeLowPass, Freq: 20, Gain: design.GainCenter},
		},
		Effects: []fxchain.Settings{
			{
				Type: fxchain.EffectDistortion,
				Num:  map[string]float64{"distortion": 0.4},
			},
			{
				Type: fxchain.EffectReverb,
				Num:  map[string]float64{"sustain": 0.4, "mix": 0.3},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("demosong: bass instrument: %w", err)
	}

	notes := arrangement(lead, bass)
	endTick := 0
	for _, n := range notes {
		if n.EndTick > endTick {
			endTick = n.EndTick
		}
	}
	tailTicks := int(math.Ceil(tailSeconds * tempoBPM * 48 / 60))

	return &Sequencer{
		eng:     eng,
		notes:   notes,
		endTick: endTick + tailTicks,
	}, nil
}

// arrangement lays out two bars of a simple A-minor figure.
func arrangement(lead, bass int) []Note {
	type step struct {
		pitch int
		start int
		len   int
	}

	leadSteps := []step{
		{69, 0, 2}, {72, 2, 2}, {76, 4, 2}, {72, 6, 2},
		{71, 8, 2}, {74, 10, 2}, {77, 12, 2}, {76, 14, 2},
	}
	bassSteps := []step{
		{45, 0, 4}, {45, 4, 4}, {43, 8, 4}, {40, 12, 4},
	}

	var notes []Note
	for _, s := range leadSteps {
		notes = append(notes, Note{
			Instrument: lead,
			Pitch:      s.pitch,
			StartTick:  s.start * ticksPerStep,
			EndTick:    (s.start + s.len) * ticksPerStep,
			Velocity:   0.8,
		})
	}
	for _, s := range bassSteps {
		notes = append(notes, Note{
			Instrument: bass,
			Pitch:      s.pitch,
			StartTick:  s.start * ticksPerStep,
			EndTick:    (s.start + s.len) * ticksPerStep,
			Velocity:   1,
		})
	}

	return notes
}

// Engine exposes the underlying engine, mainly for sample-rate queries.
func (s *Sequencer) Engine() *engine.Engine {
	return s.eng
}

// Done reports whether every note has released and the tail has been
// rendered.
func (s *Sequencer) Done() bool {
	return s.tick >= s.endTick
}

// NextTick fires and releases due notes, then renders one tick. The
// returned buffers are owned by the engine and valid until the next
// call.
func (s *Sequencer) NextTick() (left, right []float64) {
	for _, n := range s.notes {
		if n.StartTick != s.tick {
			continue
		}
		t, err := s.eng.NoteOn(n.Instrument, n.PitchHz(), n.Velocity)
		if err != nil {
			continue
		}
		s.held = append(s.held, heldNote{note: n, tone: t})
	}

	kept := s.held[:0]
	for _, h := range s.held {
		if h.note.EndTick <= s.tick {
			s.eng.NoteOff(h.tone)
			continue
		}
		kept = append(kept, h)
	}
	s.held = kept

	s.tick++

	return s.eng.NextTick()
}
