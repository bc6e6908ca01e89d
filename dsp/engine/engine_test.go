package engine

import (
	"math"
	"testing"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/automation"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/fxchain"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/spectrum"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/tone"
	"github.com/dragoncoder047/dragonbox-sub004/internal/testutil"
)

const testSampleRate = 44100.0

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	e, err := New(testSampleRate, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return e
}

func TestNewValidatesSampleRate(t *testing.T) {
	t.Parallel()

	for _, rate := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := New(rate); err == nil {
			t.Fatalf("New(%v) accepted a bad sample rate", rate)
		}
	}
}

func TestSetTempoRange(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	if err := e.SetTempo(0); err == nil {
		t.Fatal("accepted zero tempo")
	}

	if err := e.SetTempo(150); err != nil {
		t.Fatalf("SetTempo(150): %v", err)
	}

	want := testSampleRate * 60 / (150 * 48)
	if math.Abs(e.SamplesPerTick()-want) > 1e-9 {
		t.Fatalf("samples per tick = %g, want %g", e.SamplesPerTick(), want)
	}
}

func TestRenderWithoutNotesIsSilent(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	left := make([]float64, 2048)
	right := make([]float64, 2048)
	e.Render(left, right)

	testutil.RequireSilent(t, left, 0)
	testutil.RequireSilent(t, right, 0)
}

func TestTickLengthsAverageToFractionalRate(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	const ticks = 1000

	total := 0
	for range ticks {
		left, _ := e.NextTick()
		total += len(left)
	}

	want := e.SamplesPerTick() * ticks
	if math.Abs(float64(total)-want) > 1 {
		t.Fatalf("rendered %d samples over %d ticks, want %g", total, ticks, want)
	}
}

func TestNoteRendersAtRequestedFrequency(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	idx, err := e.AddInstrument(InstrumentParams{Volume: 1})
	if err != nil {
		t.Fatalf("AddInstrument: %v", err)
	}

	if _, err := e.NoteOn(idx, 440, 1); err != nil {
		t.Fatalf("NoteOn: %v", err)
	}

	const n = 16384

	left := make([]float64, n)
	right := make([]float64, n)
	e.Render(left, right)

	testutil.RequireFinite(t, left)

	atTone, err := spectrum.TonePower(left, 440, testSampleRate)
	if err != nil {
		t.Fatalf("TonePower: %v", err)
	}

	offTone, err := spectrum.TonePower(left, 1320, testSampleRate)
	if err != nil {
		t.Fatalf("TonePower: %v", err)
	}

	if atTone <= 0 {
		t.Fatal("no energy at the note frequency")
	}

	if offTone >= atTone/100 {
		t.Fatalf("energy at 3rd harmonic %g not well below fundamental %g", offTone, atTone)
	}
}

func TestNoteOffRecyclesTone(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithToneCapacity(2))

	idx, err := e.AddInstrument(InstrumentParams{Volume: 1})
	if err != nil {
		t.Fatalf("AddInstrument: %v", err)
	}

	handle, err := e.NoteOn(idx, 220, 1)
	if err != nil {
		t.Fatalf("NoteOn: %v", err)
	}

	if e.TonePool().Free() != 1 {
		t.Fatalf("free tones = %d, want 1", e.TonePool().Free())
	}

	e.NoteOff(handle)

	// One tick fades the release out, the next recycles.
	e.NextTick()
	e.NextTick()

	if e.TonePool().Free() != 2 {
		t.Fatalf("free tones after release = %d, want 2", e.TonePool().Free())
	}

	left, right := e.NextTick()
	testutil.RequireSilent(t, left, 0)
	testutil.RequireSilent(t, right, 0)
}

func TestNoteOnFailsWhenPoolExhausted(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithToneCapacity(1))

	idx, err := e.AddInstrument(InstrumentParams{Volume: 1})
	if err != nil {
		t.Fatalf("AddInstrument: %v", err)
	}

	if _, err := e.NoteOn(idx, 220, 1); err != nil {
		t.Fatalf("first NoteOn: %v", err)
	}

	if _, err := e.NoteOn(idx, 330, 1); err == nil {
		t.Fatal("second NoteOn succeeded on a full pool")
	}
}

func TestNoteOnValidatesInputs(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	idx, err := e.AddInstrument(InstrumentParams{Volume: 1})
	if err != nil {
		t.Fatalf("AddInstrument: %v", err)
	}

	if _, err := e.NoteOn(idx+1, 440, 1); err == nil {
		t.Fatal("accepted bad instrument index")
	}

	if _, err := e.NoteOn(idx, 0, 1); err == nil {
		t.Fatal("accepted zero frequency")
	}

	if _, err := e.NoteOn(idx, testSampleRate, 1); err == nil {
		t.Fatal("accepted frequency above Nyquist")
	}

	if _, err := e.NoteOn(idx, 440, 2); err == nil {
		t.Fatal("accepted velocity above 1")
	}
}

func TestEffectChainShapesInstrumentOutput(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	idx, err := e.AddInstrument(InstrumentParams{
		Volume: 1,
		Effects: []fxchain.Settings{{
			Type: fxchain.EffectGain,
			Num:  map[string]float64{"volume": 0},
		}},
	})
	if err != nil {
		t.Fatalf("AddInstrument: %v", err)
	}

	if _, err := e.NoteOn(idx, 440, 1); err != nil {
		t.Fatalf("NoteOn: %v", err)
	}

	left := make([]float64, 4096)
	right := make([]float64, 4096)
	e.Render(left, right)

	testutil.RequireSilent(t, left, 1e-12)
	testutil.RequireSilent(t, right, 1e-12)
}

func TestUnisonDetuneSpreadsVoices(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	idx, err := e.AddInstrument(InstrumentParams{Volume: 1, Unison: 1})
	if err != nil {
		t.Fatalf("AddInstrument: %v", err)
	}

	tn, err := e.NoteOn(idx, 440, 1)
	if err != nil {
		t.Fatalf("NoteOn: %v", err)
	}

	if tn.UnisonDetunes[0] >= 0 || tn.UnisonDetunes[1] <= 0 {
		t.Fatalf("detunes = %v, want symmetric around zero", tn.UnisonDetunes)
	}

	wantRatio := math.Pow(2, (tn.UnisonDetunes[1]-tn.UnisonDetunes[0])/12)
	if ratio := tn.PhaseDeltas[1] / tn.PhaseDeltas[0]; math.Abs(ratio-wantRatio) > 1e-12 {
		t.Fatalf("phase delta ratio = %v, want %v", ratio, wantRatio)
	}

	e.NextTick()

	if tn.Phases[0] == tn.Phases[1] {
		t.Fatal("detuned voices stayed in phase after a tick")
	}
}

// fixedMod modulates one target with a constant value.
type fixedMod struct {
	target automation.Target
	value  float64
}

func (m fixedMod) Active(t automation.Target) bool { return t == m.target }

func (m fixedMod) Range(automation.Target) (start, end float64) { return m.value, m.value }

func TestModResolverOverridesEnvelope(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	idx, err := e.AddInstrument(InstrumentParams{
		Volume: 1,
		Effects: []fxchain.Settings{{
			Type: fxchain.EffectGain,
			Num:  map[string]float64{"volume": 1},
		}},
	})
	if err != nil {
		t.Fatalf("AddInstrument: %v", err)
	}

	env, err := e.Envelope(idx)
	if err != nil {
		t.Fatalf("Envelope: %v", err)
	}

	env.Set(automation.TargetMixVolume, 1, 1)

	if err := e.SetModResolver(idx, fixedMod{target: automation.TargetMixVolume}); err != nil {
		t.Fatalf("SetModResolver: %v", err)
	}

	if _, err := e.NoteOn(idx, 440, 1); err != nil {
		t.Fatalf("NoteOn: %v", err)
	}

	muted := make([]float64, 8192)
	e.Render(muted, make([]float64, 8192))
	testutil.RequireSilent(t, muted, 1e-12)

	if err := e.SetModResolver(idx, nil); err != nil {
		t.Fatalf("SetModResolver: %v", err)
	}

	loud := make([]float64, 8192)
	e.Render(loud, make([]float64, 8192))

	if testutil.PeakLevel(loud) <= 0.1 {
		t.Fatalf("peak %g after clearing modulation, want audible output",
			testutil.PeakLevel(loud))
	}
}

func TestSetModResolverValidatesIndex(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	if err := e.SetModResolver(0, nil); err == nil {
		t.Fatal("out-of-range instrument index accepted")
	}
}

func TestEnvelopeScalesMixVolume(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	idx, err := e.AddInstrument(InstrumentParams{
		Volume: 1,
		Effects: []fxchain.Settings{{
			Type: fxchain.EffectGain,
			Num:  map[string]float64{"volume": 1},
		}},
	})
	if err != nil {
		t.Fatalf("AddInstrument: %v", err)
	}

	env, err := e.Envelope(idx)
	if err != nil {
		t.Fatalf("Envelope: %v", err)
	}

	env.Set(automation.TargetMixVolume, 0.25, 0.25)

	if _, err := e.NoteOn(idx, 440, 1); err != nil {
		t.Fatalf("NoteOn: %v", err)
	}

	quiet := make([]float64, 8192)
	e.Render(quiet, make([]float64, 8192))

	env.Set(automation.TargetMixVolume, 1, 1)

	loud := make([]float64, 8192)
	e.Render(loud, make([]float64, 8192))

	quietPeak := testutil.PeakLevel(quiet)
	loudPeak := testutil.PeakLevel(loud)

	if quietPeak == 0 || loudPeak == 0 {
		t.Fatalf("peaks %g/%g, want audible output", quietPeak, loudPeak)
	}

	ratio := quietPeak / loudPeak
	if ratio < 0.2 || ratio > 0.3 {
		t.Fatalf("envelope attenuation ratio = %g, want near 0.25", ratio)
	}
}

func TestChipWaveInstrumentRendersLoop(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	square := &tone.ChipWave{Samples: []float64{1, 1, 1, 1, -1, -1, -1, -1}}

	idx, err := e.AddInstrument(InstrumentParams{Volume: 0.5, Wave: square})
	if err != nil {
		t.Fatalf("AddInstrument: %v", err)
	}

	if _, err := e.NoteOn(idx, 220, 1); err != nil {
		t.Fatalf("NoteOn: %v", err)
	}

	left := make([]float64, 8192)
	right := make([]float64, 8192)
	e.Render(left, right)

	testutil.RequireFinite(t, left)

	if testutil.PeakLevel(left) == 0 {
		t.Fatal("chip wave rendered silence")
	}

	atTone, err := spectrum.TonePower(left, 220, testSampleRate)
	if err != nil {
		t.Fatalf("TonePower: %v", err)
	}

	if atTone <= 0 {
		t.Fatal("no fundamental energy from chip wave")
	}
}

func TestPitchBendReachesTargetNextTick(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	idx, err := e.AddInstrument(InstrumentParams{Volume: 1})
	if err != nil {
		t.Fatalf("AddInstrument: %v", err)
	}

	handle, err := e.NoteOn(idx, 440, 1)
	if err != nil {
		t.Fatalf("NoteOn: %v", err)
	}

	e.BendPitch(handle, 12)
	e.NextTick()

	if handle.PitchBend != 12 {
		t.Fatalf("bend after tick = %g, want 12", handle.PitchBend)
	}

	if handle.PrevPitchBend != 0 {
		t.Fatalf("previous bend = %g, want 0", handle.PrevPitchBend)
	}
}
