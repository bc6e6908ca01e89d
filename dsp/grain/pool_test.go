package grain

import (
	"math"
	"testing"
)

func TestParabolicEnvelopeZeroAtEndsPeakAtMidpoint(t *testing.T) {
	var g Grain

	dur := 200
	g.InitParabolic(dur, 0.8)

	if g.Envelope() != 0 {
		t.Fatalf("envelope at age 0: got %v, want 0", g.Envelope())
	}

	var peak float64
	peakAge := 0
	last := 0.0

	for g.Advance() {
		v := g.Envelope()
		if v > peak {
			peak = v
			peakAge = g.AgeInSamples
		}

		last = v
	}

	if math.Abs(peak-0.8) > 0.01 {
		t.Fatalf("peak amplitude: got %v, want 0.8", peak)
	}

	if d := math.Abs(float64(peakAge) - float64(dur)/2); d > 2 {
		t.Fatalf("peak age: got %d, want near %d", peakAge, dur/2)
	}

	if last > 0.02 {
		t.Fatalf("envelope at end: got %v, want near 0", last)
	}
}

func TestRaisedCosineBellShape(t *testing.T) {
	var g Grain

	dur := 600
	g.InitRaisedCosineBell(dur, 0.5)

	if g.Envelope() != 0 {
		t.Fatalf("envelope at age 0: got %v, want 0", g.Envelope())
	}

	// Advance into the flat middle region.
	for i := 0; i < dur/2; i++ {
		g.Advance()
	}

	if math.Abs(g.Envelope()-0.5) > 1e-12 {
		t.Fatalf("sustain amplitude: got %v, want 0.5", g.Envelope())
	}

	// The attack must be monotonically rising through the first sixth.
	var h Grain

	h.InitRaisedCosineBell(dur, 0.5)
	prev := h.Envelope()

	for i := 0; i < dur/6; i++ {
		h.Advance()

		v := h.Envelope()
		if v < prev-1e-12 {
			t.Fatalf("attack not monotonic at age %d: %v < %v", h.AgeInSamples, v, prev)
		}

		prev = v
	}
}

func TestGrainAgeNeverExceedsMaxAge(t *testing.T) {
	var g Grain

	g.InitParabolic(50, 1)

	for g.Advance() {
		if g.AgeInSamples > g.MaxAgeInSamples {
			t.Fatalf("live grain aged past max: %d > %d", g.AgeInSamples, g.MaxAgeInSamples)
		}
	}
}

func TestPoolSpawnRespectsCeiling(t *testing.T) {
	p := NewPool(8, 1)
	p.SetMaxCount(3)

	for i := 0; i < 3; i++ {
		if p.Spawn() == nil {
			t.Fatalf("spawn %d failed below ceiling", i)
		}
	}

	if p.Spawn() != nil {
		t.Fatal("spawn succeeded at ceiling")
	}

	if p.Len() != 3 {
		t.Fatalf("live count: got %d, want 3", p.Len())
	}
}

func TestPoolSetMaxCountClampsToCapacity(t *testing.T) {
	p := NewPool(4, 1)

	p.SetMaxCount(100)
	if p.MaxCount() != 4 {
		t.Fatalf("ceiling above capacity: got %d, want 4", p.MaxCount())
	}

	p.SetMaxCount(-3)
	if p.MaxCount() != 0 {
		t.Fatalf("negative ceiling: got %d, want 0", p.MaxCount())
	}
}

func TestPoolLoweredCeilingDoesNotCutLiveGrains(t *testing.T) {
	p := NewPool(8, 1)

	for i := 0; i < 5; i++ {
		g := p.Spawn()
		g.InitParabolic(10, 1)
	}

	p.SetMaxCount(2)

	if p.Len() != 5 {
		t.Fatalf("live grains after lowering ceiling: got %d, want 5", p.Len())
	}

	if p.Spawn() != nil {
		t.Fatal("spawn succeeded above lowered ceiling")
	}
}

func TestPoolRetireSwapsWithLast(t *testing.T) {
	p := NewPool(8, 1)

	for i := 0; i < 3; i++ {
		g := p.Spawn()
		g.Position = float64(i)
	}

	p.Retire(0)

	if p.Len() != 2 {
		t.Fatalf("live count after retire: got %d, want 2", p.Len())
	}

	if p.Grain(0).Position != 2 {
		t.Fatalf("slot 0 after retire: got position %v, want 2 (swapped from last)", p.Grain(0).Position)
	}
}

func TestSpawnBudgetBoundedAndBiasedLow(t *testing.T) {
	p := NewPool(8, 42)

	total := 0
	for i := 0; i < 10000; i++ {
		b := p.SpawnBudget()
		if b < 0 || b >= MaxSpawnsPerTick {
			t.Fatalf("budget out of range: %d", b)
		}

		total += b
	}

	// E[floor(10*r^2)] is about 2.9; a uniform draw would average about 4.5.
	mean := float64(total) / 10000
	if mean > 3.5 {
		t.Fatalf("budget mean %v suggests draw is not squared", mean)
	}
}

func TestPoolResetPreservesCapacity(t *testing.T) {
	p := NewPool(8, 1)
	p.Spawn()
	p.Spawn()

	p.Reset()

	if p.Len() != 0 {
		t.Fatalf("live count after reset: got %d, want 0", p.Len())
	}

	if p.Cap() != 8 {
		t.Fatalf("capacity after reset: got %d, want 8", p.Cap())
	}
}
