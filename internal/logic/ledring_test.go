package logic

import "testing"

func TestLedRingStepsWithinIndex(t *testing.T) {
	var r LedRing
	want := []LedWrite{
		{Position: 0, On: true},
		{Position: 1, On: true},
		{Position: 2, On: true},
		{Position: 0, On: false},
	}
	for i, w := range want {
		got, ok := r.Advance(true)
		if !ok {
			t.Fatalf("step %d: expected a write", i)
		}
		if got != w {
			t.Errorf("step %d: got %+v, want %+v", i, got, w)
		}
	}
	if r.Index() != 1 || r.SubPhase() != 0 {
		t.Errorf("after one cycle: index=%d subPhase=%d, want 1/0", r.Index(), r.SubPhase())
	}
}

func TestLedRingWrapsAtRingSize(t *testing.T) {
	var r LedRing
	for i := 0; i < (RingSize-1)*RingSubPhases; i++ {
		r.Advance(true)
	}
	if r.Index() != RingSize-1 {
		t.Fatalf("index: got %d, want %d", r.Index(), RingSize-1)
	}

	// Offsets wrap past the end of the ring.
	w, _ := r.Advance(true)
	if w.Position != 11 {
		t.Errorf("offset 0: got %d, want 11", w.Position)
	}
	w, _ = r.Advance(true)
	if w.Position != 0 {
		t.Errorf("offset 1: got %d, want 0", w.Position)
	}
	w, _ = r.Advance(true)
	if w.Position != 1 {
		t.Errorf("offset 2: got %d, want 1", w.Position)
	}
	r.Advance(true)

	if r.Index() != 0 {
		t.Errorf("index after wrap: got %d, want 0", r.Index())
	}
}

func TestLedRingLightsOffStillCounts(t *testing.T) {
	var r LedRing
	for i := 0; i < RingSubPhases; i++ {
		if _, ok := r.Advance(false); ok {
			t.Fatalf("step %d: unexpected write with lights off", i)
		}
	}
	if r.Index() != 1 {
		t.Errorf("index: got %d, want 1", r.Index())
	}
}

func TestLedRingInvariants(t *testing.T) {
	var r LedRing
	for i := 0; i < 10*RingSize*RingSubPhases+3; i++ {
		w, _ := r.Advance(i%3 != 0)
		if r.Index() < 0 || r.Index() >= RingSize {
			t.Fatalf("step %d: index out of range: %d", i, r.Index())
		}
		if r.SubPhase() < 0 || r.SubPhase() >= RingSubPhases {
			t.Fatalf("step %d: subPhase out of range: %d", i, r.SubPhase())
		}
		if w.Position < 0 || w.Position >= RingSize {
			t.Fatalf("step %d: write position out of range: %d", i, w.Position)
		}
	}
}
