package gpio

import (
	"sync"
	"testing"
	"time"
)

type recordingLine struct {
	mu     sync.Mutex
	values []int
}

func (r *recordingLine) set(v int) error {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
	return nil
}

func (r *recordingLine) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.values...)
}

func TestToneTogglesAndStopsLow(t *testing.T) {
	line := &recordingLine{}
	tn := newTone(line.set, 1000)

	tn.Start()
	if !tn.Sounding() {
		t.Fatal("expected tone to be sounding")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(line.snapshot()) < 4 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	tn.Stop()

	values := line.snapshot()
	if len(values) < 4 {
		t.Fatalf("expected the line to toggle, got %v", values)
	}
	if values[0] != 1 || values[1] != 0 {
		t.Errorf("expected alternating levels starting high, got %v", values[:2])
	}
	if values[len(values)-1] != 0 {
		t.Errorf("line should be left low, got %d", values[len(values)-1])
	}
	if tn.Sounding() {
		t.Error("tone still sounding after Stop")
	}
}

func TestToneIdempotent(t *testing.T) {
	line := &recordingLine{}
	tn := newTone(line.set, 1000)

	tn.Stop() // stop before start is a no-op
	tn.Start()
	tn.Start()
	tn.Stop()
	tn.Stop()

	if tn.Sounding() {
		t.Error("tone should be stopped")
	}
}
