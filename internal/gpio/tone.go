package gpio

import (
	"sync"
	"time"
)

// tone toggles an output line at a fixed frequency from its own goroutine.
// Start and Stop are idempotent and safe for concurrent use.
type tone struct {
	set    func(value int) error
	period time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func newTone(set func(value int) error, hz int) *tone {
	return &tone{
		set:    set,
		period: time.Second / time.Duration(hz),
	}
}

// Start begins the tone if it is not already sounding.
func (t *tone) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(t.stop, t.done)
}

// Stop silences the tone and waits for the line to be released low.
func (t *tone) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Sounding reports whether the tone is running.
func (t *tone) Sounding() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *tone) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	half := time.NewTicker(t.period / 2)
	defer half.Stop()

	level := 0
	for {
		select {
		case <-stop:
			_ = t.set(0)
			return
		case <-half.C:
			level ^= 1
			_ = t.set(level)
		}
	}
}
