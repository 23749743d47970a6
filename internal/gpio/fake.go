package gpio

import (
	"errors"
	"sync"
)

// FakePanel is a test double that returns scripted button values and records
// every output write.
type FakePanel struct {
	mu sync.Mutex

	// Samples contains scripted (left, right) values to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error

	// WriteError, if set, will be returned by every output method.
	WriteError error

	// Ops records display operations in order.
	Ops []DisplayOp

	// Cathodes holds the enabled state of each digit.
	Cathodes [4]bool

	// Relay and Buzzer hold the last written output levels.
	Relay  bool
	Buzzer bool

	// RelayWrites and BuzzerWrites count output writes.
	RelayWrites  int
	BuzzerWrites int

	// LEDs holds the level of each physical LED line.
	LEDs [7]bool

	// RingWrites records SetLED calls in order.
	RingWrites []RingWrite

	// AllOffCalls counts AllOff calls.
	AllOffCalls int
}

// Sample represents a single button reading (already in logical form).
type Sample struct {
	Left  bool // true = pressed
	Right bool // true = pressed
}

// DisplayOp is one recorded display operation.
type DisplayOp struct {
	Blank   bool
	Digit   int
	Pattern byte
}

// RingWrite is one recorded SetLED call.
type RingWrite struct {
	Position int
	On       bool
}

// NewFakePanel creates a FakePanel with the given button samples.
func NewFakePanel(samples []Sample) *FakePanel {
	return &FakePanel{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakePanel) Read() (bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ReadError != nil {
		return false, false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.Left, sample.Right, nil
}

// Blank disables every cathode.
func (f *FakePanel) Blank() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Cathodes = [4]bool{}
	f.Ops = append(f.Ops, DisplayOp{Blank: true})
	return nil
}

// Show enables a single cathode with the given pattern.
func (f *FakePanel) Show(digit int, pattern byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	if digit < 0 || digit >= len(f.Cathodes) {
		return errors.New("digit out of range")
	}
	f.Cathodes[digit] = true
	f.Ops = append(f.Ops, DisplayOp{Digit: digit, Pattern: pattern})
	return nil
}

// SetRelay records the relay level.
func (f *FakePanel) SetRelay(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Relay = on
	f.RelayWrites++
	return nil
}

// SetBuzzer records the buzzer state.
func (f *FakePanel) SetBuzzer(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Buzzer = on
	f.BuzzerWrites++
	return nil
}

// SetLED records a ring write and updates the LED line behind it.
func (f *FakePanel) SetLED(position int, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	if position < 0 || position >= len(RingLines) {
		return errors.New("ring position out of range")
	}
	f.LEDs[RingLines[position]] = on
	f.RingWrites = append(f.RingWrites, RingWrite{Position: position, On: on})
	return nil
}

// AllOff clears every LED line.
func (f *FakePanel) AllOff() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	f.LEDs = [7]bool{}
	f.AllOffCalls++
	return nil
}

// Close marks the panel as closed.
func (f *FakePanel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// LitDigits returns how many cathodes are currently enabled.
func (f *FakePanel) LitDigits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, on := range f.Cathodes {
		if on {
			n++
		}
	}
	return n
}

// Outputs returns the current relay and buzzer levels.
func (f *FakePanel) Outputs() (relay, buzzer bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Relay, f.Buzzer
}

// RelayWriteCount returns how many times the relay was written.
func (f *FakePanel) RelayWriteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.RelayWrites
}

// Reset resets the panel to the beginning of samples and clears recordings.
func (f *FakePanel) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index = 0
	f.Closed = false
	f.Ops = nil
	f.Cathodes = [4]bool{}
	f.RingWrites = nil
	f.LEDs = [7]bool{}
	f.AllOffCalls = 0
	f.RelayWrites = 0
	f.BuzzerWrites = 0
}
