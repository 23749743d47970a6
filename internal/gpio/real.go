//go:build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// RealPanel drives the clock from actual hardware using Linux GPIO character device.
type RealPanel struct {
	// mu serialises line access between the display loop and the tick task.
	mu sync.Mutex

	chip    *gpiocdev.Chip
	digits  [4]*gpiocdev.Line
	clock   *gpiocdev.Line
	latch   *gpiocdev.Line
	data    *gpiocdev.Line
	relay   *gpiocdev.Line
	buzzer  *gpiocdev.Line
	left    *gpiocdev.Line
	right   *gpiocdev.Line
	leds    []*gpiocdev.Line
	tone    *tone
	claimed []*gpiocdev.Line
}

// NewRealPanel claims every line of the board wiring.
func NewRealPanel(pins Pins) (*RealPanel, error) {
	chip, err := gpiocdev.NewChip(pins.Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	p := &RealPanel{chip: chip}

	// Cathodes are active-low; start with every digit off.
	for i, pin := range pins.Digits {
		if p.digits[i], err = p.request(pin, fmt.Sprintf("digit %d", i+1), gpiocdev.AsOutput(1)); err != nil {
			p.Close()
			return nil, err
		}
	}
	outputs := []struct {
		line **gpiocdev.Line
		pin  int
		name string
	}{
		{&p.clock, pins.Clock, "clock"},
		{&p.latch, pins.Latch, "latch"},
		{&p.data, pins.Data, "data"},
		{&p.relay, pins.Relay, "relay"},
		{&p.buzzer, pins.Buzzer, "buzzer"},
	}
	for _, o := range outputs {
		if *o.line, err = p.request(o.pin, o.name, gpiocdev.AsOutput(0)); err != nil {
			p.Close()
			return nil, err
		}
	}

	// Buttons pull up and short to ground when pressed.
	if p.left, err = p.request(pins.Left, "left button", gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		p.Close()
		return nil, err
	}
	if p.right, err = p.request(pins.Right, "right button", gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		p.Close()
		return nil, err
	}

	for i, pin := range pins.LEDs {
		l, err := p.request(pin, fmt.Sprintf("led %d", i), gpiocdev.AsOutput(0))
		if err != nil {
			p.Close()
			return nil, err
		}
		p.leds = append(p.leds, l)
	}
	if len(p.leds) <= maxRingLine() {
		p.Close()
		return nil, fmt.Errorf("need %d LED pins, got %d", maxRingLine()+1, len(p.leds))
	}

	p.tone = newTone(p.buzzer.SetValue, ToneHz)
	return p, nil
}

func (p *RealPanel) request(pin int, name string, opts ...gpiocdev.LineReqOption) (*gpiocdev.Line, error) {
	opts = append(opts, gpiocdev.WithConsumer("alarm-clock"))
	l, err := p.chip.RequestLine(pin, opts...)
	if err != nil {
		return nil, fmt.Errorf("request %s pin %d: %w", name, pin, err)
	}
	p.claimed = append(p.claimed, l)
	return l, nil
}

func maxRingLine() int {
	m := 0
	for _, l := range RingLines {
		if l > m {
			m = l
		}
	}
	return m
}

// Read returns the logical pressed states of the left and right buttons.
// Inverts raw GPIO: raw 0 (pulled to ground) = pressed.
func (p *RealPanel) Read() (bool, bool, error) {
	leftRaw, err := p.left.Value()
	if err != nil {
		return false, false, fmt.Errorf("read left button: %w", err)
	}
	rightRaw, err := p.right.Value()
	if err != nil {
		return false, false, fmt.Errorf("read right button: %w", err)
	}
	return leftRaw == 0, rightRaw == 0, nil
}

// Blank drives every cathode high.
func (p *RealPanel) Blank() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blank()
}

func (p *RealPanel) blank() error {
	for i, l := range p.digits {
		if err := l.SetValue(1); err != nil {
			return fmt.Errorf("blank digit %d: %w", i+1, err)
		}
	}
	return nil
}

// Show shifts pattern out LSB first and enables the cathode of digit.
func (p *RealPanel) Show(digit int, pattern byte) error {
	if digit < 0 || digit >= len(p.digits) {
		return fmt.Errorf("digit %d out of range", digit)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.latch.SetValue(0); err != nil {
		return fmt.Errorf("latch low: %w", err)
	}
	for i := 0; i < 8; i++ {
		if err := p.data.SetValue(int(pattern>>i) & 1); err != nil {
			return fmt.Errorf("shift data: %w", err)
		}
		if err := p.clock.SetValue(1); err != nil {
			return fmt.Errorf("shift clock: %w", err)
		}
		if err := p.clock.SetValue(0); err != nil {
			return fmt.Errorf("shift clock: %w", err)
		}
	}
	if err := p.digits[digit].SetValue(0); err != nil {
		return fmt.Errorf("enable digit %d: %w", digit+1, err)
	}
	if err := p.latch.SetValue(1); err != nil {
		return fmt.Errorf("latch high: %w", err)
	}
	return nil
}

// SetRelay drives the relay line.
func (p *RealPanel) SetRelay(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.relay.SetValue(level(on)); err != nil {
		return fmt.Errorf("set relay: %w", err)
	}
	return nil
}

// SetBuzzer starts or stops the buzzer tone.
func (p *RealPanel) SetBuzzer(on bool) error {
	if on {
		p.tone.Start()
	} else {
		p.tone.Stop()
	}
	return nil
}

// SetLED sets the LED behind a logical ring position.
func (p *RealPanel) SetLED(position int, on bool) error {
	if position < 0 || position >= len(RingLines) {
		return fmt.Errorf("ring position %d out of range", position)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.leds[RingLines[position]].SetValue(level(on)); err != nil {
		return fmt.Errorf("set led %d: %w", position, err)
	}
	return nil
}

// AllOff turns every LED line off.
func (p *RealPanel) AllOff() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, l := range p.leds {
		if err := l.SetValue(0); err != nil {
			return fmt.Errorf("clear led line %d: %w", i, err)
		}
	}
	return nil
}

// Close silences the panel and releases GPIO resources.
// Lines are reconfigured as inputs before closing so nothing is left driven
// across a reboot.
func (p *RealPanel) Close() error {
	var errs []error

	if p.tone != nil {
		p.tone.Stop()
	}
	for _, l := range p.claimed {
		if err := l.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure line %d: %w", l.Offset(), err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line %d: %w", l.Offset(), err))
		}
	}
	p.claimed = nil
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		p.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func level(on bool) int {
	if on {
		return 1
	}
	return 0
}
