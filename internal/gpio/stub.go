//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported")

// RealPanel is not available on non-Linux platforms.
type RealPanel struct{}

// NewRealPanel returns an error on non-Linux platforms.
func NewRealPanel(pins Pins) (*RealPanel, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (p *RealPanel) Read() (bool, bool, error) { return false, false, errUnsupported }

// Blank is not implemented on non-Linux platforms.
func (p *RealPanel) Blank() error { return errUnsupported }

// Show is not implemented on non-Linux platforms.
func (p *RealPanel) Show(digit int, pattern byte) error { return errUnsupported }

// SetRelay is not implemented on non-Linux platforms.
func (p *RealPanel) SetRelay(on bool) error { return errUnsupported }

// SetBuzzer is not implemented on non-Linux platforms.
func (p *RealPanel) SetBuzzer(on bool) error { return errUnsupported }

// SetLED is not implemented on non-Linux platforms.
func (p *RealPanel) SetLED(position int, on bool) error { return errUnsupported }

// AllOff is not implemented on non-Linux platforms.
func (p *RealPanel) AllOff() error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (p *RealPanel) Close() error {
	return nil
}
