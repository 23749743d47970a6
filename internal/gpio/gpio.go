// Package gpio drives the clock hardware with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the two front-panel buttons.
type Reader interface {
	// Read returns the logical pressed states of the left and right buttons.
	// The buttons are active-low: raw 0 = logical pressed.
	// Returns (leftPressed, rightPressed, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Display drives the multiplexed 7-segment display.
type Display interface {
	// Blank disables all digit cathodes.
	Blank() error
	// Show shifts a segment pattern into the register and enables the
	// cathode of the given digit.
	Show(digit int, pattern byte) error
}

// Outputs drives the relay and the buzzer.
type Outputs interface {
	SetRelay(on bool) error
	// SetBuzzer starts or stops the buzzer tone.
	SetBuzzer(on bool) error
}

// Ring drives the LED ring.
type Ring interface {
	// SetLED sets the LED at a logical ring position (0..11).
	SetLED(position int, on bool) error
	// AllOff turns every LED line off.
	AllOff() error
}

// Panel is the complete set of clock hardware.
type Panel interface {
	Reader
	Display
	Outputs
	Ring
}

// Default pin definitions (BCM numbering).
const (
	DefaultPinDigit1 = 4
	DefaultPinDigit2 = 17
	DefaultPinDigit3 = 27
	DefaultPinDigit4 = 22
	DefaultPinClock  = 23
	DefaultPinLatch  = 24
	DefaultPinData   = 25
	DefaultPinRelay  = 5
	DefaultPinBuzzer = 13
	DefaultPinLeft   = 16
	DefaultPinRight  = 26
)

// DefaultLEDPins are the LED lines, one per physical LED.
var DefaultLEDPins = []int{6, 12, 18, 19, 20, 21, 7}

// Pins is the board wiring.
type Pins struct {
	Chip   string
	Digits [4]int
	Clock  int
	Latch  int
	Data   int
	Relay  int
	Buzzer int
	Left   int
	Right  int
	LEDs   []int
}

// DefaultPins returns the reference board wiring.
func DefaultPins() Pins {
	return Pins{
		Chip:   "gpiochip0",
		Digits: [4]int{DefaultPinDigit1, DefaultPinDigit2, DefaultPinDigit3, DefaultPinDigit4},
		Clock:  DefaultPinClock,
		Latch:  DefaultPinLatch,
		Data:   DefaultPinData,
		Relay:  DefaultPinRelay,
		Buzzer: DefaultPinBuzzer,
		Left:   DefaultPinLeft,
		Right:  DefaultPinRight,
		LEDs:   append([]int(nil), DefaultLEDPins...),
	}
}

// RingLines maps each of the 12 logical ring positions to an index into
// Pins.LEDs. The ring is folded onto 7 LEDs: positions 7..11 reuse the LEDs
// of 5..1 in reverse, so the lit segment sweeps out and back.
var RingLines = [12]int{0, 1, 2, 3, 4, 5, 6, 5, 4, 3, 2, 1}

// ToneHz is the buzzer frequency.
const ToneHz = 1047
