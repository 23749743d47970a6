// Package logic contains the pure display and protocol logic of the alarm clock.
// This package has NO external dependencies (no GPIO, serial, MQTT, OS, or time.Sleep).
// Hardware effects are returned as values for the caller to apply.
package logic

import "errors"

// Display geometry.
const (
	// NumDigits is the number of multiplexed 7-segment digits.
	NumDigits = 4
	// RingSize is the number of logical positions on the LED ring.
	RingSize = 12
)

// LineCapacity is the size of the serial receive line buffer.
const LineCapacity = 32

// LineTerminator ends every inbound line.
const LineTerminator = '\n'

// MinSyncLength is the number of characters carrying the timestamp.
const MinSyncLength = 14

// ErrShortLine is returned by ParseSync for lines that cannot hold a timestamp.
var ErrShortLine = errors.New("sync line too short")

// Button identifies one of the two front-panel buttons.
type Button string

const (
	ButtonLeft  Button = "L"
	ButtonRight Button = "R"
)

// Frame describes what the multiplexer wants on the display for one pass.
// When Lit is false the display stays blanked for the whole pass.
type Frame struct {
	Position int
	Value    int
	Pattern  byte
	Lit      bool
}

// Digits is the time as the display shows it.
type Digits struct {
	Hour12 int // 1..12
	Minute int // 0..59
}

// LedWrite is a single ring LED level change.
type LedWrite struct {
	Position int // 0..RingSize-1
	On       bool
}

// SyncMessage is a decoded inbound sync line.
// Optional flags are nil when the line is too short to carry them.
type SyncMessage struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int

	Relay  *bool
	Buzzer *bool
	Lights *bool
}
