package logic

import (
	"fmt"
	"strings"
	"time"
)

// Character offsets of the optional flags in a sync line.
const (
	offsetRelay  = 14
	offsetBuzzer = 15
	offsetLights = 16
)

// ParseSync decodes a sync line of the form YYYYMMDDHHMMSS[R[B[L]]].
//
// Digits are converted with c-'0' and not validated; non-digit characters
// produce meaningless numbers rather than an error. Each flag is present only
// when the line reaches its offset, so a buzzer flag requires a relay flag and
// a lights flag requires both. A flag is true only for the character '1'.
// Lines shorter than MinSyncLength return ErrShortLine.
func ParseSync(line string) (SyncMessage, error) {
	// Lines were C strings on the wire; nothing after a NUL is data.
	if i := strings.IndexByte(line, 0); i >= 0 {
		line = line[:i]
	}
	if len(line) < MinSyncLength {
		return SyncMessage{}, fmt.Errorf("%w: %d of %d characters", ErrShortLine, len(line), MinSyncLength)
	}

	msg := SyncMessage{
		Year:   number(line[0:4]),
		Month:  number(line[4:6]),
		Day:    number(line[6:8]),
		Hour:   number(line[8:10]),
		Minute: number(line[10:12]),
		Second: number(line[12:14]),
	}

	if len(line) > offsetRelay {
		msg.Relay = flag(line[offsetRelay])
		if len(line) > offsetBuzzer {
			msg.Buzzer = flag(line[offsetBuzzer])
			if len(line) > offsetLights {
				msg.Lights = flag(line[offsetLights])
			}
		}
	}

	return msg, nil
}

// number folds a run of characters into a decimal value without validation.
func number(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]) - '0'
	}
	return n
}

func flag(c byte) *bool {
	v := c == '1'
	return &v
}

// FormatTimestamp renders t as the zero-padded YYYYMMDDHHMMSS telemetry string.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%04d%02d%02d%02d%02d%02d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// FormatSync renders a sync line carrying the given time and all three flags,
// the form the host sends.
func FormatSync(t time.Time, relay, buzzer, lights bool) string {
	return FormatTimestamp(t) + flagChar(relay) + flagChar(buzzer) + flagChar(lights)
}

func flagChar(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
