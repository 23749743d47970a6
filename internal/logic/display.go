package logic

// Multiplexer selects one digit of the display per main-loop pass.
//
// Positions 0 and 1 show the 12-hour hour (tens, ones), positions 2 and 3 the
// minute. A position is left blank while the display is in its dim blink
// phase, and position 0 is left blank when the hour has no tens digit.
type Multiplexer struct {
	position int
}

// Position returns the digit that the next call to Step will drive.
func (m *Multiplexer) Position() int {
	return m.position
}

// Step computes the frame for the current position and advances to the next
// one. wrapped is true when the pass completed a full cycle of all digits.
func (m *Multiplexer) Step(d Digits, dim bool) (f Frame, wrapped bool) {
	f = FrameFor(m.position, d, dim)
	m.position++
	if m.position == NumDigits {
		m.position = 0
		wrapped = true
	}
	return f, wrapped
}

// FrameFor computes the frame for a single position without touching any
// multiplexer state.
func FrameFor(position int, d Digits, dim bool) Frame {
	value := DigitValue(position, d)
	f := Frame{Position: position, Value: value}
	if dim {
		return f
	}
	if position == 0 && value == 0 {
		return f
	}
	f.Pattern = EncodeAt(position, value)
	f.Lit = true
	return f
}

// DigitValue returns the decimal digit shown at position.
func DigitValue(position int, d Digits) int {
	switch position {
	case 0:
		return d.Hour12 / 10
	case 1:
		return d.Hour12 % 10
	case 2:
		return d.Minute / 10
	case 3:
		return d.Minute % 10
	default:
		return 0
	}
}

// Hour12 converts a 24-hour hour to the 1..12 form shown on the display.
func Hour12(hour int) int {
	h := hour % 12
	if h == 0 {
		return 12
	}
	return h
}
