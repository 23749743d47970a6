package logic

// Segment bit order is a b c d e f g dp, MSB first, matching the shift
// register wiring when shifted out LSB first.
var digitPatterns = [10]byte{
	0b11111100, // 0
	0b01100000, // 1
	0b11011010, // 2
	0b11110010, // 3
	0b01100110, // 4
	0b10110110, // 5
	0b10111110, // 6
	0b11100000, // 7
	0b11111110, // 8
	0b11110110, // 9
}

// BlankPattern lights no segment.
const BlankPattern byte = 0b00000000

// IndicatorSegment is the decimal point bit, always lit on the hour ones digit.
const IndicatorSegment byte = 0b00000001

// IndicatorPosition is the digit that carries the indicator segment.
const IndicatorPosition = 1

// Encode returns the 7-segment pattern for a decimal digit.
// Values outside 0..9 encode as blank.
func Encode(digit int) byte {
	if digit < 0 || digit > 9 {
		return BlankPattern
	}
	return digitPatterns[digit]
}

// EncodeAt returns the pattern for digit at the given display position,
// with the indicator segment forced on for IndicatorPosition.
func EncodeAt(position, digit int) byte {
	p := Encode(digit)
	if position == IndicatorPosition {
		p |= IndicatorSegment
	}
	return p
}
