package logic

import "testing"

func TestEncodeTruthTable(t *testing.T) {
	want := map[int]byte{
		0: 0b11111100,
		1: 0b01100000,
		2: 0b11011010,
		3: 0b11110010,
		4: 0b01100110,
		5: 0b10110110,
		6: 0b10111110,
		7: 0b11100000,
		8: 0b11111110,
		9: 0b11110110,
	}
	for digit, pattern := range want {
		if got := Encode(digit); got != pattern {
			t.Errorf("Encode(%d): got %08b, want %08b", digit, got, pattern)
		}
	}
}

func TestEncodeDigitsLeaveIndicatorClear(t *testing.T) {
	for d := 0; d <= 9; d++ {
		if Encode(d)&IndicatorSegment != 0 {
			t.Errorf("Encode(%d) has indicator bit set: %08b", d, Encode(d))
		}
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	for _, d := range []int{-1, 10, 42} {
		if got := Encode(d); got != BlankPattern {
			t.Errorf("Encode(%d): got %08b, want blank", d, got)
		}
	}
}

func TestEncodeAtIndicatorPosition(t *testing.T) {
	for d := 0; d <= 9; d++ {
		got := EncodeAt(IndicatorPosition, d)
		if got&IndicatorSegment == 0 {
			t.Errorf("EncodeAt(1, %d): indicator bit not set: %08b", d, got)
		}
		if got&^IndicatorSegment != Encode(d) {
			t.Errorf("EncodeAt(1, %d): segments changed: got %08b, want %08b", d, got, Encode(d)|IndicatorSegment)
		}
	}
}

func TestEncodeAtOtherPositions(t *testing.T) {
	for _, pos := range []int{0, 2, 3} {
		for d := 0; d <= 9; d++ {
			if got := EncodeAt(pos, d); got != Encode(d) {
				t.Errorf("EncodeAt(%d, %d): got %08b, want %08b", pos, d, got, Encode(d))
			}
		}
	}
}
