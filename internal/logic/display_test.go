package logic

import "testing"

func TestHour12(t *testing.T) {
	tests := map[int]int{0: 12, 1: 1, 9: 9, 11: 11, 12: 12, 13: 1, 21: 9, 23: 11}
	for in, want := range tests {
		if got := Hour12(in); got != want {
			t.Errorf("Hour12(%d): got %d, want %d", in, got, want)
		}
	}
}

func TestDigitValue(t *testing.T) {
	d := Digits{Hour12: 10, Minute: 37}
	want := [NumDigits]int{1, 0, 3, 7}
	for pos := 0; pos < NumDigits; pos++ {
		if got := DigitValue(pos, d); got != want[pos] {
			t.Errorf("position %d: got %d, want %d", pos, got, want[pos])
		}
	}
}

func TestFrameLeadingZeroSuppression(t *testing.T) {
	for h := 1; h <= 9; h++ {
		f := FrameFor(0, Digits{Hour12: h, Minute: 30}, false)
		if f.Lit {
			t.Errorf("hour %d: position 0 should stay blank", h)
		}
	}
	for h := 10; h <= 12; h++ {
		f := FrameFor(0, Digits{Hour12: h, Minute: 30}, false)
		if !f.Lit {
			t.Errorf("hour %d: position 0 should be driven", h)
		}
		if f.Pattern != Encode(1) {
			t.Errorf("hour %d: pattern got %08b, want %08b", h, f.Pattern, Encode(1))
		}
	}
}

func TestFrameMinuteTensZeroIsShown(t *testing.T) {
	f := FrameFor(2, Digits{Hour12: 2, Minute: 5}, false)
	if !f.Lit {
		t.Fatal("minute tens zero must be driven")
	}
	if f.Pattern != Encode(0) {
		t.Errorf("pattern: got %08b, want %08b", f.Pattern, Encode(0))
	}
}

func TestFrameIndicatorOnHourOnes(t *testing.T) {
	f := FrameFor(1, Digits{Hour12: 2, Minute: 30}, false)
	if !f.Lit {
		t.Fatal("position 1 should be driven")
	}
	if f.Pattern != Encode(2)|IndicatorSegment {
		t.Errorf("pattern: got %08b, want %08b", f.Pattern, Encode(2)|IndicatorSegment)
	}
}

func TestFrameDimBlanksEverything(t *testing.T) {
	d := Digits{Hour12: 12, Minute: 59}
	for pos := 0; pos < NumDigits; pos++ {
		f := FrameFor(pos, d, true)
		if f.Lit {
			t.Errorf("position %d lit while dim", pos)
		}
		if f.Value != DigitValue(pos, d) {
			t.Errorf("position %d: value got %d, want %d", pos, f.Value, DigitValue(pos, d))
		}
	}
}

func TestMultiplexerCyclesPositions(t *testing.T) {
	var m Multiplexer
	d := Digits{Hour12: 12, Minute: 34}

	for pass := 0; pass < 3*NumDigits; pass++ {
		wantPos := pass % NumDigits
		if m.Position() != wantPos {
			t.Fatalf("pass %d: position got %d, want %d", pass, m.Position(), wantPos)
		}
		f, wrapped := m.Step(d, false)
		if f.Position != wantPos {
			t.Errorf("pass %d: frame position got %d, want %d", pass, f.Position, wantPos)
		}
		if wrapped != (wantPos == NumDigits-1) {
			t.Errorf("pass %d: wrapped got %v", pass, wrapped)
		}
	}
}

func TestMultiplexerShowsTime(t *testing.T) {
	var m Multiplexer
	d := Digits{Hour12: 2, Minute: 30}
	var lit []int
	var patterns []byte
	for i := 0; i < NumDigits; i++ {
		f, _ := m.Step(d, false)
		if f.Lit {
			lit = append(lit, f.Position)
			patterns = append(patterns, f.Pattern)
		}
	}

	if len(lit) != 3 || lit[0] != 1 || lit[1] != 2 || lit[2] != 3 {
		t.Fatalf("lit positions: got %v, want [1 2 3]", lit)
	}
	want := []byte{Encode(2) | IndicatorSegment, Encode(3), Encode(0)}
	for i := range want {
		if patterns[i] != want[i] {
			t.Errorf("pattern %d: got %08b, want %08b", i, patterns[i], want[i])
		}
	}
}
