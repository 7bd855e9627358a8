package morse

import (
	"math"
	"testing"
)

func TestEncodeKnownChars(t *testing.T) {
	cases := []struct {
		ch   rune
		want string
	}{
		{'A', ".-"},
		{'a', ".-"},
		{'0', "-----"},
		{'?', "..--.."},
		{'/', "-..-."},
	}
	for _, tc := range cases {
		got, ok := Encode(tc.ch)
		if !ok {
			t.Fatalf("Encode(%q) not found", tc.ch)
		}
		if got != tc.want {
			t.Fatalf("Encode(%q) = %q, want %q", tc.ch, got, tc.want)
		}
	}
}

func TestEncodeUnknownChar(t *testing.T) {
	if _, ok := Encode('%'); ok {
		t.Fatalf("expected %% to be unknown")
	}
	if Units('%') != 0 {
		t.Fatalf("expected 0 units for unknown char")
	}
}

func TestUnits(t *testing.T) {
	if got := Units('E'); got != 1 {
		t.Fatalf("Units(E) = %d, want 1", got)
	}
	if got := Units('T'); got != 3 {
		t.Fatalf("Units(T) = %d, want 3", got)
	}
	// I = dit gap dit = 1+1+1
	if got := Units('I'); got != 3 {
		t.Fatalf("Units(I) = %d, want 3", got)
	}
}

func TestNewTimingStandard(t *testing.T) {
	tm := NewTiming(20, 0)
	unit := 1.2 / 20.0
	if !close(tm.Dit, unit) || !close(tm.Dah, 3*unit) {
		t.Fatalf("unexpected element durations: %+v", tm)
	}
	if !close(tm.CharGap, 3*unit) || !close(tm.WordGap, 7*unit) {
		t.Fatalf("unexpected gaps: %+v", tm)
	}
}

func TestNewTimingFarnsworth(t *testing.T) {
	tm := NewTiming(20, 10)
	unit := 1.2 / 20.0
	slow := 1.2 / 10.0
	if !close(tm.Dit, unit) {
		t.Fatalf("elements must stay at character speed: %+v", tm)
	}
	if !close(tm.CharGap, 3*slow) || !close(tm.WordGap, 7*slow) {
		t.Fatalf("gaps must stretch to Farnsworth speed: %+v", tm)
	}
}

func TestNewTimingFarnsworthAboveWPMIgnored(t *testing.T) {
	tm := NewTiming(20, 25)
	unit := 1.2 / 20.0
	if !close(tm.CharGap, 3*unit) {
		t.Fatalf("Farnsworth above WPM should be ignored: %+v", tm)
	}
}

func TestDurationSingleChar(t *testing.T) {
	tm := NewTiming(20, 0)
	// E is a single dit.
	if got := tm.Duration("E"); !close(got, tm.Dit) {
		t.Fatalf("Duration(E) = %v, want %v", got, tm.Dit)
	}
}

func TestDurationWordAndGaps(t *testing.T) {
	tm := NewTiming(25, 0)
	// "EE" = dit + chargap + dit
	want := tm.Dit + tm.CharGap + tm.Dit
	if got := tm.Duration("EE"); !close(got, want) {
		t.Fatalf("Duration(EE) = %v, want %v", got, want)
	}
	// "E E" = dit + wordgap + dit
	want = tm.Dit + tm.WordGap + tm.Dit
	if got := tm.Duration("E E"); !close(got, want) {
		t.Fatalf("Duration(E E) = %v, want %v", got, want)
	}
}

func TestDurationSkipsUnknown(t *testing.T) {
	tm := NewTiming(20, 0)
	if got, want := tm.Duration("E%E"), tm.Duration("EE"); !close(got, want) {
		t.Fatalf("unknown chars must add no time: %v vs %v", got, want)
	}
	if got := tm.Duration(""); got != 0 {
		t.Fatalf("empty text must have zero duration, got %v", got)
	}
}

func TestCutNumbers(t *testing.T) {
	if got := CutNumbers("5NN 1092", nil); got != "ENN ATN2" {
		t.Fatalf("CutNumbers = %q", got)
	}
	custom := map[rune]rune{'0': 'T'}
	if got := CutNumbers("100", custom); got != "1TT" {
		t.Fatalf("CutNumbers custom = %q", got)
	}
}

func close(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
