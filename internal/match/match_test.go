package match

import "testing"

func TestCompareTable(t *testing.T) {
	cases := []struct {
		expected  string
		candidate string
		want      Result
	}{
		{"K1ABC", "K1ABC", Perfect},
		{"k1abc", " K1ABC ", Perfect},
		{"K1ABC", "K1ABC?", Perfect},
		{"K1ABC", "K1AB", Partial},
		{"K1ABC", "1ABC", Partial},
		{"K1ABC", "K2ABC", Partial},
		{"W1AW/7", "W1AW", Partial},
		{"K1ABC", "W2XYZ", None},
		{"K1ABC", "", None},
		{"K1ABC", "?", None},
		{"DL2XYZ", "DL", Partial},
		{"SP9ABC", "QQQQQ", None},
	}
	for _, tc := range cases {
		if got := Compare(tc.expected, tc.candidate); got != tc.want {
			t.Fatalf("Compare(%q, %q) = %v, want %v", tc.expected, tc.candidate, got, tc.want)
		}
	}
}

func TestCompareReflexive(t *testing.T) {
	for _, s := range []string{"A", "K1ABC", "w2xyz", " n0call "} {
		if got := Compare(s, s); got != Perfect {
			t.Fatalf("Compare(%q, %q) = %v, want Perfect", s, s, got)
		}
	}
}

func TestCompareTotal(t *testing.T) {
	inputs := []string{"", "?", "K1ABC", "K", "K1ABCK1ABC", "123", "ZZZZZZZZZ"}
	for _, a := range inputs {
		for _, b := range inputs {
			got := Compare(a, b)
			if got != None && got != Partial && got != Perfect {
				t.Fatalf("Compare(%q, %q) returned unknown result %d", a, b, got)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  k1abc? "); got != "K1ABC" {
		t.Fatalf("Normalize = %q", got)
	}
}

func TestLongestCommonSubstring(t *testing.T) {
	if got := longestCommonSubstring("K1ABC", "X1ABX"); got != 3 {
		t.Fatalf("lcs = %d, want 3", got)
	}
	if got := longestCommonSubstring("", "ABC"); got != 0 {
		t.Fatalf("lcs empty = %d", got)
	}
}
