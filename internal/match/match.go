// Package match classifies a copied string against an expected value.
package match

import (
	"strings"

	lev "github.com/agnivade/levenshtein"
)

// Result is the three-way outcome of a comparison.
type Result int

const (
	// None means the candidate shares no qualifying overlap with the
	// expected value.
	None Result = iota
	// Partial means the operator copied some but not all of the value; the
	// station should repeat rather than be treated as a full miss.
	Partial
	// Perfect means the candidate equals the expected value after
	// normalization.
	Perfect
)

func (r Result) String() string {
	switch r {
	case Perfect:
		return "perfect"
	case Partial:
		return "partial"
	default:
		return "none"
	}
}

// Normalize upper-cases, trims, and strips repeat-request question marks so
// both sides of a comparison are treated symmetrically.
func Normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "?", "")
}

// Compare classifies candidate against expected.
//
// The partial rule: after normalization a non-empty candidate is Partial when
// it is a proper prefix or proper suffix of the expected value of length >= 2,
// when the longest common substring is at least 3 characters and at least half
// the expected length, or when the edit distance is within 1 for expected
// length >= 4 (2 for length >= 7).
func Compare(expected, candidate string) Result {
	exp := Normalize(expected)
	cand := Normalize(candidate)
	if exp == "" || cand == "" {
		return None
	}
	if exp == cand {
		return Perfect
	}
	if len(cand) >= 2 && len(cand) < len(exp) {
		if strings.HasPrefix(exp, cand) || strings.HasSuffix(exp, cand) {
			return Partial
		}
	}
	if lcs := longestCommonSubstring(exp, cand); lcs >= 3 && lcs*2 >= len(exp) {
		return Partial
	}
	if maxEdit := editBudget(len(exp)); maxEdit > 0 {
		if lev.ComputeDistance(exp, cand) <= maxEdit {
			return Partial
		}
	}
	return None
}

func editBudget(expLen int) int {
	switch {
	case expLen >= 7:
		return 2
	case expLen >= 4:
		return 1
	default:
		return 0
	}
}

func longestCommonSubstring(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	best := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best = cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return best
}
