package morse

// DefaultCutMap is the traditional digit substitution set used to shorten
// numeric exchanges: 0→T, 9→N, 1→A, 5→E.
var DefaultCutMap = map[rune]rune{
	'0': 'T',
	'9': 'N',
	'1': 'A',
	'5': 'E',
}

// CutNumbers replaces digits in s according to cuts. Digits without a mapping
// pass through unchanged. A nil map means DefaultCutMap.
func CutNumbers(s string, cuts map[rune]rune) string {
	if cuts == nil {
		cuts = DefaultCutMap
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if sub, ok := cuts[r]; ok {
			out = append(out, sub)
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
