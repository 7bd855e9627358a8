package morse

import "strings"

// Timing holds element and gap durations in seconds, derived from the PARIS
// standard: one unit is 1.2/WPM seconds.
type Timing struct {
	Dit        float64
	Dah        float64
	ElementGap float64 // between elements of one character
	CharGap    float64 // between characters
	WordGap    float64 // between words
}

// NewTiming derives durations from the character speed and an optional
// Farnsworth spacing speed. Elements are always sent at wpm; with Farnsworth
// enabled (farnsworth > 0 and below wpm) the character and word gaps stretch
// to the slower speed.
func NewTiming(wpm, farnsworth int) Timing {
	if wpm <= 0 {
		wpm = 20
	}
	unit := 1.2 / float64(wpm)
	gapUnit := unit
	if farnsworth > 0 && farnsworth < wpm {
		gapUnit = 1.2 / float64(farnsworth)
	}
	return Timing{
		Dit:        unit,
		Dah:        3 * unit,
		ElementGap: unit,
		CharGap:    3 * gapUnit,
		WordGap:    7 * gapUnit,
	}
}

// Duration returns the total on-air length of text under t, counting only
// characters the code table knows. It matches what a player schedules.
func (t Timing) Duration(text string) float64 {
	total := 0.0
	firstWord := true
	for _, word := range strings.Fields(text) {
		wordLen := 0.0
		firstChar := true
		for _, ch := range word {
			seq, ok := Encode(ch)
			if !ok {
				continue
			}
			if !firstChar {
				wordLen += t.CharGap
			}
			firstChar = false
			for i, el := range seq {
				if i > 0 {
					wordLen += t.ElementGap
				}
				if el == '-' {
					wordLen += t.Dah
				} else {
					wordLen += t.Dit
				}
			}
		}
		if wordLen == 0 {
			continue
		}
		if !firstWord {
			total += t.WordGap
		}
		firstWord = false
		total += wordLen
	}
	return total
}
