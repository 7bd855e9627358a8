// Package morse holds the code table and standard CW timing math.
package morse

import "unicode"

// codes maps characters to their dit/dah sequences. Prosigns the trainer
// uses (BK, AR, SK) are spelled as their constituent letters by callers.
var codes = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	'/': "-..-.", '?': "..--..", '.': ".-.-.-", ',': "--..--",
	'=': "-...-", '+': ".-.-.", '-': "-....-", '@': ".--.-.",
}

// Encode returns the dit/dah sequence for ch. The second return is false for
// characters with no Morse representation; callers skip those.
func Encode(ch rune) (string, bool) {
	seq, ok := codes[unicode.ToUpper(ch)]
	return seq, ok
}

// Units returns the length of a character in time units: each dit is 1, each
// dah 3, with 1 unit between elements. Unknown characters count as 0.
func Units(ch rune) int {
	seq, ok := Encode(ch)
	if !ok {
		return 0
	}
	units := len(seq) - 1
	for _, el := range seq {
		if el == '-' {
			units += 3
		} else {
			units++
		}
	}
	return units
}
