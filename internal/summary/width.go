package summary

import "github.com/mattn/go-runewidth"

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
