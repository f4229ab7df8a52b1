package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"

	ClearLine  = "\033[2K" // Clear entire line
	HideCursor = "\033[?25l"
	ShowCursor = "\033[?25h"
)

// GetDisplayWidth calculates the actual display width of a string,
// accounting for wide runes.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadToWidth pads text with trailing spaces up to the given display width.
// Text already wider than the target is truncated.
func PadToWidth(text string, width int) string {
	w := GetDisplayWidth(text)
	if w > width {
		return runewidth.Truncate(text, width, "…")
	}
	return text + strings.Repeat(" ", width-w)
}
