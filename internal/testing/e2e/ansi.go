package e2e

import (
	"regexp"
	"strings"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape codes from terminal output.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// VisibleLines reduces raw terminal output to the lines a user would see,
// applying carriage-return overwrites the way in-place status updates
// produce them.
func VisibleLines(s string) []string {
	stripped := StripANSI(s)
	stripped = strings.ReplaceAll(stripped, "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(stripped, "\n") {
		// Only the text after the last carriage return survives, the
		// rest was overwritten in place.
		if i := strings.LastIndex(line, "\r"); i >= 0 {
			line = line[i+1:]
		}
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return lines
}
