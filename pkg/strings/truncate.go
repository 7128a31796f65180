// Package strings holds text helpers shared by the CLI and event output.
package strings

import (
	"strings"
)

// DefaultColumnWidth is the width used for free-text table columns.
const DefaultColumnWidth = 60

// minWidth leaves room for one character plus the ellipsis.
const minWidth = 4

// OneLine collapses all whitespace in s, including newlines, to single
// spaces and cuts the result to at most width runes, ending in "..." when
// cut. Widths below 4 are raised to 4.
func OneLine(s string, width int) string {
	if width < minWidth {
		width = minWidth
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return s
}
