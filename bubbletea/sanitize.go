package bubbletea

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize strips ANSI escape sequences and control characters from text
// before it reaches the terminal. Tabs and newlines are kept; CRLF becomes
// LF and a lone CR is dropped so it cannot rewrite the start of a line.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' || (r > 0x1F && r != 0x7F && (r < 0x80 || r > 0x9F)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
