package utils

import (
	"html"
	"strings"
)

// EscapeMarkup strips tag delimiters and escapes the remainder so the value
// is safe to interpolate into an error message shown in the browser.
func EscapeMarkup(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}

	return html.EscapeString(b.String())
}
