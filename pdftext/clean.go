package pdftext

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Clean normalizes raw extracted text: Unicode NFKC (repairs ligatures and
// odd PDF spacing characters), non-breaking spaces to plain spaces, and
// non-printable characters removed. Line structure is preserved.
func Clean(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, " ", " ")

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' {
			sb.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || !unicode.IsPrint(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
