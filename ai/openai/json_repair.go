package openai

import "regexp"

// Local models occasionally drop the opening quote of an object key, or the
// quotes around it entirely. Both transforms anchor on the preceding "{" or
// "," so quoted keys and string values are left alone.
var (
	halfQuotedKeyRe = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_ ]*)":`)
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
)

// repairJSON fixes key-quoting slips in an LLM JSON response before
// unmarshaling. Valid JSON passes through unchanged.
func repairJSON(s string) string {
	s = halfQuotedKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = unquotedKeyRe.ReplaceAllString(s, `$1"$2":`)
	return s
}
