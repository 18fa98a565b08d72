package textstat

import (
	"strings"
	"unicode/utf8"
)

// Features holds basic local text features derived from an input string.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// Count computes byte, rune, word, and line counts for the input string.
func Count(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
	}
}

// Fields renders the features as telemetry fields under the given prefix,
// e.g. prefix "answer" yields answer_bytes, answer_runes, and so on.
func (f Features) Fields(prefix string) map[string]any {
	return map[string]any{
		prefix + "_bytes": f.Bytes,
		prefix + "_runes": f.Runes,
		prefix + "_words": f.Words,
		prefix + "_lines": f.Lines,
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
