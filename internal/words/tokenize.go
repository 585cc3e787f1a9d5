package words

import (
	"strings"
	"unicode"
)

// isSpace matches Unicode whitespace plus the ASCII information
// separators U+001C..U+001F, which Python's \s also treats as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Tokenize splits text on whitespace runs, returning every maximal
// non-whitespace substring in order. The result is never nil.
func Tokenize(text string) []string {
	tokens := strings.FieldsFunc(text, isSpace)
	if tokens == nil {
		return []string{}
	}
	return tokens
}
