// Package words turns raw document text into RSVP word units: whitespace
// tokens annotated with the offset of their optimal recognition point.
package words

import (
	"regexp"
	"strings"
)

var (
	horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)
	blankLinesRe      = regexp.MustCompile(`\n{3,}`)
	lineEndings       = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// NormalizeForFullText produces the paragraph-preserving view of text.
// Line endings become "\n", runs of spaces and tabs collapse to one space,
// three or more newlines collapse to a single blank line, and the result
// is trimmed.
func NormalizeForFullText(text string) string {
	text = lineEndings.Replace(text)
	text = horizontalSpaceRe.ReplaceAllString(text, " ")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimFunc(text, isSpace)
}

// NormalizeForWords collapses every whitespace run, newlines included, into
// a single space and trims the result. Paragraph structure is discarded.
func NormalizeForWords(text string) string {
	return strings.Join(strings.FieldsFunc(text, isSpace), " ")
}
