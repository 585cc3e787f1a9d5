package words

import (
	"strings"
	"unicode/utf8"
)

// CoreOffset returns the zero-based rune offset of the optimal recognition
// point within a core word. The bands are fixed:
//
//	length 0-1   -> 0
//	length 2-5   -> 1
//	length 6-9   -> 2
//	length 10-13 -> 3
//	length 14+   -> 4
//
// Client-side centering is calibrated against this table; keep it as is.
func CoreOffset(core string) int {
	n := utf8.RuneCountInString(strings.TrimSpace(core))
	var idx int
	switch {
	case n <= 1:
		return 0
	case n <= 5:
		idx = 1
	case n <= 9:
		idx = 2
	case n <= 13:
		idx = 3
	default:
		idx = 4
	}
	return min(idx, n-1)
}
