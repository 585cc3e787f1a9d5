package words

import "strings"

// EndsSentence reports whether a display word closes a sentence: after
// dropping trailing quotes and closing brackets, it ends in '.', '!' or '?'.
func EndsSentence(word string) bool {
	word = strings.TrimRight(word, `'")]`)
	if word == "" {
		return false
	}
	switch word[len(word)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// SentenceStarts returns the indices of units that begin a sentence. The
// first unit always starts one.
func SentenceStarts(units []Unit) []int {
	if len(units) == 0 {
		return []int{}
	}
	starts := []int{0}
	for i, u := range units[:len(units)-1] {
		if EndsSentence(u.Word) {
			starts = append(starts, i+1)
		}
	}
	return starts
}
