package words

import "unicode/utf8"

// Unit is a display-ready word with the rune index of its highlighted letter.
type Unit struct {
	Word     string `json:"word"`
	ORPIndex int    `json:"orpIndex"`
}

// Assemble joins the parts into display text and places the highlight at
// the core's recognition point, clamped to the bounds of the display text.
func Assemble(p Parts) Unit {
	display := p.String()
	n := utf8.RuneCountInString(display)
	if n == 0 {
		return Unit{}
	}
	idx := utf8.RuneCountInString(p.Leading) + CoreOffset(p.Core)
	idx = max(0, min(idx, n-1))
	return Unit{Word: display, ORPIndex: idx}
}

// BuildUnits runs the whole pipeline over raw text: whitespace
// normalization, tokenization, then one Unit per token in document order.
// Empty or whitespace-only input yields an empty slice.
func BuildUnits(raw string) []Unit {
	tokens := Tokenize(NormalizeForWords(raw))
	units := make([]Unit, 0, len(tokens))
	for _, tok := range tokens {
		units = append(units, Assemble(Split(tok)))
	}
	return units
}
