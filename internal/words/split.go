package words

import "regexp"

// wordCoreRe matches a whole token: leading non-alphanumerics, a core of
// ASCII letters and digits optionally joined by apostrophes or hyphens, and
// trailing non-alphanumerics.
var wordCoreRe = regexp.MustCompile(`^([^A-Za-z0-9]*)([A-Za-z0-9]+(?:['’-][A-Za-z0-9]+)*)([^A-Za-z0-9]*)$`)

// Parts is a token split around its core word.
type Parts struct {
	Leading  string
	Core     string
	Trailing string
}

// String reassembles the original token.
func (p Parts) String() string {
	return p.Leading + p.Core + p.Trailing
}

// Split separates a token into leading punctuation, core word and trailing
// punctuation. Tokens without a recognisable core ("---", "e.g.") are kept
// whole as the core so they still render.
func Split(token string) Parts {
	m := wordCoreRe.FindStringSubmatch(token)
	if m == nil {
		return Parts{Core: token}
	}
	return Parts{Leading: m[1], Core: m[2], Trailing: m[3]}
}
