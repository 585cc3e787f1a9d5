package words

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCoreOffset_Bands(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{5, 1},
		{6, 2},
		{9, 2},
		{10, 3},
		{13, 3},
		{14, 4},
		{30, 4},
	}
	for _, tt := range tests {
		core := strings.Repeat("a", tt.length)
		if got := CoreOffset(core); got != tt.want {
			t.Errorf("CoreOffset(len %d) = %d, want %d", tt.length, got, tt.want)
		}
	}
}

func TestCoreOffset_Monotonic(t *testing.T) {
	prev := 0
	for n := 0; n <= 40; n++ {
		got := CoreOffset(strings.Repeat("x", n))
		if got < prev {
			t.Fatalf("offset decreased at length %d: %d < %d", n, got, prev)
		}
		prev = got
	}
}

func TestCoreOffset_TrimsAndCountsRunes(t *testing.T) {
	if got := CoreOffset("  ab  "); got != 1 {
		t.Errorf("expected trimmed length 2 -> 1, got %d", got)
	}
	// Six runes, twelve bytes.
	if got := CoreOffset("éééééé"); got != 2 {
		t.Errorf("expected rune length 6 -> 2, got %d", got)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		token string
		want  Parts
	}{
		{"word", Parts{Core: "word"}},
		{"(hello)", Parts{Leading: "(", Core: "hello", Trailing: ")"}},
		{`"hello,"`, Parts{Leading: `"`, Core: "hello", Trailing: `,"`}},
		{"don't", Parts{Core: "don't"}},
		{"well-known", Parts{Core: "well-known"}},
		{"O'Brien-ish", Parts{Core: "O'Brien-ish"}},
		{"it’s.", Parts{Core: "it’s", Trailing: "."}},
		{"state-of-the-art;", Parts{Core: "state-of-the-art", Trailing: ";"}},
		{"rock'n'roll!", Parts{Core: "rock'n'roll", Trailing: "!"}},
		{"'tis", Parts{Leading: "'", Core: "tis"}},
		{"---", Parts{Core: "---"}},
		{"e.g.", Parts{Core: "e.g."}},
		{"—", Parts{Core: "—"}},
	}
	for _, tt := range tests {
		got := Split(tt.token)
		if got != tt.want {
			t.Errorf("Split(%q) = %+v, want %+v", tt.token, got, tt.want)
		}
	}
}

func TestSplit_Lossless(t *testing.T) {
	tokens := []string{
		"", "a", "...", "(a)", "«bonjour»", "x--y", "-well-", "''", "42%", "$3.50",
		"don't", "“quoted”", "end.)", "[1]", "café", "—dash—", "a'", "'a'",
	}
	for _, tok := range tokens {
		if got := Split(tok).String(); got != tok {
			t.Errorf("Split(%q) reassembles to %q", tok, got)
		}
	}
}

func TestAssemble_Parenthesized(t *testing.T) {
	u := Assemble(Split("(hello)"))
	if u.Word != "(hello)" {
		t.Errorf("expected word %q, got %q", "(hello)", u.Word)
	}
	if u.ORPIndex != 2 {
		t.Errorf("expected orp index 2, got %d", u.ORPIndex)
	}
}

func TestAssemble_RuneOffsets(t *testing.T) {
	// Curly quote is one rune but three bytes.
	u := Assemble(Split("“Hello,”"))
	if u.ORPIndex != 2 {
		t.Errorf("expected rune index 2, got %d", u.ORPIndex)
	}
	if r := []rune(u.Word)[u.ORPIndex]; r != 'e' {
		t.Errorf("expected highlight on 'e', got %q", r)
	}
}

func TestAssemble_Empty(t *testing.T) {
	u := Assemble(Parts{})
	if u.Word != "" || u.ORPIndex != 0 {
		t.Errorf("expected zero unit, got %+v", u)
	}
}

func TestAssemble_LongLeadingShortCore(t *testing.T) {
	u := Assemble(Split("((((((a"))
	if u.ORPIndex != 6 {
		t.Errorf("expected orp index 6, got %d", u.ORPIndex)
	}
}

func TestAssemble_IndexAlwaysInBounds(t *testing.T) {
	tokens := []string{
		"a", "ab", "(a)", "...", "—", "“", "supercalifragilistic", "((((x))))",
		"'", "x!", "12345678901234567890", "über-cool", "日本語",
	}
	for _, tok := range tokens {
		u := Assemble(Split(tok))
		n := utf8.RuneCountInString(u.Word)
		if n == 0 {
			if u.ORPIndex != 0 {
				t.Errorf("%q: empty word with index %d", tok, u.ORPIndex)
			}
			continue
		}
		if u.ORPIndex < 0 || u.ORPIndex > n-1 {
			t.Errorf("%q: index %d out of bounds for length %d", tok, u.ORPIndex, n)
		}
	}
}

func TestAssemble_PunctuationOnly(t *testing.T) {
	u := Assemble(Split("---"))
	if u.Word != "---" {
		t.Errorf("expected word %q, got %q", "---", u.Word)
	}
	if u.ORPIndex != 1 {
		t.Errorf("expected orp index 1, got %d", u.ORPIndex)
	}
}

func TestBuildUnits_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   \n\t  "} {
		units := BuildUnits(in)
		if units == nil {
			t.Errorf("BuildUnits(%q) returned nil", in)
		}
		if len(units) != 0 {
			t.Errorf("BuildUnits(%q) returned %d units", in, len(units))
		}
	}
}

func TestBuildUnits_KeepsContractions(t *testing.T) {
	units := BuildUnits("don't stop")
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if units[0].Word != "don't" || units[1].Word != "stop" {
		t.Errorf("unexpected words: %q, %q", units[0].Word, units[1].Word)
	}
}

func TestBuildUnits_TokenCountMatchesWordView(t *testing.T) {
	texts := []string{
		"The quick\tbrown fox.\r\n\r\nJumps   over\n\n\n\nthe dog!",
		"  leading and trailing  ",
		"one",
		"a b c",
	}
	for _, text := range texts {
		want := len(strings.Fields(NormalizeForWords(text)))
		if got := len(BuildUnits(text)); got != want {
			t.Errorf("%q: expected %d units, got %d", text, want, got)
		}
	}
}

func TestBuildUnits_Deterministic(t *testing.T) {
	text := "Same input, same output. Every time!"
	a, b := BuildUnits(text), BuildUnits(text)
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("unit %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestTokenize(t *testing.T) {
	if got := Tokenize(""); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	got := Tokenize(" a  b\tc\nd ")
	want := []string{"a", "b", "c", "d"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_InformationSeparators(t *testing.T) {
	got := Tokenize("alpha\x1fbeta\x1cgamma\u00a0delta\u2003eps")
	want := []string{"alpha", "beta", "gamma", "delta", "eps"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, got)
	}
	if units := BuildUnits("alpha\x1fbeta"); len(units) != 2 {
		t.Errorf("expected 2 units, got %+v", units)
	}
	if got := NormalizeForWords("\x1d a\x1eb \x1f"); got != "a b" {
		t.Errorf("expected %q, got %q", "a b", got)
	}
	if got := NormalizeForFullText("\x1fhi\x1c"); got != "hi" {
		t.Errorf("expected %q, got %q", "hi", got)
	}
}

func TestNormalizeForFullText_Paragraphs(t *testing.T) {
	in := "First  paragraph\twith\r\nlines.\r\n\r\n\r\n\r\nSecond paragraph.\r\r\r\rThird."
	got := NormalizeForFullText(in)
	want := "First paragraph with\nlines.\n\nSecond paragraph.\n\nThird."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalizeForFullText_Trims(t *testing.T) {
	if got := NormalizeForFullText("\n\n  hi  \n\n"); got != "hi" {
		t.Errorf("expected %q, got %q", "hi", got)
	}
}

func TestNormalizeForWords_FlattensParagraphs(t *testing.T) {
	in := "Para one\nstill one.\n\n\n\nPara   two."
	got := NormalizeForWords(in)
	want := "Para one still one. Para two."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if strings.Contains(got, "\n") {
		t.Error("word view must not contain newlines")
	}
}

func TestEndsSentence(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"end.", true},
		{"what?", true},
		{"stop!", true},
		{`said."`, true},
		{"(aside.)", true},
		{"[note.]", true},
		{"'quoted!'", true},
		{"comma,", false},
		{"word", false},
		{`"`, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := EndsSentence(tt.word); got != tt.want {
			t.Errorf("EndsSentence(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestSentenceStarts(t *testing.T) {
	units := BuildUnits("One two. Three? Four five six! Seven")
	got := SentenceStarts(units)
	want := []int{0, 2, 3, 6}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
	if got := SentenceStarts(nil); len(got) != 0 {
		t.Errorf("expected no starts for empty input, got %v", got)
	}
}
