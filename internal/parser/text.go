package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/speedread/internal/doctree"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// TextParser handles plain text files. Input is read as UTF-8 unless a
// byte order mark says otherwise; invalid sequences become U+FFFD. Lines
// holding only whitespace separate paragraphs like empty ones do.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	decoded, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	text := lineEndings.Replace(strings.ToValidUTF8(string(decoded), "�"))

	tree := &doctree.DocTree{Format: doctree.FormatText}

	// Each paragraph becomes a child node.
	var current []string
	flush := func() {
		if len(current) > 0 {
			tree.Children = append(tree.Children, &doctree.DocNode{
				Text: strings.Join(current, "\n"),
			})
			current = current[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return tree, nil
}
