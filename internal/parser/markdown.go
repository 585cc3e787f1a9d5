package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/speedread/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	tree := &doctree.DocTree{Format: doctree.FormatMarkdown}

	b := newSectionBuilder()
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := extractText(node, src)
			b.heading(node.Level, title)
			// A leading h1 doubles as the document title.
			if tree.Title == "" && node.Level == 1 && len(b.children()) == 1 {
				tree.Title = collapseSpace(title)
			}

		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				b.text(extractText(item, src), true)
			}

		case *ast.ThematicBreak, *ast.HTMLBlock:
			// No readable text.

		default:
			b.text(extractText(n, src), false)
		}
	}
	tree.Children = b.children()

	return tree, nil
}

// extractText gets the text content of a goldmark AST node. Leaf blocks
// such as code blocks carry their text as source lines; everything else
// is assembled from inline children.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch inline := c.(type) {
		case *ast.Text:
			buf.Write(inline.Value(src))
			if inline.HardLineBreak() || inline.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(inline.Value)
		case *ast.AutoLink:
			buf.Write(inline.Label(src))
		case *ast.RawHTML:
		default:
			// Nested blocks (list item paragraphs, sublists) start a new line.
			if buf.Len() > 0 && c.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
