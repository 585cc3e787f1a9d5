// Package outline flattens a document tree into the ordered blocks a
// reader shows: headings, paragraphs, list items and page breaks.
package outline

import (
	"strings"

	"github.com/dgallion1/speedread/internal/doctree"
)

// Kind classifies a block.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindListItem
	KindPageBreak
)

// Block is one display unit of the document in reading order.
type Block struct {
	Kind       Kind
	Text       string   // Readable text; empty for page breaks
	Breadcrumb []string // Enclosing section titles, outermost first
	Page       int
}

// Flatten walks the tree depth-first. A titled node yields a heading
// block, a paged node yields a page break before its text, and node text
// is split into one block per paragraph.
func Flatten(tree *doctree.DocTree) []Block {
	var blocks []Block
	for _, child := range tree.Children {
		walkNode(child, nil, &blocks)
	}
	return blocks
}

// walkNode recursively visits DocNodes, collecting blocks.
func walkNode(node *doctree.DocNode, breadcrumb []string, blocks *[]Block) {
	bc := breadcrumb
	if title := strings.TrimSpace(node.Title); title != "" {
		*blocks = append(*blocks, Block{
			Kind:       KindHeading,
			Text:       title,
			Breadcrumb: copyBreadcrumb(breadcrumb),
			Page:       node.Page,
		})
		bc = append(copyBreadcrumb(breadcrumb), title)
	}

	if node.Page > 0 {
		*blocks = append(*blocks, Block{Kind: KindPageBreak, Page: node.Page})
	}

	kind := KindParagraph
	if node.ListItem {
		kind = KindListItem
	}
	for _, para := range SplitParagraphs(node.Text) {
		*blocks = append(*blocks, Block{
			Kind:       kind,
			Text:       para,
			Breadcrumb: copyBreadcrumb(bc),
			Page:       node.Page,
		})
	}

	for _, child := range node.Children {
		walkNode(child, bc, blocks)
	}
}

// SplitParagraphs splits on blank lines, dropping empty paragraphs.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
