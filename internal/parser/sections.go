package parser

import (
	"strings"

	"github.com/dgallion1/speedread/internal/doctree"
)

// sectionBuilder nests content under the most recent heading of a lower
// level. Text is appended as leaf nodes so document order survives the
// mix of paragraphs, list items and subsections.
type sectionBuilder struct {
	root  *doctree.DocNode
	stack []sectionEntry
}

type sectionEntry struct {
	node  *doctree.DocNode
	level int
}

func newSectionBuilder() *sectionBuilder {
	root := &doctree.DocNode{}
	return &sectionBuilder{
		root:  root,
		stack: []sectionEntry{{node: root, level: 0}},
	}
}

// heading opens a section at level (1-6).
func (b *sectionBuilder) heading(level int, title string) {
	title = collapseSpace(title)
	if title == "" {
		return
	}
	node := &doctree.DocNode{Title: title}
	// Pop stack until we find a parent with lower level.
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, sectionEntry{node: node, level: level})
}

// text appends a block of text to the current section.
func (b *sectionBuilder) text(text string, listItem bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	top.Children = append(top.Children, &doctree.DocNode{Text: text, ListItem: listItem})
}

func (b *sectionBuilder) children() []*doctree.DocNode {
	return b.root.Children
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
