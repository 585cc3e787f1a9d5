package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/speedread/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tree := &doctree.DocTree{
		Format: doctree.FormatHTML,
		Title:  findTitle(doc),
	}

	b := newSectionBuilder()
	if body := findBody(doc); body != nil {
		walkHTML(body, b)
	} else {
		walkHTML(doc, b)
	}
	tree.Children = b.children()

	return tree, nil
}

// walkHTML feeds headings and text blocks to b in document order. Each
// line of a block (split on <br> and nested blocks) becomes its own entry.
// Text sitting directly in containers such as <div> or <body> is grouped
// into runs between block children, and each run is emitted as a block.
func walkHTML(n *html.Node, b *sectionBuilder) {
	if n.Type == html.ElementNode {
		if level := headingLevel(n.Data); level > 0 {
			b.heading(level, textContent(n))
			return // Don't recurse into heading children (already extracted text).
		}

		switch {
		case skipTags[n.Data]:
			return
		case n.Data == "p" || n.Data == "li" || n.Data == "td" || n.Data == "blockquote":
			listItem := n.Data == "li"
			for _, line := range blockLines(n) {
				b.text(line, listItem)
			}
			return
		}
	}

	var run []*html.Node
	flush := func() {
		for _, line := range textLines(run) {
			b.text(line, false)
		}
		run = run[:0]
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isInline(c) {
			run = append(run, c)
			continue
		}
		flush()
		walkHTML(c, b)
	}
	flush()
}

// skipTags hold no readable body text.
var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "nav": true, "noscript": true, "template": true,
}

// blockTags break lines when nested inside another block.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true, "blockquote": true,
	"tr": true, "td": true, "th": true, "table": true, "section": true, "article": true,
	"aside": true, "header": true, "footer": true, "main": true, "figure": true,
	"figcaption": true, "pre": true, "hr": true, "dl": true, "dt": true, "dd": true,
	"body": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// isInline reports whether n belongs to a run of inline content: text, or
// an element such as <span> or <em> with no block elements inside.
func isInline(n *html.Node) bool {
	switch n.Type {
	case html.TextNode, html.CommentNode:
		return true
	case html.ElementNode:
		if skipTags[n.Data] || blockTags[n.Data] {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && !isInline(c) {
				return false
			}
		}
		return true
	}
	return false
}

// blockLines returns the non-empty lines of a block element with inline
// whitespace collapsed.
func blockLines(n *html.Node) []string {
	var nodes []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, c)
	}
	return textLines(nodes)
}

var sourceWrap = strings.NewReplacer("\r", " ", "\n", " ")

// textLines renders nodes as text, breaking lines at <br> and block
// elements, and returns the non-empty lines with whitespace collapsed.
func textLines(nodes []*html.Node) []string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			// Source line wrapping is not a line break.
			buf.WriteString(sourceWrap.Replace(n.Data))
			return
		case html.ElementNode:
			switch {
			case n.Data == "br":
				buf.WriteByte('\n')
				return
			case n.Data == "script" || n.Data == "style":
				return
			case blockTags[n.Data]:
				buf.WriteByte('\n')
				defer buf.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	for _, n := range nodes {
		extract(n)
	}

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = collapseSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return collapseSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
