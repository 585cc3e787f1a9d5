// Package reader turns parsed documents into reading sessions: word units
// with recognition points, the paragraph-preserving full text, and the
// indexes a client needs to navigate between the two.
package reader

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/speedread/internal/doctree"
	"github.com/dgallion1/speedread/internal/outline"
	"github.com/dgallion1/speedread/internal/words"
)

// PageSeparator marks the start of each PDF page in the full text.
const PageSeparator = "— — —"

// Meta describes the source document.
type Meta struct {
	Type    doctree.Format `json:"type"`
	Title   string         `json:"title,omitempty"`
	Creator string         `json:"creator,omitempty"`
}

// Paragraph is one block of the full text and the words it covers.
type Paragraph struct {
	Text       string   `json:"text"`
	Start      int      `json:"start"` // first word index
	End        int      `json:"end"`   // one past the last word index
	Page       int      `json:"page,omitempty"`
	Heading    bool     `json:"heading,omitempty"`
	Breadcrumb []string `json:"breadcrumb,omitempty"`
}

// TOCEntry points at a heading in the word sequence.
type TOCEntry struct {
	Title     string `json:"title"`
	Level     int    `json:"level"`
	WordIndex int    `json:"wordIndex"`
}

// Document is a fully processed reading session.
type Document struct {
	ID             string       `json:"docId"`
	FileName       string       `json:"fileName"`
	ContentHash    string       `json:"contentHash"`
	Words          []words.Unit `json:"words"`
	FullText       string       `json:"fullText"`
	Meta           Meta         `json:"meta"`
	Paragraphs     []Paragraph  `json:"paragraphs"`
	SentenceStarts []int        `json:"sentenceStarts"`
	TOC            []TOCEntry   `json:"toc"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// Build assembles a Document from a parsed tree. The full-text view and
// the word view are built from the same blocks, so paragraph word ranges
// line up exactly with the word sequence.
func Build(tree *doctree.DocTree, fileName string) *Document {
	blocks := outline.Flatten(tree)

	fullParts := make([]string, 0, len(blocks))
	wordParts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case outline.KindPageBreak:
			fullParts = append(fullParts, PageSeparator)
		case outline.KindListItem:
			fullParts = append(fullParts, "• "+b.Text)
			wordParts = append(wordParts, b.Text)
		default:
			fullParts = append(fullParts, b.Text)
			wordParts = append(wordParts, b.Text)
		}
	}

	doc := &Document{
		FileName: fileName,
		Words:    words.BuildUnits(strings.Join(wordParts, "\n\n")),
		FullText: words.NormalizeForFullText(strings.Join(fullParts, "\n\n")),
		Meta: Meta{
			Type:    tree.Format,
			Title:   tree.Title,
			Creator: tree.Creator,
		},
		Paragraphs: []Paragraph{},
		TOC:        []TOCEntry{},
		CreatedAt:  time.Now(),
	}
	doc.SentenceStarts = words.SentenceStarts(doc.Words)

	offset := 0
	for _, b := range blocks {
		if b.Kind == outline.KindPageBreak {
			continue
		}
		n := len(words.Tokenize(words.NormalizeForWords(b.Text)))
		if n == 0 {
			continue
		}
		text := words.NormalizeForFullText(b.Text)
		if b.Kind == outline.KindListItem {
			text = "• " + text
		}
		doc.Paragraphs = append(doc.Paragraphs, Paragraph{
			Text:       text,
			Start:      offset,
			End:        offset + n,
			Page:       b.Page,
			Heading:    b.Kind == outline.KindHeading,
			Breadcrumb: b.Breadcrumb,
		})
		if b.Kind == outline.KindHeading {
			doc.TOC = append(doc.TOC, TOCEntry{
				Title:     b.Text,
				Level:     len(b.Breadcrumb) + 1,
				WordIndex: offset,
			})
		}
		offset += n
	}

	return doc
}

// ParagraphAt returns the index of the paragraph containing word i, or -1.
func (d *Document) ParagraphAt(i int) int {
	lo, hi := 0, len(d.Paragraphs)
	for lo < hi {
		mid := (lo + hi) / 2
		p := d.Paragraphs[mid]
		switch {
		case i < p.Start:
			hi = mid
		case i >= p.End:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// DocumentID derives a stable document id from the uploaded bytes.
func DocumentID(data []byte) string {
	return ContentHashHex(data)[:16]
}
