package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/speedread/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if available.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	// ledongthuc/pdf and pdftotext both want a file, so spool to disk.
	tmp, err := os.CreateTemp("", "speedread-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	tree := &doctree.DocTree{Format: doctree.FormatPDF}

	pages, info, err := extractPDFPages(tmpPath)
	if p.FallbackPdftotext && (err != nil || allBlank(pages)) {
		if text, ferr := extractPdftotext(tmpPath); ferr == nil {
			pages, err = splitPages(text), nil
		} else if err != nil {
			err = fmt.Errorf("%w; %w", err, ferr)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	tree.Title = info.title
	tree.Creator = info.creator

	for i, page := range pages {
		tree.Children = append(tree.Children, &doctree.DocNode{
			Text: joinLines(page),
			Page: i + 1,
		})
	}

	return tree, nil
}

type pdfInfo struct {
	title   string
	creator string
}

func extractPDFPages(path string) ([]string, pdfInfo, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, pdfInfo{}, err
	}
	defer f.Close()

	info := reader.Trailer().Key("Info")
	meta := pdfInfo{
		title:   strings.TrimSpace(info.Key("Title").Text()),
		creator: strings.TrimSpace(info.Key("Author").Text()),
	}

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, meta, nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

func allBlank(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

// splitPages splits pdftotext output on form feeds. The trailing form feed
// pdftotext emits after the last page does not start a new page.
func splitPages(text string) []string {
	text = strings.TrimSuffix(text, "\f")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\f")
}

// joinLines unifies line endings and turns each lone newline into a space,
// so wrapped lines read as one paragraph while blank lines still separate
// paragraphs.
func joinLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' {
			prevNL := i > 0 && text[i-1] == '\n'
			nextNL := i+1 < len(text) && text[i+1] == '\n'
			if !prevNL && !nextNL {
				b.WriteByte(' ')
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
