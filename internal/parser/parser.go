package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/speedread/internal/doctree"
)

// ErrUnsupportedFormat is returned for file extensions no parser handles.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// Options tunes parser behavior.
type Options struct {
	// PDFFallbackPdftotext retries PDF extraction with the pdftotext binary.
	PDFFallbackPdftotext bool
	// MaxExtractedBytes bounds how much an archive format may inflate to.
	// Zero means DefaultMaxExtractedBytes.
	MaxExtractedBytes int64
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".pdf":      true,
	".epub":     true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".xhtml":    true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".epub":
		return &EPUBParser{MaxExtractedBytes: opts.MaxExtractedBytes}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm", ".xhtml":
		return &HTMLParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
