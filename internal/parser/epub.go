package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/dgallion1/speedread/internal/doctree"
	"golang.org/x/net/html"
)

const (
	epubContainerPath = "META-INF/container.xml"

	// DefaultMaxExtractedBytes caps decompressed archive content when no
	// limit is configured.
	DefaultMaxExtractedBytes int64 = 512 << 20
)

// ErrArchiveTooLarge is returned when an archive inflates past its limit.
var ErrArchiveTooLarge = errors.New("archive expands beyond size limit")

// EPUBParser handles EPUB e-books: the OPF package supplies metadata and
// reading order, each XHTML content document is walked like HTML.
type EPUBParser struct {
	// MaxExtractedBytes bounds the total decompressed size read from the
	// archive. Zero means DefaultMaxExtractedBytes.
	MaxExtractedBytes int64
}

// epubArchive reads entries while charging them against a shared budget.
type epubArchive struct {
	files     map[string]*zip.File
	remaining int64
}

func (a *epubArchive) read(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("epub: %s not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("epub: open %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, a.remaining+1))
	if err != nil {
		return nil, fmt.Errorf("epub: read %s: %w", name, err)
	}
	if int64(len(data)) > a.remaining {
		return nil, fmt.Errorf("epub: %s: %w", name, ErrArchiveTooLarge)
	}
	a.remaining -= int64(len(data))
	return data, nil
}

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Titles   []string      `xml:"metadata>title"`
	Creators []string      `xml:"metadata>creator"`
	Manifest []epubItem    `xml:"manifest>item"`
	Spine    []epubItemRef `xml:"spine>itemref"`
}

type epubItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type epubItemRef struct {
	IDRef string `xml:"idref,attr"`
}

func (p *EPUBParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read epub: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open epub: not a zip: %w", err)
	}
	limit := p.MaxExtractedBytes
	if limit <= 0 {
		limit = DefaultMaxExtractedBytes
	}
	archive := &epubArchive{
		files:     make(map[string]*zip.File, len(zr.File)),
		remaining: limit,
	}
	for _, f := range zr.File {
		archive.files[f.Name] = f
	}

	var container epubContainer
	if err := readXML(archive, epubContainerPath, &container); err != nil {
		return nil, err
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return nil, fmt.Errorf("epub: no rootfile in %s", epubContainerPath)
	}
	opfPath := container.Rootfiles[0].FullPath

	var pkg epubPackage
	if err := readXML(archive, opfPath, &pkg); err != nil {
		return nil, err
	}

	tree := &doctree.DocTree{
		Format:  doctree.FormatEPUB,
		Title:   firstNonEmpty(pkg.Titles),
		Creator: firstNonEmpty(pkg.Creators),
	}

	b := newSectionBuilder()
	for _, docPath := range contentDocuments(pkg, path.Dir(opfPath)) {
		if _, ok := archive.files[docPath]; !ok {
			continue
		}
		data, err := archive.read(docPath)
		if err != nil {
			return nil, err
		}
		doc, err := html.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("epub: parse %s: %w", docPath, err)
		}
		if body := findBody(doc); body != nil {
			walkHTML(body, b)
		}
	}
	tree.Children = b.children()

	return tree, nil
}

// contentDocuments lists XHTML documents in spine order, or in manifest
// order when the spine is missing.
func contentDocuments(pkg epubPackage, baseDir string) []string {
	hrefByID := make(map[string]string, len(pkg.Manifest))
	var manifestOrder []string
	for _, item := range pkg.Manifest {
		if !isXHTML(item.MediaType, item.Href) {
			continue
		}
		full := resolveHref(baseDir, item.Href)
		hrefByID[item.ID] = full
		manifestOrder = append(manifestOrder, full)
	}

	var ordered []string
	for _, ref := range pkg.Spine {
		if href, ok := hrefByID[ref.IDRef]; ok {
			ordered = append(ordered, href)
		}
	}
	if len(ordered) == 0 {
		return manifestOrder
	}
	return ordered
}

func isXHTML(mediaType, href string) bool {
	switch mediaType {
	case "application/xhtml+xml", "text/html":
		return true
	}
	ext := strings.ToLower(path.Ext(href))
	return mediaType == "" && (ext == ".xhtml" || ext == ".html" || ext == ".htm")
}

func resolveHref(baseDir, href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	if baseDir == "." || baseDir == "" {
		return path.Clean(href)
	}
	return path.Join(baseDir, href)
}

func readXML(archive *epubArchive, name string, v any) error {
	data, err := archive.read(name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("epub: parse %s: %w", name, err)
	}
	return nil
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v = collapseSpace(v); v != "" {
			return v
		}
	}
	return ""
}
