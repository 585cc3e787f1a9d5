package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/speedread/internal/doctree"
)

func buildEPUB(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const testContainer = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>A Tale</dc:title>
    <dc:creator>Some Author</dc:creator>
  </metadata>
  <manifest>
    <item id="css" href="style.css" media-type="text/css"/>
    <item id="ch1" href="text/chapter%201.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch2"/>
    <itemref idref="ch1"/>
  </spine>
</package>`

func TestEPUBParser_MetadataAndSpineOrder(t *testing.T) {
	data := buildEPUB(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": testContainer,
		"OEBPS/content.opf":      testOPF,
		"OEBPS/style.css":        "p { margin: 0 }",
		"OEBPS/text/chapter 1.xhtml": `<html xmlns="http://www.w3.org/1999/xhtml"><body>
<h2>Chapter One</h2><p>Second in spine.</p></body></html>`,
		"OEBPS/text/ch2.xhtml": `<html xmlns="http://www.w3.org/1999/xhtml"><body>
<h1>Prologue</h1><p>First in spine.</p><ul><li>an item</li></ul></body></html>`,
	})

	p := &EPUBParser{}
	tree, err := p.Parse(bytes.NewReader(data), "tale.epub")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Format != doctree.FormatEPUB {
		t.Errorf("expected format %q, got %q", doctree.FormatEPUB, tree.Format)
	}
	if tree.Title != "A Tale" {
		t.Errorf("expected title %q, got %q", "A Tale", tree.Title)
	}
	if tree.Creator != "Some Author" {
		t.Errorf("expected creator %q, got %q", "Some Author", tree.Creator)
	}

	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(tree.Children))
	}
	prologue := tree.Children[0]
	if prologue.Title != "Prologue" {
		t.Fatalf("expected spine order to start with Prologue, got %q", prologue.Title)
	}
	// First paragraph, list item, then the h2 from the next spine document.
	if len(prologue.Children) != 3 {
		t.Fatalf("expected 3 children under Prologue, got %d", len(prologue.Children))
	}
	if prologue.Children[0].Text != "First in spine." {
		t.Errorf("unexpected first text %q", prologue.Children[0].Text)
	}
	if !prologue.Children[1].ListItem {
		t.Error("expected list item flag on <li> text")
	}
	ch1 := prologue.Children[2]
	if ch1.Title != "Chapter One" || len(ch1.Children) != 1 || ch1.Children[0].Text != "Second in spine." {
		t.Errorf("unexpected chapter one section: %+v", ch1)
	}
}

func TestEPUBParser_MissingContainer(t *testing.T) {
	data := buildEPUB(t, map[string]string{"mimetype": "application/epub+zip"})
	p := &EPUBParser{}
	_, err := p.Parse(bytes.NewReader(data), "bad.epub")
	if err == nil || !strings.Contains(err.Error(), "container.xml") {
		t.Fatalf("expected missing container error, got %v", err)
	}
}

func TestEPUBParser_NotAZip(t *testing.T) {
	p := &EPUBParser{}
	if _, err := p.Parse(strings.NewReader("plain text"), "bad.epub"); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestContentDocuments_FallsBackToManifest(t *testing.T) {
	pkg := epubPackage{
		Manifest: []epubItem{
			{ID: "a", Href: "a.xhtml", MediaType: "application/xhtml+xml"},
			{ID: "img", Href: "cover.jpg", MediaType: "image/jpeg"},
		},
	}
	got := contentDocuments(pkg, ".")
	if len(got) != 1 || got[0] != "a.xhtml" {
		t.Errorf("expected [a.xhtml], got %v", got)
	}
}

func TestForFile(t *testing.T) {
	for _, name := range []string{"a.txt", "B.PDF", "c.epub", "d.md", "e.html", "f.docx"} {
		if _, err := ForFile(name, Options{}); err != nil {
			t.Errorf("ForFile(%q): unexpected error %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q) = false", name)
		}
	}
	_, err := ForFile("sheet.xlsx", Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if IsSupportedExtension("noext") {
		t.Error("expected no support for files without extension")
	}
}

func TestEPUBParser_TextOutsideBlocks(t *testing.T) {
	data := buildEPUB(t, map[string]string{
		"META-INF/container.xml": testContainer,
		"OEBPS/content.opf":      testOPF,
		"OEBPS/text/ch2.xhtml": `<html xmlns="http://www.w3.org/1999/xhtml"><body>
<div>It was a dark and stormy night.</div><span>More text here.</span></body></html>`,
	})

	p := &EPUBParser{}
	tree, err := p.Parse(bytes.NewReader(data), "divs.epub")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for _, c := range tree.Children {
		got = append(got, c.Text)
	}
	want := []string{"It was a dark and stormy night.", "More text here."}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEPUBParser_ExtractedSizeLimit(t *testing.T) {
	chapter := `<html><body><p>` + strings.Repeat("word ", 1000) + `</p></body></html>`
	data := buildEPUB(t, map[string]string{
		"META-INF/container.xml": testContainer,
		"OEBPS/content.opf":      testOPF,
		"OEBPS/text/ch2.xhtml":   chapter,
	})

	limit := int64(len(testContainer) + len(testOPF) + 100)
	p := &EPUBParser{MaxExtractedBytes: limit}
	if _, err := p.Parse(bytes.NewReader(data), "bomb.epub"); !errors.Is(err, ErrArchiveTooLarge) {
		t.Fatalf("expected ErrArchiveTooLarge, got %v", err)
	}

	p.MaxExtractedBytes = limit + int64(len(chapter))
	if _, err := p.Parse(bytes.NewReader(data), "ok.epub"); err != nil {
		t.Fatalf("expected archive within limit to parse, got %v", err)
	}
}
