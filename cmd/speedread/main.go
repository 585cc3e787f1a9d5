// Package main is the speedread command-line entry point. It runs the
// same extraction and tokenization as the server against local files.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dgallion1/speedread/internal/parser"
	"github.com/dgallion1/speedread/internal/reader"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts parser.Options

	root := &cobra.Command{
		Use:          "speedread",
		Short:        "Turn documents into word streams for rapid serial reading",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.PDFFallbackPdftotext, "pdftotext", true, "fall back to pdftotext when PDF extraction finds no text")

	root.AddCommand(newWordsCmd(&opts), newTextCmd(&opts), newInfoCmd(&opts))
	return root
}

func newWordsCmd(opts *parser.Options) *cobra.Command {
	var offset, limit int
	cmd := &cobra.Command{
		Use:   "words FILE",
		Short: "Print word units as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if offset < 0 {
				return fmt.Errorf("offset must be non-negative")
			}
			doc, err := loadDocument(args[0], *opts)
			if err != nil {
				return err
			}
			start := min(offset, len(doc.Words))
			end := len(doc.Words)
			if limit > 0 {
				end = min(start+limit, end)
			}
			return writeJSONLines(cmd.OutOrStdout(), doc, start, end)
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "index of the first word to print")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of words to print (0 for all)")
	return cmd
}

func newTextCmd(opts *parser.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "text FILE",
		Short: "Print the paragraph-preserving full text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0], *opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.FullText)
			return err
		},
	}
}

func newInfoCmd(opts *parser.Options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Print document metadata and counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("unknown output format %q; use text or json", output)
			}
			doc, err := loadDocument(args[0], *opts)
			if err != nil {
				return err
			}
			info := documentInfo{
				FileName:   doc.FileName,
				DocID:      doc.ID,
				Meta:       doc.Meta,
				Words:      len(doc.Words),
				Paragraphs: len(doc.Paragraphs),
				Sentences:  len(doc.SentenceStarts),
				Headings:   len(doc.TOC),
			}
			w := cmd.OutOrStdout()
			if output == "json" {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintf(w, "File:       %s\n", info.FileName)
			fmt.Fprintf(w, "Format:     %s\n", info.Meta.Type)
			if info.Meta.Title != "" {
				fmt.Fprintf(w, "Title:      %s\n", info.Meta.Title)
			}
			if info.Meta.Creator != "" {
				fmt.Fprintf(w, "Creator:    %s\n", info.Meta.Creator)
			}
			fmt.Fprintf(w, "Words:      %d\n", info.Words)
			fmt.Fprintf(w, "Paragraphs: %d\n", info.Paragraphs)
			fmt.Fprintf(w, "Sentences:  %d\n", info.Sentences)
			fmt.Fprintf(w, "Headings:   %d\n", info.Headings)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

type documentInfo struct {
	FileName   string      `json:"fileName"`
	DocID      string      `json:"docId"`
	Meta       reader.Meta `json:"meta"`
	Words      int         `json:"words"`
	Paragraphs int         `json:"paragraphs"`
	Sentences  int         `json:"sentences"`
	Headings   int         `json:"headings"`
}

// loadDocument parses a local file and builds its reading session.
func loadDocument(path string, opts parser.Options) (*reader.Document, error) {
	name := filepath.Base(path)
	p, err := parser.ForFile(name, opts)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	tree, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	doc := reader.Build(tree, name)
	doc.ID = reader.DocumentID(data)
	doc.ContentHash = reader.ContentHashHex(data)
	return doc, nil
}

func writeJSONLines(w io.Writer, doc *reader.Document, start, end int) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, u := range doc.Words[start:end] {
		if err := enc.Encode(u); err != nil {
			return err
		}
	}
	return bw.Flush()
}
