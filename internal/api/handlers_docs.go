package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dgallion1/speedread/internal/reader"
	"github.com/go-chi/chi/v5"
)

const (
	defaultWordLimit = 500
	maxWordLimit     = 5000
)

// document resolves {docID} or writes a 404.
func (s *Server) document(w http.ResponseWriter, r *http.Request) *reader.Document {
	doc := s.orchestrator.Documents().Get(chi.URLParam(r, "docID"))
	if doc == nil {
		jsonError(w, "document not found", http.StatusNotFound)
	}
	return doc
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc := s.document(w, r)
	if doc == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"docId":          doc.ID,
		"fileName":       doc.FileName,
		"meta":           doc.Meta,
		"wordCount":      len(doc.Words),
		"paragraphCount": len(doc.Paragraphs),
		"fullText":       doc.FullText,
		"createdAt":      doc.CreatedAt,
	})
}

// handleWords returns a window of word units.
func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	doc := s.document(w, r)
	if doc == nil {
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		jsonError(w, "offset must be a non-negative integer", http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", defaultWordLimit)
	if err != nil || limit <= 0 {
		jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
		return
	}
	limit = min(limit, maxWordLimit)

	total := len(doc.Words)
	start := min(offset, total)
	end := min(start+limit, total)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"docId":  doc.ID,
		"offset": start,
		"limit":  limit,
		"total":  total,
		"words":  doc.Words[start:end],
	})
}

func (s *Server) handleParagraphs(w http.ResponseWriter, r *http.Request) {
	doc := s.document(w, r)
	if doc == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"docId":      doc.ID,
		"paragraphs": doc.Paragraphs,
	})
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	doc := s.document(w, r)
	if doc == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"docId":          doc.ID,
		"toc":            doc.TOC,
		"sentenceStarts": doc.SentenceStarts,
	})
}

// handleDeleteDocument evicts a document from the session cache.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if !s.orchestrator.Documents().Delete(docID) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	requestLog(r, s.log).Info("document evicted", "doc_id", docID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
