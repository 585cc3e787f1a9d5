package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/speedread/internal/parser"
	"github.com/dgallion1/speedread/internal/reader"
	"github.com/go-chi/chi/v5"
)

const unsupportedTypeMsg = "Unsupported file type. Please upload a PDF, EPUB, TXT, Markdown, HTML, or DOCX file."

// handleUpload processes a file and answers with the whole reading session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	job, ok := s.acceptUpload(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.UploadTimeout)
	defer cancel()
	if err := s.orchestrator.Wait(ctx, job); err != nil {
		requestLog(r, s.log).Warn("upload wait aborted", "job_id", job.ID, "error", err)
		jsonError(w, "Error processing file: "+err.Error(), http.StatusGatewayTimeout)
		return
	}

	doc := job.Document()
	if doc == nil {
		jsonError(w, "Error processing file: "+job.Err(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"words":    doc.Words,
		"fullText": doc.FullText,
		"meta":     doc.Meta,
		"fileName": job.Filename,
		"docId":    doc.ID,
	})
}

// handleSubmit queues a file and returns immediately with a job to poll.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	job, ok := s.acceptUpload(w, r)
	if !ok {
		return
	}

	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"doc_id":   snap.DocID,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s/status", snap.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// acceptUpload reads the multipart file, validates it and submits a job.
// It writes the error response itself and reports whether to continue.
func (s *Server) acceptUpload(w http.ResponseWriter, r *http.Request) (*reader.Job, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		requestLog(r, s.log).Info("unsupported upload", "filename", filename, "ext", filepath.Ext(filename))
		jsonError(w, unsupportedTypeMsg, http.StatusBadRequest)
		return nil, false
	}

	// Read file data.
	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, false
	}

	job := reader.NewJob(filename, strings.TrimSpace(r.FormValue("title")), data)
	if err := s.orchestrator.Submit(job); err != nil {
		requestLog(r, s.log).Warn("upload rejected", "job_id", job.ID, "error", err)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return nil, false
	}
	requestLog(r, s.log).Info("upload queued", "job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename, "bytes", len(data))
	return job, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
