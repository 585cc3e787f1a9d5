package reader

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/speedread/internal/parser"
	"github.com/dgallion1/speedread/internal/stats"
)

// Worker processes a single document job.
type Worker struct {
	docs       *DocumentStore
	stats      *stats.Processing
	log        *slog.Logger
	parserOpts parser.Options
}

func NewWorker(docs *DocumentStore, st *stats.Processing, log *slog.Logger, opts parser.Options) *Worker {
	return &Worker{
		docs:       docs,
		stats:      st,
		log:        log,
		parserOpts: opts,
	}
}

// Process runs extraction and tokenization for a job and caches the result.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)
	start := time.Now()

	data := job.FileData()
	hash := ContentHashHex(data)

	// Identical bytes were processed already; reuse the cached session.
	if existing := w.docs.FindByHash(hash); existing != nil {
		log.Info("duplicate upload, reusing document", "existing_doc_id", existing.ID)
		job.SetDocument(existing)
		job.SetStatus(StatusCached, "done")
		return
	}

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "queued")
		return
	}

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting")
	p, err := parser.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		w.fail(job, start, "extracting", err)
		return
	}

	tree, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		w.fail(job, start, "extracting", fmt.Errorf("parse: %w", err))
		return
	}
	if job.Title != "" {
		tree.Title = job.Title
	}

	// Phase 2: Tokenize
	job.SetStatus(StatusTokenizing, "tokenizing")
	doc := Build(tree, job.Filename)
	doc.ID = job.DocID
	doc.ContentHash = hash

	w.docs.Put(doc)
	job.SetDocument(doc)

	elapsed := time.Since(start)
	w.stats.Record(elapsed, len(doc.Words))
	log.Info("document ready",
		"words", len(doc.Words),
		"paragraphs", len(doc.Paragraphs),
		"format", doc.Meta.Type,
		"duration_ms", elapsed.Milliseconds(),
	)
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) fail(job *Job, start time.Time, phase string, err error) {
	w.stats.RecordFailure(time.Since(start))
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}
