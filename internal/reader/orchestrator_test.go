package reader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/speedread/internal/config"
)

func testOrchestrator(t *testing.T, mutate func(*config.Config)) *Orchestrator {
	t.Helper()
	cfg := config.Defaults()
	cfg.WorkerCount = 2
	if mutate != nil {
		mutate(&cfg)
	}
	o := NewOrchestrator(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	o.Start(context.Background())
	t.Cleanup(o.Stop)
	return o
}

func waitJob(t *testing.T, o *Orchestrator, job *Job) JobSnapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.Wait(ctx, job); err != nil {
		t.Fatalf("wait: %v", err)
	}
	return job.Snapshot()
}

func TestOrchestrator_ProcessesText(t *testing.T) {
	o := testOrchestrator(t, nil)
	job := NewJob("story.txt", "", []byte("Hello world.\n\nSecond paragraph here!"))
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snap := waitJob(t, o, job)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (%v)", snap.Status, snap.Progress.Errors)
	}
	doc := o.Documents().Get(snap.DocID)
	if doc == nil {
		t.Fatal("expected document in store")
	}
	if len(doc.Words) != 5 || len(doc.Paragraphs) != 2 {
		t.Errorf("expected 5 words in 2 paragraphs, got %d in %d", len(doc.Words), len(doc.Paragraphs))
	}
	if doc.FullText != "Hello world.\n\nSecond paragraph here!" {
		t.Errorf("unexpected full text %q", doc.FullText)
	}
	if o.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable")
	}
	if o.Stats().Snapshot().Count != 1 {
		t.Errorf("expected one recorded run")
	}
}

func TestOrchestrator_DuplicateUploadIsCached(t *testing.T) {
	o := testOrchestrator(t, nil)
	data := []byte("Same bytes twice.")

	first := NewJob("a.txt", "", data)
	if err := o.Submit(first); err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitJob(t, o, first)

	second := NewJob("b.txt", "", data)
	if err := o.Submit(second); err != nil {
		t.Fatalf("submit: %v", err)
	}
	snap := waitJob(t, o, second)
	if snap.Status != StatusCached {
		t.Fatalf("expected cached, got %q", snap.Status)
	}
	if second.Document() != first.Document() {
		t.Error("expected the cached document to be reused")
	}
}

func TestOrchestrator_UnsupportedFileFails(t *testing.T) {
	o := testOrchestrator(t, nil)
	job := NewJob("image.png", "", []byte{0x89, 'P', 'N', 'G'})
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	snap := waitJob(t, o, job)
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", snap.Status)
	}
	if job.Err() == "" {
		t.Error("expected an error message")
	}
	if o.Stats().Snapshot().Failed != 1 {
		t.Error("expected failure to be recorded")
	}
}

func TestOrchestrator_TitleOverride(t *testing.T) {
	o := testOrchestrator(t, nil)
	job := NewJob("notes.txt", "My Notes", []byte("body text"))
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitJob(t, o, job)
	if doc := job.Document(); doc == nil || doc.Meta.Title != "My Notes" {
		t.Errorf("expected title override, got %+v", doc)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaxQueueSize = 1
	// Not started: nothing drains the queue.
	o := NewOrchestrator(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := o.Submit(NewJob("a.txt", "", []byte("a"))); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	job := NewJob("b.txt", "", []byte("b"))
	err := o.Submit(job)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if job.Snapshot().Status != StatusFailed {
		t.Error("expected rejected job to be failed")
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}

	o.Stop()
	if err := o.Submit(NewJob("c.txt", "", nil)); err == nil {
		t.Error("expected submit after stop to fail")
	}
}

func TestOrchestrator_WaitTimeout(t *testing.T) {
	cfg := config.Defaults()
	o := NewOrchestrator(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	job := NewJob("a.txt", "", []byte("a"))
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := o.Wait(ctx, job); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}

	o.Stop()
	if job.Snapshot().Status != StatusFailed {
		t.Error("expected queued job to be failed on stop")
	}
}
