package reader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/speedread/internal/config"
	"github.com/dgallion1/speedread/internal/parser"
	"github.com/dgallion1/speedread/internal/stats"
)

// extractedBytesFactor bounds decompressed archive content relative to the
// upload limit.
const extractedBytesFactor = 10

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full")

// Orchestrator runs uploaded documents through a bounded worker pool.
type Orchestrator struct {
	jobs  *JobStore
	docs  *DocumentStore
	stats *stats.Processing
	queue chan *Job
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		docs:  NewDocumentStore(cfg.DocumentTTL, cfg.MaxDocuments),
		stats: stats.NewProcessing(time.Hour),
		queue: make(chan *Job, cfg.MaxQueueSize),
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	opts := parser.Options{
		PDFFallbackPdftotext: o.cfg.PDFFallbackPdftotext,
		MaxExtractedBytes:    o.cfg.MaxUploadBytes * extractedBytesFactor,
	}
	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.docs, o.stats, o.log, opts)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(o.cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
				o.docs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Jobs still queued are failed.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()

	for job := range o.queue {
		job.AddError("server shutting down")
		job.SetStatus(StatusFailed, "queued")
	}
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return errors.New("pipeline stopped")
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// Wait blocks until the job finishes or ctx is done.
func (o *Orchestrator) Wait(ctx context.Context, job *Job) error {
	select {
	case <-job.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// Documents returns the session document store.
func (o *Orchestrator) Documents() *DocumentStore {
	return o.docs
}

// Stats returns processing statistics.
func (o *Orchestrator) Stats() *stats.Processing {
	return o.stats
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
