package reader

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a document processing job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusTokenizing JobStatus = "tokenizing"
	StatusCompleted  JobStatus = "completed"
	StatusCached     JobStatus = "cached"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions follow.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCached || s == StatusFailed
}

// Job tracks the state of a single uploaded document.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	document *Document
	errors   []string
	done     chan struct{}
	doneOnce sync.Once
}

// Progress summarizes what processing produced so far.
type Progress struct {
	Words      int      `json:"words"`
	Paragraphs int      `json:"paragraphs"`
	Errors     []string `json:"errors"`
}

// NewJob creates a queued job for an upload.
func NewJob(filename, title string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		DocID:     DocumentID(data),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
		done:      make(chan struct{}),
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes finished jobs idle for longer than the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		snap := job.Snapshot()
		if snap.Status.Terminal() && now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically. Terminal statuses release
// anyone waiting on Done.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
	if status.Terminal() {
		// Upload bytes are no longer needed.
		j.fileData = nil
	}
	j.mu.Unlock()

	if status.Terminal() && j.done != nil {
		j.doneOnce.Do(func() { close(j.done) })
	}
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetDocument attaches the processed document.
func (j *Job) SetDocument(doc *Document) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.document = doc
	j.DocID = doc.ID
	j.Progress.Words = len(doc.Words)
	j.Progress.Paragraphs = len(doc.Paragraphs)
	j.UpdatedAt = time.Now()
}

// Document returns the processed document, nil until the job succeeds.
func (j *Job) Document() *Document {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.document
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// Done is closed once the job reaches a terminal status.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Err returns the first recorded error, or "" if none.
func (j *Job) Err() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.errors) == 0 {
		return ""
	}
	return j.errors[0]
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	DocID    string    `json:"doc_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:       j.ID,
		DocID:    j.DocID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Progress: Progress{
			Words:      j.Progress.Words,
			Paragraphs: j.Progress.Paragraphs,
			Errors:     errs,
		},
	}
}
