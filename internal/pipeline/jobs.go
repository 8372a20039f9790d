package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a site generation job. The statuses
// after parsing follow the page lifecycle: split, ids resolved, navigation
// woven, symbols linked, rendered.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusConverting JobStatus = "converting"
	StatusSplitting  JobStatus = "splitting"
	StatusResolving  JobStatus = "resolving"
	StatusWeaving    JobStatus = "weaving"
	StatusLinking    JobStatus = "linking"
	StatusRendering  JobStatus = "rendering"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the generation of one input document into a page forest.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	// InputDir resolves relative image uris; OutputDir receives the pages.
	InputDir  string `json:"-"`
	OutputDir string `json:"-"`

	Depth         int  `json:"depth"`
	AddNavigation bool `json:"add_navigation"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	pages    []PageInfo
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalPages    int      `json:"total_pages"`
	PagesRendered int      `json:"pages_rendered"`
	DanglingRefs  int      `json:"dangling_refs"`
	LinkedSymbols int      `json:"linked_symbols"`
	Errors        []string `json:"errors"`
}

// PageInfo describes one generated page in navigation order.
type PageInfo struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Parent   string `json:"parent,omitempty"`
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

// Cleanup removes expired jobs and returns them.
func (s *JobStore) Cleanup() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var evicted []*Job
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
			evicted = append(evicted, job)
		}
	}
	return evicted
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalPages records the number of pages the split produced.
func (j *Job) SetTotalPages(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalPages = n
	j.UpdatedAt = time.Now()
}

// IncrPagesRendered atomically increments pages rendered.
func (j *Job) IncrPagesRendered() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.PagesRendered++
	j.UpdatedAt = time.Now()
}

// AddDangling records references whose target id was not found.
func (j *Job) AddDangling(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DanglingRefs += n
	j.UpdatedAt = time.Now()
}

// AddLinked records symbol mentions converted into links.
func (j *Job) AddLinked(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.LinkedSymbols += n
	j.UpdatedAt = time.Now()
}

// SetPages records the generated pages in navigation order.
func (j *Job) SetPages(pages []PageInfo) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pages = pages
}

// Pages returns the generated pages in navigation order.
func (j *Job) Pages() []PageInfo {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]PageInfo, len(j.pages))
	copy(out, j.pages)
	return out
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID            string    `json:"job_id"`
	Status        JobStatus `json:"status"`
	Phase         string    `json:"phase"`
	Filename      string    `json:"filename"`
	Depth         int       `json:"depth"`
	AddNavigation bool      `json:"add_navigation"`
	Progress      Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	return JobSnapshot{
		ID:            j.ID,
		Status:        j.Status,
		Phase:         j.Phase,
		Filename:      j.Filename,
		Depth:         j.Depth,
		AddNavigation: j.AddNavigation,
		Progress: Progress{
			TotalPages:    j.Progress.TotalPages,
			PagesRendered: j.Progress.PagesRendered,
			DanglingRefs:  j.Progress.DanglingRefs,
			LinkedSymbols: j.Progress.LinkedSymbols,
			Errors:        errs,
		},
	}
}
