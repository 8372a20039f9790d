package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/symbols"
	"github.com/google/uuid"
)

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("pipeline is shutting down")

// Orchestrator runs generation jobs submitted over HTTP on a worker pool.
// Each job writes into its own directory under the data dir.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	worker *Worker
	log    *slog.Logger
	cfg    config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, index *symbols.Index, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		worker: NewWorker(cfg, index, log),
		log:    log,
		cfg:    cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					// Failures are recorded on the job.
					_ = o.worker.Process(workerCtx, job)
					job.SetFileData(nil)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.cleanup()
			}
		}
	}()
}

func (o *Orchestrator) cleanup() {
	for _, job := range o.jobs.Cleanup() {
		if err := os.RemoveAll(job.OutputDir); err != nil {
			o.log.Warn("remove expired site", "job_id", job.ID, "error", err)
		}
	}
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.mu.Unlock()
	o.wg.Wait()
}

// NewJob creates a queued job for an uploaded file. depth and navigation
// default to the configured values when nil.
func (o *Orchestrator) NewJob(filename string, data []byte, depth *int, navigation *bool) *Job {
	id := uuid.NewString()
	now := time.Now()
	job := &Job{
		ID:            id,
		Status:        StatusQueued,
		Phase:         "queued",
		Filename:      filename,
		OutputDir:     o.SiteDir(id),
		Depth:         o.cfg.Depth,
		AddNavigation: o.cfg.AddNavigation,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// Uploads carry no sibling files; relative images resolve against the
	// job's own directory and are reported missing.
	job.InputDir = job.OutputDir
	if depth != nil {
		job.Depth = *depth
	}
	if navigation != nil {
		job.AddNavigation = *navigation
	}
	job.SetFileData(data)
	return job
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "shutting_down")
		return ErrStopped
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// SiteDir is the output directory of job id.
func (o *Orchestrator) SiteDir(id string) string {
	return filepath.Join(o.cfg.DataDir, "sites", id)
}
