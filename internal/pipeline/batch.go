package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BatchOptions apply to every file of a batch run.
type BatchOptions struct {
	OutputDir     string
	Depth         int
	AddNavigation bool
}

// NewFileJob reads path into a job writing to opts.OutputDir.
func NewFileJob(path string, opts BatchOptions) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	now := time.Now()
	job := &Job{
		ID:            uuid.NewString(),
		Status:        StatusQueued,
		Phase:         "queued",
		Filename:      filepath.Base(path),
		InputDir:      filepath.Dir(path),
		OutputDir:     opts.OutputDir,
		Depth:         opts.Depth,
		AddNavigation: opts.AddNavigation,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	job.SetFileData(data)
	return job, nil
}

// RunBatch generates every file in order. A failing file does not stop the
// batch; all failures are returned joined.
func (w *Worker) RunBatch(ctx context.Context, paths []string, opts BatchOptions) ([]*Job, error) {
	var (
		jobs []*Job
		errs []error
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		job, err := NewFileJob(path, opts)
		if err != nil {
			w.log.Error("skipping input", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}
		jobs = append(jobs, job)
		if err := w.Process(ctx, job); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return jobs, errors.Join(errs...)
}
