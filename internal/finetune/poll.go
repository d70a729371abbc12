// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finetune

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/quote-forge/pkg/types"
)

var (
	// ErrFileFailed means the API could not process an uploaded file.
	ErrFileFailed = errors.New("training file processing failed")

	// ErrJobFailed means the fine-tuning job ended in failure.
	ErrJobFailed = errors.New("fine-tuning job failed")

	// ErrJobCancelled means the job was cancelled before finishing.
	ErrJobCancelled = errors.New("fine-tuning job was cancelled")

	// ErrPollExhausted means the poll budget ran out before a terminal state.
	ErrPollExhausted = errors.New("gave up waiting for a terminal status")
)

// Sleeper pauses between polls.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep implements Sleeper.
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// ClockSleeper waits on a real timer.
var ClockSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
})

// FileRetriever reads an uploaded file's status.
type FileRetriever interface {
	RetrieveFile(ctx context.Context, id string) (types.UploadedFile, error)
}

// JobRetriever reads a job's status.
type JobRetriever interface {
	RetrieveJob(ctx context.Context, id string) (types.FineTuneJob, error)
}

// Poller repeats a status query every Interval, at most MaxAttempts times.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
	Sleeper     Sleeper
}

func (p Poller) sleeper() Sleeper {
	if p.Sleeper == nil {
		return ClockSleeper
	}
	return p.Sleeper
}

// WaitForFile polls until the file is processed. observe, when non-nil,
// sees every status read.
func (p Poller) WaitForFile(ctx context.Context, api FileRetriever, id string, observe func(types.UploadedFile)) (types.UploadedFile, error) {
	var last types.UploadedFile
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		f, err := api.RetrieveFile(ctx, id)
		if err != nil {
			return last, fmt.Errorf("retrieving file %s: %w", id, err)
		}
		last = f
		if observe != nil {
			observe(f)
		}
		switch f.Status {
		case types.FileProcessed:
			return f, nil
		case types.FileError:
			if f.StatusDetails != "" {
				return f, fmt.Errorf("%w: %s", ErrFileFailed, f.StatusDetails)
			}
			return f, ErrFileFailed
		}
		if attempt == p.MaxAttempts {
			break
		}
		if err := p.sleeper().Sleep(ctx, p.Interval); err != nil {
			return last, err
		}
	}
	return last, fmt.Errorf("file %s after %d polls: %w", id, p.MaxAttempts, ErrPollExhausted)
}

// WaitForJob polls until the job reaches a terminal status. A succeeded
// job returns nil; failed and cancelled jobs return ErrJobFailed and
// ErrJobCancelled.
func (p Poller) WaitForJob(ctx context.Context, api JobRetriever, id string, observe func(types.FineTuneJob)) (types.FineTuneJob, error) {
	var last types.FineTuneJob
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		j, err := api.RetrieveJob(ctx, id)
		if err != nil {
			return last, fmt.Errorf("retrieving job %s: %w", id, err)
		}
		last = j
		if observe != nil {
			observe(j)
		}
		switch j.Status {
		case types.JobSucceeded:
			return j, nil
		case types.JobFailed:
			if j.Error != nil && j.Error.Message != "" {
				return j, fmt.Errorf("%w: %v", ErrJobFailed, j.Error)
			}
			return j, ErrJobFailed
		case types.JobCancelled:
			return j, ErrJobCancelled
		}
		if attempt == p.MaxAttempts {
			break
		}
		if err := p.sleeper().Sleep(ctx, p.Interval); err != nil {
			return last, err
		}
	}
	return last, fmt.Errorf("job %s after %d polls: %w", id, p.MaxAttempts, ErrPollExhausted)
}
