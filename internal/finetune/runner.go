// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finetune

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/quote-forge/pkg/types"
)

// API is the subset of Client the Runner uses.
type API interface {
	FileRetriever
	JobRetriever
	UploadFile(ctx context.Context, path string) (types.UploadedFile, error)
	CreateJob(ctx context.Context, r JobRequest) (types.FineTuneJob, error)
	CancelJob(ctx context.Context, id string) (types.FineTuneJob, error)
}

// Ledger records uploads and jobs so that a run can be resumed.
type Ledger interface {
	RecordUpload(ctx context.Context, f types.UploadedFile, path string) error
	RecordJob(ctx context.Context, rec types.JobRecord) error
	UpdateJob(ctx context.Context, j types.FineTuneJob) error
}

// Runner walks a training file through upload, job creation and
// monitoring, printing progress to Out.
type Runner struct {
	API        API
	Ledger     Ledger
	FilePoller Poller
	JobPoller  Poller
	Out        io.Writer
	Log        logrus.FieldLogger
}

// NewRunner builds a Runner from the fine-tune settings.
func NewRunner(api API, ledger Ledger, cfg types.FineTuneConfig, out io.Writer, log logrus.FieldLogger) *Runner {
	return &Runner{
		API:        api,
		Ledger:     ledger,
		FilePoller: Poller{Interval: cfg.FilePollInterval, MaxAttempts: cfg.MaxFilePolls},
		JobPoller:  Poller{Interval: cfg.JobPollInterval, MaxAttempts: cfg.MaxJobPolls},
		Out:        out,
		Log:        log,
	}
}

// Upload sends path to the API and waits until the file is processed.
func (r *Runner) Upload(ctx context.Context, path string) (types.UploadedFile, error) {
	if _, err := os.Stat(path); err != nil {
		return types.UploadedFile{}, fmt.Errorf("training file %s: %w (run extract or scrape first)", path, err)
	}
	fmt.Fprintf(r.Out, "uploading: %s\n", path)
	f, err := r.API.UploadFile(ctx, path)
	if err != nil {
		return f, fmt.Errorf("uploading %s: %w", path, err)
	}
	fmt.Fprintf(r.Out, "uploaded:  %s (%d bytes)\n", f.ID, f.Bytes)
	if err := r.Ledger.RecordUpload(ctx, f, path); err != nil {
		r.Log.WithError(err).Warn("could not record upload")
	}

	f, err = r.FilePoller.WaitForFile(ctx, r.API, f.ID, func(f types.UploadedFile) {
		fmt.Fprintf(r.Out, "  file status: %s\n", f.Status)
	})
	if err != nil {
		return f, err
	}
	if err := r.Ledger.RecordUpload(ctx, f, path); err != nil {
		r.Log.WithError(err).Warn("could not record upload")
	}
	return f, nil
}

// Create starts a job for an uploaded file and records it.
func (r *Runner) Create(ctx context.Context, fileID, trainingPath string, cfg types.FineTuneConfig) (types.FineTuneJob, error) {
	fmt.Fprintf(r.Out, "creating job: model %s, suffix %s, %d epochs\n", cfg.Model, cfg.Suffix, cfg.Epochs)
	j, err := r.API.CreateJob(ctx, JobRequest{
		Model:        cfg.Model,
		TrainingFile: fileID,
		Suffix:       cfg.Suffix,
		Epochs:       cfg.Epochs,
	})
	if err != nil {
		return j, fmt.Errorf("creating fine-tune job: %w", err)
	}
	fmt.Fprintf(r.Out, "job created: %s\n", j.ID)

	rec := types.JobRecord{
		JobID:        j.ID,
		FileID:       fileID,
		TrainingPath: trainingPath,
		Model:        cfg.Model,
		Suffix:       cfg.Suffix,
		Epochs:       cfg.Epochs,
		Status:       j.Status,
	}
	if err := r.Ledger.RecordJob(ctx, rec); err != nil {
		r.Log.WithError(err).Warn("could not record job")
	}
	return j, nil
}

// Monitor polls a job until it settles, recording each status change.
func (r *Runner) Monitor(ctx context.Context, jobID string) (types.FineTuneJob, error) {
	fmt.Fprintf(r.Out, "monitoring job: %s\n", jobID)
	var last types.JobStatus
	j, err := r.JobPoller.WaitForJob(ctx, r.API, jobID, func(j types.FineTuneJob) {
		if j.TrainedTokens > 0 {
			fmt.Fprintf(r.Out, "  job status: %s (trained tokens: %d)\n", j.Status, j.TrainedTokens)
		} else {
			fmt.Fprintf(r.Out, "  job status: %s\n", j.Status)
		}
		if j.Status != last {
			last = j.Status
			if err := r.Ledger.UpdateJob(ctx, j); err != nil {
				r.Log.WithError(err).Warn("could not update job record")
			}
		}
	})
	if err != nil {
		return j, err
	}
	fmt.Fprintf(r.Out, "fine-tuned model: %s\n", j.FineTunedModel)
	return j, nil
}

// Run uploads path, creates a job, and monitors it to completion. Once a
// job exists the returned job carries its id even when monitoring fails, so
// the caller can tell the user what to resume.
func (r *Runner) Run(ctx context.Context, path string, cfg types.FineTuneConfig) (types.FineTuneJob, error) {
	f, err := r.Upload(ctx, path)
	if err != nil {
		return types.FineTuneJob{}, err
	}
	created, err := r.Create(ctx, f.ID, path, cfg)
	if err != nil {
		return created, err
	}
	j, err := r.Monitor(ctx, created.ID)
	if err != nil && j.ID == "" {
		j.ID = created.ID
	}
	return j, err
}

// Cancel cancels a job and records the new status.
func (r *Runner) Cancel(ctx context.Context, jobID string) (types.FineTuneJob, error) {
	j, err := r.API.CancelJob(ctx, jobID)
	if err != nil {
		return j, fmt.Errorf("cancelling %s: %w", jobID, err)
	}
	if err := r.Ledger.UpdateJob(ctx, j); err != nil {
		r.Log.WithError(err).Warn("could not update job record")
	}
	fmt.Fprintf(r.Out, "job %s: %s\n", j.ID, j.Status)
	return j, nil
}

// WriteModelID saves a fine-tuned model id to path.
func WriteModelID(path, modelID string) error {
	if modelID == "" {
		return fmt.Errorf("job has no fine-tuned model id")
	}
	return os.WriteFile(path, []byte(modelID+"\n"), 0o644)
}
