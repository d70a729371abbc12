// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FileStatus is the processing state of an uploaded training file.
type FileStatus string

const (
	FileUploaded  FileStatus = "uploaded"
	FileProcessed FileStatus = "processed"
	FileError     FileStatus = "error"
)

// JobStatus is the state of a fine-tuning job.
type JobStatus string

const (
	JobValidatingFiles JobStatus = "validating_files"
	JobQueued          JobStatus = "queued"
	JobRunning         JobStatus = "running"
	JobSucceeded       JobStatus = "succeeded"
	JobFailed          JobStatus = "failed"
	JobCancelled       JobStatus = "cancelled"
)

// Terminal reports whether no further status change is expected.
func (s JobStatus) Terminal() bool {
	return s == JobSucceeded || s == JobFailed || s == JobCancelled
}

// UploadedFile describes a training file held by the fine-tuning API.
type UploadedFile struct {
	ID            string     `json:"id" yaml:"id"`
	Filename      string     `json:"filename" yaml:"filename"`
	Bytes         int64      `json:"bytes" yaml:"bytes"`
	Purpose       string     `json:"purpose" yaml:"purpose"`
	Status        FileStatus `json:"status" yaml:"status"`
	StatusDetails string     `json:"status_details,omitempty" yaml:"status_details,omitempty"`
}

// JobError carries the API's explanation of a failed job.
type JobError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Param   string `json:"param,omitempty" yaml:"param,omitempty"`
}

func (e *JobError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// FineTuneJob describes a fine-tuning job as reported by the API.
type FineTuneJob struct {
	ID             string    `json:"id" yaml:"id"`
	Model          string    `json:"model" yaml:"model"`
	TrainingFile   string    `json:"training_file" yaml:"training_file"`
	Status         JobStatus `json:"status" yaml:"status"`
	FineTunedModel string    `json:"fine_tuned_model,omitempty" yaml:"fine_tuned_model,omitempty"`
	TrainedTokens  int64     `json:"trained_tokens,omitempty" yaml:"trained_tokens,omitempty"`
	Error          *JobError `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt      int64     `json:"created_at" yaml:"created_at"`
}

// JobRecord is a ledger row tying a job to the file and settings it used.
type JobRecord struct {
	JobID          string
	FileID         string
	TrainingPath   string
	Model          string
	Suffix         string
	Epochs         int
	Status         JobStatus
	FineTunedModel string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
