// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/quote-forge/internal/dataset"
	"github.com/pdiddy/quote-forge/internal/finetune"
	"github.com/pdiddy/quote-forge/internal/ledger"
	"github.com/pdiddy/quote-forge/internal/secrets"
	"github.com/pdiddy/quote-forge/pkg/types"
)

const (
	apiTimeout = 5 * time.Minute
	envFile    = ".env"
	secretsDir = ".secrets"
)

var finetuneCmd = &cobra.Command{
	Use:   "finetune",
	Short: "Upload a dataset and run a fine-tuning job",
	Long: `Finetune drives the fine-tuning API. "run" uploads the training file,
waits until it is processed, creates a job, and monitors it to completion,
saving the fine-tuned model id next to the training file. The other
subcommands perform one step each so that an interrupted run can be resumed.

The API key comes from OPENAI_API_KEY (a .env file is loaded first) or from
.secrets/openai-api-key. Uploads and jobs are recorded in the job ledger
under finetune.state_dir.`,
}

var finetuneRunCmd = &cobra.Command{
	Use:   "run [training-file]",
	Short: "Upload, create a job, and monitor it to completion",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFinetuneRun,
}

var finetuneUploadCmd = &cobra.Command{
	Use:   "upload [training-file]",
	Short: "Upload a training file and wait until it is processed",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFinetuneUpload,
}

var finetuneCreateCmd = &cobra.Command{
	Use:   "create <file-id>",
	Short: "Create a fine-tuning job for an uploaded file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFinetuneCreate,
}

var finetuneMonitorCmd = &cobra.Command{
	Use:   "monitor [job-id]",
	Short: "Poll a job until it finishes (default: the latest unfinished job)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFinetuneMonitor,
}

var finetuneCancelCmd = &cobra.Command{
	Use:   "cancel <job-id>",
	Short: "Cancel a running job",
	Args:  cobra.ExactArgs(1),
	RunE:  runFinetuneCancel,
}

func init() {
	for _, c := range []*cobra.Command{finetuneRunCmd, finetuneCreateCmd} {
		c.Flags().String("model", "", "base model (default from finetune.model)")
		c.Flags().String("suffix", "", "model name suffix (default from finetune.suffix)")
		c.Flags().Int("epochs", 0, "training epochs (default from finetune.epochs)")
	}

	finetuneCmd.AddCommand(finetuneRunCmd, finetuneUploadCmd, finetuneCreateCmd, finetuneMonitorCmd, finetuneCancelCmd)
	rootCmd.AddCommand(finetuneCmd)
}

// session bundles the API runner with the ledger it records into.
type session struct {
	runner *finetune.Runner
	store  *ledger.Store
}

func (s *session) Close() error {
	return s.store.Close()
}

func openSession() (*session, error) {
	key, err := secrets.ResolveAPIKey(envFile, secretsDir)
	if err != nil {
		return nil, err
	}

	client := finetune.NewClient(cfg.FineTune.BaseURL, key, &http.Client{Timeout: apiTimeout})
	client.MaxRetries = cfg.FineTune.MaxRetries
	client.Log = logger

	store, err := ledger.Open(cfg.FineTune.StateDir)
	if err != nil {
		return nil, err
	}
	return &session{
		runner: finetune.NewRunner(client, store, cfg.FineTune, os.Stdout, logger),
		store:  store,
	}, nil
}

// jobFlags overlays the model, suffix and epochs flags on the config.
func jobFlags(cmd *cobra.Command) {
	if m, _ := cmd.Flags().GetString("model"); m != "" {
		cfg.FineTune.Model = m
	}
	if s, _ := cmd.Flags().GetString("suffix"); s != "" {
		cfg.FineTune.Suffix = s
	}
	if e, _ := cmd.Flags().GetInt("epochs"); e > 0 {
		cfg.FineTune.Epochs = e
	}
}

func trainingPath(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return cfg.FineTune.TrainingFile
}

// modelIDPath places the model id next to the training file, named after
// its dataset prefix: combined_gandhi_training.jsonl ->
// combined_gandhi_model_id.txt.
func modelIDPath(training string) string {
	base := filepath.Base(training)
	prefix := strings.TrimSuffix(base, "_training.jsonl")
	if prefix == base {
		prefix = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return dataset.ModelIDPath(filepath.Dir(training), prefix)
}

// finish reports the outcome of monitoring job j. An interrupt leaves the
// job running and prints how to resume; success saves the model id next to
// the training file.
func finish(j types.FineTuneJob, err error, training string) error {
	if errors.Is(err, context.Canceled) {
		fmt.Printf("\nMonitoring stopped. Job %s is still running.\n", j.ID)
		fmt.Printf("Resume with: quote-forge finetune monitor %s\n", j.ID)
		return nil
	}
	if err != nil {
		return err
	}

	path := modelIDPath(training)
	if err := finetune.WriteModelID(path, j.FineTunedModel); err != nil {
		return fmt.Errorf("saving model id: %w", err)
	}
	fmt.Printf("Model id saved to %s\n", path)
	return nil
}

func runFinetuneRun(cmd *cobra.Command, args []string) error {
	jobFlags(cmd)
	path := trainingPath(args)
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	j, err := s.runner.Run(cmd.Context(), path, cfg.FineTune)
	if j.ID == "" {
		return err
	}
	return finish(j, err, path)
}

func runFinetuneUpload(cmd *cobra.Command, args []string) error {
	path := trainingPath(args)
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := s.runner.Upload(cmd.Context(), path)
	if err != nil {
		return err
	}
	fmt.Printf("File %s is ready. Next: quote-forge finetune create %s\n", f.ID, f.ID)
	return nil
}

func runFinetuneCreate(cmd *cobra.Command, args []string) error {
	jobFlags(cmd)
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	fileID := args[0]
	path := cfg.FineTune.TrainingFile
	if _, p, err := s.store.UploadStatus(ctx, fileID); err == nil {
		path = p
	}

	j, err := s.runner.Create(ctx, fileID, path, cfg.FineTune)
	if err != nil {
		return err
	}
	fmt.Printf("Next: quote-forge finetune monitor %s\n", j.ID)
	return nil
}

func runFinetuneMonitor(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	var jobID, path string
	if len(args) == 1 {
		jobID = args[0]
		path = cfg.FineTune.TrainingFile
		if rec, err := s.store.Job(ctx, jobID); err == nil && rec.TrainingPath != "" {
			path = rec.TrainingPath
		}
	} else {
		rec, err := s.store.LatestActive(ctx)
		if errors.Is(err, ledger.ErrNotFound) {
			return fmt.Errorf("no unfinished job in the ledger; pass a job id")
		}
		if err != nil {
			return err
		}
		jobID, path = rec.JobID, rec.TrainingPath
		if path == "" {
			path = cfg.FineTune.TrainingFile
		}
	}
	j, err := s.runner.Monitor(ctx, jobID)
	if j.ID == "" {
		j.ID = jobID
	}
	return finish(j, err, path)
}

func runFinetuneCancel(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.runner.Cancel(cmd.Context(), args[0])
	return err
}
