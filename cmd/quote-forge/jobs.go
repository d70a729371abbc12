// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/quote-forge/internal/ledger"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List fine-tuning jobs recorded in the ledger",
	RunE:  runJobs,
}

func init() {
	jobsCmd.Flags().Int("limit", 20, "maximum number of jobs to list (0 for all)")
	jobsCmd.Flags().Bool("yaml", false, "print the records as YAML")

	rootCmd.AddCommand(jobsCmd)
}

// jobView is the YAML shape of a ledger row.
type jobView struct {
	JobID          string `yaml:"job_id"`
	Status         string `yaml:"status"`
	Model          string `yaml:"model"`
	Suffix         string `yaml:"suffix,omitempty"`
	FileID         string `yaml:"file_id,omitempty"`
	TrainingPath   string `yaml:"training_path,omitempty"`
	FineTunedModel string `yaml:"fine_tuned_model,omitempty"`
	Created        string `yaml:"created"`
	Updated        string `yaml:"updated"`
}

func runJobs(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	store, err := ledger.Open(cfg.FineTune.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.Jobs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No jobs recorded.")
		return nil
	}

	if asYAML {
		views := make([]jobView, len(recs))
		for i, r := range recs {
			views[i] = jobView{
				JobID:          r.JobID,
				Status:         string(r.Status),
				Model:          r.Model,
				Suffix:         r.Suffix,
				FileID:         r.FileID,
				TrainingPath:   r.TrainingPath,
				FineTunedModel: r.FineTunedModel,
				Created:        r.CreatedAt.Format("2006-01-02 15:04:05"),
				Updated:        r.UpdatedAt.Format("2006-01-02 15:04:05"),
			}
		}
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(views)
	}

	for _, r := range recs {
		model := r.FineTunedModel
		if model == "" {
			model = "-"
		}
		fmt.Printf("%-32s %-18s %s  %s\n", r.JobID, r.Status, r.CreatedAt.Format("2006-01-02 15:04"), model)
	}
	return nil
}
