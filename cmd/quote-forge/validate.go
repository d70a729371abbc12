// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/quote-forge/internal/validate"
)

const shownErrors = 10

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a JSONL training file before upload",
	Long: `Validate reads a JSONL training file line by line and checks that each
line is a JSON object whose messages list holds at least two entries with a
role and content. It prints the number of valid lines and the first errors,
and exits non-zero when any line is invalid.

Without an argument the file comes from finetune.training_file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := cfg.FineTune.TrainingFile
	if len(args) == 1 {
		path = args[0]
	}

	report, err := validate.File(path)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d valid line(s), %d error(s)\n", path, report.Valid, len(report.Errors))
	for _, e := range report.FirstErrors(shownErrors) {
		fmt.Printf("  %s\n", e)
	}
	if extra := len(report.Errors) - shownErrors; extra > 0 {
		fmt.Printf("  ... and %d more\n", extra)
	}
	if !report.OK() {
		return fmt.Errorf("%s is not a valid training file", path)
	}
	if report.Valid == 0 {
		return fmt.Errorf("%s contains no training lines", path)
	}
	fmt.Println("File is ready for fine-tuning.")
	return nil
}
