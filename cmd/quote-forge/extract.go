// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pdiddy/quote-forge/internal/acquire"
	"github.com/pdiddy/quote-forge/internal/dataset"
	"github.com/pdiddy/quote-forge/internal/filter"
	"github.com/pdiddy/quote-forge/internal/pipeline"
	"github.com/pdiddy/quote-forge/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Build a training dataset from a local document",
	Long: `Extract reads a PDF or text document, removes scan boilerplate, splits it
into passages and sentences, keeps the quotable ones, and writes the JSONL
training set, CSV, quote listing, system prompt and manifest. Existing
output files are overwritten.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("document", "", "source document, PDF or text (default from acquisition.document)")
	extractCmd.Flags().Int64("seed", 0, "seed for template selection (default from dataset.seed; 0 picks a time-based seed)")
	extractCmd.Flags().Bool("deterministic", false, "rotate templates in order instead of choosing at random")

	rootCmd.AddCommand(extractCmd)
}

// newChooser returns the template chooser selected by the flags.
func newChooser(cmd *cobra.Command) dataset.Chooser {
	if det, _ := cmd.Flags().GetBool("deterministic"); det {
		return dataset.NewRotatingChooser()
	}
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = cfg.Dataset.Seed
	}
	return dataset.NewRandomChooser(seed)
}

func runExtract(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("document")
	if path == "" {
		path = cfg.Acquisition.Document
	}

	fmt.Printf("Reading %s\n", path)
	doc, err := acquire.ReadDocument(path)
	if err != nil {
		return err
	}
	fmt.Printf("Extracted %d characters\n", len([]rune(doc.Text)))

	res, err := pipeline.Run(cmd.Context(), []types.RawDocument{doc}, cfg, newChooser(cmd), logger, pipeline.Options{
		Command: "extract",
	})
	return reportRun(res, err)
}

// reportRun prints the outcome of a pipeline run shared by extract and
// scrape.
func reportRun(res pipeline.Result, err error) error {
	printRejected(res)
	if errors.Is(err, pipeline.ErrNoQuotes) {
		fmt.Println("No quotes survived filtering; nothing was written. Check the source text and filter settings.")
		return err
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nKept %d quotes, wrote %d training records\n", len(res.Quotes), res.Records)
	for _, f := range []string{res.Files.JSONL, res.Files.CSV, res.Files.Listing, res.Files.SystemPrompt, res.Files.Manifest} {
		fmt.Printf("  %s\n", f)
	}
	pipeline.PrintReport(os.Stdout, pipeline.Compute(res.Quotes, cfg.Filter.Keywords), res.Quotes)
	return nil
}

func printRejected(res pipeline.Result) {
	if len(res.Rejected) == 0 {
		return
	}
	reasons := make([]filter.Reason, 0, len(res.Rejected))
	for r := range res.Rejected {
		reasons = append(reasons, r)
	}
	slices.Sort(reasons)
	fmt.Println("Rejected candidates:")
	for _, r := range reasons {
		fmt.Printf("  %-14s %d\n", r, res.Rejected[r])
	}
}
