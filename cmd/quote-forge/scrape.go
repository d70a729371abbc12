// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/quote-forge/internal/acquire"
	"github.com/pdiddy/quote-forge/internal/dataset"
	"github.com/pdiddy/quote-forge/internal/pipeline"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [urls...]",
	Short: "Build a combined dataset from web pages",
	Long: `Scrape fetches each page in turn (honoring robots.txt and a delay between
requests), extracts its text, and keeps the quotable sentences. The result
is merged with the listing written by extract and saved under the scrape
prefix. Pages that fail are reported and skipped.

Without arguments the page list comes from scrape.urls.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("merge", "", "earlier quote listing to merge with (default <dataset prefix>_quotes.txt)")
	scrapeCmd.Flags().Bool("no-merge", false, "do not merge with an earlier listing")
	scrapeCmd.Flags().Duration("delay", 0, "delay between page requests (default from acquisition.page_delay)")
	scrapeCmd.Flags().Int64("seed", 0, "seed for template selection (default from dataset.seed; 0 picks a time-based seed)")
	scrapeCmd.Flags().Bool("deterministic", false, "rotate templates in order instead of choosing at random")

	rootCmd.AddCommand(scrapeCmd)
}

// mergePath picks the listing to merge: the flag, then scrape.merge, then
// the listing written by extract.
func mergePath(cmd *cobra.Command) string {
	if off, _ := cmd.Flags().GetBool("no-merge"); off {
		return ""
	}
	if p, _ := cmd.Flags().GetString("merge"); p != "" {
		return p
	}
	if cfg.Scrape.Merge != "" {
		return cfg.Scrape.Merge
	}
	return dataset.PathsFor(cfg.Dataset.OutputDir, cfg.Dataset.Prefix).Listing
}

func runScrape(cmd *cobra.Command, args []string) error {
	urls := args
	if len(urls) == 0 {
		urls = cfg.Scrape.URLs
	}
	if len(urls) == 0 {
		return fmt.Errorf("provide one or more page URLs or set scrape.urls")
	}

	acq := cfg.Acquisition
	if d, _ := cmd.Flags().GetDuration("delay"); d > 0 {
		acq.PageDelay = d
	}
	client := &http.Client{Timeout: acq.Timeout}

	fmt.Printf("Fetching %d page(s)\n", len(urls))
	batch := acquire.FetchPages(cmd.Context(), client, urls, acq, logger)
	fmt.Printf("Fetched %d of %d page(s)\n", batch.Fetched, batch.Total())
	if batch.HasFailures() {
		failed := make([]string, 0, len(batch.Errors))
		for u := range batch.Errors {
			failed = append(failed, u)
		}
		sort.Strings(failed)
		for _, u := range failed {
			fmt.Printf("  skipped %s: %v\n", u, batch.Errors[u])
		}
	}
	if err := cmd.Context().Err(); err != nil {
		return err
	}
	if batch.Fetched == 0 {
		return fmt.Errorf("no pages could be fetched")
	}

	pageCfg := pipeline.PageConfig(cfg)
	res, err := pipeline.Run(cmd.Context(), batch.Documents, pageCfg, newChooser(cmd), logger, pipeline.Options{
		Command:   "scrape",
		MergePath: mergePath(cmd),
	})
	if res.Manifest != nil && res.Manifest.Merged != "" {
		fmt.Printf("Merged %d quote(s) from %s\n", res.Manifest.MergedIn, res.Manifest.Merged)
	}
	return reportRun(res, err)
}
