// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs raw documents through cleaning, segmentation and
// filtering, and writes the resulting dataset.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/quote-forge/internal/clean"
	"github.com/pdiddy/quote-forge/internal/dataset"
	"github.com/pdiddy/quote-forge/internal/filter"
	"github.com/pdiddy/quote-forge/internal/segment"
	"github.com/pdiddy/quote-forge/pkg/types"
)

// ErrNoQuotes is returned when no candidate survives filtering. No files
// are written in that case.
var ErrNoQuotes = errors.New("no quotes extracted")

// Options selects run-level behavior.
type Options struct {
	// Command is recorded in the manifest ("extract", "scrape").
	Command string

	// MergePath names an existing quote listing whose entries are appended
	// after this run's quotes. A missing file is skipped.
	MergePath string
}

// Result is the outcome of a pipeline run.
type Result struct {
	Quotes   []string
	Rejected map[filter.Reason]int
	Files    dataset.Files
	Records  int
	Manifest *dataset.Manifest
}

// Run cleans, segments and filters each document, deduplicates quotes
// across documents, optionally merges an earlier listing, and writes the
// dataset files and manifest. Page documents are segmented as a single
// passage; local documents go through the passage heuristics.
func Run(ctx context.Context, docs []types.RawDocument, cfg types.PipelineConfig, ch dataset.Chooser, log logrus.FieldLogger, opts Options) (Result, error) {
	res := Result{Rejected: make(map[filter.Reason]int)}
	manifest := dataset.NewManifest(opts.Command, time.Now())

	cleaner, err := clean.New(cfg.Clean)
	if err != nil {
		return res, err
	}
	seg := segment.New(cfg.Segment)
	flt, err := NewFilter(cfg.Filter)
	if err != nil {
		return res, err
	}

	var quotes []string
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		entry := log.WithField("source", doc.Source)

		text := cleaner.Clean(doc.Text)
		var s segment.Segmentation
		if doc.Kind == types.SourcePage {
			s = seg.Whole(text, doc.Source)
		} else {
			s = seg.Passages(text, doc.Source)
		}

		var cands []types.Candidate
		for _, p := range s.Passages {
			cands = append(cands, seg.Candidates(p)...)
		}
		fr := flt.Apply(cands)
		for reason, n := range fr.Rejected {
			res.Rejected[reason] += n
		}
		quotes = append(quotes, fr.Quotes...)

		entry.WithFields(logrus.Fields{
			"strategy":   s.Strategy,
			"passages":   len(s.Passages),
			"candidates": len(cands),
			"quotes":     len(fr.Quotes),
		}).Info("document processed")
		manifest.Sources = append(manifest.Sources, dataset.SourceSummary{
			Source:     doc.Source,
			Title:      doc.Title,
			Strategy:   string(s.Strategy),
			Passages:   len(s.Passages),
			Candidates: len(cands),
			Accepted:   len(fr.Quotes),
		})
	}

	unique := filter.Dedup(quotes)
	if d := len(quotes) - len(unique); d > 0 {
		res.Rejected[filter.ReasonDuplicate] += d
	}

	if opts.MergePath != "" {
		earlier, err := dataset.ReadListing(opts.MergePath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.WithField("path", opts.MergePath).Info("no earlier listing to merge")
		case err != nil:
			return res, fmt.Errorf("merging %s: %w", opts.MergePath, err)
		default:
			before := len(unique)
			unique = filter.Dedup(append(unique, earlier...))
			manifest.Merged = opts.MergePath
			manifest.MergedIn = len(unique) - before
			fields := logrus.Fields{
				"path":  opts.MergePath,
				"read":  len(earlier),
				"added": manifest.MergedIn,
			}
			if prev := earlierRun(opts.MergePath, log); prev != nil {
				manifest.MergedRun = prev.RunID
				fields["run_id"] = prev.RunID
				fields["command"] = prev.Command
				fields["finished_at"] = prev.FinishedAt
			}
			log.WithFields(fields).Info("merged earlier listing")
		}
	}

	res.Quotes = unique
	if len(unique) == 0 {
		return res, ErrNoQuotes
	}

	files, records, err := dataset.WriteAll(cfg.Dataset, unique, ch)
	if err != nil {
		return res, fmt.Errorf("writing dataset: %w", err)
	}
	res.Files = files
	res.Records = records

	manifest.Quotes = len(unique)
	manifest.Records = records
	for reason, n := range res.Rejected {
		manifest.Rejected[string(reason)] = n
	}
	manifest.Files = files
	manifest.FinishedAt = time.Now().UTC()
	if err := dataset.WriteManifest(files.Manifest, manifest); err != nil {
		return res, fmt.Errorf("writing manifest: %w", err)
	}
	res.Manifest = manifest
	return res, nil
}

// NewFilter builds the quote filter, adding the language gate when a
// target language is configured.
func NewFilter(cfg types.FilterConfig) (*filter.Filter, error) {
	var opts []filter.Option
	if cfg.Language != "" {
		gate, err := filter.NewLinguaGate(cfg.Languages, cfg.Language)
		if err != nil {
			return nil, err
		}
		opts = append(opts, filter.WithLanguageGate(gate))
	}
	return filter.New(cfg, opts...)
}

// earlierRun reads the manifest of the run that wrote listing. A missing
// manifest is not an error; an unreadable one is logged and skipped.
func earlierRun(listing string, log logrus.FieldLogger) *dataset.Manifest {
	path := dataset.ManifestFor(listing)
	if path == "" {
		return nil
	}
	m, err := dataset.ReadManifest(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("skipping earlier manifest")
		return nil
	}
	return m
}

// PageConfig adapts cfg for web pages. The scrape section supplies the
// filter's junk patterns, keywords, salutations and word minimum, the
// dataset prompts, and the combined output prefix. Page text has no
// letter-run rule.
func PageConfig(cfg types.PipelineConfig) types.PipelineConfig {
	out := cfg
	out.Filter.JunkPatterns = cfg.Scrape.NavigationPatterns
	out.Filter.Keywords = cfg.Scrape.Keywords
	out.Filter.Salutations = cfg.Scrape.Salutations
	out.Filter.MinWords = cfg.Scrape.MinWords
	out.Filter.MinAlphaRun = 0
	out.Dataset.UserPrompts = cfg.Scrape.UserPrompts
	out.Dataset.CSVPrompts = cfg.Scrape.CSVPrompts
	out.Dataset.Prefix = cfg.Scrape.Prefix
	return out
}
