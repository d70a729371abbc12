// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quote-forge/internal/dataset"
	"github.com/pdiddy/quote-forge/internal/filter"
	"github.com/pdiddy/quote-forge/internal/validate"
	"github.com/pdiddy/quote-forge/pkg/types"
)

const lettersText = "My dear friend, truth is the only god. 12\n1/2/1930\nDear Bapu, I remain ever grateful."

func testConfig(t *testing.T) types.PipelineConfig {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.Segment.MinPassages = 2
	cfg.Segment.MinPassageLength = 5
	cfg.Filter.MinLength = 20
	cfg.Dataset.OutputDir = t.TempDir()
	return cfg
}

func letters() []types.RawDocument {
	return []types.RawDocument{{Source: "letters.txt", Kind: types.SourceDocument, Text: lettersText}}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	log, _ := test.NewNullLogger()

	res, err := Run(context.Background(), letters(), cfg, dataset.NewRotatingChooser(), log, Options{Command: "extract"})
	require.NoError(t, err)

	assert.Equal(t, []string{"truth is the only god"}, res.Quotes)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, 1, res.Rejected[filter.ReasonJunk])
	assert.Equal(t, 3, res.Rejected[filter.ReasonTooShort])
	assert.Equal(t, 1, res.Rejected[filter.ReasonIrrelevant])

	require.NotNil(t, res.Manifest)
	require.Len(t, res.Manifest.Sources, 1)
	assert.Equal(t, "date", res.Manifest.Sources[0].Strategy)
	assert.Equal(t, 2, res.Manifest.Sources[0].Passages)

	rep, err := validate.File(res.Files.JSONL)
	require.NoError(t, err)
	assert.True(t, rep.OK())
	assert.Equal(t, 2, rep.Valid)

	m, err := dataset.ReadManifest(res.Files.Manifest)
	require.NoError(t, err)
	assert.Equal(t, res.Manifest.RunID, m.RunID)
	assert.Equal(t, "extract", m.Command)
	assert.Equal(t, 1, m.Quotes)
}

func TestRunNoQuotesWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	log, _ := test.NewNullLogger()
	docs := []types.RawDocument{{Source: "empty.txt", Kind: types.SourceDocument, Text: "12\n\n34"}}

	_, err := Run(context.Background(), docs, cfg, dataset.NewRotatingChooser(), log, Options{})
	require.ErrorIs(t, err, ErrNoQuotes)

	entries, err := os.ReadDir(cfg.Dataset.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunMergesEarlierListing(t *testing.T) {
	cfg := testConfig(t)
	log, _ := test.NewNullLogger()
	merge := filepath.Join(t.TempDir(), "gandhi_quotes.txt")
	require.NoError(t, dataset.WriteListing(merge, []string{
		"Love is the law of our being and the light of life.",
		"Truth is the only god",
	}))

	res, err := Run(context.Background(), letters(), cfg, dataset.NewRotatingChooser(), log, Options{MergePath: merge})
	require.NoError(t, err)
	assert.Equal(t, []string{"truth is the only god", "Love is the law of our being and the light of life."}, res.Quotes)
	assert.Equal(t, merge, res.Manifest.Merged)
	assert.Equal(t, 1, res.Manifest.MergedIn)
}

func TestRunMergeRecordsEarlierRun(t *testing.T) {
	earlierCfg := testConfig(t)
	log, hook := test.NewNullLogger()
	first, err := Run(context.Background(), letters(), earlierCfg, dataset.NewRotatingChooser(), log, Options{Command: "extract"})
	require.NoError(t, err)

	cfg := PageConfig(testConfig(t))
	page := "Love is stronger than any weapon ever known to mankind."
	docs := []types.RawDocument{{Source: "https://example.org/speech", Kind: types.SourcePage, Text: page}}
	hook.Reset()

	res, err := Run(context.Background(), docs, cfg, dataset.NewRotatingChooser(), log,
		Options{Command: "scrape", MergePath: first.Files.Listing})
	require.NoError(t, err)
	assert.Equal(t, first.Manifest.RunID, res.Manifest.MergedRun)
	assert.Equal(t, 1, res.Manifest.MergedIn)

	var merged *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "merged earlier listing" {
			merged = e
		}
	}
	require.NotNil(t, merged)
	assert.Equal(t, first.Manifest.RunID, merged.Data["run_id"])
	assert.Equal(t, "extract", merged.Data["command"])

	m, err := dataset.ReadManifest(res.Files.Manifest)
	require.NoError(t, err)
	assert.Equal(t, first.Manifest.RunID, m.MergedRun)
}

func TestRunMergeMissingListing(t *testing.T) {
	cfg := testConfig(t)
	log, _ := test.NewNullLogger()

	res, err := Run(context.Background(), letters(), cfg, dataset.NewRotatingChooser(), log,
		Options{MergePath: filepath.Join(t.TempDir(), "absent.txt")})
	require.NoError(t, err)
	assert.Len(t, res.Quotes, 1)
	assert.Empty(t, res.Manifest.Merged)
}

func TestRunPages(t *testing.T) {
	cfg := PageConfig(testConfig(t))
	cfg.Filter.MinLength = 30
	log, _ := test.NewNullLogger()
	page := "Mahatma Gandhi comprehensive website by Gandhian Institutions. " +
		"Truth is the highest of all virtues that a person may hold. " +
		"Love is stronger than any weapon ever known. " +
		"Service to others is the truest prayer of the soul. Peace be."
	docs := []types.RawDocument{{Source: "https://example.org/speech", Kind: types.SourcePage, Text: page}}

	res, err := Run(context.Background(), docs, cfg, dataset.NewRotatingChooser(), log, Options{Command: "scrape"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Truth is the highest of all virtues that a person may hold",
		"Love is stronger than any weapon ever known",
		"Service to others is the truest prayer of the soul",
	}, res.Quotes)
	assert.Equal(t, "whole", res.Manifest.Sources[0].Strategy)
	assert.Equal(t, "combined_gandhi_training.jsonl", filepath.Base(res.Files.JSONL))
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t)
	log, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, letters(), cfg, dataset.NewRotatingChooser(), log, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageConfig(t *testing.T) {
	base := types.DefaultConfig()
	cfg := PageConfig(base)

	assert.Equal(t, base.Scrape.MinWords, cfg.Filter.MinWords)
	assert.Equal(t, base.Scrape.Prefix, cfg.Dataset.Prefix)
	assert.Equal(t, types.DefaultNavigationPatterns, cfg.Filter.JunkPatterns)
	assert.Equal(t, types.DefaultPageKeywords, cfg.Filter.Keywords)
	assert.Empty(t, cfg.Filter.Salutations)
	assert.Zero(t, cfg.Filter.MinAlphaRun)
	assert.Equal(t, base.Scrape.UserPrompts, cfg.Dataset.UserPrompts)
	assert.Equal(t, base.Scrape.CSVPrompts, cfg.Dataset.CSVPrompts)
	assert.NotEqual(t, base.Dataset.UserPrompts, cfg.Dataset.UserPrompts)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, types.DefaultJunkPatterns, base.Filter.JunkPatterns, "base config must not be modified")
	assert.Equal(t, types.DefaultKeywords, base.Filter.Keywords)
	assert.Equal(t, types.DefaultSalutations, base.Filter.Salutations)
}

func TestPageFilterAcceptsSpeechSentences(t *testing.T) {
	f, err := NewFilter(PageConfig(types.DefaultConfig()).Filter)
	require.NoError(t, err)
	letterFilter, err := NewFilter(types.DefaultConfig().Filter)
	require.NoError(t, err)

	tests := []struct {
		text         string
		page         bool
		letterReason filter.Reason
	}{
		{"With love and truth we shall conquer the hearts of our oppressors", true, filter.ReasonSalutation},
		{"Blessings come to those who serve mankind without thought of reward", true, filter.ReasonSalutation},
		{"Satyagraha is the weapon of the strong and never of the weak", true, ""},
		{"Back Next", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.page, f.Accept(tt.text))
			if tt.letterReason != "" {
				reason, ok := letterFilter.Evaluate(tt.text)
				assert.False(t, ok)
				assert.Equal(t, tt.letterReason, reason)
			}
		})
	}
}

func TestNewFilterLanguageGate(t *testing.T) {
	cfg := types.DefaultConfig().Filter
	cfg.Language = "en"
	cfg.Languages = []string{"en"}
	_, err := NewFilter(cfg)
	assert.Error(t, err)

	cfg.Languages = []string{"en", "fr"}
	f, err := NewFilter(cfg)
	require.NoError(t, err)
	assert.True(t, f.Accept("Truth is the highest of all virtues and love is its faithful companion."))
}

func TestStats(t *testing.T) {
	s := Compute([]string{"Truth is God.", "abc", "सत्य"}, []string{"TRUTH"})
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 3, s.MinLength)
	assert.Equal(t, 13, s.MaxLength)
	assert.InDelta(t, 20.0/3, s.AvgLength, 1e-9)
	assert.Equal(t, 1, s.WithKeywords)
	assert.InDelta(t, 1.0/3, s.KeywordShare(), 1e-9)

	assert.Equal(t, Stats{}, Compute(nil, nil))
	assert.Zero(t, Stats{}.KeywordShare())
}

func TestPrintReport(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  string
	}{
		{"small", 3, "warning: only 3 quotes"},
		{"ok", 60, "ok: 60 quotes"},
		{"good", 120, "good: 120 quotes"},
		{"excellent", 250, "excellent: 250 quotes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotes := make([]string, tt.count)
			for i := range quotes {
				quotes[i] = strings.Repeat("x", i%40+1)
			}
			var buf bytes.Buffer
			PrintReport(&buf, Compute(quotes, nil), quotes)
			assert.Contains(t, buf.String(), tt.want)
			assert.Equal(t, min(10, tt.count), strings.Count(buf.String(), "\n  ")-5)
		})
	}
}
