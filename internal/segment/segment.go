// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits cleaned text into passages and passages into
// candidate sentences. Both steps are heuristic: they may under- or
// over-segment, and no heuristic is exact on every input.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/quote-forge/pkg/types"
)

// Strategy names the heuristic that produced a segmentation.
type Strategy string

const (
	StrategyDate       Strategy = "date"
	StrategySalutation Strategy = "salutation"
	StrategyNumbered   Strategy = "numbered"
	StrategyChunk      Strategy = "chunk"
	StrategyWhole      Strategy = "whole"
)

var (
	dateLine       = regexp.MustCompile(`(?m)^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	salutationLine = regexp.MustCompile(`(?m)^(?:My )?[Dd]ear [A-Z]`)
	numberedLine   = regexp.MustCompile(`(?m)^(?:Letter \d+|No\. \d+|\d+\.)`)

	// leadingSalutation matches "My dear friend, ..." and "Dear Bapu, ...".
	leadingSalutation = regexp.MustCompile(`^((?i:my\s+)?(?i:dear)\s+[^,]{1,40}),\s*(\S.*)$`)
)

// lineHeuristics are tried in order before falling back to fixed chunks.
var lineHeuristics = []struct {
	strategy Strategy
	marker   *regexp.Regexp
}{
	{StrategyDate, dateLine},
	{StrategySalutation, salutationLine},
	{StrategyNumbered, numberedLine},
}

// Segmentation is the outcome of splitting one document into passages.
type Segmentation struct {
	Strategy Strategy
	// Raw is the number of pieces before short passages were discarded.
	Raw      int
	Passages []types.Passage
}

// Segmenter applies the configured passage and sentence heuristics.
type Segmenter struct {
	cfg           types.SegmentConfig
	abbreviations map[string]bool
}

// New returns a Segmenter for cfg.
func New(cfg types.SegmentConfig) *Segmenter {
	abbr := make(map[string]bool, len(cfg.Abbreviations))
	for _, a := range cfg.Abbreviations {
		abbr[strings.ToLower(strings.TrimSuffix(a, "."))] = true
	}
	if cfg.TargetChunks < 1 {
		cfg.TargetChunks = 1
	}
	return &Segmenter{cfg: cfg, abbreviations: abbr}
}

// Passages splits text using the first line heuristic that yields at
// least MinPassages pieces, falling back to fixed-size chunks. Passages
// not longer than MinPassageLength characters are dropped.
func (s *Segmenter) Passages(text, source string) Segmentation {
	var (
		parts    []string
		strategy Strategy
	)
	for _, h := range lineHeuristics {
		parts = splitBeforeLines(text, h.marker)
		if len(parts) >= s.cfg.MinPassages {
			strategy = h.strategy
			break
		}
	}
	if strategy == "" {
		parts = chunk(text, s.cfg.TargetChunks)
		strategy = StrategyChunk
	}
	return s.keep(parts, source, strategy)
}

// Whole treats the entire text as a single passage. Page text has no
// line structure, so chunking it would only cut sentences apart.
func (s *Segmenter) Whole(text, source string) Segmentation {
	return s.keep([]string{text}, source, StrategyWhole)
}

func (s *Segmenter) keep(parts []string, source string, strategy Strategy) Segmentation {
	seg := Segmentation{Strategy: strategy, Raw: len(parts)}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) <= s.cfg.MinPassageLength {
			continue
		}
		seg.Passages = append(seg.Passages, types.Passage{
			Source: source,
			Index:  len(seg.Passages),
			Text:   p,
		})
	}
	return seg
}

// splitBeforeLines cuts text before every line that starts with marker,
// dropping the line break at each cut.
func splitBeforeLines(text string, marker *regexp.Regexp) []string {
	if text == "" {
		return nil
	}
	var parts []string
	start := 0
	for _, loc := range marker.FindAllStringIndex(text, -1) {
		if loc[0] == 0 {
			continue
		}
		parts = append(parts, text[start:loc[0]-1])
		start = loc[0]
	}
	return append(parts, text[start:])
}

// chunk splits text into pieces of len/target runes.
func chunk(text string, target int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	size := len(runes) / target
	if size < 1 {
		size = 1
	}
	var parts []string
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		parts = append(parts, string(runes[i:end]))
	}
	return parts
}

// Candidates splits a passage into sentence-like candidates.
func (s *Segmenter) Candidates(p types.Passage) []types.Candidate {
	var out []types.Candidate
	for _, sentence := range s.sentences(p.Text) {
		for _, part := range s.splitSalutation(sentence) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, types.Candidate{Text: part, Length: utf8.RuneCountInString(part)})
		}
	}
	return out
}

// sentences breaks on line breaks, on runs of '!' or '?' followed by
// whitespace, and on '.' followed by whitespace unless the period closes
// an initial or a known abbreviation. Terminators at a cut are dropped.
func (s *Segmenter) sentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	emit := func(end int) {
		if end > start {
			out = append(out, string(runes[start:end]))
		}
	}
	skipSpace := func(j int) int {
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		return j
	}

	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case r == '\n' || r == '\r':
			emit(i)
			start = skipSpace(i)
			i = start - 1
		case r == '!' || r == '?':
			j := i
			for j < len(runes) && (runes[j] == '!' || runes[j] == '?') {
				j++
			}
			if j < len(runes) && unicode.IsSpace(runes[j]) {
				emit(i)
				start = skipSpace(j)
				i = start - 1
			} else {
				i = j - 1
			}
		case r == '.':
			if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) && !s.protectedPeriod(runes, i) {
				emit(i)
				start = skipSpace(i + 1)
				i = start - 1
			}
		}
	}
	emit(len(runes))
	return out
}

// protectedPeriod reports whether the period at runes[i] belongs to an
// initial ("M. K. Gandhi") or a configured abbreviation ("Mr.").
func (s *Segmenter) protectedPeriod(runes []rune, i int) bool {
	if i == 0 {
		return false
	}
	if unicode.IsUpper(runes[i-1]) {
		return true
	}
	j := i
	for j > 0 && unicode.IsLetter(runes[j-1]) {
		j--
	}
	return s.abbreviations[strings.ToLower(string(runes[j:i]))]
}

func (s *Segmenter) splitSalutation(sentence string) []string {
	if !s.cfg.SplitSalutations {
		return []string{sentence}
	}
	m := leadingSalutation.FindStringSubmatch(strings.TrimSpace(sentence))
	if m == nil {
		return []string{sentence}
	}
	return []string{m[1], m[2]}
}
