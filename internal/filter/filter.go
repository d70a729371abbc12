// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter decides which candidate sentences become quotes.
//
// A candidate is first checked against reject rules (junk patterns, length
// bounds, letter content, salutations, word count, language). Survivors are
// accepted when they contain a keyword or fall inside the secondary length
// range. The policy is a relevance heuristic tuned on one corpus; false
// positives and negatives are expected.
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/quote-forge/pkg/types"
)

// Reason explains why a candidate was dropped.
type Reason string

const (
	ReasonJunk       Reason = "junk"
	ReasonTooShort   Reason = "too_short"
	ReasonTooLong    Reason = "too_long"
	ReasonNoLetters  Reason = "no_letters"
	ReasonSalutation Reason = "salutation"
	ReasonFewWords   Reason = "too_few_words"
	ReasonLanguage   Reason = "language"
	ReasonIrrelevant Reason = "irrelevant"
	ReasonDuplicate  Reason = "duplicate"
)

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// LanguageGate reports whether text is in the wanted language.
type LanguageGate interface {
	Accept(text string) bool
}

// Filter holds compiled rules.
type Filter struct {
	cfg      types.FilterConfig
	junk     []*regexp.Regexp
	alphaRun *regexp.Regexp
	keywords []string
	salutes  []string
	language LanguageGate
}

// Option configures a Filter.
type Option func(*Filter)

// WithLanguageGate rejects candidates the gate does not accept.
func WithLanguageGate(g LanguageGate) Option {
	return func(f *Filter) { f.language = g }
}

// New compiles cfg into a Filter. Junk patterns are compiled as written.
// A MinAlphaRun of zero turns the letter-run rule off.
func New(cfg types.FilterConfig, opts ...Option) (*Filter, error) {
	f := &Filter{cfg: cfg}
	if cfg.MinAlphaRun > 0 {
		f.alphaRun = regexp.MustCompile(fmt.Sprintf(`[a-zA-Z]{%d,}`, cfg.MinAlphaRun))
	}
	for _, p := range cfg.JunkPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling junk pattern %q: %w", p, err)
		}
		f.junk = append(f.junk, re)
	}
	for _, k := range cfg.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			f.keywords = append(f.keywords, k)
		}
	}
	for _, s := range cfg.Salutations {
		if s = strings.ToLower(s); strings.TrimSpace(s) != "" {
			f.salutes = append(f.salutes, s)
		}
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Reject reports whether text fails a reject rule, and which one.
func (f *Filter) Reject(text string) (Reason, bool) {
	for _, re := range f.junk {
		if re.MatchString(text) {
			return ReasonJunk, true
		}
	}
	n := utf8.RuneCountInString(text)
	if n < f.cfg.MinLength {
		return ReasonTooShort, true
	}
	if n > f.cfg.MaxLength {
		return ReasonTooLong, true
	}
	if f.alphaRun != nil && !f.alphaRun.MatchString(text) {
		return ReasonNoLetters, true
	}
	lower := strings.ToLower(text)
	for _, s := range f.salutes {
		if strings.HasPrefix(lower, s) {
			return ReasonSalutation, true
		}
	}
	if f.cfg.MinWords > 0 && len(wordPattern.FindAllString(text, -1)) < f.cfg.MinWords {
		return ReasonFewWords, true
	}
	if f.language != nil && !f.language.Accept(text) {
		return ReasonLanguage, true
	}
	return "", false
}

// HasKeyword reports whether text contains any keyword, ignoring case.
func (f *Filter) HasKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range f.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Evaluate returns the drop reason for text, or ok when it is a quote.
func (f *Filter) Evaluate(text string) (reason Reason, ok bool) {
	if r, rejected := f.Reject(text); rejected {
		return r, false
	}
	if f.HasKeyword(text) {
		return "", true
	}
	n := utf8.RuneCountInString(text)
	if n > f.cfg.AcceptMin && n < f.cfg.AcceptMax {
		return "", true
	}
	return ReasonIrrelevant, false
}

// Accept reports whether text should be kept as a quote.
func (f *Filter) Accept(text string) bool {
	_, ok := f.Evaluate(text)
	return ok
}

// Result is the outcome of filtering a candidate list.
type Result struct {
	Quotes   []string
	Rejected map[Reason]int
}

// Apply filters candidates in order and deduplicates the survivors.
func (f *Filter) Apply(candidates []types.Candidate) Result {
	res := Result{Rejected: make(map[Reason]int)}
	var kept []string
	for _, c := range candidates {
		if reason, ok := f.Evaluate(c.Text); !ok {
			res.Rejected[reason]++
			continue
		}
		kept = append(kept, c.Text)
	}
	res.Quotes = Dedup(kept)
	if d := len(kept) - len(res.Quotes); d > 0 {
		res.Rejected[ReasonDuplicate] += d
	}
	return res
}

// Dedup removes quotes whose trimmed, lower-cased text was already seen,
// keeping the first occurrence and the original order. Empty quotes are
// dropped. Dedup is idempotent.
func Dedup(quotes []string) []string {
	seen := make(map[string]bool, len(quotes))
	out := make([]string, 0, len(quotes))
	for _, q := range quotes {
		key := strings.ToLower(strings.TrimSpace(q))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}
