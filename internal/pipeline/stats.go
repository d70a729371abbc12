// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Stats summarizes a quote set.
type Stats struct {
	Count        int
	AvgLength    float64
	MinLength    int
	MaxLength    int
	WithKeywords int
}

// KeywordShare is the fraction of quotes containing a keyword.
func (s Stats) KeywordShare() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.WithKeywords) / float64(s.Count)
}

// Compute returns length and keyword statistics for quotes. Lengths count
// runes; keywords match case-insensitively.
func Compute(quotes, keywords []string) Stats {
	s := Stats{Count: len(quotes)}
	if len(quotes) == 0 {
		return s
	}
	lower := make([]string, 0, len(keywords))
	for _, k := range keywords {
		lower = append(lower, strings.ToLower(k))
	}

	total := 0
	s.MinLength = utf8.RuneCountInString(quotes[0])
	for _, q := range quotes {
		n := utf8.RuneCountInString(q)
		total += n
		s.MinLength = min(s.MinLength, n)
		s.MaxLength = max(s.MaxLength, n)
		lq := strings.ToLower(q)
		for _, k := range lower {
			if k != "" && strings.Contains(lq, k) {
				s.WithKeywords++
				break
			}
		}
	}
	s.AvgLength = float64(total) / float64(len(quotes))
	return s
}

const sampleCount = 10

// PrintReport writes the statistics, the first samples, and advice about
// dataset size to w.
func PrintReport(w io.Writer, s Stats, quotes []string) {
	fmt.Fprintf(w, "\nDataset statistics:\n")
	fmt.Fprintf(w, "  quotes:         %d\n", s.Count)
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(w, "  average length: %.0f chars\n", s.AvgLength)
	fmt.Fprintf(w, "  shortest:       %d chars\n", s.MinLength)
	fmt.Fprintf(w, "  longest:        %d chars\n", s.MaxLength)
	fmt.Fprintf(w, "  with keywords:  %d (%.0f%%)\n", s.WithKeywords, 100*s.KeywordShare())

	fmt.Fprintf(w, "\nSample quotes:\n")
	for i, q := range quotes[:min(sampleCount, len(quotes))] {
		fmt.Fprintf(w, "  %d. %s\n", i+1, q)
	}

	fmt.Fprintln(w)
	switch {
	case s.Count < 50:
		fmt.Fprintf(w, "warning: only %d quotes; at least 50 are recommended for fine-tuning\n", s.Count)
	case s.Count >= 200:
		fmt.Fprintf(w, "excellent: %d quotes is a strong dataset\n", s.Count)
	case s.Count >= 100:
		fmt.Fprintf(w, "good: %d quotes is a solid dataset\n", s.Count)
	default:
		fmt.Fprintf(w, "ok: %d quotes; more will improve results\n", s.Count)
	}
}
