// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clean normalizes raw extracted text before segmentation.
// It removes page-number lines and known boilerplate and collapses
// whitespace. Clean is pure: identical input yields identical output.
package clean

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/quote-forge/pkg/types"
)

var (
	pageNumberLine = regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*$`)
	whitespaceRun  = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
)

// Cleaner holds compiled boilerplate patterns.
type Cleaner struct {
	boilerplate    []*regexp.Regexp
	keepLineBreaks bool
}

// New compiles the configured boilerplate patterns. Patterns are compiled
// with the s flag so that "." also matches line breaks and a banner spread
// over several lines is removed as one match.
func New(cfg types.CleanConfig) (*Cleaner, error) {
	c := &Cleaner{keepLineBreaks: cfg.KeepLineBreaks}
	for _, p := range cfg.Boilerplate {
		re, err := regexp.Compile("(?s)" + p)
		if err != nil {
			return nil, fmt.Errorf("compiling boilerplate pattern %q: %w", p, err)
		}
		c.boilerplate = append(c.boilerplate, re)
	}
	return c, nil
}

// Clean strips page numbers and boilerplate, then collapses every
// whitespace run to one character. A run containing a line break becomes
// "\n" when line breaks are kept, and a space otherwise.
func (c *Cleaner) Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = pageNumberLine.ReplaceAllString(text, "")
	for _, re := range c.boilerplate {
		text = re.ReplaceAllString(text, "")
	}
	text = whitespaceRun.ReplaceAllStringFunc(text, c.collapse)
	return strings.TrimSpace(text)
}

func (c *Cleaner) collapse(run string) string {
	if c.keepLineBreaks && strings.ContainsAny(run, "\n\r\v\f\u0085\u2028\u2029") {
		return "\n"
	}
	return " "
}
