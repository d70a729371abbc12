// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quote-forge/pkg/types"
)

func newCleaner(t *testing.T, keepLineBreaks bool) *Cleaner {
	t.Helper()
	cfg := types.DefaultConfig().Clean
	cfg.KeepLineBreaks = keepLineBreaks
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestClean(t *testing.T) {
	tests := []struct {
		name           string
		in             string
		keepLineBreaks bool
		want           string
	}{
		{"collapses spaces", "truth   is\t\tgod", false, "truth is god"},
		{"newlines become spaces", "truth\n\n is\r\ngod", false, "truth is god"},
		{"newlines kept as one", "truth \n\n is\r\n god", true, "truth\nis\ngod"},
		{"page number line removed", "first page\n12\nsecond page", true, "first page\nsecond page"},
		{"inline number kept", "the 12 disciples", true, "the 12 disciples"},
		{"price boilerplate removed", "Price 2ls the letters", false, "the letters"},
		{"publisher banner removed", "PUBUSH£D BY someone in LAHORE Letters begin", false, "Letters begin"},
		{"multi-line banner removed", "PUBUSH£D BY\nTHE NAVAJIVAN PRESS\nLAHORE\nTruth is God.", true, "Truth is God."},
		{"banner across a blank line", "PUBUSH£D BY\n\n 12 \nLAHORE Truth is God.", false, "Truth is God."},
		{"trims", "  \n spaced \n ", true, "spaced"},
		{"empty", "", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newCleaner(t, tt.keepLineBreaks).Clean(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanNoRepeatedWhitespace(t *testing.T) {
	inputs := []string{
		"a  b",
		"a \n \t b",
		"line\n\n\n\nline",
		"nbsp  here",
		"ideographic　 　space",
		"12\n  34  \n\n56",
		"  Price 3ls  \n  Price 4ls  ",
		"x\v\fy z",
	}
	for _, keep := range []bool{true, false} {
		c := newCleaner(t, keep)
		for _, in := range inputs {
			out := c.Clean(in)
			prevSpace := false
			for _, r := range out {
				isSpace := unicode.IsSpace(r)
				assert.False(t, prevSpace && isSpace, "repeated whitespace in %q (from %q)", out, in)
				prevSpace = isSpace
			}
			assert.Equal(t, strings.TrimSpace(out), out)
		}
	}
}

func TestCleanDeterministic(t *testing.T) {
	c := newCleaner(t, true)
	in := "Dear friend,\n\n 4 \n truth   is god"
	assert.Equal(t, c.Clean(in), c.Clean(in))
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New(types.CleanConfig{Boilerplate: []string{"("}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boilerplate pattern")
}
