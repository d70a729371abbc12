// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quote-forge/pkg/types"
)

func testConfig() types.SegmentConfig {
	cfg := types.DefaultConfig().Segment
	cfg.MinPassages = 2
	cfg.MinPassageLength = 5
	return cfg
}

func texts(cands []types.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Text
	}
	return out
}

func TestPassagesStrategies(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     Strategy
		wantRaw  int
		firstHas string
	}{
		{
			name:     "date prefixed lines",
			text:     "Preface line here\n1/2/1930\nFirst letter body\n12-03-31\nSecond letter body",
			want:     StrategyDate,
			wantRaw:  3,
			firstHas: "Preface",
		},
		{
			name:     "salutation prefixed lines",
			text:     "Dear Mirabehn, first letter\nMy dear Jawaharlal, second letter",
			want:     StrategySalutation,
			wantRaw:  2,
			firstHas: "Mirabehn",
		},
		{
			name:     "numbered letters",
			text:     "Letter 1 to a friend\nLetter 2 to another\nNo. 3 to a third",
			want:     StrategyNumbered,
			wantRaw:  3,
			firstHas: "Letter 1",
		},
		{
			name:    "chunk fallback",
			text:    "no markers in this text at all, just prose that keeps on going",
			want:    StrategyChunk,
			wantRaw: 50,
		},
	}
	cfg := testConfig()
	cfg.MinPassageLength = 0
	s := New(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := s.Passages(tt.text, "doc.pdf")
			assert.Equal(t, tt.want, seg.Strategy)
			if tt.want != StrategyChunk {
				assert.Equal(t, tt.wantRaw, seg.Raw)
				require.NotEmpty(t, seg.Passages)
				assert.Contains(t, seg.Passages[0].Text, tt.firstHas)
			} else {
				assert.GreaterOrEqual(t, seg.Raw, tt.wantRaw)
			}
		})
	}
}

func TestPassagesDropsShort(t *testing.T) {
	cfg := testConfig()
	cfg.MinPassageLength = 20
	s := New(cfg)

	seg := s.Passages("1/1/1920\nshort\n2/1/1920\nthis passage is comfortably long", "doc")
	require.Len(t, seg.Passages, 1)
	assert.Equal(t, 2, seg.Raw)
	assert.Equal(t, "2/1/1920\nthis passage is comfortably long", seg.Passages[0].Text)
	assert.Equal(t, 0, seg.Passages[0].Index)
	assert.Equal(t, "doc", seg.Passages[0].Source)
}

func TestPassagesMinimumCountFallsThrough(t *testing.T) {
	cfg := testConfig()
	cfg.MinPassages = 3
	cfg.MinPassageLength = 0
	cfg.TargetChunks = 4
	s := New(cfg)

	// Only two date pieces, so the date heuristic does not win.
	seg := s.Passages("aaaa\n1/1/1920\nbbbbbbbbbbbb", "doc")
	assert.Equal(t, StrategyChunk, seg.Strategy)
	assert.Equal(t, "aaaa\n1/1/1920\nbbbbbbbbbbbb", strings.Join(passageTexts(seg), ""))
}

func passageTexts(seg Segmentation) []string {
	var out []string
	for _, p := range seg.Passages {
		out = append(out, p.Text)
	}
	return out
}

func TestPassagesEmpty(t *testing.T) {
	seg := New(testConfig()).Passages("", "doc")
	assert.Empty(t, seg.Passages)
}

func TestChunkTinyText(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, chunk("abc", 50))
	assert.Nil(t, chunk("", 50))
}

func TestCandidates(t *testing.T) {
	s := New(testConfig())
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "periods split sentences",
			text: "Truth is god. Love is the law. Service follows",
			want: []string{"Truth is god", "Love is the law", "Service follows"},
		},
		{
			name: "initials do not split",
			text: "Letter from M. K. Gandhi to the viceroy. He replied",
			want: []string{"Letter from M. K. Gandhi to the viceroy", "He replied"},
		},
		{
			name: "abbreviations do not split",
			text: "I met Mr. Andrews today. He was kind",
			want: []string{"I met Mr. Andrews today", "He was kind"},
		},
		{
			name: "exclamations and questions",
			text: "Is it so?! It is! Yes",
			want: []string{"Is it so", "It is", "Yes"},
		},
		{
			name: "line breaks split",
			text: "first line\nsecond line",
			want: []string{"first line", "second line"},
		},
		{
			name: "decimal kept",
			text: "It cost 2.5 rupees. Fine",
			want: []string{"It cost 2.5 rupees", "Fine"},
		},
		{
			name: "salutation split off",
			text: "My dear friend, truth is the only god. 12",
			want: []string{"My dear friend", "truth is the only god", "12"},
		},
		{
			name: "trailing period kept when nothing follows",
			text: "Dear Bapu, I remain ever grateful.",
			want: []string{"Dear Bapu", "I remain ever grateful."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Candidates(types.Passage{Text: tt.text})
			assert.Equal(t, tt.want, texts(got))
		})
	}
}

func TestCandidatesSalutationSplitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.SplitSalutations = false
	got := New(cfg).Candidates(types.Passage{Text: "Dear Bapu, I remain ever grateful"})
	assert.Equal(t, []string{"Dear Bapu, I remain ever grateful"}, texts(got))
}

func TestCandidateLengthCountsRunes(t *testing.T) {
	got := New(testConfig()).Candidates(types.Passage{Text: "सत्य ही ईश्वर है"})
	require.Len(t, got, 1)
	assert.Equal(t, len([]rune("सत्य ही ईश्वर है")), got[0].Length)
}

func TestEndToEndSegmentation(t *testing.T) {
	text := "My dear friend, truth is the only god. 12\n1/2/1930\nDear Bapu, I remain ever grateful."
	s := New(testConfig())

	seg := s.Passages(text, "letters")
	require.Equal(t, StrategyDate, seg.Strategy)
	require.Len(t, seg.Passages, 2)
	assert.True(t, strings.HasPrefix(seg.Passages[1].Text, "1/2/1930"),
		fmt.Sprintf("date passage not isolated: %q", seg.Passages[1].Text))

	var all []string
	for _, p := range seg.Passages {
		all = append(all, texts(s.Candidates(p))...)
	}
	assert.Contains(t, all, "truth is the only god")
	assert.Contains(t, all, "12")
	assert.Contains(t, all, "Dear Bapu")
}
