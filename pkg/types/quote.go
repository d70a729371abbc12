// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceKind distinguishes local documents from fetched pages.
type SourceKind string

const (
	SourceDocument SourceKind = "document"
	SourcePage     SourceKind = "page"
)

// RawDocument is acquired text plus the identifier it came from.
// It is not modified after acquisition.
type RawDocument struct {
	// Source is the file path or URL.
	Source string `json:"source" yaml:"source"`

	// Kind records whether Source is a local document or a fetched page.
	Kind SourceKind `json:"kind" yaml:"kind"`

	// Title is the page title or document base name.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Text is the full extracted text.
	Text string `json:"-" yaml:"-"`
}

// Passage is a contiguous slice of a RawDocument delimited by a
// structural marker (date line, salutation, numbering) or a fixed chunk.
type Passage struct {
	Source string
	Index  int
	Text   string
}

// Candidate is a single sentence-like span of a Passage.
type Candidate struct {
	Text string
	// Length counts Unicode code points, not bytes.
	Length int
}

// Message is one turn of a chat-format training record.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles used in training records.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TrainingExample is one chat-format JSONL record. The assistant turn
// always carries the quote verbatim.
type TrainingExample struct {
	Messages []Message `json:"messages"`
}

// PromptPair is one row of the tabular prompt/completion dataset.
type PromptPair struct {
	Prompt     string
	Completion string
}
