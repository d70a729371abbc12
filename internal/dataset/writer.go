// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset writes accepted quotes as fine-tuning datasets: chat JSONL,
// prompt/completion CSV, a numbered listing for review, and a system prompt.
package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pdiddy/quote-forge/pkg/types"
)

// Templates are the prompt pools a chat record draws from.
type Templates struct {
	System []string
	User   []string
}

// WriteJSONL writes multiplicity chat records per quote, one JSON object per
// line. The system and user messages are picked by ch; the quote is always
// the assistant message. It returns the number of records written.
func WriteJSONL(path string, quotes []string, tpl Templates, multiplicity int, ch Chooser) (int, error) {
	if len(tpl.System) == 0 || len(tpl.User) == 0 {
		return 0, fmt.Errorf("at least one system and one user prompt are required")
	}
	if multiplicity < 1 {
		return 0, fmt.Errorf("multiplicity must be at least 1, got %d", multiplicity)
	}

	n := 0
	err := writeAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for _, q := range quotes {
			for range multiplicity {
				ex := types.TrainingExample{Messages: []types.Message{
					{Role: types.RoleSystem, Content: tpl.System[ch.Intn(len(tpl.System))]},
					{Role: types.RoleUser, Content: tpl.User[ch.Intn(len(tpl.User))]},
					{Role: types.RoleAssistant, Content: q},
				}}
				if err := enc.Encode(ex); err != nil {
					return fmt.Errorf("encoding record: %w", err)
				}
				n++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// WriteCSV writes a prompt,completion table. Row i uses prompts[i%len(prompts)].
func WriteCSV(path string, quotes, prompts []string) error {
	if len(prompts) == 0 {
		return fmt.Errorf("at least one CSV prompt is required")
	}
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"prompt", "completion"}); err != nil {
			return err
		}
		for i, q := range quotes {
			pair := types.PromptPair{Prompt: prompts[i%len(prompts)], Completion: q}
			if err := cw.Write([]string{pair.Prompt, pair.Completion}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// WriteListing writes "N. quote" entries separated by blank lines.
func WriteListing(path string, quotes []string) error {
	return writeAtomic(path, func(w io.Writer) error {
		for i, q := range quotes {
			if _, err := fmt.Fprintf(w, "%d. %s\n\n", i+1, q); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSystemPrompt renders the persona template, then lists the first n
// quotes as numbered examples and appends closing. The template sees
// .Count (examples listed) and .Total (all quotes).
func WriteSystemPrompt(path, persona, closing string, quotes []string, n int) error {
	tmpl, err := template.New("persona").Parse(persona)
	if err != nil {
		return fmt.Errorf("parsing persona template: %w", err)
	}
	if n > len(quotes) {
		n = len(quotes)
	}
	data := struct{ Count, Total int }{Count: n, Total: len(quotes)}

	return writeAtomic(path, func(w io.Writer) error {
		if err := tmpl.Execute(w, data); err != nil {
			return fmt.Errorf("rendering persona: %w", err)
		}
		for i, q := range quotes[:n] {
			if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, q); err != nil {
				return err
			}
		}
		if closing != "" {
			if _, err := fmt.Fprintf(w, "\n%s", closing); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeAtomic creates path's parent directories, writes through a temp file
// in the same directory, and renames it over path on success.
func writeAtomic(path string, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".dataset-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	bw := bufio.NewWriter(tmp)
	fillErr := fill(bw)
	if fillErr == nil {
		fillErr = bw.Flush()
	}
	closeErr := tmp.Close()
	if fillErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, fillErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
