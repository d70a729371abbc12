// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"path/filepath"

	"github.com/pdiddy/quote-forge/pkg/types"
)

// Files names the outputs of one dataset run.
type Files struct {
	JSONL        string `yaml:"jsonl"`
	CSV          string `yaml:"csv"`
	Listing      string `yaml:"listing"`
	SystemPrompt string `yaml:"system_prompt"`
	Manifest     string `yaml:"manifest"`
}

// PathsFor derives output file names from a directory and prefix,
// e.g. "gandhi" -> gandhi_training.jsonl.
func PathsFor(dir, prefix string) Files {
	join := func(suffix string) string {
		return filepath.Join(dir, prefix+suffix)
	}
	return Files{
		JSONL:        join("_training.jsonl"),
		CSV:          join("_training.csv"),
		Listing:      join("_quotes.txt"),
		SystemPrompt: join("_system_prompt.txt"),
		Manifest:     join("_manifest.yaml"),
	}
}

// ModelIDPath is where a finished fine-tune records its model id.
func ModelIDPath(dir, prefix string) string {
	return filepath.Join(dir, prefix+"_model_id.txt")
}

// WriteAll writes the JSONL, CSV, listing and system prompt files for
// quotes, overwriting existing files. It returns the paths written and the
// number of JSONL records.
func WriteAll(cfg types.DatasetConfig, quotes []string, ch Chooser) (Files, int, error) {
	files := PathsFor(cfg.OutputDir, cfg.Prefix)

	records, err := WriteJSONL(files.JSONL, quotes, Templates{
		System: cfg.SystemPrompts,
		User:   cfg.UserPrompts,
	}, cfg.Multiplicity, ch)
	if err != nil {
		return files, 0, err
	}
	if err := WriteCSV(files.CSV, quotes, cfg.CSVPrompts); err != nil {
		return files, records, err
	}
	if err := WriteListing(files.Listing, quotes); err != nil {
		return files, records, err
	}
	if err := WriteSystemPrompt(files.SystemPrompt, cfg.Persona, cfg.Closing, quotes, cfg.PromptExamples); err != nil {
		return files, records, err
	}
	return files, records, nil
}
