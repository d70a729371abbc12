// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"
)

// SourceSummary records how one source document was segmented.
type SourceSummary struct {
	Source     string `yaml:"source"`
	Title      string `yaml:"title,omitempty"`
	Strategy   string `yaml:"strategy"`
	Passages   int    `yaml:"passages"`
	Candidates int    `yaml:"candidates"`
	Accepted   int    `yaml:"accepted"`
}

// Manifest describes one dataset run.
type Manifest struct {
	RunID      string          `yaml:"run_id"`
	Command    string          `yaml:"command"`
	StartedAt  time.Time       `yaml:"started_at"`
	FinishedAt time.Time       `yaml:"finished_at"`
	Sources    []SourceSummary `yaml:"sources"`
	Merged     string          `yaml:"merged,omitempty"`
	MergedRun  string          `yaml:"merged_run,omitempty"`
	MergedIn   int             `yaml:"merged_in,omitempty"`
	Quotes     int             `yaml:"quotes"`
	Records    int             `yaml:"records"`
	Rejected   map[string]int  `yaml:"rejected,omitempty"`
	Files      Files           `yaml:"files"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(command string, started time.Time) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Command:   command,
		StartedAt: started.UTC(),
		Rejected:  make(map[string]int),
	}
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// ManifestFor returns the manifest written alongside a quote listing, or ""
// when the listing name does not follow the <prefix>_quotes.txt pattern.
func ManifestFor(listing string) string {
	base := filepath.Base(listing)
	prefix, ok := strings.CutSuffix(base, "_quotes.txt")
	if !ok || prefix == "" {
		return ""
	}
	return PathsFor(filepath.Dir(listing), prefix).Manifest
}
