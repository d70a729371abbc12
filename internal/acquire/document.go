// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/quote-forge/pkg/types"
)

// ErrDocumentNotFound is returned when the source document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// ReadDocument loads a local document and returns its raw text. PDF files
// are decoded page by page; .txt and .md files are read as-is.
func ReadDocument(path string) (types.RawDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			wd, _ := os.Getwd()
			return types.RawDocument{}, fmt.Errorf(
				"%w: %s (working directory %s); place the file there or pass --document / set acquisition.document",
				ErrDocumentNotFound, path, wd)
		}
		return types.RawDocument{}, fmt.Errorf("checking document %s: %w", path, err)
	}

	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		text, err = ReadPDFText(path)
	case ".txt", ".md", ".text", ".markdown":
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
	default:
		return types.RawDocument{}, fmt.Errorf("unsupported document type %q for %s", ext, path)
	}
	if err != nil {
		return types.RawDocument{}, fmt.Errorf("reading %s: %w", path, err)
	}

	base := filepath.Base(path)
	return types.RawDocument{
		Source: path,
		Kind:   types.SourceDocument,
		Title:  strings.TrimSuffix(base, filepath.Ext(base)),
		Text:   text,
	}, nil
}
