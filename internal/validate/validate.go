// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks a chat JSONL dataset before it is uploaded.
// Every line is checked on its own; a bad line never stops the scan.
package validate

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LineError describes one rejected line.
type LineError struct {
	Line   int
	Reason string
}

func (e LineError) String() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Report is the outcome of validating a dataset.
type Report struct {
	Valid  int
	Errors []LineError
}

// OK reports whether no line failed.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// FirstErrors returns at most n errors, in line order.
func (r Report) FirstErrors(n int) []LineError {
	if n < 0 || n >= len(r.Errors) {
		return r.Errors
	}
	return r.Errors[:n]
}

// File validates the dataset at path. Only failing to open or read the file
// is returned as an error.
func File(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()
	return Reader(f)
}

// Reader validates a dataset read from r.
func Reader(r io.Reader) (Report, error) {
	var rep Report
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; sc.Scan(); n++ {
		if reason := checkLine(sc.Bytes()); reason != "" {
			rep.Errors = append(rep.Errors, LineError{Line: n, Reason: reason})
			continue
		}
		rep.Valid++
	}
	if err := sc.Err(); err != nil {
		return rep, fmt.Errorf("reading dataset: %w", err)
	}
	return rep, nil
}

func checkLine(line []byte) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(line, &obj); err != nil {
		return fmt.Sprintf("JSON error: %v", err)
	}
	raw, ok := obj["messages"]
	if !ok {
		return "missing 'messages' key"
	}
	var messages []json.RawMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return "'messages' is not a list"
	}
	if len(messages) < 2 {
		return "need at least 2 messages"
	}
	for i, m := range messages {
		var msg map[string]json.RawMessage
		if err := json.Unmarshal(m, &msg); err != nil {
			return fmt.Sprintf("message %d is not an object", i+1)
		}
		if _, ok := msg["role"]; !ok {
			return fmt.Sprintf("message %d has no role", i+1)
		}
		if _, ok := msg["content"]; !ok {
			return fmt.Sprintf("message %d has no content", i+1)
		}
	}
	return ""
}
