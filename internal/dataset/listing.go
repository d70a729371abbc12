// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var listingEntry = regexp.MustCompile(`^\d+\.\s*(.*)$`)

// ReadListing parses a file written by WriteListing back into quotes.
// Unnumbered lines continue the current entry; a blank line ends it.
func ReadListing(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		quotes  []string
		current []string
	)
	emit := func() {
		if q := strings.TrimSpace(strings.Join(current, " ")); q != "" {
			quotes = append(quotes, q)
		}
		current = nil
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch m := listingEntry.FindStringSubmatch(line); {
		case line == "":
			emit()
		case m != nil:
			emit()
			current = append(current, m[1])
		case current != nil:
			current = append(current, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading listing %s: %w", path, err)
	}
	emit()
	return quotes, nil
}
