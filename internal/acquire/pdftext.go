// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var pageNumber = regexp.MustCompile(`(\d+)\D*$`)

// ReadPDFText extracts the page content streams of a PDF with pdfcpu and
// decodes their text-showing operators, one output line per text line.
func ReadPDFText(path string) (string, error) {
	dir, err := os.MkdirTemp("", "quote-forge-pdf-")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(path, dir, nil, conf); err != nil {
		return "", fmt.Errorf("extracting PDF content: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading extracted content: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		return pageOf(files[i]) < pageOf(files[j])
	})

	var pages []string
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", name, err)
		}
		if t := ContentText(data); t != "" {
			pages = append(pages, t)
		}
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("no text content found in PDF")
	}
	return strings.Join(pages, "\n"), nil
}

func pageOf(name string) int {
	m := pageNumber.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// kerningGap is the TJ adjustment (thousandths of an em) treated as a space.
const kerningGap = -250

// ContentText decodes the strings shown by Tj, TJ, ' and " in a PDF content
// stream. BT, Td, TD, T* and Tm start a new line.
func ContentText(content []byte) string {
	var (
		out     strings.Builder
		line    strings.Builder
		last    string
		array   []string
		inArray bool
	)
	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			out.WriteString(s)
			out.WriteByte('\n')
		}
		line.Reset()
	}

	for i := 0; i < len(content); {
		c := content[i]
		switch {
		case isPDFSpace(c):
			i++
		case c == '%':
			for i < len(content) && content[i] != '\n' && content[i] != '\r' {
				i++
			}
		case c == '(':
			s, n := literalString(content[i:])
			i += n
			if inArray {
				array = append(array, s)
			} else {
				last = s
			}
		case c == '<' && i+1 < len(content) && content[i+1] == '<':
			i += 2
		case c == '<':
			s, n := hexString(content[i:])
			i += n
			if inArray {
				array = append(array, s)
			} else {
				last = s
			}
		case c == '[':
			inArray = true
			array = array[:0]
			i++
		case c == ']':
			inArray = false
			i++
		case c == '/':
			i++
			for i < len(content) && !isPDFSpace(content[i]) && !isPDFDelim(content[i]) {
				i++
			}
		case c == '>' || c == '{' || c == '}' || c == ')':
			i++
		default:
			start := i
			for i < len(content) && !isPDFSpace(content[i]) && !isPDFDelim(content[i]) {
				i++
			}
			if i == start {
				i++
				continue
			}
			tok := string(content[start:i])
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				if inArray && v <= kerningGap {
					array = append(array, " ")
				}
				continue
			}
			switch tok {
			case "BT", "Td", "TD", "T*", "Tm":
				flush()
			case "Tj":
				line.WriteString(last)
			case "'", `"`:
				flush()
				line.WriteString(last)
			case "TJ":
				line.WriteString(strings.Join(array, ""))
				array = array[:0]
			}
			last = ""
		}
	}
	flush()
	return strings.TrimRight(out.String(), "\n")
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// literalString decodes a (...) string starting at b[0] and returns it with
// the number of bytes consumed.
func literalString(b []byte) (string, int) {
	var buf bytes.Buffer
	depth := 0
	i := 0
	for ; i < len(b); i++ {
		c := b[i]
		switch c {
		case '(':
			depth++
			if depth == 1 {
				continue
			}
		case ')':
			depth--
			if depth == 0 {
				return decodePDFString(buf.Bytes()), i + 1
			}
		case '\\':
			i++
			if i >= len(b) {
				continue
			}
			switch e := b[i]; e {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '\r':
				if i+1 < len(b) && b[i+1] == '\n' {
					i++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := 0
					j := 0
					for ; j < 3 && i+j < len(b) && b[i+j] >= '0' && b[i+j] <= '7'; j++ {
						v = v*8 + int(b[i+j]-'0')
					}
					i += j - 1
					buf.WriteByte(byte(v))
				} else {
					buf.WriteByte(e)
				}
			}
			continue
		}
		buf.WriteByte(c)
	}
	return decodePDFString(buf.Bytes()), i
}

// hexString decodes a <...> string starting at b[0].
func hexString(b []byte) (string, int) {
	var digits []byte
	i := 1
	for ; i < len(b) && b[i] != '>'; i++ {
		if isHexDigit(b[i]) {
			digits = append(digits, b[i])
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw := make([]byte, len(digits)/2)
	for j := range raw {
		v, _ := strconv.ParseUint(string(digits[2*j:2*j+2]), 16, 8)
		raw[j] = byte(v)
	}
	if i < len(b) {
		i++
	}
	return decodePDFString(raw), i
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// decodePDFString maps string bytes to UTF-8: UTF-16BE when the string
// carries a byte order mark, Windows-1252 otherwise.
func decodePDFString(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		s, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
		if err == nil {
			return string(s)
		}
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
