// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"single Tj", "BT /F1 12 Tf 72 712 Td (Hello) Tj ET", "Hello"},
		{"Td starts a line", "BT (Truth) Tj 0 -14 Td (is god) Tj ET", "Truth\nis god"},
		{"TJ with kerning", "BT [(Hel) -20 (lo) -300 (world)] TJ ET", "Hello world"},
		{"escapes", `BT (a \(b\) c\\d \101) Tj ET`, `a (b) c\d A`},
		{"nested parens", "BT (f(x) = y) Tj ET", "f(x) = y"},
		{"hex string", "BT <48656C6C6F> Tj ET", "Hello"},
		{"utf16 hex", "BT <FEFF00E9> Tj ET", "é"},
		{"windows-1252", `BT (\223quoted\224) Tj ET`, "“quoted”"},
		{"quote operator", "BT (one) Tj (two) ' ET", "one\ntwo"},
		{"T* and Tm", "BT (a) Tj T* (b) Tj 1 0 0 1 5 5 Tm (c) Tj ET", "a\nb\nc"},
		{"marked content dict", "/P << /MCID 0 >> BDC BT (x) Tj ET EMC", "x"},
		{"comment skipped", "% (ignored) Tj\nBT (kept) Tj ET", "kept"},
		{"no text", "q 1 0 0 1 0 0 cm Q", ""},
		{"blank lines dropped", "BT ( ) Tj 0 -14 Td (y) Tj ET", "y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentText([]byte(tt.content)))
		})
	}
}

func TestPageOf(t *testing.T) {
	assert.Equal(t, 2, pageOf("letters_Content_page_2.txt"))
	assert.Equal(t, 10, pageOf("letters-1930_Content_page_10.txt"))
	assert.Equal(t, 0, pageOf("notes.txt"))
}
