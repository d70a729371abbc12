// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LinguaGate accepts text detected as one target language.
type LinguaGate struct {
	detector lingua.LanguageDetector
	want     lingua.Language
}

// NewLinguaGate builds a detector over the ISO 639-1 codes in languages
// and accepts text detected as target. At least two languages are needed.
func NewLinguaGate(languages []string, target string) (*LinguaGate, error) {
	if len(languages) < 2 {
		return nil, fmt.Errorf("language gate needs at least two languages, got %d", len(languages))
	}
	var langs []lingua.Language
	for _, code := range languages {
		l, err := parseLanguage(code)
		if err != nil {
			return nil, err
		}
		langs = append(langs, l)
	}
	want, err := parseLanguage(target)
	if err != nil {
		return nil, err
	}
	found := false
	for _, l := range langs {
		if l == want {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("target language %q not in detector languages", target)
	}
	return &LinguaGate{
		detector: lingua.NewLanguageDetectorBuilder().FromLanguages(langs...).Build(),
		want:     want,
	}, nil
}

func parseLanguage(code string) (lingua.Language, error) {
	iso := lingua.GetIsoCode639_1FromValue(strings.ToUpper(strings.TrimSpace(code)))
	l := lingua.GetLanguageFromIsoCode639_1(iso)
	if l == lingua.Unknown {
		return l, fmt.Errorf("unknown language code %q", code)
	}
	return l, nil
}

// Accept implements LanguageGate. Text the detector cannot place is rejected.
func (g *LinguaGate) Accept(text string) bool {
	l, ok := g.detector.DetectLanguageOf(text)
	return ok && l == g.want
}
