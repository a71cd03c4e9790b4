// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package text

import (
	"slices"
	"strings"
	"unicode"

	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/porter2"
)

// Analyzer turns raw text into index terms: it lowercases, splits on
// anything that is not a letter, digit or apostrophe, drops stopwords and
// short tokens, and stems what is left.
type Analyzer struct {
	minTokenLength int
	keepStopWords  bool
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithMinTokenLength drops tokens shorter than n bytes. Default is 2.
func WithMinTokenLength(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n < 1 {
			n = 1
		}
		a.minTokenLength = n
	}
}

// WithStopWords keeps stopwords in the output when keep is true.
func WithStopWords(keep bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.keepStopWords = keep
	}
}

// NewAnalyzer creates an Analyzer with the given options applied to the defaults.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{minTokenLength: 2}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Tokens splits text into lowercase tokens with surrounding apostrophes
// trimmed and stopwords removed. Tokens are not stemmed.
func (a *Analyzer) Tokens(text string) []string {
	if text == "" {
		return nil
	}

	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	var tokens []string
	for _, t := range raw {
		t = strings.Trim(t, "'")
		if len(t) < a.minTokenLength {
			continue
		}
		if !a.keepStopWords && stopWords[t] {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// Analyze returns the stems of the tokens in text, in order of appearance.
func (a *Analyzer) Analyze(text string) []string {
	tokens := a.Tokens(text)
	for i, t := range tokens {
		tokens[i] = StemToken(t)
	}
	return tokens
}

// StemToken stems a lowercase token. Tokens containing anything other than
// ASCII letters and apostrophes are returned unchanged.
func StemToken(token string) string {
	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c < 'a' || c > 'z') && c != '\'' {
			return token
		}
	}
	return porter2.Stem(token)
}

// TermCounts collapses a stem list into per-stem frequencies sorted by stem.
func TermCounts(stems []string) []core.TermCount {
	if len(stems) == 0 {
		return nil
	}
	freq := make(map[string]int, len(stems))
	for _, s := range stems {
		freq[s]++
	}
	counts := make([]core.TermCount, 0, len(freq))
	for stem, n := range freq {
		counts = append(counts, core.TermCount{Stem: stem, Frequency: n})
	}
	slices.SortFunc(counts, func(a, b core.TermCount) int {
		return strings.Compare(a.Stem, b.Stem)
	})
	return counts
}
