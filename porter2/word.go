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


package porter2

import "strings"

// Span is a (start, length) window into a Word.
type Span struct {
	Start int
	Len   int
}

// End returns the index one past the last character of the span.
func (s Span) End() int {
	return s.Start + s.Len
}

// Empty reports whether the span covers no characters.
func (s Span) Empty() bool {
	return s.Len == 0
}

// Word is the mutable buffer a word is stemmed in.
//
// consonant[i] is set for every 'y' that behaves as a consonant. The mask is
// filled once by Clean; later steps only truncate or append to the tail.
type Word struct {
	buf       []byte
	consonant []bool
}

// Clean prepares a lowercase word for stemming. Words of two characters or
// fewer are returned unmarked. Otherwise a leading apostrophe is dropped, and
// an initial 'y' or a 'y' following a vowel is marked as a consonant.
func Clean(word string) *Word {
	w := &Word{
		buf:       []byte(word),
		consonant: make([]bool, len(word)),
	}
	if len(w.buf) <= 2 {
		return w
	}

	if w.buf[0] == '\'' {
		w.buf = w.buf[1:]
		w.consonant = w.consonant[1:]
	}
	if len(w.buf) > 0 && w.buf[0] == 'y' {
		w.consonant[0] = true
	}
	for i := 1; i < len(w.buf); i++ {
		if w.buf[i] == 'y' && w.isVowel(i-1) {
			w.consonant[i] = true
		}
	}
	return w
}

// Len returns the number of characters in the buffer.
func (w *Word) Len() int {
	return len(w.buf)
}

// String renders the buffer with consonantal y shown as 'Y'.
func (w *Word) String() string {
	var sb strings.Builder
	sb.Grow(len(w.buf))
	for i, c := range w.buf {
		if w.consonant[i] {
			c = 'Y'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// Text returns the buffer contents with every y in its literal form.
func (w *Word) Text() string {
	return string(w.buf)
}

// Slice returns the characters covered by s, rendered like String.
func (w *Word) Slice(s Span) string {
	sub := Word{buf: w.buf[s.Start:s.End()], consonant: w.consonant[s.Start:s.End()]}
	return sub.String()
}

// IsConsonantY reports whether the character at i is a 'y' marked as a consonant.
func (w *Word) IsConsonantY(i int) bool {
	return w.consonant[i]
}

func (w *Word) isVowel(i int) bool {
	return !w.consonant[i] && IsVowel(w.buf[i])
}

// hasSuffix reports whether the buffer ends in suffix. Consonantal y never
// matches a literal 'y' in the suffix.
func (w *Word) hasSuffix(suffix string) bool {
	start := len(w.buf) - len(suffix)
	if start < 0 {
		return false
	}
	for i := 0; i < len(suffix); i++ {
		if w.buf[start+i] != suffix[i] || w.consonant[start+i] {
			return false
		}
	}
	return true
}

// replaceTail swaps the characters from start onwards for repl.
func (w *Word) replaceTail(start int, repl string) {
	w.buf = append(w.buf[:start], repl...)
	w.consonant = w.consonant[:start]
	for range repl {
		w.consonant = append(w.consonant, false)
	}
}

// truncate drops the last n characters.
func (w *Word) truncate(n int) {
	w.buf = w.buf[:len(w.buf)-n]
	w.consonant = w.consonant[:len(w.consonant)-n]
}

// hasVowelBefore reports whether a vowel occurs anywhere before end.
func (w *Word) hasVowelBefore(end int) bool {
	for i := 0; i < end; i++ {
		if w.isVowel(i) {
			return true
		}
	}
	return false
}
