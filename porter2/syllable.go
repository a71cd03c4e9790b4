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

// shortSyllableWithin returns the rightmost short syllable contained in the
// first n characters of the buffer, or an empty span when there is none.
func (w *Word) shortSyllableWithin(n int) Span {
	for i := n - 2; i >= 1; i-- {
		next := i + 1
		if w.isVowel(i) && !w.isVowel(next) &&
			w.buf[next] != 'w' && w.buf[next] != 'x' && !w.consonant[next] &&
			!w.isVowel(i-1) {
			return Span{Start: i, Len: 2}
		}
	}

	// A vowel then non-vowel at the very start also counts.
	if n >= 2 && w.isVowel(0) && !w.isVowel(1) {
		return Span{Start: 0, Len: 2}
	}
	return Span{}
}

// endsInShortSyllable reports whether the first n characters end in a short syllable.
func (w *Word) endsInShortSyllable(n int) bool {
	s := w.shortSyllableWithin(n)
	return !s.Empty() && s.End() == n
}

// LastShortSyllable returns the rightmost short syllable in the word.
func (w *Word) LastShortSyllable() Span {
	return w.shortSyllableWithin(len(w.buf))
}

// EndsWithShortSyllable reports whether the word's last short syllable
// finishes at the end of the word.
func (w *Word) EndsWithShortSyllable() bool {
	return w.endsInShortSyllable(len(w.buf))
}

// IsShortWord reports whether the word ends in a short syllable and has an empty R1.
func (w *Word) IsShortWord() bool {
	return w.EndsWithShortSyllable() && w.R1().Empty()
}

// EndsWithDouble reports whether the word ends in bb, dd, ff, gg, mm, nn, pp, rr or tt.
func (w *Word) EndsWithDouble() bool {
	n := len(w.buf)
	return n >= 2 && isDouble(w.buf[n-2], w.buf[n-1])
}
