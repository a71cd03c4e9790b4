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

// regionStart returns the index just after the first vowel followed by a
// non-vowel at or after from. It returns the buffer length when there is none.
func (w *Word) regionStart(from int) int {
	for i := from; i+1 < len(w.buf); i++ {
		if w.isVowel(i) && !w.isVowel(i+1) {
			return i + 2
		}
	}
	return len(w.buf)
}

// R1 returns the region after the first vowel/non-vowel pair.
// It is empty, positioned at the end of the word, when no such pair exists.
func (w *Word) R1() Span {
	start := w.regionStart(0)
	return Span{Start: start, Len: len(w.buf) - start}
}

// R2 returns the R1 region of R1.
func (w *Word) R2() Span {
	start := w.regionStart(w.regionStart(0))
	return Span{Start: start, Len: len(w.buf) - start}
}

// r1Prefixes are word starts whose R1 begins right after the prefix,
// regardless of the usual vowel rule.
var r1Prefixes = []string{"gener", "commun", "arsen"}

// markRegions returns the R1 and R2 start positions used while stemming.
func (w *Word) markRegions() (r1, r2 int) {
	r1 = -1
	for _, prefix := range r1Prefixes {
		if len(w.buf) >= len(prefix) && string(w.buf[:len(prefix)]) == prefix {
			r1 = len(prefix)
			break
		}
	}
	if r1 < 0 {
		r1 = w.regionStart(0)
	}
	return r1, w.regionStart(r1)
}
