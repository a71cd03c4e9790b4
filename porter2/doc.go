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


// Package porter2 implements the English (Porter2) stemming algorithm.
//
// Stem reduces an inflected English word to the stem used as an index key:
//
//	porter2.Stem("kneeling")    // "kneel"
//	porter2.Stem("consolidate") // "consolid"
//
// # Input contract
//
// Words must already be lowercase ASCII. Tokenization and case folding are
// the caller's job (see package text). Mixed-case input is not rejected, it
// simply produces meaningless stems.
//
// # Internals
//
// A word is held in a Word buffer that carries a parallel mask of the 'y'
// characters that act as consonants. R1 and R2 regions, short syllables and
// suffix matches are all expressed as Span values over that buffer, so none
// of the scans copy substrings. The suffix steps are static, longest-first
// rule tables evaluated in order 0, 1a, 1b, 1c, 2, 3, 4, 5.
//
// # Concurrency
//
// Stem has no shared state; it is safe to call from any number of goroutines.
package porter2
