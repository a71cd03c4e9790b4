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

// exceptionalForms are stemmed by lookup instead of by the rule steps.
var exceptionalForms = map[string]string{
	"skis":   "ski",
	"skies":  "sky",
	"dying":  "die",
	"lying":  "lie",
	"tying":  "tie",
	"idly":   "idl",
	"gently": "gentl",
	"ugly":   "ugli",
	"early":  "earli",
	"only":   "onli",
	"singly": "singl",
	"sky":    "sky",
	"news":   "news",
	"howe":   "howe",
	"atlas":  "atlas",
	"cosmos": "cosmos",
	"bias":   "bias",
	"andes":  "andes",
}

// invariantAfterStep1a lists words that end the cascade once Step 1a has produced them.
var invariantAfterStep1a = map[string]bool{
	"inning":  true,
	"outing":  true,
	"canning": true,
	"herring": true,
	"earring": true,
	"proceed": true,
	"exceed":  true,
	"succeed": true,
}

// stemmer carries one word through the rule steps. r1 and r2 are fixed
// after preprocessing; a region starting at or past the current length is empty.
type stemmer struct {
	word *Word
	r1   int
	r2   int
}

// Stem returns the Porter2 stem of word, which must be lowercase ASCII.
// Words of two characters or fewer are returned unchanged.
func Stem(word string) string {
	if len(word) <= 2 {
		return word
	}
	if stem, ok := exceptionalForms[word]; ok {
		return stem
	}

	w := Clean(word)
	s := &stemmer{word: w}
	s.r1, s.r2 = w.markRegions()

	step0.apply(s)
	step1a.apply(s)
	if invariantAfterStep1a[w.Text()] {
		return w.Text()
	}
	step1b.apply(s)
	s.step1c()
	step2.apply(s)
	step3.apply(s)
	step4.apply(s)
	step5.apply(s)

	return w.Text()
}

// step1c turns a final y into i after a non-vowel that is not the first letter.
func (s *stemmer) step1c() {
	w := s.word
	n := w.Len()
	if n <= 2 || w.buf[n-1] != 'y' {
		return
	}
	if !w.isVowel(n - 2) {
		w.replaceTail(n-1, "i")
	}
}
