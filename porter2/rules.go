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

// rule rewrites one suffix. start is the index at which the matched suffix
// begins in the buffer.
type rule struct {
	suffix string
	// when reports whether the rule fires; nil means always.
	when func(s *stemmer, start int) bool
	// repl replaces the suffix unless rewrite is set.
	repl    string
	rewrite func(s *stemmer, start int)
}

// step is a rule table ordered longest suffix first. Only the longest
// matching suffix is considered; if its condition fails the step does nothing.
type step []rule

// apply runs the step and reports whether a rule fired.
func (st step) apply(s *stemmer) bool {
	for _, r := range st {
		if !s.word.hasSuffix(r.suffix) {
			continue
		}
		start := s.word.Len() - len(r.suffix)
		if r.when != nil && !r.when(s, start) {
			return false
		}
		if r.rewrite != nil {
			r.rewrite(s, start)
		} else {
			s.word.replaceTail(start, r.repl)
		}
		return true
	}
	return false
}

func inR1(s *stemmer, start int) bool {
	return start >= s.r1
}

func inR2(s *stemmer, start int) bool {
	return start >= s.r2
}

func precededBy(chars string, gate func(*stemmer, int) bool) func(*stemmer, int) bool {
	return func(s *stemmer, start int) bool {
		if start == 0 || !gate(s, start) || s.word.consonant[start-1] {
			return false
		}
		prev := s.word.buf[start-1]
		for i := 0; i < len(chars); i++ {
			if chars[i] == prev {
				return true
			}
		}
		return false
	}
}

// Step 0: possessive and contraction endings.
var step0 = step{
	{suffix: "'s'"},
	{suffix: "'s"},
	{suffix: "'"},
}

// Step 1a: plurals.
var step1a = step{
	{suffix: "sses", repl: "ss"},
	{suffix: "ied", rewrite: rewriteIes},
	{suffix: "ies", rewrite: rewriteIes},
	{suffix: "us", repl: "us"},
	{suffix: "ss", repl: "ss"},
	{suffix: "s", when: vowelBeforeS},
}

// rewriteIes maps ied/ies to i after two or more letters, else to ie.
func rewriteIes(s *stemmer, start int) {
	if start > 1 {
		s.word.replaceTail(start, "i")
	} else {
		s.word.replaceTail(start, "ie")
	}
}

// vowelBeforeS requires a vowel somewhere before the letter preceding the s.
func vowelBeforeS(s *stemmer, start int) bool {
	return start >= 1 && s.word.hasVowelBefore(start-1)
}

// Step 1b: past and continuous verb forms.
var step1b = step{
	{suffix: "eedly", when: inR1, repl: "ee"},
	{suffix: "ingly", when: vowelBefore, rewrite: stripVerbSuffix},
	{suffix: "edly", when: vowelBefore, rewrite: stripVerbSuffix},
	{suffix: "eed", when: inR1, repl: "ee"},
	{suffix: "ing", when: vowelBefore, rewrite: stripVerbSuffix},
	{suffix: "ed", when: vowelBefore, rewrite: stripVerbSuffix},
}

func vowelBefore(s *stemmer, start int) bool {
	return s.word.hasVowelBefore(start)
}

// stripVerbSuffix removes the suffix, then repairs the remaining stem:
// at/bl/iz gain an e, a double consonant loses a letter, a short word gains an e.
func stripVerbSuffix(s *stemmer, start int) {
	w := s.word
	w.replaceTail(start, "")
	switch {
	case w.hasSuffix("at"), w.hasSuffix("bl"), w.hasSuffix("iz"):
		w.replaceTail(w.Len(), "e")
	case w.EndsWithDouble():
		w.truncate(1)
	case s.r1 >= w.Len() && w.EndsWithShortSyllable():
		w.replaceTail(w.Len(), "e")
	}
}

// Step 2: derivational suffixes in R1.
var step2 = step{
	{suffix: "ational", when: inR1, repl: "ate"},
	{suffix: "fulness", when: inR1, repl: "ful"},
	{suffix: "iveness", when: inR1, repl: "ive"},
	{suffix: "ization", when: inR1, repl: "ize"},
	{suffix: "ousness", when: inR1, repl: "ous"},
	{suffix: "biliti", when: inR1, repl: "ble"},
	{suffix: "lessli", when: inR1, repl: "less"},
	{suffix: "tional", when: inR1, repl: "tion"},
	{suffix: "alism", when: inR1, repl: "al"},
	{suffix: "aliti", when: inR1, repl: "al"},
	{suffix: "ation", when: inR1, repl: "ate"},
	{suffix: "entli", when: inR1, repl: "ent"},
	{suffix: "fulli", when: inR1, repl: "ful"},
	{suffix: "iviti", when: inR1, repl: "ive"},
	{suffix: "ousli", when: inR1, repl: "ous"},
	{suffix: "abli", when: inR1, repl: "able"},
	{suffix: "alli", when: inR1, repl: "al"},
	{suffix: "anci", when: inR1, repl: "ance"},
	{suffix: "ator", when: inR1, repl: "ate"},
	{suffix: "enci", when: inR1, repl: "ence"},
	{suffix: "izer", when: inR1, repl: "ize"},
	{suffix: "bli", when: inR1, repl: "ble"},
	{suffix: "ogi", when: precededBy("l", inR1), repl: "og"},
	{suffix: "li", when: precededBy("cdeghkmnrt", inR1), repl: ""},
}

// Step 3: further R1 suffixes; ative additionally needs R2.
var step3 = step{
	{suffix: "ational", when: inR1, repl: "ate"},
	{suffix: "tional", when: inR1, repl: "tion"},
	{suffix: "alize", when: inR1, repl: "al"},
	{suffix: "ative", when: inR2, repl: ""},
	{suffix: "icate", when: inR1, repl: "ic"},
	{suffix: "iciti", when: inR1, repl: "ic"},
	{suffix: "ical", when: inR1, repl: "ic"},
	{suffix: "ness", when: inR1, repl: ""},
	{suffix: "ful", when: inR1, repl: ""},
}

// Step 4: suffixes deleted in R2.
var step4 = step{
	{suffix: "ement", when: inR2},
	{suffix: "able", when: inR2},
	{suffix: "ance", when: inR2},
	{suffix: "ence", when: inR2},
	{suffix: "ible", when: inR2},
	{suffix: "ment", when: inR2},
	{suffix: "ant", when: inR2},
	{suffix: "ate", when: inR2},
	{suffix: "ent", when: inR2},
	{suffix: "ion", when: precededBy("st", inR2)},
	{suffix: "ism", when: inR2},
	{suffix: "iti", when: inR2},
	{suffix: "ive", when: inR2},
	{suffix: "ize", when: inR2},
	{suffix: "ous", when: inR2},
	{suffix: "al", when: inR2},
	{suffix: "er", when: inR2},
	{suffix: "ic", when: inR2},
}

// Step 5: trailing e and l.
var step5 = step{
	{suffix: "e", when: deletableE},
	{suffix: "l", when: precededBy("l", inR2)},
}

func deletableE(s *stemmer, start int) bool {
	return start >= s.r2 || (start >= s.r1 && !s.word.endsInShortSyllable(start))
}
