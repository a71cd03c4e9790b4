package porter2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestStemmer(word string) *stemmer {
	s := &stemmer{word: Clean(word)}
	s.r1, s.r2 = s.word.markRegions()
	return s
}

func TestSteps_LongestSuffixFirst(t *testing.T) {
	steps := map[string]step{
		"0": step0, "1a": step1a, "1b": step1b,
		"2": step2, "3": step3, "4": step4, "5": step5,
	}
	for name, st := range steps {
		seen := make(map[string]bool)
		for i, r := range st {
			assert.False(t, seen[r.suffix], "step %s: duplicate suffix %q", name, r.suffix)
			seen[r.suffix] = true
			if i > 0 {
				assert.LessOrEqual(t, len(r.suffix), len(st[i-1].suffix),
					"step %s: %q listed after shorter %q", name, r.suffix, st[i-1].suffix)
			}
		}
	}
}

func TestStepApply(t *testing.T) {
	tests := []struct {
		name  string
		step  step
		input string
		want  string
		fired bool
	}{
		{"step0 possessive", step0, "john's", "john", true},
		{"step0 no apostrophe", step0, "johns", "johns", false},
		{"step1a sses", step1a, "classes", "class", true},
		{"step1a us untouched", step1a, "bonus", "bonus", true},
		{"step1a s without vowel", step1a, "gas", "gas", false},
		{"step1b eed outside R1", step1b, "speed", "speed", false},
		{"step1b at gains e", step1b, "luxuriated", "luxuriate", true},
		{"step1b bl gains e", step1b, "troubled", "trouble", true},
		{"step1b iz gains e", step1b, "sizing", "size", true},
		{"step1b ing without vowel", step1b, "sing", "sing", false},
		{"step2 tional", step2, "conditional", "condition", true},
		{"step2 li ending", step2, "warmli", "warm", true},
		{"step2 li without ending", step2, "fooli", "fooli", false},
		{"step2 ogi after l", step2, "analogi", "analog", true},
		{"step2 outside R1", step2, "anci", "anci", false},
		{"step3 alize", step3, "formalize", "formal", true},
		{"step3 ness", step3, "goodness", "good", true},
		{"step3 ative outside R2", step3, "creative", "creative", false},
		{"step4 ion after t", step4, "adoption", "adopt", true},
		{"step4 ion after other", step4, "opinion", "opinion", false},
		{"step4 ement blocks ment", step4, "cement", "cement", false},
		{"step5 double l", step5, "controll", "control", true},
		{"step5 e after short syllable", step5, "hope", "hope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStemmer(tt.input)
			fired := tt.step.apply(s)
			assert.Equal(t, tt.want, s.word.Text())
			assert.Equal(t, tt.fired, fired)
		})
	}
}
