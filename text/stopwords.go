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

// stopWords are dropped before stemming; they carry no index value.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "is": true, "it": true, "as": true,
	"be": true, "was": true, "are": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "can": true, "shall": true, "must": true, "this": true,
	"that": true, "these": true, "those": true, "i": true, "me": true, "my": true,
	"we": true, "our": true, "you": true, "your": true, "he": true, "she": true,
	"his": true, "her": true, "they": true, "them": true, "their": true,
	"what": true, "which": true, "who": true, "when": true, "where": true,
	"how": true, "why": true, "not": true, "no": true, "so": true, "if": true,
	"then": true, "than": true, "too": true, "very": true, "just": true,
	"about": true, "also": true, "into": true, "each": true, "all": true,
	"any": true, "some": true, "more": true, "most": true, "other": true,
	"up": true, "out": true, "its": true, "only": true, "own": true, "same": true,
	"there": true, "here": true, "am": true, "were": true, "while": true,
	"both": true, "such": true, "once": true, "again": true, "further": true,
}

// IsStopWord reports whether the lowercase word is filtered from the index.
func IsStopWord(word string) bool {
	return stopWords[word]
}
