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


package core

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Contents must contain non-whitespace text
//   - Every term count must have a stem and a positive frequency
//
// NOT validated:
//   - Terms being empty (contents made only of stopwords index nothing)
//   - ID (0 is valid before the database assigns one)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.Contents) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	for _, tc := range doc.Terms {
		if err := ValidateTermCount(tc); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}

	return nil
}

// ValidateTerm validates a Term according to domain rules.
func ValidateTerm(term *Term) error {
	if term == nil {
		return fmt.Errorf("%w: term is nil", ErrInvalidTerm)
	}

	if term.Stem == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTerm, ErrEmptyStem)
	}

	if term.DocumentFrequency < 0 {
		return fmt.Errorf("%w: document frequency %d", ErrInvalidTerm, term.DocumentFrequency)
	}

	return nil
}

// ValidateTermCount checks that a term count has a stem and a positive frequency.
func ValidateTermCount(tc TermCount) error {
	if tc.Stem == "" {
		return ErrEmptyStem
	}
	if tc.Frequency <= 0 {
		return fmt.Errorf("%w: stem %q has %d", ErrInvalidFrequency, tc.Stem, tc.Frequency)
	}
	return nil
}
