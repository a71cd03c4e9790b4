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
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// TermCount records how often a stem occurs in one document.
type TermCount struct {
	Stem      string
	Frequency int
}

// Document is a unit of indexed text.
// Terms is filled by the ingestion pipeline from the stemmed contents.
type Document struct {
	Id         ID
	Contents   string
	Terms      []TermCount // Stems with their in-document frequency, sorted by stem
	Length     int         // Number of indexed tokens after stopword filtering
	InsertedAt time.Time   // When the document was inserted into the database
	UpdatedAt  time.Time   // When the document was last updated
}

// TermFrequency returns the frequency of stem in the document, or 0.
func (d *Document) TermFrequency(stem string) int {
	for _, tc := range d.Terms {
		if tc.Stem == stem {
			return tc.Frequency
		}
	}
	return 0
}

// Term holds corpus-wide statistics for a stem.
type Term struct {
	Id                ID // IDFromContent(Stem)
	Stem              string
	DocumentFrequency int // Number of documents containing the stem
}

// Posting is one entry of a stem's inverted list.
type Posting struct {
	DocumentId ID
	Frequency  int
}

// Checkpoint records how far a long-running processor got, so an
// interrupted run can continue after LastID.
type Checkpoint struct {
	ProcessorType string
	LastID        ID // Last document committed by the processor
	UpdatedAt     time.Time
}

// SearchResult represents a search result with the full document and relevance score.
type SearchResult struct {
	Document *Document
	Score    float32
	Matched  []string // Query stems found in the document
}
