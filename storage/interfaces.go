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


package storage

import (
	"context"

	"github.com/poiesic/stemdex/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// DocumentRepository stores documents and the inverted index built from their stems.
type DocumentRepository interface {
	Repository
	// AddDocuments adds one or more documents to storage.
	// Generates new IDs from a sequence and sets InsertedAt/UpdatedAt.
	// Writes one posting per (stem, document) and increments each stem's
	// document frequency in the same transaction.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs together with their
	// postings, decrementing document frequencies.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// UpdateDocuments replaces the terms of existing documents, rewriting
	// their postings and adjusting document frequencies. Sets UpdatedAt.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// ListDocuments returns up to limit documents with IDs greater than after,
	// in ID order. Pass 0 to start from the beginning.
	ListDocuments(ctx context.Context, after core.ID, limit int) ([]*core.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// GetPostings returns the inverted list for a stem, ordered by document ID.
	// An unknown stem yields an empty list.
	GetPostings(ctx context.Context, stem string) ([]core.Posting, error)
}

// TermRepository provides read access to per-stem corpus statistics.
type TermRepository interface {
	Repository
	// GetTerm retrieves the statistics for a stem.
	// Returns ErrNotFound if no stored document contains the stem.
	GetTerm(ctx context.Context, stem string) (*core.Term, error)

	// GetTerms retrieves statistics for several stems.
	// Returns only the terms that exist (no error for missing stems).
	GetTerms(ctx context.Context, stems ...string) ([]*core.Term, error)
}

// CheckpointRepository persists the progress of resumable processors.
type CheckpointRepository interface {
	// SaveCheckpoint stores the checkpoint for its processor type, replacing
	// any earlier one. Sets UpdatedAt.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a processor type.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, processorType string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a processor type.
	// Deleting a missing checkpoint is not an error.
	DeleteCheckpoint(ctx context.Context, processorType string) error
}
