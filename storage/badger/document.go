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


package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *DocumentRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddDocuments adds one or more documents and their postings to storage.
// The caller's documents are left untouched; the returned copies carry the
// assigned IDs and timestamps.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return nil, err
		}
	}

	stored := cloneDocuments(docs)
	err := r.writeSplitting(stored, func(tx *badger.Txn, batch []*core.Document) error {
		for _, doc := range batch {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			doc.Id = core.ID(nextID)

			doc.InsertedAt = time.Now().UTC()
			doc.UpdatedAt = doc.InsertedAt

			value := r.backend.encodeValue(storage.MarshalDocument(doc))
			if err := tx.Set(makeDocumentKey(doc.Id), value); err != nil {
				return err
			}

			if err := r.addPostings(tx, doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// UpdateDocuments replaces the stored terms of existing documents.
// Like AddDocuments it returns updated copies.
func (r *DocumentRepository) UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return nil, err
		}
	}

	stored := cloneDocuments(docs)
	err := r.writeSplitting(stored, func(tx *badger.Txn, batch []*core.Document) error {
		for _, doc := range batch {
			key := makeDocumentKey(doc.Id)
			existing, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("%w: document %d", storage.ErrNotFound, doc.Id)
			}

			if err := r.deletePostings(tx, existing); err != nil {
				return err
			}

			doc.InsertedAt = existing.InsertedAt
			doc.UpdatedAt = time.Now().UTC()

			value := r.backend.encodeValue(storage.MarshalDocument(doc))
			if err := tx.Set(key, value); err != nil {
				return err
			}
			if err := r.addPostings(tx, doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// DeleteDocuments removes documents by their IDs.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)

			doc, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}

			if err := r.deletePostings(tx, doc); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetDocuments retrieves multiple documents by their IDs.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			doc, err := r.readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if doc != nil {
				result = append(result, doc)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListDocuments returns up to limit documents with IDs greater than after, in ID order.
func (r *DocumentRepository) ListDocuments(ctx context.Context, after core.ID, limit int) ([]*core.Document, error) {
	if limit <= 0 || after == math.MaxUint64 {
		return []*core.Document{}, nil
	}

	result := make([]*core.Document, 0, limit)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = documentKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makeDocumentKey(after + 1)); iter.Valid() && len(result) < limit; iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				data, err := r.backend.decodeValue(val)
				if err != nil {
					return err
				}
				doc, err = storage.UnmarshalDocument(bytes.Clone(data))
				return err
			})
			if err != nil {
				return err
			}
			result = append(result, doc)
		}
		return nil
	}, false)
	return result, err
}

// CountDocuments returns the number of stored documents.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = documentKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// GetPostings returns the inverted list for a stem.
func (r *DocumentRepository) GetPostings(ctx context.Context, stem string) ([]core.Posting, error) {
	var postings []core.Posting
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialPostingKey(core.IDFromContent(stem))
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var posting core.Posting
			err := iter.Item().Value(func(val []byte) error {
				var err error
				posting, err = storage.UnmarshalPosting(val)
				return err
			})
			if err != nil {
				return err
			}
			postings = append(postings, posting)
		}
		return nil
	}, false)
	return postings, err
}

// Helper methods

// writeSplitting runs write over docs in a single transaction. When the
// transaction outgrows badger's size limits the batch is halved and each half
// written in its own transaction, so an error can leave earlier halves stored.
func (r *DocumentRepository) writeSplitting(docs []*core.Document, write func(tx *badger.Txn, batch []*core.Document) error) error {
	if len(docs) == 0 {
		return nil
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := write(tx, docs); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if !errors.Is(err, badger.ErrTxnTooBig) || len(docs) == 1 {
		return err
	}

	mid := len(docs) / 2
	r.backend.logger.Debug("splitting document batch", "documents", len(docs))
	if err := r.writeSplitting(docs[:mid], write); err != nil {
		return err
	}
	return r.writeSplitting(docs[mid:], write)
}

// cloneDocuments makes shallow copies the repository can stamp with IDs and
// timestamps.
func cloneDocuments(docs []*core.Document) []*core.Document {
	out := make([]*core.Document, len(docs))
	for i, doc := range docs {
		c := *doc
		out[i] = &c
	}
	return out
}

// addPostings writes one posting per stem and bumps each stem's document frequency.
func (r *DocumentRepository) addPostings(tx *badger.Txn, doc *core.Document) error {
	for _, tc := range doc.Terms {
		termID := core.IDFromContent(tc.Stem)
		posting := core.Posting{DocumentId: doc.Id, Frequency: tc.Frequency}
		if err := tx.Set(makePostingKey(termID, doc.Id), storage.MarshalPosting(posting)); err != nil {
			return err
		}

		term, err := readTerm(tx, makeTermKey(termID))
		if err != nil {
			return err
		}
		if term == nil {
			term = &core.Term{Id: termID, Stem: tc.Stem}
		}
		term.DocumentFrequency++
		if err := tx.Set(makeTermKey(termID), storage.MarshalTerm(term)); err != nil {
			return err
		}
	}
	return nil
}

// deletePostings removes a document's postings and decrements document frequencies.
// Terms no longer used by any document are removed.
func (r *DocumentRepository) deletePostings(tx *badger.Txn, doc *core.Document) error {
	for _, tc := range doc.Terms {
		termID := core.IDFromContent(tc.Stem)
		if err := tx.Delete(makePostingKey(termID, doc.Id)); err != nil {
			return err
		}

		termKey := makeTermKey(termID)
		term, err := readTerm(tx, termKey)
		if err != nil {
			return err
		}
		if term == nil {
			continue
		}
		term.DocumentFrequency--
		if term.DocumentFrequency <= 0 {
			if err := tx.Delete(termKey); err != nil {
				return err
			}
			continue
		}
		if err := tx.Set(termKey, storage.MarshalTerm(term)); err != nil {
			return err
		}
	}
	return nil
}

// readDocument reads and decodes a document, returning nil if it doesn't exist.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		data, err := r.backend.decodeValue(val)
		if err != nil {
			return err
		}
		doc, err = storage.UnmarshalDocument(bytes.Clone(data))
		return err
	})
	return doc, err
}
