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
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/storage"
)

// TermRepository implements storage.TermRepository for BadgerDB.
// Terms are maintained by DocumentRepository; this repository only reads them.
type TermRepository struct {
	backend *Backend
}

var _ storage.TermRepository = (*TermRepository)(nil)

// NewTermRepository creates a new TermRepository.
func NewTermRepository(backend *Backend) *TermRepository {
	return &TermRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend owns all resources.
func (r *TermRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *TermRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetTerm retrieves the statistics for a stem.
func (r *TermRepository) GetTerm(ctx context.Context, stem string) (*core.Term, error) {
	var result *core.Term
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readTerm(tx, makeTermKey(core.IDFromContent(stem)))
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

// GetTerms retrieves statistics for several stems.
func (r *TermRepository) GetTerms(ctx context.Context, stems ...string) ([]*core.Term, error) {
	var result []*core.Term
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, stem := range stems {
			term, err := readTerm(tx, makeTermKey(core.IDFromContent(stem)))
			if err != nil {
				return err
			}
			if term != nil {
				result = append(result, term)
			}
		}
		return nil
	}, false)
	return result, err
}

// readTerm reads a term from the transaction, returning nil if it doesn't exist.
func readTerm(tx *badger.Txn, key []byte) (*core.Term, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var term *core.Term
	err = item.Value(func(val []byte) error {
		var err error
		term, err = storage.UnmarshalTerm(val)
		return err
	})
	return term, err
}
