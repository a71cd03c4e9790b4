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
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/klauspost/compress/zstd"
	"github.com/poiesic/stemdex/storage"
)

const (
	defaultSequenceBandwidth = 100
)

// Value encodings. The first byte of every stored document says which one applies.
const (
	encodingRaw  byte = 0
	encodingZstd byte = 1
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger

	compress bool
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithCompression stores document values zstd-compressed when enabled.
// Values written either way remain readable.
func WithCompression(enabled bool) BackendOption {
	return func(b *Backend) {
		b.compress = enabled
	}
}

// WithLogger sets the logger used by the backend and by BadgerDB itself.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) BackendOption {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool, opts ...BackendOption) (*Backend, error) {
	var dbOpts badger.Options

	if inMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		dbOpts = badger.DefaultOptions(filePath)
	}

	b := &Backend{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}

	dbOpts.Logger = &badgerLoggerAdapter{logger: b.logger.With("component", "badger")}
	// Document values are compressed per value when enabled; block compression stays off.
	dbOpts.Compression = options.None

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	b.encoder = encoder
	b.decoder = decoder

	db, err := badger.Open(dbOpts)
	if err != nil {
		encoder.Close()
		decoder.Close()
		return nil, err
	}
	b.db = db

	return b, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	err := b.db.Close()
	b.encoder.Close()
	b.decoder.Close()
	return err
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
// A commit that conflicts with a concurrent writer yields storage.ErrConflict.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	err := fn(tx)
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("%w: %w", storage.ErrConflict, err)
	}
	return err
}

// GetSequence returns a BadgerDB sequence for generating sequential IDs.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), defaultSequenceBandwidth)
}

// WithTransaction executes a function within a transaction.
// Implements storage.Repository.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// encodeValue prefixes data with its encoding byte, compressing it if enabled.
func (b *Backend) encodeValue(data []byte) []byte {
	if !b.compress {
		out := make([]byte, 0, len(data)+1)
		out = append(out, encodingRaw)
		return append(out, data...)
	}
	out := make([]byte, 1, len(data)/2+16)
	out[0] = encodingZstd
	return b.encoder.EncodeAll(data, out)
}

// decodeValue reverses encodeValue.
func (b *Backend) decodeValue(val []byte) ([]byte, error) {
	if len(val) == 0 {
		return nil, fmt.Errorf("%w: empty value", storage.ErrSerializationFailed)
	}
	switch val[0] {
	case encodingRaw:
		return val[1:], nil
	case encodingZstd:
		data, err := b.decoder.DecodeAll(val[1:], nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding %d", storage.ErrSerializationFailed, val[0])
	}
}
