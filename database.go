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


package stemdex

import (
	"context"
	"log/slog"

	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/ingestion"
	"github.com/poiesic/stemdex/search"
	"github.com/poiesic/stemdex/storage"
	"github.com/poiesic/stemdex/storage/badger"
	"github.com/poiesic/stemdex/text"
)

// Database is a stemmed full-text index stored in BadgerDB.
type Database struct {
	backend        *badger.Backend
	docRepo        storage.DocumentRepository
	termRepo       storage.TermRepository
	checkpointRepo storage.CheckpointRepository
	analyzer       *text.Analyzer
	pipeline       *ingestion.Pipeline
	searcher       *search.Searcher
	config         *Config
	logger         *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	config *Config
	logger *slog.Logger
}

// WithConfig sets the database configuration.
// Default is DefaultConfig().
func WithConfig(cfg *Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.config = cfg
	}
}

// WithLogger sets a custom logger for the database and the components it creates.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// NewDatabase opens or creates the index at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.config == nil {
		options.config = DefaultConfig()
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	cfg := options.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, cfg.InMemory,
		badger.WithCompression(cfg.Compression),
		badger.WithLogger(options.logger),
	)
	if err != nil {
		return nil, err
	}

	// Create document repository
	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create term repository
	termRepo := badger.NewTermRepository(backend)

	// Create checkpoint repository
	checkpointRepo := badger.NewCheckpointRepository(backend)

	analyzer := text.NewAnalyzer(
		text.WithMinTokenLength(cfg.MinTokenLength),
		text.WithStopWords(cfg.KeepStopWords),
	)

	db := &Database{
		backend:        backend,
		docRepo:        docRepo,
		termRepo:       termRepo,
		checkpointRepo: checkpointRepo,
		analyzer:       analyzer,
		config:         cfg,
		logger:         options.logger,
	}

	db.pipeline, err = db.NewIngestionPipeline()
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	db.searcher, err = db.NewSearcher()
	if err != nil {
		db.pipeline.Release()
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	return db, nil
}

// Close releases the worker pool, repositories and backend.
func (db *Database) Close() error {
	db.pipeline.Release()

	// Close repositories
	if err := db.termRepo.Close(); err != nil {
		db.logger.Error("error closing term repository", "err", err)
		return err
	}
	if err := db.docRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docRepo
}

func (db *Database) TermRepository() storage.TermRepository {
	return db.termRepo
}

func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.checkpointRepo
}

// Analyzer returns the analyzer shared by ingestion and search.
func (db *Database) Analyzer() *text.Analyzer {
	return db.analyzer
}

// NewIngestionPipeline creates a pipeline configured from the database config.
// Options passed here override the configured ones.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	defaults := []ingestion.Option{
		ingestion.WithPoolSize(db.config.PoolSize),
		ingestion.WithAnalyzer(db.analyzer),
		ingestion.WithLogger(db.logger),
	}
	return ingestion.NewPipeline(db.docRepo, append(defaults, opts...)...)
}

// NewSearcher creates a searcher configured from the database config.
// Options passed here override the configured ones.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	defaults := []search.Option{
		search.WithAnalyzer(db.analyzer),
		search.WithDefaultLimit(db.config.SearchLimit),
		search.WithLogger(db.logger),
	}
	return search.NewSearcher(db.docRepo, db.termRepo, append(defaults, opts...)...)
}

// Ingest indexes contents with the database's own pipeline.
func (db *Database) Ingest(ctx context.Context, contents []string) ([]*core.Document, error) {
	return db.pipeline.Ingest(ctx, contents)
}

// Remove deletes documents from the index.
func (db *Database) Remove(ctx context.Context, ids ...core.ID) error {
	return db.pipeline.Remove(ctx, ids...)
}

// Search runs a ranked search with the database's own searcher.
func (db *Database) Search(ctx context.Context, query string, limit int) ([]*core.SearchResult, error) {
	return db.searcher.Search(ctx, query, limit)
}

// GetDocument retrieves an indexed document.
func (db *Database) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	return db.docRepo.GetDocument(ctx, id)
}

// CountDocuments returns the number of indexed documents.
func (db *Database) CountDocuments(ctx context.Context) (int, error) {
	return db.docRepo.CountDocuments(ctx)
}
