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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/storage"
	"github.com/poiesic/stemdex/text"
)

// Pipeline orchestrates the ingestion of documents into the index.
type Pipeline struct {
	documentRepository storage.DocumentRepository
	stemmingPool       *ants.Pool
	stemmingProc       processor
	analyzer           *text.Analyzer
	logger             *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent stemming.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.stemmingPool != nil {
			p.stemmingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.stemmingPool = pool
		return nil
	}
}

// WithAnalyzer sets the analyzer used to turn contents into stems.
// Default is text.NewAnalyzer().
func WithAnalyzer(analyzer *text.Analyzer) Option {
	return func(p *Pipeline) error {
		if analyzer == nil {
			return ErrAnalyzerRequired
		}
		p.analyzer = analyzer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(documentRepository storage.DocumentRepository, opts ...Option) (*Pipeline, error) {
	if documentRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	stemmingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		documentRepository: documentRepository,
		stemmingPool:       stemmingPool,
		analyzer:           text.NewAnalyzer(),
		logger:             slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create processor after options are applied (so it gets final config)
	stemmingProc, err := newStemmingProcessor(p.analyzer, p.stemmingPool, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.stemmingProc = stemmingProc

	return p, nil
}

// Ingest stems each content string and stores the resulting documents with
// their postings. Blank contents are rejected before anything is stored.
// Returns the stored documents with IDs assigned, in input order.
func (p *Pipeline) Ingest(ctx context.Context, contents []string) ([]*core.Document, error) {
	if len(contents) == 0 {
		return []*core.Document{}, nil
	}

	docs := make([]*core.Document, len(contents))
	for i, content := range contents {
		if strings.TrimSpace(content) == "" {
			return nil, fmt.Errorf("%w: document %d: %w", core.ErrInvalidDocument, i, core.ErrEmptyContent)
		}
		docs[i] = &core.Document{Contents: content}
	}

	if err := p.stemmingProc.process(ctx, docs...); err != nil {
		return nil, err
	}

	added, err := p.documentRepository.AddDocuments(ctx, docs...)
	if err != nil {
		p.logger.Error("error storing documents", "documents", len(docs), "err", err)
		return nil, err
	}

	p.logger.Info("ingested documents", "documents", len(added))
	return added, nil
}

// Remove deletes documents and their postings from the index.
func (p *Pipeline) Remove(ctx context.Context, ids ...core.ID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := p.documentRepository.DeleteDocuments(ctx, ids...); err != nil {
		p.logger.Error("error removing documents", "documents", len(ids), "err", err)
		return err
	}
	p.logger.Info("removed documents", "documents", len(ids))
	return nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.stemmingPool != nil {
		p.stemmingPool.Release()
	}
}
