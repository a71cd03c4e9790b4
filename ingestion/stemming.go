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
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/text"
)

// stemmingProcessor analyzes document contents into term counts on a worker pool.
type stemmingProcessor struct {
	analyzer *text.Analyzer
	pool     *ants.Pool
	logger   *slog.Logger
}

var _ processor = (*stemmingProcessor)(nil)

// newStemmingProcessor creates a new stemming processor.
func newStemmingProcessor(analyzer *text.Analyzer, pool *ants.Pool, logger *slog.Logger) (processor, error) {
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}
	if pool == nil {
		return nil, fmt.Errorf("worker pool required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &stemmingProcessor{
		analyzer: analyzer,
		pool:     pool,
		logger:   logger.With("processor", "stemming"),
	}, nil
}

// process sets Terms and Length on each document. It returns once every
// document has been analyzed or the context is cancelled.
func (sp *stemmingProcessor) process(ctx context.Context, docs ...*core.Document) error {
	sp.logger.Debug("stemming documents", "documents", len(docs))

	var wg sync.WaitGroup
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}

		wg.Add(1)
		err := sp.pool.Submit(func() {
			defer wg.Done()
			stems := sp.analyzer.Analyze(doc.Contents)
			doc.Terms = text.TermCounts(stems)
			doc.Length = len(stems)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			sp.logger.Error("error submitting document to pool", "err", err)
			return err
		}
	}
	wg.Wait()

	return ctx.Err()
}
