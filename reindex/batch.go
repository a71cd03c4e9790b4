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


package reindex

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/storage"
	"github.com/poiesic/stemdex/text"
)

// BatchProcessor re-analyzes a batch of documents and stores the ones whose terms changed.
type BatchProcessor struct {
	repo           storage.DocumentRepository
	analyzer       *text.Analyzer
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(repo storage.DocumentRepository, analyzer *text.Analyzer, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		analyzer:       analyzer,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-analyzes docs in place and returns how many were rewritten.
func (bp *BatchProcessor) Process(ctx context.Context, docs []*core.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	changed := make([]*core.Document, 0, len(docs))
	for _, doc := range docs {
		stems := bp.analyzer.Analyze(doc.Contents)
		terms := text.TermCounts(stems)
		if doc.Length == len(stems) && slices.Equal(doc.Terms, terms) {
			continue
		}
		doc.Terms = terms
		doc.Length = len(stems)
		changed = append(changed, doc)
	}

	if len(changed) == 0 {
		return 0, nil
	}

	err := RetryWithBackoff(ctx, func() error {
		_, err := bp.repo.UpdateDocuments(ctx, changed...)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return 0, fmt.Errorf("failed to update documents: %w", err)
	}

	return len(changed), nil
}
