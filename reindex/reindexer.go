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
	"io"
	"time"

	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/storage"
	"github.com/poiesic/stemdex/text"
)

// CheckpointName is the processor type reindex progress is saved under.
const CheckpointName = "reindex"

// Config holds configuration for a reindexing run.
type Config struct {
	// BatchSize is the number of documents to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for a conflicting batch write
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Resume continues after the last checkpointed document instead of
	// starting over. Without it any saved checkpoint is discarded.
	Resume bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer re-stems every stored document, checkpointing after each batch.
type Reindexer struct {
	repo        storage.DocumentRepository
	checkpoints storage.CheckpointRepository
	config      *Config
	progress    io.Writer
	processor   *BatchProcessor
	iterator    *DocumentIterator
}

// NewReindexer creates a reindexer writing progress to progress.
func NewReindexer(
	repo storage.DocumentRepository,
	checkpoints storage.CheckpointRepository,
	analyzer *text.Analyzer,
	config *Config,
	progress io.Writer,
) (*Reindexer, error) {
	if repo == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if checkpoints == nil {
		return nil, ErrCheckpointRepositoryRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reindexer{
		repo:        repo,
		checkpoints: checkpoints,
		config:      config,
		progress:    progress,
		processor:   NewBatchProcessor(repo, analyzer, config.MaxRetries, config.RetryDelay),
		iterator:    NewDocumentIterator(repo, config.BatchSize),
	}, nil
}

// Run reindexes all documents and returns how many were rewritten.
// The checkpoint is cleared once every document has been visited.
func (r *Reindexer) Run(ctx context.Context) (int, error) {
	totalDocuments, err := r.repo.CountDocuments(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	if totalDocuments == 0 {
		fmt.Fprintf(r.progress, "No documents found in database (0 documents)\n")
		return 0, r.clearCheckpoint(ctx)
	}

	after, err := r.startAfter(ctx)
	if err != nil {
		return 0, err
	}

	fmt.Fprintf(r.progress, "Starting reindexing of %d documents (batch size: %d)\n",
		totalDocuments, r.iterator.batchSize)

	tracker := NewProgressTracker(r.progress, totalDocuments, r.config.ReportInterval)
	tracker.Start()

	processed, rewritten := 0, 0
	err = r.iterator.ForEach(ctx, after, func(docs []*core.Document) error {
		n, err := r.processor.Process(ctx, docs)
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		checkpoint := &core.Checkpoint{ProcessorType: CheckpointName, LastID: docs[len(docs)-1].Id}
		if err := r.checkpoints.SaveCheckpoint(ctx, checkpoint); err != nil {
			return fmt.Errorf("failed to save checkpoint: %w", err)
		}

		rewritten += n
		processed += len(docs)
		tracker.Update(processed, rewritten)

		return nil
	})
	if err != nil {
		return rewritten, err
	}

	tracker.Finish()
	if err := r.clearCheckpoint(ctx); err != nil {
		return rewritten, err
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d documents, rewrote %d in %v (%.1f documents/sec)\n",
		processed, rewritten, elapsed.Round(time.Millisecond), float64(processed)/elapsed.Seconds())

	return rewritten, nil
}

// startAfter returns the ID the run continues after: the saved checkpoint
// when resuming, 0 otherwise.
func (r *Reindexer) startAfter(ctx context.Context) (core.ID, error) {
	if !r.config.Resume {
		return 0, r.clearCheckpoint(ctx)
	}

	checkpoint, err := r.checkpoints.LoadCheckpoint(ctx, CheckpointName)
	if err != nil {
		return 0, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if checkpoint == nil {
		fmt.Fprintf(r.progress, "No checkpoint found, starting from the first document\n")
		return 0, nil
	}

	fmt.Fprintf(r.progress, "Resuming after document %d (checkpoint from %s)\n",
		checkpoint.LastID, checkpoint.UpdatedAt.Format(time.RFC3339))
	return checkpoint.LastID, nil
}

func (r *Reindexer) clearCheckpoint(ctx context.Context) error {
	if err := r.checkpoints.DeleteCheckpoint(ctx, CheckpointName); err != nil {
		return fmt.Errorf("failed to clear checkpoint: %w", err)
	}
	return nil
}
