package reindex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/storage"
	"github.com/poiesic/stemdex/storage/badger"
	"github.com/poiesic/stemdex/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepositories(t *testing.T) (storage.DocumentRepository, storage.TermRepository, storage.CheckpointRepository) {
	t.Helper()
	docRepo, termRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		termRepo.Close()
		docRepo.Close()
		backend.Close()
	})
	return docRepo, termRepo, badger.NewCheckpointRepository(backend)
}

// interruptedRepository fails the n-th ListDocuments call, as if the process
// died partway through a run.
type interruptedRepository struct {
	storage.DocumentRepository
	calls  int
	failOn int
}

func (r *interruptedRepository) ListDocuments(ctx context.Context, after core.ID, limit int) ([]*core.Document, error) {
	r.calls++
	if r.calls == r.failOn {
		return nil, errors.New("disk went away")
	}
	return r.DocumentRepository.ListDocuments(ctx, after, limit)
}

func indexWith(t *testing.T, repo storage.DocumentRepository, analyzer *text.Analyzer, contents ...string) []*core.Document {
	t.Helper()
	docs := make([]*core.Document, len(contents))
	for i, c := range contents {
		stems := analyzer.Analyze(c)
		docs[i] = &core.Document{Contents: c, Terms: text.TermCounts(stems), Length: len(stems)}
	}
	added, err := repo.AddDocuments(context.Background(), docs...)
	require.NoError(t, err)
	return added
}

func TestDocumentIterator(t *testing.T) {
	docRepo, _, _ := setupRepositories(t)
	contents := make([]string, 7)
	for i := range contents {
		contents[i] = "knitting"
	}
	docs := indexWith(t, docRepo, text.NewAnalyzer(), contents...)

	var sizes []int
	var seen []core.ID
	err := NewDocumentIterator(docRepo, 3).ForEach(context.Background(), 0, func(batch []*core.Document) error {
		sizes = append(sizes, len(batch))
		for _, doc := range batch {
			seen = append(seen, doc.Id)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 1}, sizes)
	require.Len(t, seen, 7)
	for i, doc := range docs {
		assert.Equal(t, doc.Id, seen[i])
	}
}

func TestDocumentIterator_Empty(t *testing.T) {
	docRepo, _, _ := setupRepositories(t)

	called := false
	err := NewDocumentIterator(docRepo, 0).ForEach(context.Background(), 0, func([]*core.Document) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestDocumentIterator_Canceled(t *testing.T) {
	docRepo, _, _ := setupRepositories(t)
	indexWith(t, docRepo, text.NewAnalyzer(), "knots", "knits")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewDocumentIterator(docRepo, 1).ForEach(ctx, 0, func([]*core.Document) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewReindexer(t *testing.T) {
	docRepo, _, checkpoints := setupRepositories(t)

	_, err := NewReindexer(nil, checkpoints, text.NewAnalyzer(), nil, nil)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewReindexer(docRepo, nil, text.NewAnalyzer(), nil, nil)
	assert.ErrorIs(t, err, ErrCheckpointRepositoryRequired)

	_, err = NewReindexer(docRepo, checkpoints, nil, nil, nil)
	assert.ErrorIs(t, err, ErrAnalyzerRequired)

	r, err := NewReindexer(docRepo, checkpoints, text.NewAnalyzer(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, r.iterator.batchSize)
}

func TestReindexer_Run(t *testing.T) {
	docRepo, termRepo, checkpoints := setupRepositories(t)
	ctx := context.Background()

	docs := indexWith(t, docRepo, text.NewAnalyzer(),
		"The knights were kneeling",
		"knitting",
		"to be or not to be",
	)

	var progress bytes.Buffer
	config := DefaultConfig()
	config.BatchSize = 2
	reindexer, err := NewReindexer(docRepo, checkpoints, text.NewAnalyzer(text.WithStopWords(true)), config, &progress)
	require.NoError(t, err)

	rewritten, err := reindexer.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rewritten, "the document without stopwords is unchanged")
	assert.Contains(t, progress.String(), "Starting reindexing of 3 documents")
	assert.Contains(t, progress.String(), "Reindexing complete")

	got, err := docRepo.GetDocument(ctx, docs[0].Id)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TermFrequency("the"))
	assert.Equal(t, 4, got.Length)

	got, err = docRepo.GetDocument(ctx, docs[2].Id)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TermFrequency("be"))

	term, err := termRepo.GetTerm(ctx, "knight")
	require.NoError(t, err)
	assert.Equal(t, 1, term.DocumentFrequency)

	// A second run with the same analyzer changes nothing.
	rewritten, err = reindexer.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, rewritten)
}

func TestReindexer_RunEmpty(t *testing.T) {
	docRepo, _, checkpoints := setupRepositories(t)

	var progress bytes.Buffer
	reindexer, err := NewReindexer(docRepo, checkpoints, text.NewAnalyzer(), nil, &progress)
	require.NoError(t, err)

	rewritten, err := reindexer.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rewritten)
	assert.Contains(t, progress.String(), "No documents found")
}

func TestDocumentIterator_StartsAfter(t *testing.T) {
	docRepo, _, _ := setupRepositories(t)
	docs := indexWith(t, docRepo, text.NewAnalyzer(), "knots", "knits", "knobs", "knees")

	var seen []core.ID
	err := NewDocumentIterator(docRepo, 2).ForEach(context.Background(), docs[1].Id, func(batch []*core.Document) error {
		for _, doc := range batch {
			seen = append(seen, doc.Id)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []core.ID{docs[2].Id, docs[3].Id}, seen)
}

func TestReindexer_ResumesInterruptedRun(t *testing.T) {
	docRepo, _, checkpoints := setupRepositories(t)
	ctx := context.Background()

	docs := indexWith(t, docRepo, text.NewAnalyzer(),
		"the knights",
		"the knaves",
		"the knots",
		"the knobs",
		"the knees",
	)
	keepStopWords := text.NewAnalyzer(text.WithStopWords(true))
	config := DefaultConfig()
	config.BatchSize = 2

	// The second page fails; the first batch has been committed.
	interrupted := &interruptedRepository{DocumentRepository: docRepo, failOn: 2}
	reindexer, err := NewReindexer(interrupted, checkpoints, keepStopWords, config, nil)
	require.NoError(t, err)

	rewritten, err := reindexer.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, 2, rewritten)

	checkpoint, err := checkpoints.LoadCheckpoint(ctx, CheckpointName)
	require.NoError(t, err)
	require.NotNil(t, checkpoint)
	assert.Equal(t, docs[1].Id, checkpoint.LastID)

	// Resuming visits only the documents after the checkpoint.
	var progress bytes.Buffer
	config.Resume = true
	reindexer, err = NewReindexer(docRepo, checkpoints, keepStopWords, config, &progress)
	require.NoError(t, err)

	rewritten, err = reindexer.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, rewritten)
	assert.Contains(t, progress.String(), fmt.Sprintf("Resuming after document %d", docs[1].Id))
	assert.Contains(t, progress.String(), "Processed 3 documents")

	for _, doc := range docs {
		got, err := docRepo.GetDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, 1, got.TermFrequency("the"), "document %d", doc.Id)
	}

	checkpoint, err = checkpoints.LoadCheckpoint(ctx, CheckpointName)
	require.NoError(t, err)
	assert.Nil(t, checkpoint, "a completed run clears its checkpoint")
}

func TestReindexer_WithoutResumeStartsOver(t *testing.T) {
	docRepo, _, checkpoints := setupRepositories(t)
	ctx := context.Background()

	docs := indexWith(t, docRepo, text.NewAnalyzer(), "the knights", "the knaves", "the knots")
	require.NoError(t, checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{ProcessorType: CheckpointName, LastID: docs[1].Id}))

	var progress bytes.Buffer
	reindexer, err := NewReindexer(docRepo, checkpoints, text.NewAnalyzer(text.WithStopWords(true)), nil, &progress)
	require.NoError(t, err)

	rewritten, err := reindexer.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, rewritten)
	assert.Contains(t, progress.String(), "Processed 3 documents")
	assert.NotContains(t, progress.String(), "Resuming")
}

func TestReindexer_ResumeWithoutCheckpoint(t *testing.T) {
	docRepo, _, checkpoints := setupRepositories(t)
	indexWith(t, docRepo, text.NewAnalyzer(), "the knights")

	var progress bytes.Buffer
	config := DefaultConfig()
	config.Resume = true
	reindexer, err := NewReindexer(docRepo, checkpoints, text.NewAnalyzer(), config, &progress)
	require.NoError(t, err)

	_, err = reindexer.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, progress.String(), "No checkpoint found")
	assert.Contains(t, progress.String(), "Processed 1 documents")
}
