package search

import (
	"context"
	"iter"
	"log/slog"
	"math"
	"slices"
	"testing"

	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/storage"
	"github.com/poiesic/stemdex/storage/badger"
	"github.com/poiesic/stemdex/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCorpus = []string{
	"The knights were kneeling in the chapel",
	"A knight consoled the knave",
	"Knitting by the fire",
}

func setupSearcher(t *testing.T, contents []string, opts ...Option) (*Searcher, []*core.Document) {
	t.Helper()
	docRepo, termRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		termRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	docs := indexDocuments(t, docRepo, contents...)

	searcher, err := NewSearcher(docRepo, termRepo, opts...)
	require.NoError(t, err)
	return searcher, docs
}

func indexDocuments(t *testing.T, docRepo storage.DocumentRepository, contents ...string) []*core.Document {
	t.Helper()
	analyzer := text.NewAnalyzer()
	docs := make([]*core.Document, len(contents))
	for i, c := range contents {
		stems := analyzer.Analyze(c)
		docs[i] = &core.Document{Contents: c, Terms: text.TermCounts(stems), Length: len(stems)}
	}
	added, err := docRepo.AddDocuments(context.Background(), docs...)
	require.NoError(t, err)
	return added
}

func TestNewSearcher(t *testing.T) {
	docRepo, termRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		termRepo.Close()
		docRepo.Close()
		backend.Close()
	}()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(docRepo, termRepo)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
		assert.Equal(t, DefaultLimit, searcher.defaultLimit)
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(docRepo, termRepo, WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(docRepo, termRepo, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher.logger)
	})

	t.Run("with default limit", func(t *testing.T) {
		searcher, err := NewSearcher(docRepo, termRepo, WithDefaultLimit(3))
		require.NoError(t, err)
		assert.Equal(t, 3, searcher.defaultLimit)
	})

	t.Run("nil analyzer", func(t *testing.T) {
		_, err := NewSearcher(docRepo, termRepo, WithAnalyzer(nil))
		assert.Equal(t, ErrAnalyzerRequired, err)
	})

	t.Run("nil document repository", func(t *testing.T) {
		_, err := NewSearcher(nil, termRepo)
		assert.Equal(t, ErrDocumentRepositoryRequired, err)
	})

	t.Run("nil term repository", func(t *testing.T) {
		_, err := NewSearcher(docRepo, nil)
		assert.Equal(t, ErrTermRepositoryRequired, err)
	})
}

func TestSearch_EmptyQuery(t *testing.T) {
	searcher, _ := setupSearcher(t, testCorpus)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := searcher.Search(context.Background(), query, 10)
		assert.ErrorIs(t, err, ErrEmptyQuery, "query %q", query)
	}
}

func TestSearch_StopwordsOnly(t *testing.T) {
	searcher, _ := setupSearcher(t, testCorpus)

	results, err := searcher.Search(context.Background(), "the and of", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_UnknownTerm(t *testing.T) {
	searcher, _ := setupSearcher(t, testCorpus)

	results, err := searcher.Search(context.Background(), "dragons", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_MatchesInflections(t *testing.T) {
	searcher, docs := setupSearcher(t, testCorpus)
	ctx := context.Background()

	results, err := searcher.Search(ctx, "kneel", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, docs[0].Id, results[0].Document.Id)
	assert.Equal(t, []string{"kneel"}, results[0].Matched)

	results, err = searcher.Search(ctx, "knitted", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, docs[2].Id, results[0].Document.Id)
}

func TestSearch_Scoring(t *testing.T) {
	searcher, docs := setupSearcher(t, testCorpus)
	ctx := context.Background()

	results, err := searcher.Search(ctx, "knight", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Both documents contain the stem; only the second contains the word verbatim.
	idf := math.Log(1 + 3.0/2.0)
	assert.Equal(t, docs[1].Id, results[0].Document.Id)
	assert.InDelta(t, idf+0.3, results[0].Score, 1e-5)
	assert.Equal(t, docs[0].Id, results[1].Document.Id)
	assert.InDelta(t, idf, results[1].Score, 1e-5)
}

func TestSearch_MultipleStems(t *testing.T) {
	searcher, docs := setupSearcher(t, testCorpus)

	results, err := searcher.Search(context.Background(), "knights kneeling knights", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, docs[0].Id, results[0].Document.Id)
	assert.Equal(t, []string{"knight", "kneel"}, results[0].Matched)
	assert.InDelta(t, math.Log(2.5)+math.Log(4)+0.3, results[0].Score, 1e-5)

	assert.Equal(t, docs[1].Id, results[1].Document.Id)
	assert.Equal(t, []string{"knight"}, results[1].Matched)
}

func TestSearch_TermFrequency(t *testing.T) {
	searcher, docs := setupSearcher(t, []string{
		"consolation",
		"consoled consoling consolation",
		"nothing related",
	})

	results, err := searcher.Search(context.Background(), "console", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, docs[1].Id, results[0].Document.Id)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_Limit(t *testing.T) {
	contents := make([]string, 20)
	for i := range contents {
		contents[i] = "knitting knots"
	}
	searcher, docs := setupSearcher(t, contents, WithDefaultLimit(5))
	ctx := context.Background()

	results, err := searcher.Search(ctx, "knot", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	// Equal scores fall back to insertion order
	assert.Equal(t, docs[0].Id, results[0].Document.Id)
	assert.Equal(t, docs[1].Id, results[1].Document.Id)

	results, err = searcher.Search(ctx, "knot", 0)
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

type recordingMonitor struct {
	query      string
	stems      []string
	lookups    map[string]int
	candidates []core.ID
	retrieved  int
	verbatim   int
	finished   []*core.SearchResult
}

func (m *recordingMonitor) Start(query string)            { m.query = query }
func (m *recordingMonitor) AfterQueryAnalysis(s []string) { m.stems = s }
func (m *recordingMonitor) AfterPostingLookup(stem string, df int, _ []core.ID) {
	if m.lookups == nil {
		m.lookups = make(map[string]int)
	}
	m.lookups[stem] = df
}
func (m *recordingMonitor) AfterCandidateCollection(ids iter.Seq[core.ID]) {
	m.candidates = slices.Sorted(ids)
}
func (m *recordingMonitor) AfterDocumentRetrieval(docs []*core.Document) { m.retrieved = len(docs) }
func (m *recordingMonitor) VerbatimHit(_ *core.Document)                 { m.verbatim++ }
func (m *recordingMonitor) Finish(results []*core.SearchResult)          { m.finished = results }

func TestSearchWithMonitor(t *testing.T) {
	searcher, docs := setupSearcher(t, testCorpus)
	monitor := &recordingMonitor{}

	results, err := searcher.SearchWithMonitor(context.Background(), "knight dragons", 10, monitor)
	require.NoError(t, err)

	assert.Equal(t, "knight dragons", monitor.query)
	assert.Equal(t, []string{"knight", "dragon"}, monitor.stems)
	assert.Equal(t, map[string]int{"knight": 2, "dragon": 0}, monitor.lookups)
	assert.Equal(t, []core.ID{docs[0].Id, docs[1].Id}, monitor.candidates)
	assert.Equal(t, 2, monitor.retrieved)
	assert.Zero(t, monitor.verbatim)
	assert.Equal(t, results, monitor.finished)
}
