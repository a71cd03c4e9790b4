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


package search

import (
	"context"
	"log/slog"
	"maps"
	"math"
	"sort"
	"strings"

	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/storage"
	"github.com/poiesic/stemdex/text"
)

const (
	// DefaultLimit is the number of results returned when the caller passes no limit.
	DefaultLimit = 10

	verbatimBoost = 0.3
)

// Searcher provides ranked stem-based search over indexed documents.
type Searcher struct {
	documentRepository storage.DocumentRepository
	termRepository     storage.TermRepository
	analyzer           *text.Analyzer
	defaultLimit       int
	logger             *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithAnalyzer sets the analyzer applied to queries. It should match the
// analyzer used at ingestion time.
func WithAnalyzer(analyzer *text.Analyzer) Option {
	return func(s *Searcher) error {
		if analyzer == nil {
			return ErrAnalyzerRequired
		}
		s.analyzer = analyzer
		return nil
	}
}

// WithDefaultLimit sets the number of results returned when Search is
// called with a non-positive limit.
func WithDefaultLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 1 {
			limit = DefaultLimit
		}
		s.defaultLimit = limit
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	documentRepository storage.DocumentRepository,
	termRepository storage.TermRepository,
	opts ...Option,
) (*Searcher, error) {
	if documentRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if termRepository == nil {
		return nil, ErrTermRepositoryRequired
	}

	s := &Searcher{
		documentRepository: documentRepository,
		termRepository:     termRepository,
		analyzer:           text.NewAnalyzer(),
		defaultLimit:       DefaultLimit,
		logger:             slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to limit documents matching the query, ranked by relevance score.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, limit, nil)
}

// SearchWithMonitor searches like Search with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, limit int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit < 1 {
		limit = s.defaultLimit
	}

	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// 1. Analyze the query into unique stems
	queryWords := s.analyzer.Tokens(query)
	stems := uniqueStems(queryWords)
	monitor.AfterQueryAnalysis(stems)

	if len(stems) == 0 {
		s.logger.Debug("query has no indexable terms", "query", query)
		monitor.Finish(nil)
		return []*core.SearchResult{}, nil
	}

	total, err := s.documentRepository.CountDocuments(ctx)
	if err != nil {
		s.logger.Error("error counting documents", "err", err)
		return nil, err
	}

	terms, err := s.termRepository.GetTerms(ctx, stems...)
	if err != nil {
		s.logger.Error("error retrieving term statistics", "err", err)
		return nil, err
	}
	documentFrequency := make(map[string]int, len(terms))
	for _, term := range terms {
		documentFrequency[term.Stem] = term.DocumentFrequency
	}

	// 2. Accumulate tf-idf over each stem's postings
	scores := make(map[core.ID]float64)
	matched := make(map[core.ID][]string)
	for _, stem := range stems {
		df := documentFrequency[stem]
		if df == 0 {
			monitor.AfterPostingLookup(stem, 0, nil)
			continue
		}

		postings, err := s.documentRepository.GetPostings(ctx, stem)
		if err != nil {
			s.logger.Error("error retrieving postings", "stem", stem, "err", err)
			return nil, err
		}

		idf := math.Log(1 + float64(total)/float64(df))
		ids := make([]core.ID, len(postings))
		for i, posting := range postings {
			ids[i] = posting.DocumentId
			scores[posting.DocumentId] += float64(posting.Frequency) * idf
			matched[posting.DocumentId] = append(matched[posting.DocumentId], stem)
		}
		monitor.AfterPostingLookup(stem, df, ids)
	}
	monitor.AfterCandidateCollection(maps.Keys(scores))

	if len(scores) == 0 {
		monitor.Finish(nil)
		return []*core.SearchResult{}, nil
	}

	// 3. Retrieve candidate documents
	candidateIds := make([]core.ID, 0, len(scores))
	for id := range scores {
		candidateIds = append(candidateIds, id)
	}

	docs, err := s.documentRepository.GetDocuments(ctx, candidateIds...)
	if err != nil {
		s.logger.Error("error retrieving documents", "documentCount", len(candidateIds), "err", err)
		return nil, err
	}
	monitor.AfterDocumentRetrieval(docs)

	// 4. Score and build results
	results := make([]*core.SearchResult, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}

		score := scores[doc.Id]

		// Apply verbatim match boost
		if containsAllQueryWords(s.analyzer, doc.Contents, queryWords) {
			score += verbatimBoost
			monitor.VerbatimHit(doc)
		}

		results = append(results, &core.SearchResult{
			Document: doc,
			Score:    float32(score),
			Matched:  matched[doc.Id],
		})
	}

	// Sort by score descending, oldest document first on ties
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.Id < results[j].Document.Id
	})
	if len(results) > limit {
		results = results[:limit]
	}
	monitor.Finish(results)

	return results, nil
}

// uniqueStems stems the query words, dropping repeats while keeping query order.
func uniqueStems(words []string) []string {
	seen := make(map[string]bool, len(words))
	stems := make([]string, 0, len(words))
	for _, word := range words {
		stem := text.StemToken(word)
		if seen[stem] {
			continue
		}
		seen[stem] = true
		stems = append(stems, stem)
	}
	return stems
}
