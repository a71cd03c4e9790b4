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
	"iter"

	"github.com/poiesic/stemdex/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryAnalysis(stems []string)
	AfterPostingLookup(stem string, documentFrequency int, documentIds []core.ID)
	AfterCandidateCollection(ids iter.Seq[core.ID])
	AfterDocumentRetrieval(docs []*core.Document)
	VerbatimHit(doc *core.Document)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                  {}
func (n *noopMonitor) AfterQueryAnalysis(_ []string)                   {}
func (n *noopMonitor) AfterPostingLookup(_ string, _ int, _ []core.ID) {}
func (n *noopMonitor) AfterCandidateCollection(_ iter.Seq[core.ID])    {}
func (n *noopMonitor) AfterDocumentRetrieval(_ []*core.Document)       {}
func (n *noopMonitor) VerbatimHit(_ *core.Document)                    {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)                   {}
