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


package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/poiesic/stemdex/core"
)

type stemResponse struct {
	Word string `json:"word"`
	Stem string `json:"stem"`
}

type ingestRequest struct {
	Contents []string `json:"contents"`
}

type ingestResponse struct {
	IDs []core.ID `json:"ids"`
}

type documentResponse struct {
	ID         core.ID        `json:"id"`
	Contents   string         `json:"contents"`
	Length     int            `json:"length"`
	Terms      map[string]int `json:"terms"`
	InsertedAt time.Time      `json:"inserted_at"`
}

type searchHit struct {
	ID       core.ID  `json:"id"`
	Contents string   `json:"contents"`
	Score    float32  `json:"score"`
	Matched  []string `json:"matched"`
}

type searchResponse struct {
	Query   string      `json:"query"`
	Results []searchHit `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newDocumentResponse(doc *core.Document) documentResponse {
	terms := make(map[string]int, len(doc.Terms))
	for _, tc := range doc.Terms {
		terms[tc.Stem] = tc.Frequency
	}
	return documentResponse{
		ID:         doc.Id,
		Contents:   doc.Contents,
		Length:     doc.Length,
		Terms:      terms,
		InsertedAt: doc.InsertedAt,
	}
}

func newSearchResponse(query string, results []*core.SearchResult) searchResponse {
	hits := make([]searchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, searchHit{
			ID:       r.Document.Id,
			Contents: r.Document.Contents,
			Score:    r.Score,
			Matched:  r.Matched,
		})
	}
	return searchResponse{Query: query, Results: hits}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", "err", err)
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSON(w, statusCode, errorResponse{Error: message})
}
