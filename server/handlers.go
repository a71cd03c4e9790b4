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
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/search"
	"github.com/poiesic/stemdex/storage"
	"github.com/poiesic/stemdex/text"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleStem(w http.ResponseWriter, r *http.Request) {
	word := strings.ToLower(chi.URLParam(r, "word"))
	s.writeJSON(w, http.StatusOK, stemResponse{
		Word: word,
		Stem: text.StemToken(word),
	})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := parseJSONBody(r, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Contents) == 0 {
		s.writeError(w, http.StatusBadRequest, "contents required")
		return
	}

	docs, err := s.index.Ingest(r.Context(), req.Contents)
	if err != nil {
		if errors.Is(err, core.ErrInvalidDocument) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("error ingesting documents", "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ids := make([]core.ID, len(docs))
	for i, doc := range docs {
		ids[i] = doc.Id
	}
	s.writeJSON(w, http.StatusCreated, ingestResponse{IDs: ids})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := s.index.GetDocument(r.Context(), core.ID(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, fmt.Sprintf("document not found: %d", id))
			return
		}
		s.logger.Error("error retrieving document", "id", id, "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, newDocumentResponse(doc))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	results, err := s.index.Search(r.Context(), query, limit)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("error searching", "query", query, "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, newSearchResponse(query, results))
}

// parseJSONBody parses JSON request body into target
func parseJSONBody(r *http.Request, target any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read request body: %w", errBadRequest, err)
	}
	defer r.Body.Close()

	if len(body) == 0 {
		return fmt.Errorf("%w: request body is empty", errBadRequest)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", errBadRequest, err)
	}

	return nil
}
