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


// Package search provides ranked lexical search over indexed documents.
//
// The Searcher stems a query with the same analyzer used at ingestion time
// and ranks documents by:
//   - TF-IDF over the stems' inverted lists, with idf = ln(1 + N/df)
//   - A verbatim boost when every non-stopword query word appears unstemmed
//
// Because both sides are stemmed, a query for "consoling" matches documents
// containing "consolation" or "consoled".
package search
