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


// Package ingestion provides pipeline orchestration for indexing documents.
//
// The Pipeline type manages the ingestion workflow for documents:
//   - Validating the submitted contents
//   - Stemming each document concurrently on a worker pool
//   - Storing documents together with their inverted-index postings
//
// Stemming runs on an ants pool; Ingest waits for the whole batch before
// writing it in a single transaction, so a batch is either fully indexed or not at all.
package ingestion
