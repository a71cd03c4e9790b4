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


// Package reindex re-stems stored documents with the current analyzer.
//
// Documents keep the terms they were indexed with. After changing the
// analyzer (minimum token length, stopword handling) or upgrading the
// stemmer, a Reindexer walks every document in ID order, analyzes its
// contents again and rewrites the postings of the documents whose terms changed.
package reindex
