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


// Package server exposes the stemmer and the document index over HTTP.
//
// Routes:
//   - GET  /stem/{word}       stem a single word
//   - POST /documents         index {"contents": [...]}
//   - GET  /documents/{id}    fetch an indexed document
//   - GET  /search?q=&limit=  ranked search
//   - GET  /_health           liveness
//
// All responses are JSON. Errors are reported as {"error": "..."}.
package server
