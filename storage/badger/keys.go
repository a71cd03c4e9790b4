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


package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/stemdex/core"
)

const (
	documentPrefix   = "docrec"
	documentIDSeq    = "docrecseq"
	postingPrefix    = "termdoc"
	termPrefix       = "termrec"
	checkpointSuffix = "chkpt"
)

// makeDocumentKey generates a key for a document by ID.
// Format: prefix:id (big endian) so documents iterate in ID order.
func makeDocumentKey(id core.ID) []byte {
	prefix := documentPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// documentKeyPrefix is the common prefix of every document key.
func documentKeyPrefix() []byte {
	return []byte(documentPrefix + ":")
}

// makePostingKey generates a composite key for the inverted index.
// Format: prefix:termID:documentID
func makePostingKey(termID, docID core.ID) []byte {
	prefix := postingPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(termID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makePartialPostingKey generates the prefix shared by all postings of a term.
// Format: prefix:termID
func makePartialPostingKey(termID core.ID) []byte {
	prefix := postingPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(termID))
	return buf
}

// makeTermKey generates a key for a term's statistics.
func makeTermKey(termID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%016x", termPrefix, uint64(termID)))
}

// makeCheckpointKey generates a key for processor checkpoints.
func makeCheckpointKey(processorType string) []byte {
	return []byte(fmt.Sprintf("%s:%s", processorType, checkpointSuffix))
}
