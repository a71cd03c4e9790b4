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


package storage

import (
	"fmt"

	"github.com/poiesic/stemdex/core"
)

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &doc, nil
}

// MarshalTerm serializes a Term to bytes.
func MarshalTerm(term *core.Term) []byte {
	buf := make([]byte, core.TermMUS.Size(*term))
	core.TermMUS.Marshal(*term, buf)
	return buf
}

// UnmarshalTerm deserializes a Term from bytes.
func UnmarshalTerm(data []byte) (*core.Term, error) {
	term, _, err := core.TermMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &term, nil
}

// MarshalPosting serializes a Posting to bytes.
func MarshalPosting(p core.Posting) []byte {
	buf := make([]byte, core.PostingMUS.Size(p))
	core.PostingMUS.Marshal(p, buf)
	return buf
}

// UnmarshalPosting deserializes a Posting from bytes.
func UnmarshalPosting(data []byte) (core.Posting, error) {
	p, _, err := core.PostingMUS.Unmarshal(data)
	if err != nil {
		return core.Posting{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return p, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	buf := make([]byte, core.CheckpointMUS.Size(*checkpoint))
	core.CheckpointMUS.Marshal(*checkpoint, buf)
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	checkpoint, _, err := core.CheckpointMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &checkpoint, nil
}
