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


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the stored records. Each follows the mus-go serializer
// shape: Marshal writes into a buffer sized by Size, Unmarshal returns the
// value and the number of bytes read.
var (
	IDMUS         = idMUS{}
	TermCountMUS  = termCountMUS{}
	DocumentMUS   = documentMUS{}
	TermMUS       = termMUS{}
	PostingMUS    = postingMUS{}
	CheckpointMUS = checkpointMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

// Times are stored as Unix microseconds.
func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func marshalInt(v int, bs []byte) int {
	return varint.Int64.Marshal(int64(v), bs)
}

func unmarshalInt(bs []byte) (int, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	return int(v), n, err
}

func sizeInt(v int) int {
	return varint.Int64.Size(int64(v))
}

type termCountMUS struct{}

func (termCountMUS) Marshal(v TermCount, bs []byte) (n int) {
	n = ord.String.Marshal(v.Stem, bs)
	n += marshalInt(v.Frequency, bs[n:])
	return
}

func (termCountMUS) Unmarshal(bs []byte) (v TermCount, n int, err error) {
	v.Stem, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Frequency, n1, err = unmarshalInt(bs[n:])
	n += n1
	return
}

func (termCountMUS) Size(v TermCount) int {
	return ord.String.Size(v.Stem) + sizeInt(v.Frequency)
}

type documentMUS struct{}

func (documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Contents, bs[n:])
	n += marshalInt(len(v.Terms), bs[n:])
	for _, tc := range v.Terms {
		n += TermCountMUS.Marshal(tc, bs[n:])
	}
	n += marshalInt(v.Length, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return
}

func (documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	var n1 int
	if v.Id, n1, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	n += n1
	if v.Contents, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var count int
	if count, n1, err = unmarshalInt(bs[n:]); err != nil {
		return
	}
	n += n1
	if count < 0 || count > len(bs)-n {
		err = ErrMalformedRecord
		return
	}
	if count > 0 {
		v.Terms = make([]TermCount, count)
		for i := range v.Terms {
			if v.Terms[i], n1, err = TermCountMUS.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
		}
	}
	if v.Length, n1, err = unmarshalInt(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (documentMUS) Size(v Document) int {
	size := IDMUS.Size(v.Id) + ord.String.Size(v.Contents) + sizeInt(len(v.Terms))
	for _, tc := range v.Terms {
		size += TermCountMUS.Size(tc)
	}
	return size + sizeInt(v.Length) + sizeTime(v.InsertedAt) + sizeTime(v.UpdatedAt)
}

type termMUS struct{}

func (termMUS) Marshal(v Term, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Stem, bs[n:])
	n += marshalInt(v.DocumentFrequency, bs[n:])
	return
}

func (termMUS) Unmarshal(bs []byte) (v Term, n int, err error) {
	var n1 int
	if v.Id, n1, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	n += n1
	if v.Stem, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.DocumentFrequency, n1, err = unmarshalInt(bs[n:])
	n += n1
	return
}

func (termMUS) Size(v Term) int {
	return IDMUS.Size(v.Id) + ord.String.Size(v.Stem) + sizeInt(v.DocumentFrequency)
}

type postingMUS struct{}

func (postingMUS) Marshal(v Posting, bs []byte) (n int) {
	n = IDMUS.Marshal(v.DocumentId, bs)
	n += marshalInt(v.Frequency, bs[n:])
	return
}

func (postingMUS) Unmarshal(bs []byte) (v Posting, n int, err error) {
	var n1 int
	if v.DocumentId, n1, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	n += n1
	v.Frequency, n1, err = unmarshalInt(bs[n:])
	n += n1
	return
}

func (postingMUS) Size(v Posting) int {
	return IDMUS.Size(v.DocumentId) + sizeInt(v.Frequency)
}

type checkpointMUS struct{}

func (checkpointMUS) Marshal(v Checkpoint, bs []byte) (n int) {
	n = ord.String.Marshal(v.ProcessorType, bs)
	n += IDMUS.Marshal(v.LastID, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return
}

func (checkpointMUS) Unmarshal(bs []byte) (v Checkpoint, n int, err error) {
	var n1 int
	if v.ProcessorType, n1, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	n += n1
	if v.LastID, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (checkpointMUS) Size(v Checkpoint) int {
	return ord.String.Size(v.ProcessorType) + IDMUS.Size(v.LastID) + sizeTime(v.UpdatedAt)
}
