package core

import (
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "consolid",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("kneel")
	id2 := IDFromContent("knell")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestDocument_TermFrequency(t *testing.T) {
	doc := &Document{
		Contents: "knights kneel, knights knock",
		Terms: []TermCount{
			{Stem: "kneel", Frequency: 1},
			{Stem: "knight", Frequency: 2},
			{Stem: "knock", Frequency: 1},
		},
	}

	tests := []struct {
		stem string
		want int
	}{
		{"knight", 2},
		{"kneel", 1},
		{"knit", 0},
	}

	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			if got := doc.TermFrequency(tt.stem); got != tt.want {
				t.Errorf("TermFrequency(%q) = %d, want %d", tt.stem, got, tt.want)
			}
		})
	}
}

func TestDocumentMUS(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 589000, time.UTC)
	doc := Document{
		Id:         42,
		Contents:   "the knights were kneeling",
		Terms:      []TermCount{{Stem: "kneel", Frequency: 1}, {Stem: "knight", Frequency: 1}},
		Length:     2,
		InsertedAt: ts,
		UpdatedAt:  ts.Add(time.Minute),
	}

	bs := make([]byte, DocumentMUS.Size(doc))
	n := DocumentMUS.Marshal(doc, bs)
	if n != len(bs) {
		t.Fatalf("Marshal wrote %d bytes, Size reported %d", n, len(bs))
	}

	got, n, err := DocumentMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if n != len(bs) {
		t.Errorf("Unmarshal read %d bytes, want %d", n, len(bs))
	}
	if got.Id != doc.Id || got.Contents != doc.Contents || got.Length != doc.Length {
		t.Errorf("Unmarshal() = %+v, want %+v", got, doc)
	}
	if len(got.Terms) != 2 || got.Terms[1] != doc.Terms[1] {
		t.Errorf("Unmarshal() terms = %v, want %v", got.Terms, doc.Terms)
	}
	if !got.InsertedAt.Equal(doc.InsertedAt) || !got.UpdatedAt.Equal(doc.UpdatedAt) {
		t.Errorf("Unmarshal() times = %v/%v, want %v/%v", got.InsertedAt, got.UpdatedAt, doc.InsertedAt, doc.UpdatedAt)
	}
}

func TestDocumentMUS_Truncated(t *testing.T) {
	doc := Document{Id: 7, Contents: "knots", Terms: []TermCount{{Stem: "knot", Frequency: 1}}, Length: 1}
	bs := make([]byte, DocumentMUS.Size(doc))
	DocumentMUS.Marshal(doc, bs)

	if _, _, err := DocumentMUS.Unmarshal(bs[:3]); err == nil {
		t.Error("Unmarshal() of truncated data should fail")
	}
}
