package splitter

import (
	"strings"
	"testing"
)

func TestSplitChunkCount(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
		length    int
		want      int
	}{
		{name: "empty document", chunkSize: 1500, overlap: 20, length: 0, want: 0},
		{name: "shorter than one chunk", chunkSize: 1500, overlap: 20, length: 800, want: 1},
		{name: "exactly one chunk", chunkSize: 1500, overlap: 20, length: 1500, want: 1},
		{name: "just past one chunk", chunkSize: 1500, overlap: 20, length: 1501, want: 2},
		{name: "several chunks", chunkSize: 1500, overlap: 20, length: 4000, want: 3},
		{name: "small chunks", chunkSize: 10, overlap: 2, length: 25, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.chunkSize, tt.overlap)
			chunks := s.Split(strings.Repeat("a", tt.length))
			if len(chunks) != tt.want {
				t.Errorf("Split() produced %d chunks, want %d", len(chunks), tt.want)
			}
		})
	}
}

func TestSplitOverlapPreservesBoundaryText(t *testing.T) {
	s := New(10, 4)
	text := "abcdefghijklmnopqrst"

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	first := chunks[0].Text
	second := chunks[1].Text
	if !strings.HasPrefix(second, first[len(first)-4:]) {
		t.Errorf("second chunk %q does not start with the last 4 runes of the first chunk %q", second, first)
	}
}

func TestSplitIndexesAreSequential(t *testing.T) {
	s := New(10, 2)
	chunks := s.Split(strings.Repeat("x", 50))

	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has Index %d", i, c.Index)
		}
	}
}

func TestSplitReassemblesWithoutLoss(t *testing.T) {
	s := New(8, 0)
	text := "the quick brown fox jumps over the lazy dog"

	var rebuilt strings.Builder
	for _, c := range s.Split(text) {
		rebuilt.WriteString(c.Text)
	}
	if rebuilt.String() != text {
		t.Errorf("zero-overlap chunks do not reassemble the input: got %q", rebuilt.String())
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(0, -1)
	if s.ChunkSize != DefaultChunkSize || s.Overlap != DefaultOverlap {
		t.Errorf("New(0, -1) = {%d %d}, want defaults {%d %d}", s.ChunkSize, s.Overlap, DefaultChunkSize, DefaultOverlap)
	}

	// Overlap >= chunk size would never advance
	s = New(100, 100)
	if s.Overlap >= s.ChunkSize {
		t.Errorf("overlap %d not clamped below chunk size %d", s.Overlap, s.ChunkSize)
	}
}
