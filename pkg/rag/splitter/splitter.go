package splitter

// Chunk is a contiguous slice of document text. Index reflects document order.
type Chunk struct {
	Index int
	Text  string
}

// Splitter cuts a document into fixed-size chunks with bounded overlap.
// The overlap keeps clauses that straddle a chunk boundary intact in at
// least one chunk.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

const (
	DefaultChunkSize = 1500
	DefaultOverlap   = 20
)

func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
	}
	return &Splitter{ChunkSize: chunkSize, Overlap: overlap}
}

// Split cuts text into chunks of ChunkSize runes stepping ChunkSize-Overlap
// runes at a time. A document of length L (L > Overlap) yields
// ceil((L-Overlap)/(ChunkSize-Overlap)) chunks.
func (s *Splitter) Split(text string) []Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	var chunks []Chunk

	for start := 0; ; start += step {
		end := start + s.ChunkSize
		if end >= len(runes) {
			chunks = append(chunks, Chunk{Index: len(chunks), Text: string(runes[start:])})
			break
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Text: string(runes[start:end])})
	}

	return chunks
}
