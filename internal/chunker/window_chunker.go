package chunker

import (
	"fmt"
	"strconv"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// WindowChunker cuts text into fixed-size rune windows that overlap by a fixed amount.
// It does not look at sentence or token boundaries.
type WindowChunker struct {
	chunkSize int
	overlap   int
}

// NewWindowChunker requires 0 <= overlap < chunkSize.
func NewWindowChunker(chunkSize, overlap int) (*WindowChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, %d), got %d", chunkSize, overlap)
	}
	return &WindowChunker{chunkSize: chunkSize, overlap: overlap}, nil
}

func (c *WindowChunker) ChunkSize() int { return c.chunkSize }
func (c *WindowChunker) Overlap() int   { return c.overlap }

// Split chunks every document in order. Chunk IDs are "<document>:<window>".
func (c *WindowChunker) Split(documents []domain.RawDocument) []domain.Chunk {
	var chunks []domain.Chunk
	for d, doc := range documents {
		for i, w := range c.windows(doc.Text) {
			chunks = append(chunks, domain.Chunk{
				ID:          strconv.Itoa(d) + ":" + strconv.Itoa(i),
				Text:        w.text,
				Index:       len(chunks),
				StartOffset: w.start,
				Metadata:    doc.Metadata,
			})
		}
	}
	return chunks
}

type window struct {
	start int
	text  string
}

func (c *WindowChunker) windows(text string) []window {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	step := c.chunkSize - c.overlap
	var out []window
	for start := 0; ; start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, window{start: start, text: string(runes[start:end])})
		if end == len(runes) {
			break
		}
	}
	return out
}
