package domain

import (
	"context"
	"strings"
)

// SourceKind names one family of content sources.
type SourceKind string

const (
	SourceText     SourceKind = "text"
	SourcePDF      SourceKind = "pdf"
	SourceWeb      SourceKind = "web"
	SourceAudio    SourceKind = "audio"
	SourceDatabase SourceKind = "database"
	SourceAPI      SourceKind = "api"
)

// SourceKinds lists every kind in navigation order.
var SourceKinds = []SourceKind{SourcePDF, SourceWeb, SourceText, SourceAudio, SourceDatabase, SourceAPI}

// Params carries source-specific settings such as "path", "url", "dsn" or "table".
type Params map[string]string

// Get returns the trimmed value of key.
func (p Params) Get(key string) string {
	return strings.TrimSpace(p[key])
}

// RawDocument is one unit of text extracted from a source.
type RawDocument struct {
	Text     string
	Metadata map[string]string
}

// Chunk is a window of a RawDocument used for embedding and retrieval.
type Chunk struct {
	ID          string
	Text        string
	Index       int
	StartOffset int
	Metadata    map[string]string
}

// SearchResult represents a matching chunk with a relevance score.
// Higher scores are more similar regardless of the metric.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Answer is the model output for one question.
type Answer struct {
	Text    string
	Sources []Chunk
}

// SourceAdapter extracts raw documents from one kind of external source.
type SourceAdapter interface {
	Kind() SourceKind
	// Required lists the parameter keys that must be non-empty.
	Required() []string
	Extract(ctx context.Context, params Params) ([]RawDocument, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Split(documents []RawDocument) []Chunk
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float64, error)
}

// BatchEmbedder is implemented by embedders that can embed many texts per call.
type BatchEmbedder interface {
	Embedder
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Preparer is implemented by embedders that must see the corpus first.
// Prepare returns a new prepared embedder and leaves the receiver untouched.
type Preparer interface {
	Prepare(corpus []string) (Embedder, error)
}

// VectorIndex stores chunk vectors and supports nearest-neighbour search.
type VectorIndex interface {
	Add(ctx context.Context, chunks []Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Len() int
	Close(ctx context.Context) error
}

// IndexFactory creates a fresh, empty VectorIndex.
type IndexFactory interface {
	NewIndex(ctx context.Context) (VectorIndex, error)
}

// Generator is a language-model provider.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, question string) (string, error)
}

// Transcriber is a speech-recognition provider.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
