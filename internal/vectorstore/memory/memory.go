package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

// Metric selects how vectors are compared.
type Metric int

const (
	L2 Metric = iota
	Cosine
)

// ParseMetric maps a config value to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "l2", "":
		return L2, nil
	case "cosine":
		return Cosine, nil
	default:
		return 0, fmt.Errorf("unknown similarity metric: %s", s)
	}
}

// QdrantDistance is the Qdrant collection distance for m.
func (m Metric) QdrantDistance() string {
	if m == Cosine {
		return "Cosine"
	}
	return "Euclid"
}

// Storage is a simple in-memory vector index using brute-force exact search.
// Scores are cosine similarity, or negated Euclidean distance for L2, so that
// higher is always better.
type Storage struct {
	mu        sync.RWMutex
	metric    Metric
	dimension int
	vectors   [][]float64
	chunks    []domain.Chunk
}

func NewStorage(metric Metric) *Storage { return &Storage{metric: metric} }

func (s *Storage) Add(_ context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dim := s.dimension
	for _, v := range vectors {
		if len(v) == 0 {
			return errors.New("empty vector")
		}
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return errors.New("vector dimension mismatch")
		}
	}
	s.dimension = dim
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.vectors) == 0 {
		return nil, nil
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(vector), s.dimension)
	}
	if topK <= 0 {
		topK = 4
	}
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = s.score(s.vectors[i], vector)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	// Ties keep insertion order.
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, j := range idxs[:topK] {
		results = append(results, domain.SearchResult{Chunk: s.chunks[j], Score: scores[j]})
	}
	return results, nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

func (s *Storage) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.chunks = nil
	return nil
}

func (s *Storage) score(a, b []float64) float64 {
	if s.metric == Cosine {
		return cosine(a, b)
	}
	return -euclidean(a, b)
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
