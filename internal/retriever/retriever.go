// Package retriever finds the chunks most similar to a question.
package retriever

import (
	"context"
	"fmt"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

// Retriever performs read-only k-nearest-neighbour lookups.
type Retriever struct {
	topK int
}

func New(topK int) *Retriever {
	if topK <= 0 {
		topK = 4
	}
	return &Retriever{topK: topK}
}

// Query embeds question with embedder and returns up to k results from index,
// most similar first. k <= 0 uses the configured default. An empty index
// yields no results and no embedding call.
func (r *Retriever) Query(ctx context.Context, index domain.VectorIndex, embedder domain.Embedder, question string, k int) ([]domain.SearchResult, error) {
	if index == nil || index.Len() == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = r.topK
	}
	vec, err := embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	results, err := index.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return results, nil
}
