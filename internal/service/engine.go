package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Swayam-the-coder/GRASP/internal/answer"
	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/indexer"
	"github.com/Swayam-the-coder/GRASP/internal/retriever"
)

// QueryEngine answers questions over one ingested source. It is read-only
// after construction and owns its index.
type QueryEngine struct {
	ID      string
	Kind    domain.SourceKind
	Label   string
	Summary string
	Chunks  int
	BuiltAt time.Time

	built     *indexer.Built
	retriever *retriever.Retriever
	composer  *answer.Composer
}

// Ask retrieves the closest chunks and composes an answer from them.
// Retrieval failures are reported as domain.ErrGeneration.
func (e *QueryEngine) Ask(ctx context.Context, question string) (domain.Answer, error) {
	results, err := e.retriever.Query(ctx, e.built.Index, e.built.Embedder, question, 0)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	return e.composer.Answer(ctx, question, results)
}

// Close releases the index.
func (e *QueryEngine) Close(ctx context.Context) error {
	return e.built.Index.Close(ctx)
}

// sourceLabel picks the parameter that best names the source for display.
func sourceLabel(params domain.Params) string {
	for _, key := range []string{"path", "url", "table"} {
		if v := params.Get(key); v != "" {
			return v
		}
	}
	return ""
}

func joinDocuments(docs []domain.RawDocument) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if t := strings.TrimSpace(d.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}
