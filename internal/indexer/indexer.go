// Package indexer embeds chunks into a fresh vector index.
package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/logger"
)

const defaultBatchSize = 32

// Built is a fully populated index together with the embedder that must be
// used to query it.
type Built struct {
	Index    domain.VectorIndex
	Embedder domain.Embedder
}

// Indexer embeds chunks and inserts them into a new index.
type Indexer struct {
	embedder  domain.Embedder
	factory   domain.IndexFactory
	batchSize int
	log       *logger.Logger
}

// New creates an Indexer. batchSize <= 0 uses the embedder's own batch size
// when it reports one.
func New(embedder domain.Embedder, factory domain.IndexFactory, batchSize int, log *logger.Logger) *Indexer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
		if b, ok := embedder.(interface{ BatchSize() int }); ok && b.BatchSize() > 0 {
			batchSize = b.BatchSize()
		}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Indexer{embedder: embedder, factory: factory, batchSize: batchSize, log: log.Component("indexer")}
}

// Build embeds every chunk before returning. Any failure discards the
// partial index and is reported as domain.ErrIndexBuild.
func (ix *Indexer) Build(ctx context.Context, chunks []domain.Chunk) (*Built, error) {
	start := time.Now()
	embedder := ix.embedder
	if p, ok := embedder.(domain.Preparer); ok && len(chunks) > 0 {
		prepared, err := p.Prepare(texts(chunks))
		if err != nil {
			return nil, fmt.Errorf("%w: prepare %s embedder: %w", domain.ErrIndexBuild, embedder.Name(), err)
		}
		embedder = prepared
		if d, ok := prepared.(interface{ Dimension() int }); ok && d.Dimension() == 0 {
			// nothing to index; queries against the empty index find no hits
			ix.log.Warn().Int("chunks", len(chunks)).Msg("no indexable terms in corpus")
			chunks = nil
		}
	}

	index, err := ix.factory.NewIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create index: %w", domain.ErrIndexBuild, err)
	}
	if err := ix.fill(ctx, index, embedder, chunks); err != nil {
		_ = index.Close(context.WithoutCancel(ctx))
		ix.log.LogStage("index", time.Since(start), len(chunks), err)
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexBuild, err)
	}
	ix.log.LogStage("index", time.Since(start), len(chunks), nil)
	return &Built{Index: index, Embedder: embedder}, nil
}

func (ix *Indexer) fill(ctx context.Context, index domain.VectorIndex, embedder domain.Embedder, chunks []domain.Chunk) error {
	batcher, canBatch := embedder.(domain.BatchEmbedder)
	for start := 0; start < len(chunks); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		var vectors [][]float64
		if canBatch {
			vecs, err := batcher.EmbedBatch(ctx, texts(batch))
			if err != nil {
				return fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
			}
			if len(vecs) != len(batch) {
				return fmt.Errorf("embed chunks %d-%d: got %d vectors", start, end-1, len(vecs))
			}
			vectors = vecs
		} else {
			vectors = make([][]float64, len(batch))
			for i := range batch {
				vec, err := embedder.Embed(ctx, batch[i].Text)
				if err != nil {
					return fmt.Errorf("embed chunk %d: %w", start+i, err)
				}
				vectors[i] = vec
			}
		}
		if err := index.Add(ctx, batch, vectors); err != nil {
			return fmt.Errorf("insert chunks %d-%d: %w", start, end-1, err)
		}
	}
	return nil
}

func texts(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i := range chunks {
		out[i] = chunks[i].Text
	}
	return out
}
