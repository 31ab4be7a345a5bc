// Package vectorstore creates per-engine vector indexes.
package vectorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/Swayam-the-coder/GRASP/internal/config"
	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/vectorstore/memory"
	"github.com/Swayam-the-coder/GRASP/internal/vectorstore/qdrant"
)

// FactoryFunc adapts a function to domain.IndexFactory.
type FactoryFunc func(ctx context.Context) (domain.VectorIndex, error)

func (f FactoryFunc) NewIndex(ctx context.Context) (domain.VectorIndex, error) { return f(ctx) }

// NewFactory returns a factory for the configured store. Every call to
// NewIndex yields an independent, empty index.
func NewFactory(cfg config.VectorStoreConfig) (domain.IndexFactory, error) {
	metric, err := memory.ParseMetric(cfg.Metric)
	if err != nil {
		return nil, err
	}
	switch cfg.Type {
	case "memory", "":
		return FactoryFunc(func(context.Context) (domain.VectorIndex, error) {
			return memory.NewStorage(metric), nil
		}), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		qcfg := qdrant.Config{
			URL:              cfg.Qdrant.URL,
			APIKey:           cfg.Qdrant.APIKey,
			CollectionPrefix: cfg.Qdrant.CollectionPrefix,
			Distance:         metric.QdrantDistance(),
			Timeout:          time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}
		return FactoryFunc(func(context.Context) (domain.VectorIndex, error) {
			return qdrant.NewStorage(qcfg), nil
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}
