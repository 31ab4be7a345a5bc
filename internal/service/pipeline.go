// Package service wires sources, indexing and answering into per-source pipelines.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Swayam-the-coder/GRASP/internal/answer"
	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/indexer"
	"github.com/Swayam-the-coder/GRASP/internal/logger"
	"github.com/Swayam-the-coder/GRASP/internal/metrics"
	"github.com/Swayam-the-coder/GRASP/internal/retriever"
	"github.com/Swayam-the-coder/GRASP/internal/source"
)

// State of a Pipeline.
type State int

const (
	Unconfigured State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "unconfigured"
}

// Dependencies are the shared components every pipeline runs on.
type Dependencies struct {
	Sources          *source.Registry
	Chunker          domain.Chunker
	Indexer          *indexer.Indexer
	Retriever        *retriever.Retriever
	Composer         *answer.Composer
	Summarizer       domain.Summarizer // optional
	SummarySentences int
	Feedback         FeedbackSink // optional
	Logger           *logger.Logger
	Metrics          *metrics.Metrics
}

// Pipeline holds the engine for one source kind. Configure calls are
// serialised; questions run concurrently with a build and only block while
// the finished engine is swapped in.
type Pipeline struct {
	kind domain.SourceKind
	deps *Dependencies
	log  *logger.Logger

	buildMu    sync.Mutex
	mu         sync.RWMutex
	engine     *QueryEngine
	generation uint64
}

func newPipeline(kind domain.SourceKind, deps *Dependencies) *Pipeline {
	return &Pipeline{kind: kind, deps: deps, log: deps.Logger.Source(string(kind))}
}

func (p *Pipeline) Kind() domain.SourceKind { return p.kind }

func (p *Pipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.engine == nil {
		return Unconfigured
	}
	return Ready
}

// Engine returns the current engine, or nil when unconfigured.
func (p *Pipeline) Engine() *QueryEngine {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.engine
}

// Generation counts successful builds.
func (p *Pipeline) Generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.generation
}

// Configure ingests the source described by params and replaces the current
// engine. On failure the current engine stays in place.
func (p *Pipeline) Configure(ctx context.Context, params domain.Params) (*QueryEngine, error) {
	p.buildMu.Lock()
	defer p.buildMu.Unlock()

	start := time.Now()
	engine, err := p.build(ctx, params)
	chunks := 0
	if engine != nil {
		chunks = engine.Chunks
	}
	if p.deps.Metrics != nil {
		p.deps.Metrics.RecordIngestion(string(p.kind), chunks, time.Since(start), err)
	}
	if err != nil {
		event := p.log.Error()
		if domain.IsValidation(err) {
			event = p.log.Warn()
		}
		event.Err(err).Dur("duration_ms", time.Since(start)).Msg("configure failed")
		return nil, err
	}

	p.mu.Lock()
	old := p.engine
	p.engine = engine
	p.generation++
	p.mu.Unlock()

	if p.deps.Metrics != nil {
		p.deps.Metrics.ActiveEngines.Inc()
	}
	if old != nil {
		p.closeEngine(ctx, old)
	}
	p.log.Info().
		Str("engine_id", engine.ID).
		Str("label", engine.Label).
		Int("chunks", engine.Chunks).
		Dur("duration_ms", time.Since(start)).
		Msg("source ready")
	return engine, nil
}

func (p *Pipeline) build(ctx context.Context, params domain.Params) (*QueryEngine, error) {
	t := time.Now()
	docs, err := p.deps.Sources.Extract(ctx, p.kind, params)
	p.log.LogStage("extract", time.Since(t), len(docs), err)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	t = time.Now()
	chunks := p.deps.Chunker.Split(docs)
	for i := range chunks {
		chunks[i].ID = id + "/" + chunks[i].ID
	}
	p.log.LogStage("chunk", time.Since(t), len(chunks), nil)

	built, err := p.deps.Indexer.Build(ctx, chunks)
	if err != nil {
		return nil, err
	}

	return &QueryEngine{
		ID:        id,
		Kind:      p.kind,
		Label:     sourceLabel(params),
		Summary:   p.summarize(docs),
		Chunks:    len(chunks),
		BuiltAt:   time.Now(),
		built:     built,
		retriever: p.deps.Retriever,
		composer:  p.deps.Composer,
	}, nil
}

func (p *Pipeline) summarize(docs []domain.RawDocument) string {
	if p.deps.Summarizer == nil {
		return ""
	}
	summary, err := p.deps.Summarizer.Summarize(joinDocuments(docs), p.deps.SummarySentences)
	if err != nil {
		p.log.Warn().Err(err).Msg("summary skipped")
		return ""
	}
	return summary
}

// Ask answers question with the current engine. A blank question is a no-op.
func (p *Pipeline) Ask(ctx context.Context, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.engine == nil {
		return domain.Answer{}, domain.ErrNotConfigured
	}

	start := time.Now()
	ans, err := p.engine.Ask(ctx, question)
	if p.deps.Metrics != nil {
		p.deps.Metrics.RecordQuestion(string(p.kind), time.Since(start), err)
	}
	if err != nil {
		p.log.Error().Err(err).Str("engine_id", p.engine.ID).Msg("question failed")
		return domain.Answer{}, err
	}
	p.log.Debug().
		Str("engine_id", p.engine.ID).
		Int("sources", len(ans.Sources)).
		Dur("duration_ms", time.Since(start)).
		Msg("question answered")
	return ans, nil
}

// Close releases the current engine and returns the pipeline to Unconfigured.
func (p *Pipeline) Close(ctx context.Context) error {
	p.buildMu.Lock()
	defer p.buildMu.Unlock()
	p.mu.Lock()
	old := p.engine
	p.engine = nil
	p.mu.Unlock()
	if old == nil {
		return nil
	}
	return p.closeEngine(ctx, old)
}

func (p *Pipeline) closeEngine(ctx context.Context, e *QueryEngine) error {
	if p.deps.Metrics != nil {
		p.deps.Metrics.ActiveEngines.Dec()
	}
	err := e.Close(context.WithoutCancel(ctx))
	if err != nil {
		p.log.Warn().Err(err).Str("engine_id", e.ID).Msg("release index")
	}
	return err
}
