package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/logger"
)

// FeedbackSink stores free-text user feedback.
type FeedbackSink interface {
	Submit(text string) error
}

// Session owns one Pipeline per registered source kind.
type Session struct {
	deps      *Dependencies
	kinds     []domain.SourceKind
	pipelines map[domain.SourceKind]*Pipeline
}

// Status is a snapshot of one pipeline.
type Status struct {
	Kind       domain.SourceKind `json:"kind"`
	State      string            `json:"state"`
	EngineID   string            `json:"engine_id,omitempty"`
	Label      string            `json:"label,omitempty"`
	Chunks     int               `json:"chunks"`
	Summary    string            `json:"summary,omitempty"`
	Generation uint64            `json:"generation"`
	BuiltAt    *time.Time        `json:"built_at,omitempty"`
}

func NewSession(deps Dependencies) *Session {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	s := &Session{deps: &deps, pipelines: map[domain.SourceKind]*Pipeline{}}
	for _, kind := range deps.Sources.Kinds() {
		s.kinds = append(s.kinds, kind)
		s.pipelines[kind] = newPipeline(kind, s.deps)
	}
	return s
}

// Kinds lists the available source kinds in navigation order.
func (s *Session) Kinds() []domain.SourceKind { return s.kinds }

func (s *Session) Pipeline(kind domain.SourceKind) (*Pipeline, error) {
	p, ok := s.pipelines[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, kind)
	}
	return p, nil
}

func (s *Session) Configure(ctx context.Context, kind domain.SourceKind, params domain.Params) (*QueryEngine, error) {
	p, err := s.Pipeline(kind)
	if err != nil {
		return nil, err
	}
	return p.Configure(ctx, params)
}

func (s *Session) Ask(ctx context.Context, kind domain.SourceKind, question string) (domain.Answer, error) {
	p, err := s.Pipeline(kind)
	if err != nil {
		return domain.Answer{}, err
	}
	return p.Ask(ctx, question)
}

// Status reports every pipeline in navigation order.
func (s *Session) Status() []Status {
	out := make([]Status, 0, len(s.kinds))
	for _, kind := range s.kinds {
		p := s.pipelines[kind]
		st := Status{Kind: kind, State: Unconfigured.String(), Generation: p.Generation()}
		if e := p.Engine(); e != nil {
			builtAt := e.BuiltAt
			st.State = Ready.String()
			st.EngineID = e.ID
			st.Label = e.Label
			st.Chunks = e.Chunks
			st.Summary = e.Summary
			st.BuiltAt = &builtAt
		}
		out = append(out, st)
	}
	return out
}

// Feedback forwards non-empty feedback to the configured sink.
func (s *Session) Feedback(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyFeedback
	}
	if s.deps.Feedback == nil {
		return errors.New("feedback is not configured")
	}
	if err := s.deps.Feedback.Submit(text); err != nil {
		return err
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.FeedbackTotal.Inc()
	}
	return nil
}

// Close releases every engine.
func (s *Session) Close(ctx context.Context) error {
	var errs []error
	for _, kind := range s.kinds {
		if err := s.pipelines[kind].Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
		}
	}
	return errors.Join(errs...)
}
