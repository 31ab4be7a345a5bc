// Package mcpserver exposes a session as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/logger"
	"github.com/Swayam-the-coder/GRASP/internal/service"
)

// Backend is the part of service.Session the tools use.
type Backend interface {
	Configure(ctx context.Context, kind domain.SourceKind, params domain.Params) (*service.QueryEngine, error)
	Ask(ctx context.Context, kind domain.SourceKind, question string) (domain.Answer, error)
	Status() []service.Status
	Feedback(text string) error
}

type IngestInput struct {
	Kind  string `json:"kind" jsonschema:"source kind: pdf, web, text, audio, database or api"`
	Path  string `json:"path,omitempty" jsonschema:"file path for pdf, text and audio sources"`
	URL   string `json:"url,omitempty" jsonschema:"page or endpoint URL for web and api sources"`
	DSN   string `json:"dsn,omitempty" jsonschema:"database URL for database sources"`
	Table string `json:"table,omitempty" jsonschema:"table or collection name for database sources"`
}

type IngestOutput struct {
	EngineID string `json:"engine_id"`
	Kind     string `json:"kind"`
	Label    string `json:"label"`
	Chunks   int    `json:"chunks"`
	Summary  string `json:"summary,omitempty"`
}

type AskInput struct {
	Kind     string `json:"kind" jsonschema:"source kind that was ingested"`
	Question string `json:"question" jsonschema:"natural-language question"`
}

type SourceChunk struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
	Page   string `json:"page,omitempty"`
}

type AskOutput struct {
	Answer  string        `json:"answer"`
	Sources []SourceChunk `json:"sources"`
}

type StatusInput struct{}

type PipelineStatus struct {
	Kind       string `json:"kind"`
	State      string `json:"state"`
	EngineID   string `json:"engine_id,omitempty"`
	Label      string `json:"label,omitempty"`
	Chunks     int    `json:"chunks"`
	Generation uint64 `json:"generation"`
	BuiltAt    string `json:"built_at,omitempty"`
}

type StatusOutput struct {
	Pipelines []PipelineStatus `json:"pipelines"`
}

type FeedbackInput struct {
	Text string `json:"text" jsonschema:"free-text feedback"`
}

type FeedbackOutput struct {
	Stored bool `json:"stored"`
}

// New builds an MCP server with the ingest, ask, status and feedback tools.
// Tool failures are returned as tool results with IsError set.
func New(backend Backend, version string, log *logger.Logger) *mcp.Server {
	if log == nil {
		log = logger.Nop()
	}
	h := &handlers{backend: backend, log: log.Component("mcp")}
	server := mcp.NewServer(&mcp.Implementation{Name: "grasp", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ingest",
		Description: "Load a source and build a fresh question-answering index for its kind.",
	}, h.ingest)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the source currently loaded for a kind.",
	}, h.ask)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "List every source kind and whether a source is loaded.",
	}, h.status)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "feedback",
		Description: "Store free-text feedback.",
	}, h.feedback)
	return server
}

type handlers struct {
	backend Backend
	log     *logger.Logger
}

func (h *handlers) ingest(ctx context.Context, _ *mcp.CallToolRequest, in IngestInput) (*mcp.CallToolResult, IngestOutput, error) {
	kind, err := sourceKind(in.Kind)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	params := domain.Params{"path": in.Path, "url": in.URL, "dsn": in.DSN, "table": in.Table}
	engine, err := h.backend.Configure(ctx, kind, params)
	if err != nil {
		h.log.Warn().Err(err).Str("tool", "ingest").Str("source", in.Kind).Msg("tool failed")
		return nil, IngestOutput{}, err
	}
	return nil, IngestOutput{
		EngineID: engine.ID,
		Kind:     string(engine.Kind),
		Label:    engine.Label,
		Chunks:   engine.Chunks,
		Summary:  engine.Summary,
	}, nil
}

func (h *handlers) ask(ctx context.Context, _ *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, AskOutput, error) {
	kind, err := sourceKind(in.Kind)
	if err != nil {
		return nil, AskOutput{}, err
	}
	ans, err := h.backend.Ask(ctx, kind, in.Question)
	if err != nil {
		h.log.Warn().Err(err).Str("tool", "ask").Str("source", in.Kind).Msg("tool failed")
		return nil, AskOutput{}, err
	}
	out := AskOutput{Answer: ans.Text, Sources: make([]SourceChunk, 0, len(ans.Sources))}
	for _, c := range ans.Sources {
		out.Sources = append(out.Sources, SourceChunk{
			ID:     c.ID,
			Text:   c.Text,
			Source: c.Metadata["source"],
			Page:   c.Metadata["page"],
		})
	}
	return nil, out, nil
}

func sourceKind(s string) (domain.SourceKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("%w: kind is required", domain.ErrInvalidRequest)
	}
	return domain.SourceKind(s), nil
}

func (h *handlers) status(context.Context, *mcp.CallToolRequest, StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
	out := StatusOutput{Pipelines: []PipelineStatus{}}
	for _, st := range h.backend.Status() {
		ps := PipelineStatus{
			Kind:       string(st.Kind),
			State:      st.State,
			EngineID:   st.EngineID,
			Label:      st.Label,
			Chunks:     st.Chunks,
			Generation: st.Generation,
		}
		if st.BuiltAt != nil {
			ps.BuiltAt = st.BuiltAt.Format(time.RFC3339)
		}
		out.Pipelines = append(out.Pipelines, ps)
	}
	return nil, out, nil
}

func (h *handlers) feedback(_ context.Context, _ *mcp.CallToolRequest, in FeedbackInput) (*mcp.CallToolResult, FeedbackOutput, error) {
	if err := h.backend.Feedback(in.Text); err != nil {
		return nil, FeedbackOutput{}, err
	}
	return nil, FeedbackOutput{Stored: true}, nil
}
