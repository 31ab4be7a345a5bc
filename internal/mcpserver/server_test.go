package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/service"
)

type fakeBackend struct {
	params   domain.Params
	feedback []string
	calls    int
}

func (f *fakeBackend) Configure(_ context.Context, kind domain.SourceKind, params domain.Params) (*service.QueryEngine, error) {
	f.calls++
	if kind != domain.SourceText {
		return nil, domain.ErrUnknownSource
	}
	f.params = params
	return &service.QueryEngine{ID: "e-1", Kind: kind, Label: params.Get("path"), Chunks: 2}, nil
}

func (f *fakeBackend) Ask(_ context.Context, kind domain.SourceKind, q string) (domain.Answer, error) {
	f.calls++
	if f.params == nil {
		return domain.Answer{}, domain.ErrNotConfigured
	}
	return domain.Answer{
		Text:    "The sky is blue.",
		Sources: []domain.Chunk{{ID: "e-1/0:0", Text: "The sky is blue.", Metadata: map[string]string{"source": "sky.txt"}}},
	}, nil
}

func (f *fakeBackend) Status() []service.Status {
	built := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []service.Status{
		{Kind: domain.SourcePDF, State: "unconfigured"},
		{Kind: domain.SourceText, State: "ready", EngineID: "e-1", Chunks: 2, Generation: 1, BuiltAt: &built},
	}
}

func (f *fakeBackend) Feedback(text string) error {
	if text == "" {
		return domain.ErrEmptyFeedback
	}
	f.feedback = append(f.feedback, text)
	return nil
}

func connect(t *testing.T, backend Backend) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverT, clientT := mcp.NewInMemoryTransports()
	ss, err := New(backend, "test", nil).Connect(ctx, serverT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	var out T
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func TestToolsAreListed(t *testing.T) {
	cs := connect(t, &fakeBackend{})
	res, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"ingest", "ask", "status", "feedback"}, names)
}

func TestAskBeforeIngestIsToolError(t *testing.T) {
	cs := connect(t, &fakeBackend{})

	res := call(t, cs, "ask", map[string]any{"kind": "text", "question": "What color is the sky?"})
	assert.True(t, res.IsError)
}

func TestIngestThenAsk(t *testing.T) {
	backend := &fakeBackend{}
	cs := connect(t, backend)

	ing := decode[IngestOutput](t, call(t, cs, "ingest", map[string]any{"kind": "text", "path": "sky.txt"}))
	assert.Equal(t, "e-1", ing.EngineID)
	assert.Equal(t, 2, ing.Chunks)
	assert.Equal(t, "sky.txt", backend.params.Get("path"))

	ans := decode[AskOutput](t, call(t, cs, "ask", map[string]any{"kind": "text", "question": "What color is the sky?"}))
	assert.Equal(t, "The sky is blue.", ans.Answer)
	require.Len(t, ans.Sources, 1)
	assert.Equal(t, "sky.txt", ans.Sources[0].Source)
}

func TestIngestUnknownKindIsToolError(t *testing.T) {
	cs := connect(t, &fakeBackend{})
	res := call(t, cs, "ingest", map[string]any{"kind": "fax"})
	assert.True(t, res.IsError)
}

func TestBlankKindIsRejectedBeforeBackend(t *testing.T) {
	backend := &fakeBackend{}
	cs := connect(t, backend)

	res := call(t, cs, "ingest", map[string]any{"kind": "  ", "path": "sky.txt"})
	assert.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "kind is required")

	assert.True(t, call(t, cs, "ask", map[string]any{"kind": "", "question": "why?"}).IsError)
	assert.Zero(t, backend.calls)
}

func TestIngestKindIsCaseInsensitive(t *testing.T) {
	backend := &fakeBackend{}
	cs := connect(t, backend)
	ing := decode[IngestOutput](t, call(t, cs, "ingest", map[string]any{"kind": "TEXT", "path": "sky.txt"}))
	assert.Equal(t, "text", ing.Kind)
}

func TestStatusAndFeedback(t *testing.T) {
	backend := &fakeBackend{}
	cs := connect(t, backend)

	st := decode[StatusOutput](t, call(t, cs, "status", map[string]any{}))
	require.Len(t, st.Pipelines, 2)
	assert.Equal(t, "ready", st.Pipelines[1].State)
	assert.Equal(t, "2026-01-02T03:04:05Z", st.Pipelines[1].BuiltAt)

	fb := decode[FeedbackOutput](t, call(t, cs, "feedback", map[string]any{"text": "nice"}))
	assert.True(t, fb.Stored)
	assert.Equal(t, []string{"nice"}, backend.feedback)

	assert.True(t, call(t, cs, "feedback", map[string]any{"text": ""}).IsError)
}
