package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/service"
)

type fakePort struct {
	configured map[domain.SourceKind]domain.Params
	asked      []string
	feedback   []string
	askErr     error
	configErr  error
}

func newFakePort() *fakePort {
	return &fakePort{configured: map[domain.SourceKind]domain.Params{}}
}

func (f *fakePort) Kinds() []domain.SourceKind { return domain.SourceKinds }

func (f *fakePort) Configure(_ context.Context, kind domain.SourceKind, params domain.Params) (*service.QueryEngine, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	f.configured[kind] = params
	return &service.QueryEngine{ID: "e1", Kind: kind, Label: params.Get("path"), Chunks: 3}, nil
}

func (f *fakePort) Ask(_ context.Context, kind domain.SourceKind, q string) (domain.Answer, error) {
	f.asked = append(f.asked, q)
	if f.askErr != nil {
		return domain.Answer{}, f.askErr
	}
	if _, ok := f.configured[kind]; !ok {
		return domain.Answer{}, domain.ErrNotConfigured
	}
	return domain.Answer{
		Text:    "The sky is blue.",
		Sources: []domain.Chunk{{ID: "1", Text: "Grass is green. The sky is blue."}, {ID: "2", Text: "Other."}},
	}, nil
}

func (f *fakePort) Feedback(text string) error {
	if text == "" {
		return domain.ErrEmptyFeedback
	}
	f.feedback = append(f.feedback, text)
	return nil
}

func newTestModel(t *testing.T, port Port) Model {
	t.Helper()
	m := New(context.Background(), port)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send applies msg. For Enter it also runs the submitted command
// synchronously and feeds its result back.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEnter && cmd != nil {
		if out := cmd(); out != nil {
			switch out.(type) {
			case configuredMsg, answeredMsg, feedbackMsg:
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestPagesFollowNavigationOrder(t *testing.T) {
	m := newTestModel(t, newFakePort())
	var nav []string
	for _, p := range m.pages {
		nav = append(nav, p.layout.nav)
	}
	assert.Equal(t, []string{"Home", "PDF", "Web", "Text", "Audio", "Database", "API"}, nav)
}

func TestAskBeforeLoadingShowsWarning(t *testing.T) {
	port := newFakePort()
	m := newTestModel(t, port)
	m = send(t, m, key("ctrl+n")) // PDF page
	m = send(t, m, key("tab"))    // question box
	m = send(t, m, key("sky?"))
	m = send(t, m, key("enter"))

	p := m.page()
	assert.Equal(t, levelWarn, p.status.level)
	assert.Equal(t, "Please upload a PDF file to ask questions.", p.status.text)
}

func TestLoadThenAsk(t *testing.T) {
	port := newFakePort()
	m := newTestModel(t, port)
	m = send(t, m, key("ctrl+n"))
	m = send(t, m, key("/tmp/sky.pdf"))
	m = send(t, m, key("enter"))

	require.Equal(t, domain.Params{"path": "/tmp/sky.pdf"}, port.configured[domain.SourcePDF])
	p := m.page()
	assert.Equal(t, levelOK, p.status.level)
	assert.Equal(t, "Indexed 3 chunks from /tmp/sky.pdf.", p.status.text)

	m = send(t, m, key("tab"))
	m = send(t, m, key("What color is the sky?"))
	m = send(t, m, key("enter"))
	assert.Equal(t, "The sky is blue.", p.answer.Text)
	assert.Contains(t, m.viewport.View(), "Source 1/2")

	m = send(t, m, key("down"))
	assert.Equal(t, 1, p.cursor)
}

func TestBlankQuestionDoesNothing(t *testing.T) {
	port := newFakePort()
	m := newTestModel(t, port)
	m = send(t, m, key("ctrl+n"))
	m = send(t, m, key("tab"))
	m = send(t, m, key("   "))
	m = send(t, m, key("enter"))

	assert.Empty(t, port.asked)
	assert.Empty(t, m.page().busy)
}

func TestStaleResultsAreDropped(t *testing.T) {
	m := newTestModel(t, newFakePort())
	m = send(t, m, key("ctrl+n"))
	p := m.page()
	p.configSeq = 7

	next, _ := m.Update(configuredMsg{kind: domain.SourcePDF, seq: 6, engine: &service.QueryEngine{Label: "old"}})
	m = next.(Model)
	assert.Nil(t, p.engine)

	next, _ = m.Update(configuredMsg{kind: domain.SourcePDF, seq: 7, engine: &service.QueryEngine{Label: "new"}})
	m = next.(Model)
	require.NotNil(t, p.engine)
	assert.Equal(t, "new", p.engine.Label)
}

func TestErrorsAndWarnings(t *testing.T) {
	port := newFakePort()
	port.configErr = fmt.Errorf("%w: %q", domain.ErrTableNotFound, "facts")
	m := newTestModel(t, port)
	m = send(t, m, key("ctrl+n"))
	m = send(t, m, key("x.pdf"))
	m = send(t, m, key("enter"))
	assert.Equal(t, levelError, m.page().status.level)
	assert.Contains(t, m.page().status.text, "An error occurred")

	port.configErr = fmt.Errorf("%w: pdf source needs %q", domain.ErrMissingParam, "path")
	m = send(t, m, key("enter"))
	assert.Equal(t, levelWarn, m.page().status.level)

	port.configErr = nil
	port.configured[domain.SourcePDF] = domain.Params{}
	port.askErr = fmt.Errorf("%w: %w", domain.ErrGeneration, errors.New("timeout"))
	m = send(t, m, key("tab"))
	m = send(t, m, key("q"))
	m = send(t, m, key("enter"))
	assert.Equal(t, levelError, m.page().status.level)
}

func TestFeedbackFromHome(t *testing.T) {
	port := newFakePort()
	m := newTestModel(t, port)
	m = send(t, m, key("nice"))
	m = send(t, m, key("enter"))

	assert.Equal(t, []string{"nice"}, port.feedback)
	assert.Equal(t, "Feedback submitted successfully!", m.fbStatus.text)
	assert.Empty(t, m.feedback.Value())
}

func TestHighlightBestSentence(t *testing.T) {
	assert.Equal(t, 1, bestSentence([]string{"Grass is green.", "The sky is blue."}, "what colour is the sky"))
	assert.Equal(t, -1, bestSentence([]string{"Grass is green."}, "xyz"))
	assert.Equal(t, "Grass is green.", highlightBestSentence("Grass is   green.", "xyz"))
}
