package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/service"
)

// Port is the subset of the session the shell drives.
type Port interface {
	Kinds() []domain.SourceKind
	Configure(ctx context.Context, kind domain.SourceKind, params domain.Params) (*service.QueryEngine, error)
	Ask(ctx context.Context, kind domain.SourceKind, question string) (domain.Answer, error)
	Feedback(text string) error
}

type configuredMsg struct {
	kind   domain.SourceKind
	seq    uint64
	engine *service.QueryEngine
	err    error
}

type answeredMsg struct {
	kind     domain.SourceKind
	seq      uint64
	question string
	answer   domain.Answer
	err      error
}

type feedbackMsg struct {
	seq uint64
	err error
}

func configureCmd(ctx context.Context, port Port, kind domain.SourceKind, seq uint64, params domain.Params) tea.Cmd {
	return func() tea.Msg {
		engine, err := port.Configure(ctx, kind, params)
		return configuredMsg{kind: kind, seq: seq, engine: engine, err: err}
	}
}

func askCmd(ctx context.Context, port Port, kind domain.SourceKind, seq uint64, question string) tea.Cmd {
	return func() tea.Msg {
		ans, err := port.Ask(ctx, kind, question)
		return answeredMsg{kind: kind, seq: seq, question: question, answer: ans, err: err}
	}
}

func feedbackCmd(port Port, seq uint64, text string) tea.Cmd {
	return func() tea.Msg {
		return feedbackMsg{seq: seq, err: port.Feedback(text)}
	}
}
