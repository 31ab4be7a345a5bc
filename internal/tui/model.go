package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/service"
)

type level int

const (
	levelInfo level = iota
	levelOK
	levelWarn
	levelError
)

type status struct {
	text  string
	level level
}

// page is the state of one navigation entry. The home page has no kind.
type page struct {
	layout    pageLayout
	fields    []textinput.Model
	question  textinput.Model
	engine    *service.QueryEngine
	answer    domain.Answer
	asked     string
	cursor    int
	status    status
	busy      string
	configSeq uint64
	askSeq    uint64
}

func (p *page) isHome() bool { return p.layout.kind == "" }

func (p *page) params() domain.Params {
	params := domain.Params{}
	for i, f := range p.layout.fields {
		params[f.key] = p.fields[i].Value()
	}
	return params
}

// Model is the Bubble Tea model for the application shell.
type Model struct {
	ctx      context.Context
	port     Port
	pages    []*page
	current  int
	focus    int
	feedback textinput.Model
	fbStatus status
	fbSeq    uint64
	viewport viewport.Model
	seq      uint64
	width    int
	ready    bool
}

// New creates the shell with a home page followed by one page per source kind.
func New(ctx context.Context, port Port) Model {
	pages := []*page{{layout: homeLayout}}
	for _, kind := range port.Kinds() {
		layout, ok := sourcePages[kind]
		if !ok {
			continue
		}
		p := &page{layout: layout, question: newInput("Ask a question and press Enter")}
		for _, f := range layout.fields {
			p.fields = append(p.fields, newInput(f.placeholder))
		}
		p.status = status{text: "No source loaded."}
		pages = append(pages, p)
	}
	m := Model{
		ctx:      ctx,
		port:     port,
		pages:    pages,
		feedback: newInput("Provide your feedback here"),
		viewport: viewport.New(0, 0),
	}
	m.applyFocus()
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 0
	return ti
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m *Model) page() *page { return m.pages[m.current] }

// inputs lists the focusable inputs of the current page in tab order.
func (m *Model) inputs() []*textinput.Model {
	p := m.page()
	var out []*textinput.Model
	for i := range p.fields {
		out = append(out, &p.fields[i])
	}
	if !p.isHome() {
		out = append(out, &p.question)
	}
	return append(out, &m.feedback)
}

func (m *Model) applyFocus() {
	for _, p := range m.pages {
		for i := range p.fields {
			p.fields[i].Blur()
		}
		p.question.Blur()
	}
	m.feedback.Blur()
	inputs := m.inputs()
	m.focus = (m.focus%len(inputs) + len(inputs)) % len(inputs)
	inputs[m.focus].Focus()
}

func (m *Model) focused() *textinput.Model { return m.inputs()[m.focus] }

func (m *Model) nextSeq() uint64 {
	m.seq++
	return m.seq
}

func (m *Model) pageFor(kind domain.SourceKind) *page {
	for _, p := range m.pages {
		if p.layout.kind == kind && !p.isHome() {
			return p
		}
	}
	return nil
}

// Update handles key, window and pipeline result messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, fh := resultBoxStyle.GetFrameSize()
		reserved := 16 + 2*len(m.page().fields)
		m.viewport.Width = max(20, msg.Width-sidebarWidth-4)
		m.viewport.Height = max(3, msg.Height-reserved-fh)
		m.refresh()
		return m, nil
	case configuredMsg:
		m.onConfigured(msg)
		return m, nil
	case answeredMsg:
		m.onAnswered(msg)
		return m, nil
	case feedbackMsg:
		m.onFeedback(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "ctrl+n":
			m.switchPage(1)
			return m, nil
		case "ctrl+p":
			m.switchPage(-1)
			return m, nil
		case "tab":
			m.focus++
			m.applyFocus()
			return m, nil
		case "shift+tab":
			m.focus--
			m.applyFocus()
			return m, nil
		case "enter":
			return m, m.submit()
		case "up", "down":
			if p := m.page(); len(p.answer.Sources) > 0 {
				step := 1
				if msg.String() == "up" {
					step = len(p.answer.Sources) - 1
				}
				p.cursor = (p.cursor + step) % len(p.answer.Sources)
				m.refresh()
				return m, nil
			}
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	in := m.focused()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return m, cmd
}

func (m *Model) switchPage(step int) {
	m.current = (m.current + step + len(m.pages)) % len(m.pages)
	m.focus = 0
	m.applyFocus()
	m.refresh()
}

// submit acts on the focused input: source fields load the source, the
// question box asks, the feedback box sends feedback.
func (m *Model) submit() tea.Cmd {
	p := m.page()
	in := m.focused()
	switch {
	case in == &m.feedback:
		m.fbSeq = m.nextSeq()
		m.fbStatus = status{text: "Sending feedback..."}
		return feedbackCmd(m.port, m.fbSeq, m.feedback.Value())
	case !p.isHome() && in == &p.question:
		q := strings.TrimSpace(p.question.Value())
		if q == "" {
			return nil
		}
		p.askSeq = m.nextSeq()
		p.busy = "Thinking..."
		return askCmd(m.ctx, m.port, p.layout.kind, p.askSeq, q)
	case !p.isHome():
		p.configSeq = m.nextSeq()
		p.busy = "Loading source..."
		return configureCmd(m.ctx, m.port, p.layout.kind, p.configSeq, p.params())
	}
	return nil
}

func (m *Model) onConfigured(msg configuredMsg) {
	p := m.pageFor(msg.kind)
	if p == nil || msg.seq != p.configSeq {
		return
	}
	p.busy = ""
	if msg.err != nil {
		p.status = errorStatus(msg.err)
		return
	}
	p.engine = msg.engine
	p.answer, p.asked, p.cursor = domain.Answer{}, "", 0
	p.status = status{
		text:  fmt.Sprintf("Indexed %d chunks from %s.", msg.engine.Chunks, msg.engine.Label),
		level: levelOK,
	}
	m.refresh()
}

func (m *Model) onAnswered(msg answeredMsg) {
	p := m.pageFor(msg.kind)
	if p == nil || msg.seq != p.askSeq {
		return
	}
	p.busy = ""
	switch {
	case errors.Is(msg.err, domain.ErrNotConfigured):
		p.status = status{text: p.layout.missing, level: levelWarn}
	case msg.err != nil:
		p.status = errorStatus(msg.err)
	default:
		p.answer, p.asked, p.cursor = msg.answer, msg.question, 0
		p.status = status{text: fmt.Sprintf("Answered %q", msg.question), level: levelOK}
	}
	m.refresh()
}

func (m *Model) onFeedback(msg feedbackMsg) {
	if msg.seq != m.fbSeq {
		return
	}
	if msg.err != nil {
		m.fbStatus = errorStatus(msg.err)
		return
	}
	m.feedback.Reset()
	m.fbStatus = status{text: "Feedback submitted successfully!", level: levelOK}
}

// errorStatus renders validation problems as warnings and everything else as errors.
func errorStatus(err error) status {
	if domain.IsValidation(err) {
		return status{text: err.Error(), level: levelWarn}
	}
	return status{text: "An error occurred: " + err.Error(), level: levelError}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderAnswer())
	m.viewport.GotoTop()
}

// View renders the sidebar and the current page.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderPage())
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("GRASP") + "\n\n")
	for i, p := range m.pages {
		label := p.layout.nav
		if p.engine != nil {
			label += " •"
		}
		if i == m.current {
			b.WriteString(navActiveStyle.Render("> "+label) + "\n")
		} else {
			b.WriteString(navStyle.Render("  "+label) + "\n")
		}
	}
	b.WriteString("\n" + helpStyle.Render("ctrl+n/p page\ntab focus\nenter submit\n↑/↓ sources\nctrl+c quit"))
	return sidebarStyle.Render(b.String())
}

func (m Model) renderPage() string {
	p := m.pages[m.current]
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.layout.title) + "\n")
	for _, line := range p.layout.instructions {
		b.WriteString(mutedStyle.Render(line) + "\n")
	}
	if !p.isHome() {
		b.WriteString("\n")
		for i, f := range p.layout.fields {
			b.WriteString(labelStyle.Render(f.label) + "\n" + inputBoxStyle.Render(p.fields[i].View()) + "\n")
		}
		if p.engine != nil && p.engine.Summary != "" {
			b.WriteString(mutedStyle.Render("Summary: "+p.engine.Summary) + "\n")
		}
		b.WriteString(labelStyle.Render("Please feel free to ask any doubts!") + "\n")
		b.WriteString(inputBoxStyle.Render(p.question.View()) + "\n")
		b.WriteString(resultBoxStyle.Render(m.viewport.View()) + "\n")
		st := p.status
		if p.busy != "" {
			st = status{text: p.busy}
		}
		b.WriteString(renderStatus(st) + "\n")
	}
	b.WriteString("\n" + labelStyle.Render("User Feedback") + "\n")
	b.WriteString(inputBoxStyle.Render(m.feedback.View()) + "\n")
	if m.fbStatus.text != "" {
		b.WriteString(renderStatus(m.fbStatus))
	}
	return b.String()
}

func (m Model) renderAnswer() string {
	p := m.pages[m.current]
	if p.isHome() {
		return ""
	}
	if p.answer.Text == "" {
		return "No answer yet."
	}
	out := p.answer.Text
	if n := len(p.answer.Sources); n > 0 {
		c := p.answer.Sources[p.cursor]
		title := fmt.Sprintf("Source %d/%d", p.cursor+1, n)
		if src := c.Metadata["source"]; src != "" {
			title += "  " + src
		}
		if pg := c.Metadata["page"]; pg != "" {
			title += "  page " + pg
		}
		out += "\n\n" + mutedStyle.Render(title) + "\n" + highlightBestSentence(c.Text, p.asked)
	}
	return out
}

func renderStatus(s status) string {
	switch s.level {
	case levelOK:
		return okStyle.Render(s.text)
	case levelWarn:
		return warnStyle.Render(s.text)
	case levelError:
		return errorStyle.Render(s.text)
	default:
		return mutedStyle.Render(s.text)
	}
}

const sidebarWidth = 18

var (
	sidebarStyle   = lipgloss.NewStyle().Width(sidebarWidth).Padding(0, 1).Border(lipgloss.NormalBorder(), false, true, false, false)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	navStyle       = lipgloss.NewStyle()
	navActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
