package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"questions/internal/service"
)

// Asker is the TUI-facing subset of the question answering service.
type Asker interface {
	Ask(ctx context.Context, query string, opts service.Options) (*service.Answer, error)
}

// answerMsg carries the result of an asynchronous query back to Update.
type answerMsg struct {
	query  string
	answer *service.Answer
	err    error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	ctx      context.Context
	service  Asker
	opts     service.Options
	input    textinput.Model
	viewport viewport.Model
	answer   *service.Answer
	summary  string
	status   string
	busy     bool
	ready    bool
}

// New creates a new TUI model instance. Queries run under ctx.
func New(ctx context.Context, svc Asker, opts service.Options, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "Query: "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{ctx: ctx, service: svc, opts: opts, input: ti, viewport: vp, summary: summary, status: "Loaded. Type a question."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header+summary, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.answer = nil
		} else {
			m.status = fmt.Sprintf("Answer for %q", msg.query)
			m.answer = msg.answer
		}
		m.viewport.SetContent(m.renderAnswer())
		m.viewport.GotoTop()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.busy {
				m.busy = true
				m.status = "Searching..."
				return m, m.ask(q)
			}
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(query string) tea.Cmd {
	ctx, svc, opts := m.ctx, m.service, m.opts
	return func() tea.Msg {
		ans, err := svc.Ask(ctx, query, opts)
		return answerMsg{query: query, answer: ans, err: err}
	}
}

// View renders the TUI layout and current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Questions")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "No answer yet."
	}
	a := m.answer
	var b strings.Builder
	for i, s := range a.Sentences {
		fmt.Fprintf(&b, "%d. %s\n", i+1, highlightTerms(s.ID, a.Terms))
		b.WriteString(dimStyle.Render(fmt.Sprintf("   idf=%.3f density=%.3f", s.Measure, s.Density)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	files := make([]string, len(a.Files))
	for i, f := range a.Files {
		files[i] = fmt.Sprintf("%s (%.3f)", f.ID, f.Score)
	}
	b.WriteString(dimStyle.Render("from: " + strings.Join(files, ", ")))
	if len(a.Unmatched) > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("not in corpus: " + strings.Join(a.Unmatched, ", ")))
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// highlightTerms emphasizes words of sentence whose lowercase form, with
// surrounding punctuation removed, is a query term.
func highlightTerms(sentence string, terms []string) string {
	if len(terms) == 0 {
		return sentence
	}
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	words := strings.Fields(sentence)
	for i, w := range words {
		core := strings.ToLower(strings.Trim(w, ".,;:!?\"'()[]"))
		if _, ok := set[core]; ok {
			words[i] = highlightStyle.Render(w)
		}
	}
	return strings.Join(words, " ")
}
