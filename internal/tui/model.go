// Package tui is the interactive terminal front end for a story session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Yates-Labs/storyjourney/internal/narrative"
	"github.com/Yates-Labs/storyjourney/internal/orchestrator"
)

// advanceDoneMsg reports the end of an advance started by the model.
type advanceDoneMsg struct{ err error }

// Model renders an orchestrator session and forwards player input to it.
// Before the first scene offers options the player types free text; after
// that the number keys pick an option.
type Model struct {
	ctx   context.Context
	orch  *orchestrator.Orchestrator
	view  orchestrator.View
	input textinput.Model
	spin  spinner.Model

	waiting  bool
	err      error
	width    int
	quitting bool
}

// New creates a model bound to orch. ctx bounds every advance.
func New(ctx context.Context, orch *orchestrator.Orchestrator) Model {
	input := textinput.New()
	input.Placeholder = "A lighthouse keeper finds a door in the rocks..."
	input.CharLimit = 500
	input.Width = 60
	input.Focus()

	return Model{
		ctx:   ctx,
		orch:  orch,
		view:  orch.Snapshot(),
		input: input,
		spin:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(HintStyle)),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case advanceDoneMsg:
		m.waiting = false
		m.view = m.orch.Snapshot()
		m.err = msg.err
		if m.err == nil {
			m.input.Reset()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		if m.pending() {
			return m, nil
		}
		if m.view.HasOptions() {
			return m.choose(msg.String())
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// choose starts an advance for the option bound to key.
func (m Model) choose(key string) (tea.Model, tea.Cmd) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return m, nil
	}
	opt, ok := narrative.FindOption(m.view.Options, key)
	if !ok {
		m.err = fmt.Errorf("%w: %s", orchestrator.ErrUnknownOption, key)
		return m, nil
	}

	m.waiting = true
	m.err = nil
	orch, ctx := m.orch, m.ctx
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		_, err := orch.SelectOption(ctx, opt.Label)
		return advanceDoneMsg{err: err}
	})
}

// submit starts an advance with the typed text.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	m.waiting = true
	m.err = nil
	orch, ctx := m.orch, m.ctx
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		_, err := orch.SubmitFreeText(ctx, text)
		return advanceDoneMsg{err: err}
	})
}

func (m Model) pending() bool {
	return m.waiting || m.view.Pending
}

func (m Model) View() string {
	if m.quitting {
		return "The story ends here.\n"
	}

	width := m.width
	if width > 4 {
		width -= 2
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Story Journey"))
	b.WriteString("\n\n")

	for _, turn := range m.view.Conversation {
		b.WriteString(RenderTurn(turn, width))
		b.WriteString("\n\n")
	}

	switch {
	case m.pending():
		b.WriteString(m.spin.View() + " " + HintStyle.Render("The narrator is thinking..."))
		b.WriteString("\n")
	case m.view.HasOptions():
		b.WriteString(RenderOptions(m.view.Options))
		b.WriteString("\n\n")
		b.WriteString(HintStyle.Render("Press a number to choose, esc to quit."))
		b.WriteString("\n")
	default:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(HintStyle.Render("Enter to send, esc to quit."))
		b.WriteString("\n")
	}

	if line := RenderError(m.err); line != "" {
		b.WriteString("\n" + line + "\n")
	}
	return b.String()
}
