package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// inputModel is a single text field. Enter is ignored while the value fails
// validation.
type inputModel struct {
	cfg    Config
	input  textinput.Model
	errMsg string
	keys   keyMap
	help   help.Model

	outcome Outcome
	done    bool
}

func newInputModel(cfg Config) inputModel {
	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	ti.CharLimit = 256
	ti.SetValue(cfg.Default)
	ti.Focus()

	m := inputModel{
		cfg:     cfg,
		input:   ti,
		keys:    newKeyMap(cfg.AllowBack, false),
		help:    help.New(),
		outcome: Cancelled,
	}
	m.validate()
	return m
}

func (m *inputModel) validate() {
	m.errMsg = ""
	if m.cfg.Validate != nil {
		m.errMsg = m.cfg.Validate(m.input.Value())
	}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.outcome, m.done = Cancelled, true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.outcome, m.done = Back, true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Accept):
			if m.errMsg != "" {
				return m, nil
			}
			m.outcome, m.done = Accepted, true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.validate()
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	if m.cfg.Title != "" {
		b.WriteString(titleStyle.Render(m.cfg.Title) + "\n")
	}
	if m.cfg.Prompt != "" {
		b.WriteString(faintStyle.Render(m.cfg.Prompt) + "\n")
	}
	b.WriteString(m.input.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
