package prompt

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type busyDoneMsg struct{ err error }

// busyModel shows a spinner until its work command reports back.
type busyModel struct {
	msg     string
	spinner spinner.Model
	work    tea.Cmd
	keys    keyMap

	err       error
	done      bool
	cancelled bool
}

func newBusyModel(msg string, work tea.Cmd) busyModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = cursorStyle
	return busyModel{
		msg:     msg,
		spinner: s,
		work:    work,
		keys:    newKeyMap(false, false),
	}
}

func (m busyModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m busyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case busyDoneMsg:
		m.err, m.done = msg.err, true
		return m, tea.Quit
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Cancel) {
			m.cancelled = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m busyModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return m.spinner.View() + " " + m.msg + "\n"
}
