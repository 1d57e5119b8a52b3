package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultListHeight = 12

// chooseModel is a filterable single-select list. The cursor only ever rests
// on selectable items.
type chooseModel struct {
	cfg     Config
	items   []Item
	filter  textinput.Model
	visible []int // indices into items
	cursor  int   // index into visible, -1 when nothing is selectable
	height  int
	keys    keyMap
	help    help.Model

	chosen  int
	outcome Outcome
	done    bool
}

func newChooseModel(items []Item, cfg Config) chooseModel {
	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	ti.Prompt = "> "
	ti.CharLimit = 128
	ti.Focus()

	m := chooseModel{
		cfg:     cfg,
		items:   items,
		filter:  ti,
		height:  defaultListHeight,
		keys:    newKeyMap(cfg.AllowBack, true),
		help:    help.New(),
		chosen:  -1,
		outcome: Cancelled,
	}
	m.refilter()
	if cfg.Default != "" {
		for vi, i := range m.visible {
			it := items[i]
			if !it.Separator && (it.Value == cfg.Default || it.Label == cfg.Default) {
				m.cursor = vi
				break
			}
		}
	}
	return m
}

// refilter recomputes the visible items for the current query. A separator
// is shown only when at least one item under it is visible.
func (m *chooseModel) refilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	var visible []int
	pending := -1
	for i, it := range m.items {
		if it.Separator {
			pending = i
			continue
		}
		if query != "" && !it.matches(query) {
			continue
		}
		if pending >= 0 {
			visible = append(visible, pending)
			pending = -1
		}
		visible = append(visible, i)
	}
	m.visible = visible
	m.cursor = m.next(-1, 1)
}

// next returns the first selectable visible index after from in direction
// dir, or from when there is none.
func (m chooseModel) next(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.visible); i += dir {
		if !m.items[m.visible[i]].Separator {
			return i
		}
	}
	return from
}

func (m chooseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chooseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(3, msg.Height-6)
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.outcome, m.done = Cancelled, true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.outcome, m.done = Back, true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.cursor = m.next(m.cursor, -1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.cursor = m.next(m.cursor, 1)
			return m, nil
		case key.Matches(msg, m.keys.Accept):
			if m.cursor < 0 {
				return m, nil
			}
			m.chosen = m.visible[m.cursor]
			m.outcome, m.done = Accepted, true
			return m, tea.Quit
		}
	}

	prev := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != prev {
		m.refilter()
	}
	return m, cmd
}

func (m chooseModel) View() string {
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
	b.WriteString(m.filter.View() + "\n")

	start, end := window(len(m.visible), m.cursor, m.height)
	for vi := start; vi < end; vi++ {
		it := m.items[m.visible[vi]]
		if it.Separator {
			b.WriteString(separatorStyle.Render("── "+it.Label+" ──") + "\n")
			continue
		}
		line := "  "
		if vi == m.cursor {
			line = cursorStyle.Render("> ")
		}
		if it.Picked {
			line += checkStyle.Render("✓ ")
		}
		line += it.Label
		if it.Description != "" {
			line += " " + faintStyle.Render(it.Description)
		}
		b.WriteString(line + "\n")
		if vi == m.cursor && it.Detail != "" {
			b.WriteString("    " + faintStyle.Render(it.Detail) + "\n")
		}
	}
	if len(m.visible) == 0 {
		b.WriteString(faintStyle.Render("  no matches") + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// window returns the [start, end) slice of n rows to render so that cursor
// stays on screen.
func window(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := max(0, cursor-height/2)
	end := start + height
	if end > n {
		end = n
		start = n - height
	}
	return start, end
}
