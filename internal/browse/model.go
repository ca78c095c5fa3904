// Package browse is an interactive task browser for a single workstream.
package browse

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/boshu2/workstreams/cli/internal/style"
	"github.com/boshu2/workstreams/cli/internal/workstream"
)

// chrome is the number of lines used by the header and footer.
const chrome = 4

type row struct {
	depth int
	text  string
	task  *workstream.Task // nil for section headings
}

// Model is the bubbletea model for the browser.
type Model struct {
	ws     *workstream.Workstream
	rows   []row
	cursor int
	offset int
	height int

	keys   KeyMap
	help   help.Model
	styles *style.Styles

	changed []string
}

// New returns a browser over ws. The cursor starts on the first task.
func New(ws *workstream.Workstream, styles *style.Styles) Model {
	if styles == nil {
		styles = style.Plain()
	}
	m := Model{
		ws:     ws,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: styles,
		height: 20,
	}
	m.rebuild()
	m.seek(0, 1)
	return m
}

// Changed lists the task IDs whose status was edited, in edit order.
func (m Model) Changed() []string {
	return m.changed
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - chrome
		if m.height < 1 {
			m.height = 1
		}
		m.help.Width = msg.Width
		m.scroll()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.seek(m.cursor-1, -1)
		case key.Matches(msg, m.keys.Down):
			m.seek(m.cursor+1, 1)
		case key.Matches(msg, m.keys.Top):
			m.seek(0, 1)
		case key.Matches(msg, m.keys.Bottom):
			m.seek(len(m.rows)-1, -1)
		case key.Matches(msg, m.keys.Toggle):
			m.setStatus(func(cur workstream.Status) workstream.Status {
				if cur == workstream.StatusComplete {
					return workstream.StatusNotStarted
				}
				return workstream.StatusComplete
			})
		case key.Matches(msg, m.keys.Start):
			m.setStatus(func(workstream.Status) workstream.Status { return workstream.StatusInProgress })
		case key.Matches(msg, m.keys.Reset):
			m.setStatus(func(workstream.Status) workstream.Status { return workstream.StatusNotStarted })
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	p := m.ws.Progress()
	fmt.Fprintf(&b, "%s  %s  %s\n\n",
		m.styles.Title.Render(m.ws.Title),
		m.styles.Status(m.ws.Status),
		m.styles.Progress(p.Percent(), 20))

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Heading.Render("> ")
		}
		text := r.text
		if r.task == nil {
			text = m.styles.Heading.Render(text)
		}
		b.WriteString(cursor + strings.Repeat("  ", r.depth) + text + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

// seek moves the cursor to the first task row at or after from, stepping by
// delta. The cursor stays put when there is none.
func (m *Model) seek(from, delta int) {
	for i := from; i >= 0 && i < len(m.rows); i += delta {
		if m.rows[i].task != nil {
			m.cursor = i
			break
		}
	}
	m.scroll()
}

func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *Model) setStatus(next func(workstream.Status) workstream.Status) {
	if m.cursor >= len(m.rows) || m.rows[m.cursor].task == nil {
		return
	}
	t := m.rows[m.cursor].task
	status := next(t.Status)
	if status == t.Status {
		return
	}
	t.SetStatus(status)
	m.ws.Derive()
	m.changed = append(m.changed, t.ID)
	m.rebuild()
}

func (m *Model) rebuild() {
	m.rows = m.rows[:0]
	for _, s := range m.ws.Stages {
		m.rows = append(m.rows, row{text: fmt.Sprintf("Stage %02d: %s  %s", s.Index, s.Title, m.styles.Status(s.Status))})
		for _, b := range s.Batches {
			m.rows = append(m.rows, row{depth: 1, text: fmt.Sprintf("Batch %02d: %s", b.Index, b.Title)})
			for _, th := range b.Threads {
				m.rows = append(m.rows, row{depth: 2, text: fmt.Sprintf("Thread %02d: %s  %s", th.Index, th.Title, m.styles.Status(th.Status))})
				for _, t := range th.Tasks {
					m.rows = append(m.rows, row{depth: 3, text: taskText(t), task: t})
				}
			}
		}
	}
}

func taskText(t *workstream.Task) string {
	marker := " "
	switch t.Status {
	case workstream.StatusComplete:
		marker = "x"
	case workstream.StatusInProgress:
		marker = "~"
	}
	if t.ID == "" {
		return fmt.Sprintf("[%s] %s", marker, t.Description)
	}
	return fmt.Sprintf("[%s] %s %s", marker, t.ID, t.Description)
}

// Run starts the browser on the given terminal streams and returns the IDs
// of edited tasks. ws is modified in place.
func Run(ws *workstream.Workstream, styles *style.Styles, in io.Reader, out io.Writer) ([]string, error) {
	p := tea.NewProgram(New(ws, styles), tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}
	return final.(Model).Changed(), nil
}
