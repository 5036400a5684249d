package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/microsoft/mdtable/internal/markdown"
	"github.com/microsoft/mdtable/internal/record"
)

const maxColumnWidth = 40

// runTableTUI opens an interactive Bubble Tea table over the display rows.
func runTableTUI(columns []string, rows []*record.Record, clip markdown.Copier) error {
	m := model{clip: clip}
	m.initTable(columns, rows)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type model struct {
	table  table.Model
	clip   markdown.Copier
	count  int
	status string
}

func (m *model) initTable(columns []string, rows []*record.Record) {
	cols := make([]table.Column, len(columns))
	for i, name := range columns {
		w := runewidth.StringWidth(name)
		for _, row := range rows {
			v, _ := row.Get(name)
			if cw := runewidth.StringWidth(markdown.Text(v)); cw > w {
				w = cw
			}
		}
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		cols[i] = table.Column{Title: name, Width: w}
	}

	trows := make([]table.Row, len(rows))
	for ri, row := range rows {
		cells := make([]string, len(columns))
		for i, name := range columns {
			v, _ := row.Get(name)
			cells[i] = markdown.Text(v)
		}
		trows[ri] = cells
	}

	m.table = table.New(table.WithColumns(cols), table.WithFocused(true))
	m.table.SetRows(trows)
	m.count = len(rows)
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		h := msg.Height - 2
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "c", "enter":
			row := m.table.SelectedRow()
			if row == nil || m.clip == nil {
				return m, nil
			}
			if err := m.clip.Copy(strings.Join(row, "\t")); err != nil {
				m.status = fmt.Sprintf("copy failed: %v", err)
			} else {
				m.status = "row copied"
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	left := "↑/↓ to navigate • c=copy row • q=exit"
	right := ""
	if m.status != "" {
		right = m.status + " • "
	}
	right += fmt.Sprintf("%d rows ", m.count)

	width := m.table.Width()
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	footer := left + strings.Repeat(" ", space) + right
	return m.table.View() + "\n" + footer + "\n"
}
