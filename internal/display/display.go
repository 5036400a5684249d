// Package display renders projected rows in the standard output view. It
// is a collaborator of the markdown session, not part of the Markdown text
// path: values shown here are raw, never Markdown-escaped.
package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/microsoft/mdtable/internal/markdown"
)

// Mode selects how the standard view is rendered.
type Mode int

const (
	ModePlain Mode = iota
	ModeStyled
	ModePretty
	ModeTUI
)

// ParseMode parses a string like "plain", "styled", "pretty", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "styled":
		return ModeStyled, true
	case "pretty":
		return ModePretty, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

// Renderer implements markdown.Display for all non-interactive modes and
// hands off to the Bubble Tea table for ModeTUI.
type Renderer struct {
	mode Mode
	out  io.Writer
	clip markdown.Copier
}

// New builds a renderer writing to out. clip is only used by the TUI mode
// for its copy-cell action and may be nil.
func New(mode Mode, out io.Writer, clip markdown.Copier) *Renderer {
	return &Renderer{mode: mode, out: out, clip: clip}
}

// Show implements markdown.Display.
func (r *Renderer) Show(style markdown.Style, res *markdown.RenderResult) error {
	if len(res.Rows) == 0 {
		return nil
	}
	switch r.mode {
	case ModeStyled:
		return r.showStyled(style, res)
	case ModePretty:
		return r.showPretty(res)
	case ModeTUI:
		if style == markdown.StyleTable {
			return runTableTUI(res.Columns, res.Rows, r.clip)
		}
		// List style has no shared column grid; fall back to plain.
		return r.showPlain(style, res)
	default:
		return r.showPlain(style, res)
	}
}

func (r *Renderer) showPlain(style markdown.Style, res *markdown.RenderResult) error {
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	if style == markdown.StyleList {
		for _, row := range res.Rows {
			for _, f := range row.Fields() {
				fmt.Fprintf(tw, "%s\t%s\n", f.Name, markdown.Text(f.Value))
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	}

	for i, name := range res.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, name)
	}
	fmt.Fprintln(tw)
	for _, row := range res.Rows {
		for i, name := range res.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			v, _ := row.Get(name)
			fmt.Fprint(tw, markdown.Text(v))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func (r *Renderer) showStyled(style markdown.Style, res *markdown.RenderResult) error {
	header := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Faint(true)

	if style == markdown.StyleList {
		for _, row := range res.Rows {
			maxLen := 0
			for _, f := range row.Fields() {
				if len(f.Name) > maxLen {
					maxLen = len(f.Name)
				}
			}
			for _, f := range row.Fields() {
				label := muted.Render(fmt.Sprintf("%-*s: ", maxLen, f.Name))
				fmt.Fprintln(r.out, label+markdown.Text(f.Value))
			}
			fmt.Fprintln(r.out)
		}
		return nil
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle()
		})
	t.Headers(res.Columns...)
	for _, row := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, name := range res.Columns {
			v, _ := row.Get(name)
			cells[i] = markdown.Text(v)
		}
		t.Row(cells...)
	}
	_, err := fmt.Fprintln(r.out, t.String())
	return err
}

func (r *Renderer) showPretty(res *markdown.RenderResult) error {
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := tr.Render(res.Full)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(r.out, out)
	return err
}
