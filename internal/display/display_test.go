package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/mdtable/internal/markdown"
	"github.com/microsoft/mdtable/internal/record"
)

func row(t *testing.T, pairs ...any) *record.Record {
	t.Helper()
	rec := record.New()
	for i := 0; i < len(pairs); i += 2 {
		rec.Set(pairs[i].(string), pairs[i+1])
	}
	return rec
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{
		"plain":  ModePlain,
		"styled": ModeStyled,
		"pretty": ModePretty,
		"tui":    ModeTUI,
	} {
		m, ok := ParseMode(s)
		require.True(t, ok, s)
		require.Equal(t, want, m)
	}
	_, ok := ParseMode("fancy")
	require.False(t, ok)
}

func TestShowPlainTable(t *testing.T) {
	var buf bytes.Buffer
	r := New(ModePlain, &buf, nil)

	res := &markdown.RenderResult{
		Columns: []string{"Name", "Size"},
		Rows: []*record.Record{
			row(t, "Name", "a.txt", "Size", 10),
			row(t, "Name", "b", "Size", nil),
		},
	}
	require.NoError(t, r.Show(markdown.StyleTable, res))

	out := buf.String()
	require.Contains(t, out, "Name")
	require.Contains(t, out, "a.txt")
	// Raw values: no Markdown escaping, empty cell for nil.
	lines := bytes.Split(buf.Bytes(), []byte("\n"))
	require.GreaterOrEqual(t, len(lines), 3)
}

func TestShowPlainList(t *testing.T) {
	var buf bytes.Buffer
	r := New(ModePlain, &buf, nil)

	res := &markdown.RenderResult{
		Rows: []*record.Record{row(t, "Note", "has *stars*")},
	}
	require.NoError(t, r.Show(markdown.StyleList, res))

	// Display view shows raw text, never the escaped form.
	require.Contains(t, buf.String(), "has *stars*")
	require.NotContains(t, buf.String(), `\*`)
}

func TestShowEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	r := New(ModeStyled, &buf, nil)
	require.NoError(t, r.Show(markdown.StyleTable, &markdown.RenderResult{}))
	require.Empty(t, buf.String())
}

func TestShowStyledTable(t *testing.T) {
	var buf bytes.Buffer
	r := New(ModeStyled, &buf, nil)

	res := &markdown.RenderResult{
		Columns: []string{"a"},
		Rows:    []*record.Record{row(t, "a", 1)},
	}
	require.NoError(t, r.Show(markdown.StyleTable, res))
	require.Contains(t, buf.String(), "a")
	require.Contains(t, buf.String(), "1")
}
