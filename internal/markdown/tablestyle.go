package markdown

import (
	"strings"

	"github.com/microsoft/mdtable/internal/record"
)

// tableRenderer accumulates one shared table. Columns are the union of all
// resolved specs in first-seen order; once a column is seen it is never
// dropped. Final assembly happens at end, when the union is known.
type tableRenderer struct {
	resolver *Resolver
	explicit []string

	columns []string
	seen    map[string]struct{}
	stored  []*record.Record
}

func newTableRenderer(resolver *Resolver, explicit []string) *tableRenderer {
	return &tableRenderer{
		resolver: resolver,
		explicit: explicit,
		seen:     make(map[string]struct{}),
	}
}

func (t *tableRenderer) process(rec *record.Record) {
	cols := t.resolver.Resolve(rec, t.explicit, StyleTable)
	for _, c := range cols {
		if _, ok := t.seen[c.Name]; ok {
			continue
		}
		t.seen[c.Name] = struct{}{}
		t.columns = append(t.columns, c.Name)
	}
	t.stored = append(t.stored, Project(rec, cols))
}

func (t *tableRenderer) end() *RenderResult {
	if len(t.stored) == 0 {
		return &RenderResult{}
	}

	var b strings.Builder

	cells := make([]string, len(t.columns))
	for i, name := range t.columns {
		cells[i] = Escape(name)
	}
	b.WriteString("|" + strings.Join(cells, "|") + "|" + crlf)
	for i := range cells {
		cells[i] = ":--"
	}
	b.WriteString("|" + strings.Join(cells, "|") + "|" + crlf)

	// Re-project every stored row against the shared union so the display
	// copy is rectangular and missing columns render as empty cells.
	rows := make([]*record.Record, len(t.stored))
	for ri, stored := range t.stored {
		row := record.New()
		for i, name := range t.columns {
			v, ok := stored.Get(name)
			if !ok {
				v = nil
			}
			row.Set(name, v)
			cells[i] = Escape(v)
		}
		rows[ri] = row
		b.WriteString("|" + strings.Join(cells, "|") + "|" + crlf)
	}

	return &RenderResult{
		Body:    b.String(),
		Columns: t.columns,
		Rows:    rows,
	}
}
