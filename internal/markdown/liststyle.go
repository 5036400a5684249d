package markdown

import (
	"strings"

	"github.com/microsoft/mdtable/internal/record"
)

// listRenderer builds one two-column Property/Value sub-table per record.
// Sub-tables are independent, so records with differing properties are all
// represented faithfully. List style never consults type display metadata.
type listRenderer struct {
	resolver *Resolver
	explicit []string

	body strings.Builder
	rows []*record.Record
}

func newListRenderer(resolver *Resolver, explicit []string) *listRenderer {
	return &listRenderer{resolver: resolver, explicit: explicit}
}

func (l *listRenderer) process(rec *record.Record) {
	cols := l.resolver.Resolve(rec, l.explicit, StyleList)
	row := Project(rec, cols)
	l.rows = append(l.rows, row)

	l.body.WriteString("|Property|Value|" + crlf)
	l.body.WriteString("|:--|:--|" + crlf)
	for _, f := range row.Fields() {
		l.body.WriteString("|" + Escape(f.Name) + "|" + Escape(f.Value) + "|" + crlf)
	}
	l.body.WriteString(crlf)
}

func (l *listRenderer) end() *RenderResult {
	return &RenderResult{
		Body: l.body.String(),
		Rows: l.rows,
	}
}
