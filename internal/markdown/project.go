package markdown

import "github.com/microsoft/mdtable/internal/record"

// Project maps one record onto its resolved columns. Columns with a
// ValueSource are evaluated; the rest read the record property of the same
// name. Absent properties project as nil, which escapes to an empty cell.
// The source record is never mutated.
func Project(rec *record.Record, cols []Column) *record.Record {
	row := record.New()
	for _, col := range cols {
		var (
			v  any
			ok bool
		)
		if col.Source != nil {
			v, ok = col.Source.Value(rec)
		} else {
			v, ok = rec.Get(col.Name)
		}
		if !ok {
			v = nil
		}
		row.Set(col.Name, v)
	}
	return row
}
