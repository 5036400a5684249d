package markdown

import (
	"strings"

	"github.com/microsoft/mdtable/internal/record"
)

// Style selects the table layout.
type Style int

const (
	// StyleList emits one Property/Value sub-table per record.
	StyleList Style = iota
	// StyleTable emits one shared table with properties as columns.
	StyleTable
)

// String returns the style name.
func (s Style) String() string {
	if s == StyleTable {
		return "table"
	}
	return "list"
}

const (
	// deserializedPrefix marks type names of records that crossed a
	// serialization boundary; it is stripped before format lookup.
	deserializedPrefix = "Deserialized."
	// selectionPrefix marks projection artifacts, which never carry
	// registered display formatting of their own.
	selectionPrefix = "Selected."
)

// ValueSource obtains a column's value from a record when display metadata
// supplies a computed column instead of a raw property.
type ValueSource interface {
	Value(rec *record.Record) (any, bool)
}

// Property reads the named property directly.
type Property string

// Value implements ValueSource.
func (p Property) Value(rec *record.Record) (any, bool) {
	return rec.Get(string(p))
}

// ExpressionFunc adapts a host-supplied computation into a ValueSource.
// The core only invokes it and captures the single resulting value.
type ExpressionFunc func(rec *record.Record) (any, bool)

// Value implements ValueSource.
func (f ExpressionFunc) Value(rec *record.Record) (any, bool) { return f(rec) }

// Column is one resolved display column. A nil Source means a direct
// property read by Name.
type Column struct {
	Name   string
	Source ValueSource
}

// TypeFormatLookup resolves a type name to its registered ordered display
// columns. A miss falls back to "all own properties".
type TypeFormatLookup interface {
	Columns(typeName string) ([]Column, bool)
}

// Resolver determines the ordered display columns for one record.
type Resolver struct {
	Lookup TypeFormatLookup
}

// Resolve returns the column spec for rec. explicit is the caller's
// property list and wins verbatim (de-duplicated, order preserved) when it
// names real columns. A blank sentinel (nil, empty, or a single empty or
// "*" entry) falls back to registered display formatting for table style,
// then to all own properties.
//
// A single empty entry is canonicalized to "*" in the caller's slice on
// first use, so later records in the same table stream see the already
// resolved sentinel.
func (r *Resolver) Resolve(rec *record.Record, explicit []string, style Style) []Column {
	if len(explicit) == 1 && explicit[0] == "" {
		explicit[0] = "*"
	}
	if !isWildcard(explicit) {
		return dedupe(explicit)
	}

	if style == StyleTable && r.Lookup != nil {
		if cols, ok := r.lookupType(rec.TypeName); ok {
			return cols
		}
	}
	return allProperties(rec)
}

func (r *Resolver) lookupType(typeName string) ([]Column, bool) {
	name := strings.TrimPrefix(typeName, deserializedPrefix)
	if name == "" || strings.HasPrefix(name, selectionPrefix) {
		return nil, false
	}
	cols, ok := r.Lookup.Columns(name)
	if !ok || len(cols) == 0 {
		return nil, false
	}
	return cols, true
}

func isWildcard(explicit []string) bool {
	if len(explicit) == 0 {
		return true
	}
	return len(explicit) == 1 && explicit[0] == "*"
}

func dedupe(names []string) []Column {
	seen := make(map[string]struct{}, len(names))
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		cols = append(cols, Column{Name: n})
	}
	return cols
}

func allProperties(rec *record.Record) []Column {
	cols := make([]Column, 0, rec.Len())
	for _, name := range rec.Names() {
		cols = append(cols, Column{Name: name})
	}
	return cols
}
