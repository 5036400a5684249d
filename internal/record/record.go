// Package record holds the ordered key→value container that flows through
// the renderers. Property order is insertion order, which the decoders set
// to source order.
package record

import "encoding/json"

// Field is a single named property.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered mapping from property name to value, plus the type
// name the source attached to it (empty when untyped).
type Record struct {
	TypeName string

	fields []Field
	index  map[string]int
}

// New returns an empty record.
func New() *Record {
	return &Record{index: make(map[string]int)}
}

// Set adds a property or overwrites an existing one in place.
// First insertion wins ordering.
func (r *Record) Set(name string, v any) {
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Get reads a property. The second result is false when the property is
// absent, which callers render as an empty cell.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// Has reports whether the named property exists.
func (r *Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Names returns the property names in insertion order.
func (r *Record) Names() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Name
	}
	return out
}

// Fields returns the ordered properties. Callers must not mutate the slice.
func (r *Record) Fields() []Field { return r.fields }

// Len returns the number of properties.
func (r *Record) Len() int { return len(r.fields) }

// AsMap flattens the record for expression evaluators. json.Number values
// are normalized to int/float64 so jq programs see plain numbers.
func (r *Record) AsMap() map[string]any {
	m := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		m[f.Name] = normalize(f.Value)
	}
	return m
}

func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	default:
		return v
	}
}
