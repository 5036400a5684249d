package record

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the input codec.
type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

// ParseFormat parses a format string like "auto", "json", "yaml".
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "", "auto":
		return FormatAuto, true
	case "json", "ndjson":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	default:
		return FormatAuto, false
	}
}

// Options configures a Decoder.
type Options struct {
	Format Format
	// TypeProperty names the property carrying the record's type name.
	// It is stripped from the record; the type name is metadata, not data.
	TypeProperty string
}

// Decoder yields records one at a time from a JSON stream (NDJSON or a
// single top-level array, whose elements are streamed), or from a YAML
// document stream. Top-level key order is preserved.
type Decoder struct {
	opts    Options
	br      *bufio.Reader
	jd      *json.Decoder
	yd      *yaml.Decoder
	started bool
	inArray bool
	// objPending is set when format detection already consumed the opening
	// brace of the first streamed object.
	objPending bool
	pending    []*yaml.Node
	err        error
}

// NewDecoder wraps r. Format detection happens on the first Next call.
func NewDecoder(r io.Reader, opts Options) *Decoder {
	return &Decoder{opts: opts, br: bufio.NewReader(r)}
}

// Next returns the next record, or io.EOF when the stream ends.
func (d *Decoder) Next() (*Record, error) {
	if d.err != nil {
		return nil, d.err
	}
	rec, err := d.next()
	if err != nil {
		d.err = err
		return nil, err
	}
	d.stripType(rec)
	return rec, nil
}

func (d *Decoder) next() (*Record, error) {
	if !d.started {
		if err := d.start(); err != nil {
			return nil, err
		}
	}
	if d.yd != nil {
		return d.nextYAML()
	}
	return d.nextJSON()
}

func (d *Decoder) start() error {
	d.started = true
	f := d.opts.Format
	if f == FormatAuto {
		f = detectFormat(d.br)
	}
	if f == FormatYAML {
		d.yd = yaml.NewDecoder(d.br)
		return nil
	}
	d.jd = json.NewDecoder(d.br)
	d.jd.UseNumber()
	tok, err := d.jd.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return err
	}
	switch delim, ok := tok.(json.Delim); {
	case ok && delim == '[':
		d.inArray = true
		return nil
	case ok && delim == '{':
		d.objPending = true
		return nil
	default:
		return fmt.Errorf("expected a JSON object or array, got %v", tok)
	}
}

func (d *Decoder) nextJSON() (*Record, error) {
	if d.inArray {
		if !d.jd.More() {
			// Consume the closing bracket; trailing input is ignored.
			if _, err := d.jd.Token(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return nil, io.EOF
		}
		tok, err := d.jd.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return nil, fmt.Errorf("array element is not an object: %v", tok)
		}
		return readObjectBody(d.jd)
	}

	if d.objPending {
		d.objPending = false
		return readObjectBody(d.jd)
	}
	tok, err := d.jd.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}
	return readObjectBody(d.jd)
}

// readObjectBody reads key/value pairs up to the matching close brace.
// The opening brace must already be consumed.
func readObjectBody(jd *json.Decoder) (*Record, error) {
	rec := New()
	for {
		tok, err := jd.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return rec, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		val, err := readValue(jd)
		if err != nil {
			return nil, err
		}
		rec.Set(key, val)
	}
}

func readValue(jd *json.Decoder) (any, error) {
	tok, err := jd.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		// Nested objects are opaque values; order is not significant there.
		m := make(map[string]any)
		for {
			t, err := jd.Token()
			if err != nil {
				return nil, err
			}
			if d, ok := t.(json.Delim); ok && d == '}' {
				return m, nil
			}
			key, ok := t.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", t)
			}
			v, err := readValue(jd)
			if err != nil {
				return nil, err
			}
			m[key] = v
		}
	case '[':
		var s []any
		for jd.More() {
			v, err := readValue(jd)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		if _, err := jd.Token(); err != nil {
			return nil, err
		}
		if s == nil {
			s = []any{}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

func (d *Decoder) nextYAML() (*Record, error) {
	for len(d.pending) == 0 {
		var doc yaml.Node
		if err := d.yd.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		node := &doc
		if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
			node = node.Content[0]
		}
		switch node.Kind {
		case yaml.MappingNode:
			d.pending = append(d.pending, node)
		case yaml.SequenceNode:
			d.pending = append(d.pending, node.Content...)
		default:
			return nil, fmt.Errorf("expected a YAML mapping or sequence document")
		}
	}
	node := d.pending[0]
	d.pending = d.pending[1:]
	return recordFromYAML(node)
}

func recordFromYAML(node *yaml.Node) (*Record, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a YAML mapping, got kind %d", node.Kind)
	}
	rec := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var val any
		if err := node.Content[i+1].Decode(&val); err != nil {
			return nil, err
		}
		rec.Set(key, val)
	}
	return rec, nil
}

func (d *Decoder) stripType(rec *Record) {
	tp := d.opts.TypeProperty
	if rec == nil || tp == "" {
		return
	}
	v, ok := rec.Get(tp)
	if !ok {
		return
	}
	if s, ok := v.(string); ok {
		rec.TypeName = s
	}
	rec.delete(tp)
}

func (r *Record) delete(name string) {
	i, ok := r.index[name]
	if !ok {
		return
	}
	r.fields = append(r.fields[:i], r.fields[i+1:]...)
	delete(r.index, name)
	for j := i; j < len(r.fields); j++ {
		r.index[r.fields[j].Name] = j
	}
}

func detectFormat(br *bufio.Reader) Format {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return FormatJSON
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.ReadByte()
			continue
		case '{', '[':
			return FormatJSON
		default:
			return FormatYAML
		}
	}
}

// ParseLiteral decodes an inline JSON literal the way the single-object
// input slot receives it: an object yields one *Record, an array yields a
// []*Record slice so callers can reject bulk input.
func ParseLiteral(s string, opts Options) (any, error) {
	d := NewDecoder(strings.NewReader(s), opts)
	first, err := d.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if !d.inArray {
		return first, nil
	}
	out := []*Record{first}
	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}
