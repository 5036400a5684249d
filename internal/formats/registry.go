// Package formats loads the type display metadata registry: an ordered
// list of display columns per type name, where each column is either a
// direct property read or a jq expression evaluated against the record.
package formats

import (
	"fmt"
	"io"
	"os"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"

	"github.com/microsoft/mdtable/internal/markdown"
	"github.com/microsoft/mdtable/internal/record"
)

// columnDef is one column entry in the registry file. Exactly one of
// Property and Expr should be set; Label defaults to the property name.
type columnDef struct {
	Label    string `yaml:"label"`
	Property string `yaml:"property,omitempty"`
	Expr     string `yaml:"expr,omitempty"`
}

type typeFormat struct {
	Columns []columnDef `yaml:"columns"`
}

type registryFile struct {
	Formats map[string]typeFormat `yaml:"formats"`
}

// Registry implements markdown.TypeFormatLookup over a parsed formats file.
// The zero value is an always-miss registry.
type Registry struct {
	formats map[string][]markdown.Column
}

// Load reads a registry file from disk. A missing file yields an empty
// registry, not an error: unregistered types simply fall back to "all
// properties".
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{}, nil
		}
		return nil, err
	}
	defer f.Close()
	reg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return reg, nil
}

// Parse reads a YAML registry document and compiles its expressions.
func Parse(r io.Reader) (*Registry, error) {
	var file registryFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return &Registry{}, nil
		}
		return nil, err
	}
	reg := &Registry{formats: make(map[string][]markdown.Column, len(file.Formats))}
	for typeName, tf := range file.Formats {
		cols := make([]markdown.Column, 0, len(tf.Columns))
		for i, def := range tf.Columns {
			col, err := buildColumn(def)
			if err != nil {
				return nil, fmt.Errorf("format %q column %d: %w", typeName, i, err)
			}
			cols = append(cols, col)
		}
		reg.formats[typeName] = cols
	}
	return reg, nil
}

func buildColumn(def columnDef) (markdown.Column, error) {
	label := def.Label
	if label == "" {
		label = def.Property
	}
	if label == "" {
		return markdown.Column{}, fmt.Errorf("column needs a label or property")
	}
	switch {
	case def.Expr != "":
		src, err := compileExpr(def.Expr)
		if err != nil {
			return markdown.Column{}, err
		}
		return markdown.Column{Name: label, Source: src}, nil
	case def.Property != "":
		return markdown.Column{Name: label, Source: markdown.Property(def.Property)}, nil
	default:
		// Label only: read the property of the same name.
		return markdown.Column{Name: label, Source: markdown.Property(label)}, nil
	}
}

// compileExpr compiles a jq program into a ValueSource. Evaluation errors
// and empty results degrade to an absent value; a registered expression
// must never fail the render.
func compileExpr(expr string) (markdown.ValueSource, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, err)
	}
	return markdown.ExpressionFunc(func(rec *record.Record) (any, bool) {
		iter := code.Run(rec.AsMap())
		v, ok := iter.Next()
		if !ok {
			return nil, false
		}
		if _, isErr := v.(error); isErr {
			return nil, false
		}
		return v, true
	}), nil
}

// Columns implements markdown.TypeFormatLookup.
func (g *Registry) Columns(typeName string) ([]markdown.Column, bool) {
	if g == nil || g.formats == nil {
		return nil, false
	}
	cols, ok := g.formats[typeName]
	return cols, ok
}
