// Package markdown converts streams of records into Markdown table text in
// two layouts: one Property/Value sub-table per record (list style) or one
// shared table with properties as columns (table style).
package markdown

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// crlf terminates every emitted Markdown line.
const crlf = "\r\n"

// Escape renders a value as Markdown-safe cell text. Absent values become
// empty cells, sequences render as "{a, b}", and every literal "*" is
// escaped so cell text cannot toggle emphasis. Pipe characters are left
// alone on purpose; see the regression test locking that in.
func Escape(v any) string {
	return strings.ReplaceAll(stringify(v), "*", `\*`)
}

// Text renders a value the way the display view shows it: same
// stringification as Escape but without the Markdown escaping. Escaping is
// applied exactly once, at the point a value enters Markdown text — never
// to the display copy.
func Text(v any) string { return stringify(v) }

func stringify(v any) string {
	if v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		// JSON numbers decode as float64; whole values print as integers.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%v", x)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = stringify(rv.Index(i).Interface())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%v", v)
}
