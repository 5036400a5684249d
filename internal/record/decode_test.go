package record

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, d *Decoder) []*Record {
	t.Helper()
	var out []*Record
	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestDecodeNDJSON(t *testing.T) {
	in := "{\"b\":1,\"a\":2}\n{\"c\":3}\n"
	recs := drain(t, NewDecoder(strings.NewReader(in), Options{}))

	require.Len(t, recs, 2)
	require.Equal(t, []string{"b", "a"}, recs[0].Names())
	require.Equal(t, []string{"c"}, recs[1].Names())

	v, _ := recs[0].Get("b")
	require.Equal(t, json.Number("1"), v)
}

func TestDecodeJSONArrayStreamsElements(t *testing.T) {
	in := `[{"x":1},{"y":2},{"z":3}]`
	recs := drain(t, NewDecoder(strings.NewReader(in), Options{}))

	require.Len(t, recs, 3)
	require.Equal(t, []string{"y"}, recs[1].Names())
}

// Source key order survives decoding even when it differs from both
// lexical and Go map iteration order.
func TestDecodePreservesKeyOrder(t *testing.T) {
	in := `{"zeta":1,"alpha":2,"mid":3,"Beta":4}`
	recs := drain(t, NewDecoder(strings.NewReader(in), Options{}))

	require.Len(t, recs, 1)
	require.Equal(t, []string{"zeta", "alpha", "mid", "Beta"}, recs[0].Names())
}

func TestDecodeNestedValues(t *testing.T) {
	in := `{"name":"a","tags":["x","y"],"meta":{"k":1},"empty":[]}`
	recs := drain(t, NewDecoder(strings.NewReader(in), Options{}))
	require.Len(t, recs, 1)

	v, _ := recs[0].Get("tags")
	require.Equal(t, []any{"x", "y"}, v)
	v, _ = recs[0].Get("meta")
	require.Equal(t, json.Number("1"), v.(map[string]any)["k"])
	v, _ = recs[0].Get("empty")
	require.Equal(t, []any{}, v)
}

func TestDecodeTypeProperty(t *testing.T) {
	in := `{"_type":"File","Name":"a"}` + "\n" + `{"Name":"b"}`
	recs := drain(t, NewDecoder(strings.NewReader(in), Options{TypeProperty: "_type"}))

	require.Len(t, recs, 2)
	require.Equal(t, "File", recs[0].TypeName)
	require.Equal(t, []string{"Name"}, recs[0].Names())
	require.Empty(t, recs[1].TypeName)
}

func TestDecodeYAMLStream(t *testing.T) {
	in := "zeta: 1\nalpha: two\n---\nother: true\n"
	recs := drain(t, NewDecoder(strings.NewReader(in), Options{Format: FormatYAML}))

	require.Len(t, recs, 2)
	require.Equal(t, []string{"zeta", "alpha"}, recs[0].Names())
	v, _ := recs[0].Get("alpha")
	require.Equal(t, "two", v)
	v, _ = recs[1].Get("other")
	require.Equal(t, true, v)
}

func TestDecodeYAMLSequenceDocument(t *testing.T) {
	in := "- a: 1\n- b: 2\n"
	recs := drain(t, NewDecoder(strings.NewReader(in), Options{Format: FormatYAML}))

	require.Len(t, recs, 2)
	require.Equal(t, []string{"a"}, recs[0].Names())
	require.Equal(t, []string{"b"}, recs[1].Names())
}

func TestDecodeAutoDetect(t *testing.T) {
	recs := drain(t, NewDecoder(strings.NewReader(`  {"a":1}`), Options{}))
	require.Len(t, recs, 1)

	recs = drain(t, NewDecoder(strings.NewReader("a: 1\n"), Options{}))
	require.Len(t, recs, 1)
	require.Equal(t, []string{"a"}, recs[0].Names())
}

func TestDecodeEmptyInput(t *testing.T) {
	d := NewDecoder(strings.NewReader(""), Options{})
	_, err := d.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestDecodeScalarInputFails(t *testing.T) {
	d := NewDecoder(strings.NewReader(`"just a string"`), Options{Format: FormatJSON})
	_, err := d.Next()
	require.Error(t, err)

	// The error sticks.
	_, err2 := d.Next()
	require.Equal(t, err, err2)
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("yaml")
	require.True(t, ok)
	require.Equal(t, FormatYAML, f)

	f, ok = ParseFormat("ndjson")
	require.True(t, ok)
	require.Equal(t, FormatJSON, f)

	_, ok = ParseFormat("xml")
	require.False(t, ok)
}

func TestParseLiteral(t *testing.T) {
	v, err := ParseLiteral(`{"a":1}`, Options{})
	require.NoError(t, err)
	rec, ok := v.(*Record)
	require.True(t, ok)
	require.Equal(t, []string{"a"}, rec.Names())

	v, err = ParseLiteral(`[{"a":1},{"b":2}]`, Options{})
	require.NoError(t, err)
	recs, ok := v.([]*Record)
	require.True(t, ok)
	require.Len(t, recs, 2)

	v, err = ParseLiteral("", Options{})
	require.NoError(t, err)
	require.Nil(t, v)
}
