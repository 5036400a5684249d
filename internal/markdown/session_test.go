package markdown

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/mdtable/internal/record"
)

type fakeDisplay struct {
	calls []*RenderResult
	order *[]string
	err   error
}

func (d *fakeDisplay) Show(style Style, res *RenderResult) error {
	d.calls = append(d.calls, res)
	if d.order != nil {
		*d.order = append(*d.order, "display")
	}
	return d.err
}

type fakeCopier struct {
	copied []string
	order  *[]string
	err    error
}

func (c *fakeCopier) Copy(text string) error {
	if c.err != nil {
		return c.err
	}
	c.copied = append(c.copied, text)
	if c.order != nil {
		*c.order = append(*c.order, "clipboard")
	}
	return nil
}

type orderedWriter struct {
	buf   bytes.Buffer
	order *[]string
}

func (w *orderedWriter) Write(p []byte) (int, error) {
	if w.order != nil {
		*w.order = append(*w.order, "echo")
	}
	return w.buf.Write(p)
}

func TestSessionEndToEnd(t *testing.T) {
	var logBuf bytes.Buffer
	disp := &fakeDisplay{}
	clip := &fakeCopier{}
	var echo bytes.Buffer

	s := NewSession(Options{Style: StyleTable, ShowMarkdown: true}, nil,
		disp, &echo, clip, log.New(&logBuf, "", 0))

	require.NoError(t, s.Begin("mdtable table", nil))
	require.NoError(t, s.Process(testRecord(t, "", "Name", "a", "Mode", 1)))
	require.NoError(t, s.Process(testRecord(t, "", "Name", "b", "Mode", 2)))
	res, err := s.End()
	require.NoError(t, err)

	wantBody := "|Name|Mode|\r\n|:--|:--|\r\n|a|1|\r\n|b|2|\r\n"
	wantFull := "**mdtable table**\r\n\r\n" + wantBody
	require.Equal(t, wantBody, res.Body)
	require.Equal(t, wantFull, res.Full)

	require.Len(t, disp.calls, 1)
	require.Equal(t, wantFull, echo.String())
	require.Equal(t, []string{wantFull}, clip.copied)
	require.Contains(t, logBuf.String(), "markdown table text is now on the clipboard")
}

func TestSessionDispatchOrder(t *testing.T) {
	var order []string
	disp := &fakeDisplay{order: &order}
	clip := &fakeCopier{order: &order}
	echo := &orderedWriter{order: &order}

	s := NewSession(Options{Style: StyleList, ShowMarkdown: true}, nil,
		disp, echo, clip, nil)
	require.NoError(t, s.Begin("x", nil))
	require.NoError(t, s.Process(testRecord(t, "", "a", 1)))
	_, err := s.End()
	require.NoError(t, err)

	require.Equal(t, []string{"display", "echo", "clipboard"}, order)
}

func TestSessionFlagsGateDispatch(t *testing.T) {
	disp := &fakeDisplay{}
	clip := &fakeCopier{}
	var echo bytes.Buffer

	s := NewSession(Options{
		Style:                StyleTable,
		HideStandardOutput:   true,
		DoNotCopyToClipboard: true,
	}, nil, disp, &echo, clip, nil)
	require.NoError(t, s.Begin("x", nil))
	require.NoError(t, s.Process(testRecord(t, "", "a", 1)))
	_, err := s.End()
	require.NoError(t, err)

	require.Empty(t, disp.calls)
	require.Empty(t, echo.String())
	require.Empty(t, clip.copied)
}

// A failure in one dispatch step is logged and never blocks the next one.
func TestSessionDispatchIsBestEffort(t *testing.T) {
	var logBuf bytes.Buffer
	disp := &fakeDisplay{err: errors.New("tty gone")}
	clip := &fakeCopier{}

	s := NewSession(Options{Style: StyleTable}, nil, disp, nil, clip,
		log.New(&logBuf, "", 0))
	require.NoError(t, s.Begin("x", nil))
	require.NoError(t, s.Process(testRecord(t, "", "a", 1)))
	_, err := s.End()
	require.NoError(t, err)

	require.Contains(t, logBuf.String(), "display failed")
	require.Len(t, clip.copied, 1)
}

func TestSessionClipboardFailureLogsWarning(t *testing.T) {
	var logBuf bytes.Buffer
	clip := &fakeCopier{err: errors.New("no clipboard available")}

	s := NewSession(Options{Style: StyleTable}, nil, nil, nil, clip,
		log.New(&logBuf, "", 0))
	require.NoError(t, s.Begin("x", nil))
	require.NoError(t, s.Process(testRecord(t, "", "a", 1)))
	_, err := s.End()
	require.NoError(t, err)

	require.Contains(t, logBuf.String(), "clipboard copy failed")
	require.NotContains(t, logBuf.String(), "now on the clipboard")
}

func TestSessionSingleRecordSlot(t *testing.T) {
	s := NewSession(Options{Style: StyleList}, nil, nil, nil, nil, nil)
	require.NoError(t, s.Begin("x", testRecord(t, "", "a", 1)))
	res, err := s.End()
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	s = NewSession(Options{Style: StyleList}, nil, nil, nil, nil, nil)
	require.NoError(t, s.Begin("x", []*record.Record{testRecord(t, "", "a", 1)}))
	res, err = s.End()
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
}

// A multi-element sequence in the single-object slot aborts the whole
// session: the error is reported once and everything after it goes quiet.
func TestSessionBulkInputAborts(t *testing.T) {
	disp := &fakeDisplay{}
	clip := &fakeCopier{}
	var echo bytes.Buffer

	s := NewSession(Options{Style: StyleTable, ShowMarkdown: true}, nil,
		disp, &echo, clip, nil)
	err := s.Begin("x", []*record.Record{
		testRecord(t, "", "a", 1),
		testRecord(t, "", "a", 2),
	})
	require.ErrorIs(t, err, ErrBulkInput)

	require.NoError(t, s.Process(testRecord(t, "", "a", 3)))
	res, err := s.End()
	require.NoError(t, err)
	require.Nil(t, res)

	require.Empty(t, disp.calls)
	require.Empty(t, echo.String())
	require.Empty(t, clip.copied)
}

func TestSessionBulkInputDetectsAnySlice(t *testing.T) {
	s := NewSession(Options{Style: StyleTable}, nil, nil, nil, nil, nil)
	err := s.Begin("x", []any{1, 2, 3})
	require.ErrorIs(t, err, ErrBulkInput)
	require.True(t, strings.Contains(err.Error(), "3 elements"))
}

func TestSessionAfterEnd(t *testing.T) {
	s := NewSession(Options{Style: StyleList}, nil, nil, nil, nil, nil)
	require.NoError(t, s.Begin("x", nil))
	_, err := s.End()
	require.NoError(t, err)

	require.ErrorIs(t, s.Process(testRecord(t, "", "a", 1)), ErrSessionFinished)
	_, err = s.End()
	require.ErrorIs(t, err, ErrSessionFinished)
}

func TestSessionCaptionEscaping(t *testing.T) {
	s := NewSession(Options{Style: StyleList}, nil, nil, nil, nil, nil)
	require.NoError(t, s.Begin("mdtable list *.go", nil))
	require.NoError(t, s.Process(testRecord(t, "", "a", 1)))
	res, err := s.End()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.Full, "**mdtable list \\*.go**\r\n\r\n"))
}
