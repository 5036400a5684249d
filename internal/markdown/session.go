package markdown

import (
	"errors"
	"fmt"
	"io"
	"log"
	"reflect"
	"strings"

	"github.com/microsoft/mdtable/internal/record"
)

// Sentinel errors for programmatic error handling.
var (
	// ErrBulkInput is returned when a multi-element sequence arrives in the
	// single-object input slot instead of being streamed one at a time.
	ErrBulkInput = errors.New("bulk input must be streamed one record at a time")
	// ErrSessionFinished is returned when records arrive after End.
	ErrSessionFinished = errors.New("session already finished")
)

// RenderResult is the final output of one stream.
type RenderResult struct {
	// Body is the Markdown table text without the caption.
	Body string
	// Full is the caption line, a blank line, then Body.
	Full string
	// Columns is the shared column set (table style; nil for list style,
	// where each row carries its own columns).
	Columns []string
	// Rows holds the projected rows for the standard display view. Values
	// here are raw, not Markdown-escaped.
	Rows []*record.Record
}

// Display renders the projected rows in the standard list/table view.
type Display interface {
	Show(style Style, res *RenderResult) error
}

// Copier places text on the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Options configures one session. All flags default to off.
type Options struct {
	Style Style
	// Properties is the explicit column list; empty (or a single blank
	// entry) means "all properties".
	Properties []string

	HideStandardOutput   bool
	ShowMarkdown         bool
	DoNotCopyToClipboard bool
}

type sessionState int

const (
	stateIdle sessionState = iota
	stateActive
	stateFinished
	stateAborted
)

// Session orchestrates the begin/accumulate/finalize lifecycle around one
// renderer and dispatches the final result to display, echo, and clipboard.
// It is single-use: records arrive strictly in caller order and all
// accumulators are discarded after End.
type Session struct {
	opts    Options
	r       renderer
	state   sessionState
	caption string

	display Display
	echo    io.Writer
	clip    Copier
	logger  *log.Logger
}

type renderer interface {
	process(rec *record.Record)
	end() *RenderResult
}

// NewSession builds a session. lookup, display, echo, and clip may be nil;
// the corresponding step is then skipped.
func NewSession(opts Options, lookup TypeFormatLookup, display Display, echo io.Writer, clip Copier, logger *log.Logger) *Session {
	resolver := &Resolver{Lookup: lookup}
	var r renderer
	if opts.Style == StyleTable {
		r = newTableRenderer(resolver, opts.Properties)
	} else {
		r = newListRenderer(resolver, opts.Properties)
	}
	return &Session{
		opts:    opts,
		r:       r,
		display: display,
		echo:    echo,
		clip:    clip,
		logger:  logger,
	}
}

// Begin validates the single-object input slot and captures the caption
// (the literal text of the invoking expression). single is usually nil;
// a lone record delivered there is processed as the first record, while a
// multi-element sequence aborts the session: Process and End become
// no-ops and no output is produced.
func (s *Session) Begin(caption string, single any) error {
	if s.state != stateIdle {
		return fmt.Errorf("%w: begin called twice", ErrSessionFinished)
	}
	s.caption = caption
	s.state = stateActive

	switch v := single.(type) {
	case nil:
		return nil
	case *record.Record:
		return s.Process(v)
	case []*record.Record:
		return s.beginSlice(len(v), func(i int) *record.Record { return v[i] })
	}

	rv := reflect.ValueOf(single)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		s.state = stateAborted
		return fmt.Errorf("%w (got %d elements)", ErrBulkInput, rv.Len())
	}
	return fmt.Errorf("unsupported input value of type %T", single)
}

func (s *Session) beginSlice(n int, at func(int) *record.Record) error {
	if n > 1 {
		s.state = stateAborted
		return fmt.Errorf("%w (got %d elements)", ErrBulkInput, n)
	}
	if n == 1 {
		return s.Process(at(0))
	}
	return nil
}

// Process feeds one record to the active renderer. It is a no-op on an
// aborted session.
func (s *Session) Process(rec *record.Record) error {
	switch s.state {
	case stateAborted:
		return nil
	case stateFinished:
		return ErrSessionFinished
	case stateIdle:
		s.state = stateActive
	}
	if rec == nil {
		return nil
	}
	s.r.process(rec)
	return nil
}

// End finalizes the stream and dispatches the result: display first, then
// the Markdown echo, then the clipboard copy, each gated by its own flag.
// The steps are best-effort and independent; a failure is logged as a
// warning and never undoes the ones before it. On an aborted session End
// is a no-op returning nil.
func (s *Session) End() (*RenderResult, error) {
	switch s.state {
	case stateAborted:
		return nil, nil
	case stateFinished:
		return nil, ErrSessionFinished
	}
	s.state = stateFinished

	res := s.r.end()
	res.Full = CaptionLine(s.caption) + res.Body

	if !s.opts.HideStandardOutput && s.display != nil {
		if err := s.display.Show(s.opts.Style, res); err != nil {
			s.warnf("display failed: %v", err)
		}
	}
	if s.opts.ShowMarkdown && s.echo != nil {
		if _, err := io.WriteString(s.echo, res.Full); err != nil {
			s.warnf("markdown echo failed: %v", err)
		}
	}
	if !s.opts.DoNotCopyToClipboard && s.clip != nil {
		if err := s.clip.Copy(res.Full); err != nil {
			s.warnf("clipboard copy failed: %v", err)
		} else {
			s.warnf("markdown table text is now on the clipboard")
		}
	}
	return res, nil
}

func (s *Session) warnf(format string, v ...any) {
	if s.logger != nil {
		s.logger.Printf(format, v...)
	}
}

// CaptionLine renders the bolded caption followed by a blank line. Literal
// asterisks in the invocation text are escaped like cell values.
func CaptionLine(caption string) string {
	return "**" + strings.ReplaceAll(caption, "*", `\*`) + "**" + crlf + crlf
}
