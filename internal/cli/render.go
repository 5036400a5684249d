package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/microsoft/mdtable/internal/display"
	"github.com/microsoft/mdtable/internal/markdown"
	"github.com/microsoft/mdtable/internal/record"
	"github.com/microsoft/mdtable/internal/wire"
)

// renderOpts holds the flags shared by the list and table commands.
type renderOpts struct {
	properties   string
	showMarkdown bool
	hideOutput   bool
	noClipboard  bool
	outputMode   string
	inputFormat  string
	typeProperty string
	jsonLiteral  string
}

func addRenderFlags(cmd *cobra.Command, o *renderOpts) {
	cmd.Flags().StringVarP(&o.properties, "property", "p", "", "comma-separated properties to display (empty: all)")
	cmd.Flags().BoolVar(&o.showMarkdown, "show-markdown", false, "also print the generated Markdown text")
	cmd.Flags().BoolVar(&o.hideOutput, "hide-standard-output", false, "suppress the standard display view")
	cmd.Flags().BoolVar(&o.noClipboard, "no-clipboard", false, "do not copy the Markdown text to the clipboard")
	cmd.Flags().StringVar(&o.outputMode, "output", "", "display mode: plain|styled|pretty|tui")
	cmd.Flags().StringVar(&o.inputFormat, "format", "auto", "input format: auto|json|yaml")
	cmd.Flags().StringVar(&o.typeProperty, "type-property", "", "record property carrying the type name")
	cmd.Flags().StringVar(&o.jsonLiteral, "json", "", "inline JSON for the single-object input slot")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"plain", "styled", "pretty", "tui"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runRender(cmd *cobra.Command, args []string, style markdown.Style, o *renderOpts) error {
	app := getApp(cmd)

	opts := markdown.Options{
		Style:                style,
		Properties:           parseProperties(cmd, o.properties),
		HideStandardOutput:   o.hideOutput,
		ShowMarkdown:         o.showMarkdown || app.Cfg.GetBool("markdown.echo"),
		DoNotCopyToClipboard: o.noClipboard || app.Cfg.GetBool("clipboard.disabled"),
	}

	modeStr := o.outputMode
	if modeStr == "" {
		modeStr = app.Cfg.GetString("output.mode")
	}
	mode, ok := display.ParseMode(modeStr)
	if !ok {
		return fmt.Errorf("invalid --output: %s", modeStr)
	}

	format, ok := record.ParseFormat(o.inputFormat)
	if !ok {
		return fmt.Errorf("invalid --format: %s", o.inputFormat)
	}
	typeProp := o.typeProperty
	if typeProp == "" {
		typeProp = app.Cfg.GetString("type_property")
	}
	decOpts := record.Options{Format: format, TypeProperty: typeProp}

	var single any
	if o.jsonLiteral != "" {
		v, err := record.ParseLiteral(o.jsonLiteral, decOpts)
		if err != nil {
			return fmt.Errorf("invalid --json: %w", err)
		}
		single = v
	}

	in, closeIn, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeIn()

	if mode == display.ModeTUI {
		disp := display.New(mode, cmd.OutOrStdout(), app.Clip)
		return runSession(cmd, app, opts, disp, cmd.OutOrStdout(), single, in, decOpts)
	}
	usePager := app.Cfg.GetBool("output.pager") && !opts.HideStandardOutput
	if !usePager {
		disp := display.New(mode, cmd.OutOrStdout(), app.Clip)
		return runSession(cmd, app, opts, disp, cmd.OutOrStdout(), single, in, decOpts)
	}
	return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
		disp := display.New(mode, w, app.Clip)
		return runSession(cmd, app, opts, disp, w, single, in, decOpts)
	})
}

func runSession(cmd *cobra.Command, app *wire.App, opts markdown.Options, disp markdown.Display, echo io.Writer, single any, in io.Reader, decOpts record.Options) error {
	session := markdown.NewSession(opts, app.Formats, disp, echo, app.Clip, app.Log)

	if err := session.Begin(app.Caption(), single); err != nil {
		return err
	}

	if single == nil {
		dec := record.NewDecoder(in, decOpts)
		first := true
		for {
			rec, err := dec.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			if first {
				suggestProperties(app, opts.Properties, rec)
				first = false
			}
			if err := session.Process(rec); err != nil {
				return err
			}
		}
	}

	_, err := session.End()
	return err
}

// suggestProperties warns about explicit columns that match nothing on the
// first record. Rendering continues; missing columns become empty cells.
func suggestProperties(app *wire.App, explicit []string, rec *record.Record) {
	names := rec.Names()
	for _, p := range explicit {
		if p == "" || p == "*" || rec.Has(p) {
			continue
		}
		if matches := fuzzy.Find(p, names); len(matches) > 0 {
			app.Log.Printf("unknown property %q (did you mean %q?)", p, matches[0].Str)
		} else {
			app.Log.Printf("unknown property %q", p)
		}
	}
}

func parseProperties(cmd *cobra.Command, s string) []string {
	if !cmd.Flags().Changed("property") {
		return nil
	}
	if s == "" {
		// The blank sentinel: resolved as "all properties" downstream.
		return []string{""}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
