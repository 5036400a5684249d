package cli

import (
	"github.com/spf13/cobra"

	"github.com/microsoft/mdtable/internal/markdown"
)

func newTableCmd() *cobra.Command {
	o := &renderOpts{}
	cmd := &cobra.Command{
		Use:   "table [file]",
		Short: "Render all records into one shared Markdown table",
		Long: `Render the whole input stream as a single Markdown table.

The header is the union of the columns of every record, in the order
they were first seen. Records missing a column get an empty cell. When
no explicit properties are given, columns for a typed record come from
the format registry when a matching entry exists.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, markdown.StyleTable, o)
		},
	}
	addRenderFlags(cmd, o)
	return cmd
}
