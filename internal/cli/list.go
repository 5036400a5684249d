package cli

import (
	"github.com/spf13/cobra"

	"github.com/microsoft/mdtable/internal/markdown"
)

func newListCmd() *cobra.Command {
	o := &renderOpts{}
	cmd := &cobra.Command{
		Use:   "list [file]",
		Short: "Render each record as its own Property/Value table",
		Long: `Render each input record as a separate two-column Markdown table.

Every record produces a |Property|Value| table listing its properties in
order, one table per record. Reads records from a file, standard input,
or the --json literal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, markdown.StyleList, o)
		},
	}
	addRenderFlags(cmd, o)
	return cmd
}
