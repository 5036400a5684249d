package wire

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/microsoft/mdtable/internal/clipboard"
	"github.com/microsoft/mdtable/internal/formats"
	"github.com/microsoft/mdtable/internal/markdown"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg     *viper.Viper
	Log     *log.Logger
	Formats markdown.TypeFormatLookup
	Clip    markdown.Copier
	// Caption returns the literal text of the invoking command line,
	// used only for the caption above the rendered table.
	Caption func() string
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, cfg *viper.Viper) (*App, error) {
	logger := log.New(os.Stderr, "mdtable: ", 0)

	reg, err := formats.Load(cfg.GetString("formats_file"))
	if err != nil {
		// A broken registry never blocks rendering; lookups just miss.
		logger.Printf("format registry disabled: %v", err)
		reg = &formats.Registry{}
	}

	return &App{
		Cfg:     cfg,
		Log:     logger,
		Formats: reg,
		Clip:    clipboard.System{},
		Caption: func() string { return strings.Join(os.Args, " ") },
	}, nil
}
