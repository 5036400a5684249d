package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
// This centralizes default values and descriptions in one place.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// Configure Viper search paths. If SetConfigFile was provided upstream,
	// it takes precedence; these paths are harmless fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "mdtable"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "mdtable"))
		}
		v.AddConfigPath(".")
	}

	// Apply centralized defaults (lowest precedence)
	applyDefaults(v)

	// Read config file if present (overrides defaults)
	_ = v.ReadInConfig()

	// Environment variables: MDTABLE_* (highest among these sources)
	v.SetEnvPrefix("mdtable")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Normalize dependent values post-merge
	if strings.TrimSpace(v.GetString("formats_file")) == "" {
		v.Set("formats_file", DefaultFormatsPath())
	}
	if strings.TrimSpace(v.GetString("type_property")) == "" {
		v.Set("type_property", "_type")
	}
	return nil
}

// configDir resolves the standard config directory:
// $XDG_CONFIG_HOME/mdtable or ~/.config/mdtable.
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mdtable")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mdtable")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// DefaultFormatsPath resolves the standard formats.yaml registry location.
func DefaultFormatsPath() string {
	return filepath.Join(configDir(), "formats.yaml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their
// meanings. This is the single source of truth for default values and
// generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "formats_file", Default: DefaultFormatsPath(), Comment: "Type display format registry (YAML)"},
		{Key: "type_property", Default: "_type", Comment: "Record property carrying the type name; stripped from output"},

		{Key: "output.mode", Default: "plain", Comment: "Standard display mode: plain|styled|pretty|tui"},
		{Key: "output.pager", Default: true, Comment: "Page display output through $PAGER on a TTY"},

		{Key: "markdown.echo", Default: false, Comment: "Also print the generated Markdown text (same as --show-markdown)"},
		{Key: "clipboard.disabled", Default: false, Comment: "Never copy the Markdown text to the clipboard"},
	}
}
