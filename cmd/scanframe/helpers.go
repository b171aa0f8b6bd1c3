package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scanframe/internal/config"
	"scanframe/internal/format"
)

// configFlags are shared by every command that needs a configuration.
type configFlags struct {
	path     string
	results  string
	params   string
	kind     string
	csv      string
	binary   string
	sqlite   string
	markdown bool
}

func (c *configFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&c.path, "config", "c", "", "Config file (YAML or JSON); defaults apply when omitted")
	f.StringVar(&c.results, "results", "", "Override results root directory")
	f.StringVar(&c.params, "params", "", "Override parameter-file root directory")
	f.StringVar(&c.kind, "cache-kind", "", "Override cache kind read back: csv or binary")
	f.StringVar(&c.csv, "csv", "", "Override CSV cache path")
	f.StringVar(&c.binary, "binary", "", "Override binary cache path")
	f.StringVar(&c.sqlite, "sqlite", "", "Also export the table to this SQLite database")
	f.BoolVar(&c.markdown, "markdown", false, "Render tables as Markdown")
}

// load reads the config file (or defaults), applies flag overrides and
// validates the result.
func (c *configFlags) load() (*config.Config, error) {
	cfg := config.Default()
	if c.path != "" {
		var err error
		if cfg, err = config.LoadFromPath(c.path); err != nil {
			return nil, err
		}
	}
	override(&cfg.Results.Root, c.results)
	override(&cfg.Params.Root, c.params)
	override(&cfg.Cache.Kind, c.kind)
	override(&cfg.Cache.CSV, c.csv)
	override(&cfg.Cache.Binary, c.binary)
	override(&cfg.Cache.SQLite, c.sqlite)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *configFlags) mode() format.Mode {
	if c.markdown {
		return format.Markdown
	}
	return format.ASCII
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
