package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scanframe/internal/assemble"
	"scanframe/internal/cache"
	"scanframe/internal/format"
)

var inspectFlags struct {
	cfg configFlags
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report how far the cached table is from the configured schema",
	Long: "inspect reads the cache without extracting anything and lists absent\n" +
		"columns and per-column Null counts.",
	RunE: runInspect,
}

func init() {
	inspectFlags.cfg.register(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	cfg, err := inspectFlags.cfg.load()
	if err != nil {
		return err
	}
	tbl, err := cache.Read(cfg.Cache.Kind, cfg.CachePath())
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.MissingReport(tbl, assemble.RequiredColumns(cfg), inspectFlags.cfg.mode()))
	return nil
}
