package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scanframe/internal/assemble"
	"scanframe/internal/format"
)

var schemaFlags struct {
	cfg configFlags
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the columns the configuration requires",
	RunE:  runSchema,
}

func init() {
	schemaFlags.cfg.register(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	cfg, err := schemaFlags.cfg.load()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.Schema(assemble.RequiredColumns(cfg), schemaFlags.cfg.mode()))
	return nil
}
