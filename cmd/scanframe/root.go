// scanframe assembles parameter-scan outputs into one cached table.
//
// Usage:
//
//	scanframe assemble [--config scan.yaml] [--full-rescan] [--preview 10]
//	scanframe schema   [--config scan.yaml]
//	scanframe inspect  [--config scan.yaml]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scanframe/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "scanframe",
	Short: "Assemble scan result and parameter files into one table",
	Long: "scanframe joins per-point result files with the parameter files they\n" +
		"reference, caches the joined table and only reprocesses what is new or\n" +
		"incomplete on later runs.",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		format, err := logging.ParseFormat(rootFlags.logFormat)
		if err != nil {
			return err
		}
		logging.Init(level, format, cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
