package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scanframe/internal/assemble"
	"scanframe/internal/format"
	"scanframe/internal/logging"
)

var assembleFlags struct {
	cfg        configFlags
	fullRescan bool
	preview    int
	cellWidth  int
	quiet      bool
	noProgress bool
}

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Run one assembly pass and update the cache",
	RunE:  runAssemble,
}

func init() {
	assembleFlags.cfg.register(assembleCmd)
	f := assembleCmd.Flags()
	f.BoolVar(&assembleFlags.fullRescan, "full-rescan", false, "Reprocess every result file regardless of the cache")
	f.IntVar(&assembleFlags.preview, "preview", 10, "Rows to preview after the run (0 = none, -1 = all)")
	f.IntVar(&assembleFlags.cellWidth, "cell-width", 24, "Truncate preview cells to this many characters (0 = no limit)")
	f.BoolVarP(&assembleFlags.quiet, "quiet", "q", false, "Print nothing but errors")
	f.BoolVar(&assembleFlags.noProgress, "no-progress", false, "Disable the progress bar")
}

func runAssemble(cmd *cobra.Command, _ []string) error {
	cfg, err := assembleFlags.cfg.load()
	if err != nil {
		return err
	}
	if assembleFlags.fullRescan {
		cfg.FullRescan = true
	}

	var opts []assemble.Option
	var bar *progressBar
	if !assembleFlags.quiet && !assembleFlags.noProgress {
		bar = newProgressBar(cmd.ErrOrStderr())
		opts = append(opts, assemble.WithProgress(bar.update))
	}

	engine := assemble.NewDefault(cfg, logging.New("assemble"), opts...)
	tbl, rep, runErr := engine.Assemble()
	if bar != nil {
		bar.stop()
	}
	if tbl == nil {
		return runErr
	}

	if !assembleFlags.quiet {
		out := cmd.OutOrStdout()
		mode := assembleFlags.cfg.mode()
		fmt.Fprintln(out, format.Summary(rep, mode))
		if assembleFlags.preview != 0 && tbl.Len() > 0 {
			n := assembleFlags.preview
			if n < 0 {
				n = 0
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, format.Preview(tbl, n, assembleFlags.cellWidth, mode))
		}
	}
	return runErr
}
