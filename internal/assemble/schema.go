package assemble

import (
	"scanframe/internal/config"
	"scanframe/internal/table"
)

// Nullable lists required columns that may legitimately hold Null in a
// complete row: a result file need not list analyses, nor name its input.
var Nullable = []string{table.ColAnalysisID, table.ColInputRef}

// RequiredColumns derives the table schema from cfg: identity and status
// columns, then status fields, analysis fields and one column per selected
// parameter entry, in configuration order. Repeated names keep their first
// position.
func RequiredColumns(cfg *config.Config) []string {
	cols := []string{table.ColFilename, table.ColAnalysisID, table.ColInputRef, table.ColStatus}
	cols = append(cols, cfg.Results.Status...)
	cols = append(cols, cfg.Results.Analysis...)
	cols = append(cols, cfg.Selection().Columns()...)

	seen := make(map[string]bool, len(cols))
	out := cols[:0]
	for _, c := range cols {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
