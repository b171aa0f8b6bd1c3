package slha

import (
	"fmt"
	"log/slog"
	"os"

	"scanframe/internal/table"
)

// BlockFields selects entries of one block.
type BlockFields struct {
	Block string
	IDs   []Index
}

// Selection is the ordered list of blocks to extract.
type Selection []BlockFields

// Column names the table column holding (block, ix): MASS_25, NMIX_1_1.
// An unindexed value is named after the block alone.
func Column(block string, ix Index) string {
	if len(ix) == 0 {
		return block
	}
	return block + "_" + ix.Suffix()
}

// Columns lists the selection's column names in order.
func (s Selection) Columns() []string {
	var out []string
	for _, bf := range s {
		for _, ix := range bf.IDs {
			out = append(out, Column(bf.Block, ix))
		}
	}
	return out
}

// Extractor reads parameter files and projects them onto a Selection.
type Extractor struct {
	sel Selection
	log *slog.Logger
}

// NewExtractor returns an Extractor for sel.
func NewExtractor(sel Selection, log *slog.Logger) *Extractor {
	return &Extractor{sel: sel, log: log}
}

// Extract returns one value per selected (block, index): a Number when the
// file holds it, Null otherwise. A scalar index never matches a
// multi-index entry; composite entries must be selected by their full index.
func (e *Extractor) Extract(path string) (table.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parameter file: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return e.Project(path, doc), nil
}

// Project maps doc onto the selection.
func (e *Extractor) Project(path string, doc *Document) table.Record {
	out := make(table.Record)
	for _, bf := range e.sel {
		b, ok := doc.Block(bf.Block)
		if !ok {
			e.log.Debug("block missing from parameter file", "path", path, "block", bf.Block)
		}
		for _, ix := range bf.IDs {
			col := Column(bf.Block, ix)
			if !ok {
				out[col] = table.Null()
				continue
			}
			if v, found := b.Get(ix); found {
				out[col] = table.Num(v)
			} else {
				e.log.Debug("entry missing from block", "path", path, "block", bf.Block, "index", ix.Key())
				out[col] = table.Null()
			}
		}
	}
	return out
}
