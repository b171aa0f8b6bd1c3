// Package results turns result files into flat records: one per analysis
// outcome listed under ExptRes, or a single record when the file has none.
package results

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"scanframe/internal/pylit"
	"scanframe/internal/table"
)

// Keys read from the parsed literal.
const (
	KeyOutputStatus = "OutputStatus"
	KeyExptRes      = "ExptRes"
	KeyAnalysisID   = "AnalysisID"
	KeyInputFile    = "input file"
)

// ErrShape reports a literal that parsed but is not a result document.
var ErrShape = errors.New("results: unexpected document shape")

// Fields selects what to copy out of a result document.
type Fields struct {
	// Status names keys of the OutputStatus dict, copied to every record.
	Status []string
	// Analysis names keys of each ExptRes entry.
	Analysis []string
}

// Extractor reads result files.
type Extractor struct {
	fields Fields
	log    *slog.Logger
}

// NewExtractor returns an Extractor copying the given fields.
func NewExtractor(fields Fields, log *slog.Logger) *Extractor {
	return &Extractor{fields: fields, log: log}
}

// Extract reads and parses the file at path. A file that cannot be read or
// parsed yields an error and no records.
func (e *Extractor) Extract(path string) ([]table.Record, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result file: %w", err)
	}
	return e.FromBytes(path, src)
}

// FromBytes extracts records from src as if it had been read from path.
func (e *Extractor) FromBytes(path string, src []byte) ([]table.Record, error) {
	_, v, err := pylit.ParseAssignment(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: top-level literal is %T: %w", path, v, ErrShape)
	}

	status, _ := doc[KeyOutputStatus].(map[string]any)

	base := table.Record{
		table.ColFilename: table.Str(path),
		table.ColStatus:   table.Str(table.StatusOK),
		table.ColInputRef: inputReference(doc, status),
	}
	for _, k := range e.fields.Status {
		base[k] = ToValue(status[k])
	}

	raw, present := doc[KeyExptRes]
	if !present || raw == nil {
		return []table.Record{base}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %s is %T: %w", path, KeyExptRes, raw, ErrShape)
	}
	if len(list) == 0 {
		return []table.Record{base}, nil
	}

	out := make([]table.Record, 0, len(list))
	for i, item := range list {
		exp, ok := item.(map[string]any)
		if !ok {
			e.log.Debug("skipping non-dict ExptRes entry", "path", path, "index", i)
			continue
		}
		r := base.Clone()
		r[table.ColAnalysisID] = ToValue(exp[KeyAnalysisID])
		for _, k := range e.fields.Analysis {
			r[k] = ToValue(exp[k])
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return []table.Record{base}, nil
	}
	return out, nil
}

// inputReference looks for the parameter-file path at the top level first,
// then inside OutputStatus where current writers put it.
func inputReference(doc, status map[string]any) table.Value {
	if s, ok := doc[KeyInputFile].(string); ok && s != "" {
		return table.Str(s)
	}
	if s, ok := status[KeyInputFile].(string); ok && s != "" {
		return table.Str(s)
	}
	return table.Null()
}

// ToValue converts a parsed literal into a cell. Containers are flattened
// into their text rendering.
func ToValue(v any) table.Value {
	switch x := v.(type) {
	case nil:
		return table.Null()
	case float64:
		return table.Num(x)
	case string:
		return table.Str(x)
	case bool:
		return table.Bool(x)
	default:
		return table.Str(render(v))
	}
}

func render(v any) string {
	switch x := v.(type) {
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = render(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + render(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case nil:
		return "None"
	default:
		return ToValue(v).String()
	}
}
