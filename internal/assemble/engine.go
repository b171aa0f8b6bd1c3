// Package assemble builds the scan table. One pass loads the cached table,
// decides which result files need (re)processing, extracts them joined with
// their parameter files, merges the fresh rows into the cache and persists
// the outcome.
package assemble

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"scanframe/internal/cache"
	"scanframe/internal/config"
	"scanframe/internal/discover"
	"scanframe/internal/results"
	"scanframe/internal/slha"
	"scanframe/internal/table"
)

// ResultExtractor turns one result file into records.
type ResultExtractor interface {
	Extract(path string) ([]table.Record, error)
}

// ParamExtractor turns one parameter file into a record of selected fields.
type ParamExtractor interface {
	Extract(path string) (table.Record, error)
}

// Finder lists files under root with one of the given extensions.
type Finder interface {
	Find(root string, exts []string) ([]string, error)
}

// ProgressFunc is called after each processed result file.
type ProgressFunc func(done, total int, path string)

// Option configures an Engine.
type Option func(*Engine)

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// WithClock overrides the time source used for the run duration.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine runs assembly passes for one configuration.
type Engine struct {
	cfg      *config.Config
	results  ResultExtractor
	params   ParamExtractor
	finder   Finder
	log      *slog.Logger
	progress ProgressFunc
	now      func() time.Time
	required []string
}

// New returns an Engine wired to the given collaborators. cfg must already
// be validated and is not modified.
func New(cfg *config.Config, res ResultExtractor, params ParamExtractor, finder Finder, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		results:  res,
		params:   params,
		finder:   finder,
		log:      log,
		now:      time.Now,
		required: RequiredColumns(cfg),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewDefault returns an Engine using the file-based extractors and finder.
func NewDefault(cfg *config.Config, log *slog.Logger, opts ...Option) *Engine {
	return New(cfg,
		results.NewExtractor(cfg.ResultFields(), log.With("component", "results")),
		slha.NewExtractor(cfg.Selection(), log.With("component", "slha")),
		discover.Finder{},
		log, opts...)
}

// Required returns the schema this engine assembles.
func (e *Engine) Required() []string {
	out := make([]string, len(e.required))
	copy(out, e.required)
	return out
}

// Report summarises one pass.
type Report struct {
	RunID      string
	CacheRows  int
	Missing    table.Missing
	Discovered int
	Processed  int
	Failed     int
	Unmatched  int
	Merge      table.MergeStats
	Rows       int
	Saved      bool
	Duration   time.Duration
}

// Assemble runs one pass and returns the resulting table. When the cache
// already satisfies the schema it is returned unchanged and nothing is read
// or written. A non-nil error with a non-nil table means extraction worked
// but persisting failed; the table is still the correct result.
func (e *Engine) Assemble() (*table.Table, Report, error) {
	start := e.now()
	rep := Report{RunID: uuid.NewString()}
	log := e.log.With("run_id", rep.RunID)

	existing := cache.Load(e.cfg.Cache.Kind, e.cfg.CachePath(), log)
	rep.CacheRows = existing.Len()
	rep.Missing = existing.Missing(e.required, Nullable...)

	if existing.Len() > 0 && rep.Missing.Empty() && !e.cfg.FullRescan {
		log.Info("cache satisfies schema, nothing to do", "rows", existing.Len())
		rep.Rows = existing.Len()
		rep.Duration = e.now().Sub(start)
		return existing, rep, nil
	}
	if len(rep.Missing.Columns) > 0 && existing.Len() > 0 {
		log.Info("cache lacks columns, reprocessing all files", "columns", rep.Missing.Columns)
	}

	files, err := e.finder.Find(e.cfg.Results.Root, e.cfg.Results.Extensions)
	if err != nil {
		rep.Rows = existing.Len()
		rep.Duration = e.now().Sub(start)
		return existing, rep, fmt.Errorf("discover result files: %w", err)
	}
	rep.Discovered = len(files)

	todo := e.selectFiles(existing, rep.Missing, files)
	if len(todo) == 0 {
		log.Info("no result files need processing", "discovered", len(files))
		rep.Rows = existing.Len()
		rep.Duration = e.now().Sub(start)
		return existing, rep, nil
	}
	log.Info("processing result files", "selected", len(todo), "discovered", len(files))

	idx := e.paramIndex(log)
	fresh := table.New(e.required)
	p := &pass{engine: e, log: log, idx: idx, memo: make(map[string]table.Record), rep: &rep}
	for i, path := range todo {
		for _, r := range p.file(path) {
			fresh.Append(r)
		}
		if e.progress != nil {
			e.progress(i+1, len(todo), path)
		}
	}
	rep.Processed = len(todo)

	merged, st := table.Merge(existing, fresh, e.required)
	rep.Merge = st
	rep.Rows = merged.Len()
	log.Info("merged", "rows", merged.Len(), "kept", st.Kept, "added", st.Added, "replaced", st.Replaced, "dropped", st.Dropped)

	paths := cache.Paths{CSV: e.cfg.Cache.CSV, Binary: e.cfg.Cache.Binary, SQLite: e.cfg.Cache.SQLite}
	if err := cache.Save(merged, paths); err != nil {
		log.Error("persist failed", "error", err)
		rep.Duration = e.now().Sub(start)
		return merged, rep, fmt.Errorf("persist table: %w", err)
	}
	rep.Saved = true
	rep.Duration = e.now().Sub(start)
	return merged, rep, nil
}

// selectFiles picks the discovered files to extract. Everything is
// reprocessed when the cache is empty, lacks a column or a full rescan was
// asked for; otherwise only unseen files and owners of incomplete rows.
func (e *Engine) selectFiles(existing *table.Table, m table.Missing, files []string) []string {
	if e.cfg.FullRescan || existing.Len() == 0 || len(m.Columns) > 0 {
		return files
	}
	known := existing.Filenames()
	incomplete := existing.IncompleteFiles(m)
	var out []string
	for _, f := range files {
		if !known[f] || incomplete[f] {
			out = append(out, f)
		}
	}
	return out
}

// paramIndex resolves input references to discovered parameter files.
type paramIndex struct {
	byPath map[string]string
	byBase map[string][]string
}

func (e *Engine) paramIndex(log *slog.Logger) paramIndex {
	idx := paramIndex{byPath: map[string]string{}, byBase: map[string][]string{}}
	files, err := e.finder.Find(e.cfg.Params.Root, e.cfg.Params.Extensions)
	if err != nil {
		log.Warn("parameter discovery failed, parameter fields stay empty", "root", e.cfg.Params.Root, "error", err)
		return idx
	}
	for _, f := range files {
		idx.byPath[filepath.Clean(f)] = f
		base := filepath.Base(f)
		idx.byBase[base] = append(idx.byBase[base], f)
	}
	return idx
}

// lookup matches ref against discovered paths, falling back to the base
// name when exactly one discovered file carries it.
func (idx paramIndex) lookup(ref string) (string, bool) {
	if p, ok := idx.byPath[filepath.Clean(ref)]; ok {
		return p, true
	}
	if c := idx.byBase[filepath.Base(ref)]; len(c) == 1 {
		return c[0], true
	}
	return "", false
}

// pass holds per-run state.
type pass struct {
	engine *Engine
	log    *slog.Logger
	idx    paramIndex
	memo   map[string]table.Record
	rep    *Report
}

func (p *pass) file(path string) []table.Record {
	recs, err := p.engine.results.Extract(path)
	if err != nil {
		p.log.Warn("result file failed", "path", path, "error", err)
	} else if len(recs) == 0 {
		p.log.Warn("result file yielded no records", "path", path)
	}
	if err != nil || len(recs) == 0 {
		p.rep.Failed++
		return []table.Record{{
			table.ColFilename: table.Str(path),
			table.ColStatus:   table.Str(table.StatusFailed),
		}}
	}

	for _, r := range recs {
		r[table.ColFilename] = table.Str(path)
		ref, ok := r.Get(table.ColInputRef).Text()
		if !ok || ref == "" {
			p.rep.Unmatched++
			p.log.Warn("result has no input reference", "path", path)
			continue
		}
		target, found := p.idx.lookup(ref)
		if !found {
			p.rep.Unmatched++
			p.log.Warn("parameter file missing from discovered files", "path", path, "input_reference", ref)
			continue
		}
		for k, v := range p.params(target) {
			r[k] = v
		}
	}
	return recs
}

// params extracts a parameter file once per pass. A failure is remembered
// as an empty record so the file is not re-read for every analysis.
func (p *pass) params(path string) table.Record {
	if r, ok := p.memo[path]; ok {
		return r
	}
	r, err := p.engine.params.Extract(path)
	if err != nil {
		p.log.Warn("parameter file failed", "path", path, "error", err)
		r = table.Record{}
	}
	p.memo[path] = r
	return r
}
