// Package config holds the settings of one assembly run: which result and
// parameter fields to extract, where the inputs live, and where the table
// is cached.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"scanframe/internal/results"
	"scanframe/internal/slha"
	"scanframe/internal/table"
)

// Cache kinds accepted by CacheConfig.Kind.
const (
	KindCSV    = "csv"
	KindBinary = "binary"
)

// Config is immutable once an Engine has been built from it.
type Config struct {
	Results    ResultsConfig `json:"results" yaml:"results"`
	Params     ParamsConfig  `json:"params" yaml:"params"`
	Cache      CacheConfig   `json:"cache" yaml:"cache"`
	FullRescan bool          `json:"full_rescan,omitempty" yaml:"full_rescan,omitempty"`
}

// ResultsConfig locates result files and names the fields to copy.
type ResultsConfig struct {
	Root       string   `json:"root" yaml:"root" validate:"required"`
	Extensions []string `json:"extensions" yaml:"extensions" validate:"min=1,dive,required"`
	// Status fields come from the OutputStatus dict.
	Status []string `json:"status" yaml:"status" validate:"dive,required,notmeta"`
	// Analysis fields come from each ExptRes entry.
	Analysis []string `json:"analysis" yaml:"analysis" validate:"dive,required,notmeta"`
}

// ParamsConfig locates parameter files and selects block entries.
type ParamsConfig struct {
	Root       string   `json:"root" yaml:"root" validate:"required"`
	Extensions []string `json:"extensions" yaml:"extensions" validate:"min=1,dive,required"`
	Blocks     Blocks   `json:"blocks" yaml:"blocks" validate:"dive"`
}

// CacheConfig names the persisted forms of the table. Kind picks the one
// read back; CSV and Binary are both written on every extraction pass.
// SQLite is an optional extra export.
type CacheConfig struct {
	Kind   string `json:"kind" yaml:"kind" validate:"oneof=csv binary"`
	CSV    string `json:"csv" yaml:"csv" validate:"required"`
	Binary string `json:"binary" yaml:"binary" validate:"required"`
	SQLite string `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
}

// Default mirrors the layout the tool was first used with.
func Default() *Config {
	return &Config{
		Results: ResultsConfig{
			Root:       "output_EWino",
			Extensions: []string{".py"},
			Status:     []string{"sigmacut"},
			Analysis:   []string{"r", "r_expected"},
		},
		Params: ParamsConfig{
			Root:       "data_EWino",
			Extensions: []string{".slha"},
			Blocks: Blocks{
				{Name: "SMINPUTS", IDs: []slha.Index{{1}}},
				{Name: "MASS", IDs: []slha.Index{{25}, {6}, {24}}},
				{Name: "NMIX", IDs: []slha.Index{{1, 1}}},
			},
		},
		Cache: CacheConfig{
			Kind:   KindCSV,
			CSV:    "cache_output.csv",
			Binary: "cache_output.bin",
		},
	}
}

// ResultFields is the selection handed to the result extractor.
func (c *Config) ResultFields() results.Fields {
	return results.Fields{Status: c.Results.Status, Analysis: c.Results.Analysis}
}

// Selection is the block selection handed to the parameter extractor.
func (c *Config) Selection() slha.Selection {
	out := make(slha.Selection, 0, len(c.Params.Blocks))
	for _, b := range c.Params.Blocks {
		out = append(out, slha.BlockFields{Block: strings.ToUpper(b.Name), IDs: b.IDs})
	}
	return out
}

// CachePath returns the path read back for the configured kind.
func (c *Config) CachePath() string {
	if c.Cache.Kind == KindBinary {
		return c.Cache.Binary
	}
	return c.Cache.CSV
}

var validate = newValidator()

// metaColumns are filled by the extractor itself; a configured field with
// one of these names would overwrite them.
var metaColumns = map[string]bool{
	table.ColFilename:   true,
	table.ColAnalysisID: true,
	table.ColInputRef:   true,
	table.ColStatus:     true,
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notmeta", func(fl validator.FieldLevel) bool {
		return !metaColumns[fl.Field().String()]
	})
	return v
}

// Validate checks struct constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return c.checkBlocks()
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), describe(fe)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// checkBlocks rejects repeated block names, which would silently merge two
// selections into one set of columns.
func (c *Config) checkBlocks() error {
	seen := make(map[string]bool, len(c.Params.Blocks))
	for _, b := range c.Params.Blocks {
		name := strings.ToUpper(b.Name)
		if seen[name] {
			return fmt.Errorf("invalid config: block %s listed twice", name)
		}
		seen[name] = true
	}
	return nil
}
