// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Backend identifies the rasterizer used for a run.
type Backend string

const (
	BackendAuto     Backend = "auto"
	BackendRsvg     Backend = "rsvg"
	BackendInkscape Backend = "inkscape"
	BackendNative   Backend = "native"
)

// Backends lists every accepted backend value.
var Backends = []Backend{BackendAuto, BackendRsvg, BackendInkscape, BackendNative}

// Defaults for BatchConfig. A run with no configuration converts every
// .svg in the working directory to a 512x512 .png.
const (
	DefaultDir       = "."
	DefaultSuffix    = ".svg"
	DefaultOutputExt = ".png"
	DefaultWidth     = 512
	DefaultHeight    = 512
	DefaultJobs      = 1
)

// BatchConfig holds settings for one batch conversion run.
type BatchConfig struct {
	// Dir is the directory scanned for sources. Not recursive.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Suffix selects source files by name (case-sensitive), e.g. ".svg".
	Suffix string `json:"suffix" yaml:"suffix" mapstructure:"suffix"`

	// OutputExt replaces the source extension to form the output path.
	OutputExt string `json:"ext" yaml:"ext" mapstructure:"ext"`

	// Width and Height are the output dimensions in pixels.
	Width  int `json:"width" yaml:"width" mapstructure:"width"`
	Height int `json:"height" yaml:"height" mapstructure:"height"`

	// Backend selects the rasterizer: auto, rsvg, inkscape, or native.
	Backend Backend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Jobs bounds the number of conversions running at once (default 1).
	Jobs int `json:"jobs" yaml:"jobs" mapstructure:"jobs"`

	// SkipExisting skips sources whose output is at least as new as the source.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing" mapstructure:"skip-existing"`

	// Verify sniffs each written output and fails the job when its content
	// does not match OutputExt.
	Verify bool `json:"verify" yaml:"verify" mapstructure:"verify"`

	// Strict makes the CLI exit non-zero when any job failed.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`

	// Ledger is the SQLite database path for run history. Empty disables it.
	Ledger string `json:"ledger,omitempty" yaml:"ledger,omitempty" mapstructure:"ledger"`

	// Report is the YAML or JSON run report path. Empty disables it.
	Report string `json:"report,omitempty" yaml:"report,omitempty" mapstructure:"report"`
}

// DefaultBatchConfig returns the configuration of a bare invocation.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		Dir:       DefaultDir,
		Suffix:    DefaultSuffix,
		OutputExt: DefaultOutputExt,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Backend:   BackendAuto,
		Jobs:      DefaultJobs,
	}
}

// Validate reports the first setting that cannot produce a run.
func (c BatchConfig) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("directory must not be empty")
	}
	if c.Suffix == "" {
		return fmt.Errorf("source suffix must not be empty")
	}
	if c.OutputExt == "" || c.OutputExt[0] != '.' {
		return fmt.Errorf("output extension %q must start with a dot", c.OutputExt)
	}
	if c.OutputExt == c.Suffix {
		return fmt.Errorf("output extension %q equals the source suffix", c.OutputExt)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("output size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Jobs <= 0 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	for _, b := range Backends {
		if c.Backend == b {
			return nil
		}
	}
	return fmt.Errorf("unknown backend %q (want auto, rsvg, inkscape, or native)", c.Backend)
}
