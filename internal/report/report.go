// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes a machine-readable summary of one batch run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/svgbatch/pkg/types"
)

// Report is the document written by Write.
type Report struct {
	Run       types.RunInfo `json:"run" yaml:"run"`
	Converted int           `json:"converted" yaml:"converted"`
	Skipped   int           `json:"skipped" yaml:"skipped"`
	Failed    int           `json:"failed" yaml:"failed"`
	Cancelled int           `json:"cancelled,omitempty" yaml:"cancelled,omitempty"`
	Jobs      []Entry       `json:"jobs" yaml:"jobs"`
}

// Entry is one job in a Report.
type Entry struct {
	Source     string `json:"source" yaml:"source"`
	Output     string `json:"output" yaml:"output"`
	Status     string `json:"status" yaml:"status"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	Stderr     string `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	DurationMS int64  `json:"duration_ms" yaml:"duration_ms"`
}

// New builds a Report from a run and its results.
func New(info types.RunInfo, results []types.JobResult) Report {
	r := Report{Run: info, Jobs: make([]Entry, len(results))}
	for i, res := range results {
		e := Entry{
			Source:     res.Job.SourcePath,
			Output:     res.Job.OutputPath,
			Status:     string(res.Status),
			Stderr:     res.Stderr,
			DurationMS: res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		r.Jobs[i] = e

		switch res.Status {
		case types.ConversionDone:
			r.Converted++
		case types.ConversionSkipped:
			r.Skipped++
		case types.ConversionFailed:
			r.Failed++
		case types.ConversionCancelled:
			r.Cancelled++
		}
	}
	return r
}

// Write marshals r as YAML (.yaml, .yml) or JSON (.json) depending on the
// extension of path.
func Write(path string, r Report) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(&r)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case ".json":
		data, err = json.MarshalIndent(&r, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported report format %q (want .yaml, .yml, or .json)", ext)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
