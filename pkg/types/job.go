// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of a single conversion job.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"

	// ConversionCancelled marks a job that was interrupted by shutdown
	// rather than failing on its own.
	ConversionCancelled ConversionStatus = "cancelled"
)

// Job is one source file to rasterize. OutputPath is always the source path
// with its extension replaced; it lives in the same directory.
type Job struct {
	SourcePath string `json:"source" yaml:"source"`
	OutputPath string `json:"output" yaml:"output"`
	Width      int    `json:"width" yaml:"width"`
	Height     int    `json:"height" yaml:"height"`
}

// JobResult records what happened to a Job.
type JobResult struct {
	Job      Job
	Status   ConversionStatus
	Err      error
	Stderr   string
	Duration time.Duration
}

// RunInfo describes one batch run for the ledger and report.
type RunInfo struct {
	ID         string    `json:"id" yaml:"id"`
	Dir        string    `json:"dir" yaml:"dir"`
	Backend    string    `json:"backend" yaml:"backend"`
	Width      int       `json:"width" yaml:"width"`
	Height     int       `json:"height" yaml:"height"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}
