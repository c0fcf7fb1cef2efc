// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert rasterizes a directory of SVG files with pluggable backends.
// Each source becomes a sibling raster file of fixed size. A failed source is
// logged and the batch moves on to the next one.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/svgbatch/internal/tool"
	"github.com/pdiddy/svgbatch/pkg/types"
)

// Rasterizer writes the raster output of one job. Different backends
// (rsvg-convert, inkscape, in-process oksvg) implement this interface.
type Rasterizer interface {
	// Name identifies the backend in logs and reports.
	Name() string

	// Rasterize reads job.SourcePath and writes job.OutputPath at
	// job.Width x job.Height.
	Rasterize(ctx context.Context, job types.Job) error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
	Cancelled int

	// Results lists every job in enumeration order.
	Results []types.JobResult
}

// Total returns the total number of sources processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed + r.Cancelled
}

// HasFailures reports whether any source failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Options controls per-job behavior of a batch.
type Options struct {
	SkipExisting bool
	Verify       bool
	Jobs         int
}

// OptionsFrom extracts the per-job options from a BatchConfig.
func OptionsFrom(cfg types.BatchConfig) Options {
	return Options{SkipExisting: cfg.SkipExisting, Verify: cfg.Verify, Jobs: cfg.Jobs}
}

// ConvertFile runs one job through r and returns its result. It never aborts
// the caller: every failure is folded into the returned JobResult.
func ConvertFile(ctx context.Context, r Rasterizer, job types.Job, opts Options, logger *log.Logger) types.JobResult {
	name := filepath.Base(job.SourcePath)
	start := time.Now()
	res := types.JobResult{Job: job}

	if opts.SkipExisting && upToDate(job) {
		logger.Debug("skipped", "src", name, "reason", "output up to date")
		res.Status = types.ConversionSkipped
		return res
	}

	err := r.Rasterize(ctx, job)
	if err == nil && opts.Verify {
		err = verifyOutput(job.OutputPath)
	}
	res.Duration = time.Since(start)

	if err != nil && ctx.Err() != nil {
		res.Status = types.ConversionCancelled
		res.Err = err
		logger.Warn("cancelled", "src", name, "err", err)
		return res
	}
	if err != nil {
		res.Status = types.ConversionFailed
		res.Err = err
		var exitErr *tool.ExitError
		if errors.As(err, &exitErr) {
			res.Stderr = exitErr.Stderr
		}
		logger.Error("failed", "src", name, "err", err)
		return res
	}

	logger.Info("converted", "src", name, "out", filepath.Base(job.OutputPath),
		"took", res.Duration.Round(time.Millisecond))
	res.Status = types.ConversionDone
	return res
}

// ConvertBatch processes jobs through r, logging per-file status and a
// summary. Jobs run one at a time unless opts.Jobs > 1. The returned error is
// non-nil only when ctx is cancelled; jobs not started by then are absent
// from the result.
func ConvertBatch(ctx context.Context, r Rasterizer, jobs []types.Job, opts Options, logger *log.Logger) (BatchResult, error) {
	results := make([]types.JobResult, len(jobs))
	started := make([]bool, len(jobs))

	limit := opts.Jobs
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		i, job := i, job
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			started[i] = true
			results[i] = ConvertFile(gctx, r, job, opts, logger)
			return nil
		})
	}
	_ = g.Wait()

	var result BatchResult
	for i, res := range results {
		if !started[i] {
			continue
		}
		result.Results = append(result.Results, res)
		switch res.Status {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionSkipped:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		case types.ConversionCancelled:
			result.Cancelled++
		}
	}

	summary := fmt.Sprintf("Batch summary: %d converted, %d skipped, %d failed", result.Converted, result.Skipped, result.Failed)
	if result.Cancelled > 0 {
		summary += fmt.Sprintf(", %d cancelled", result.Cancelled)
	}
	logger.Info(fmt.Sprintf("%s (total: %d)", summary, result.Total()))

	return result, ctx.Err()
}

// ConvertDir enumerates cfg.Dir and converts every matching source.
// Enumeration errors abort before any conversion runs.
func ConvertDir(ctx context.Context, r Rasterizer, cfg types.BatchConfig, logger *log.Logger) (BatchResult, error) {
	jobs, err := PlanJobs(cfg)
	if err != nil {
		return BatchResult{}, err
	}
	logger.Debug("planned batch", "dir", cfg.Dir, "sources", len(jobs), "backend", r.Name())
	if len(jobs) == 0 {
		logger.Info("no matching files", "dir", cfg.Dir, "suffix", cfg.Suffix)
	}
	return ConvertBatch(ctx, r, jobs, OptionsFrom(cfg), logger)
}

// upToDate reports whether job's output exists and is not older than its source.
func upToDate(job types.Job) bool {
	out, err := os.Stat(job.OutputPath)
	if err != nil {
		return false
	}
	src, err := os.Stat(job.SourcePath)
	if err != nil {
		return false
	}
	return !out.ModTime().Before(src.ModTime())
}
