package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/svgbatch/internal/convert"
	"github.com/pdiddy/svgbatch/internal/ledger"
	"github.com/pdiddy/svgbatch/internal/report"
	"github.com/pdiddy/svgbatch/pkg/types"
)

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	r, err := convert.NewRasterizer(ctx, cfg.Backend, logger)
	if err != nil {
		return err
	}
	logger.Debug("using rasterizer", "backend", r.Name(), "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))

	info := types.RunInfo{
		ID:        uuid.NewString(),
		Dir:       cfg.Dir,
		Backend:   r.Name(),
		Width:     cfg.Width,
		Height:    cfg.Height,
		StartedAt: time.Now(),
	}

	p := newProgress(logger)
	result, runErr := convert.ConvertDir(ctx, r, cfg, logger)
	info.FinishedAt = time.Now()
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	p.done(fmt.Sprintf("Processed %d file(s) in %s", result.Total(), cfg.Dir))

	// Record what ran even when interrupted.
	saveCtx := context.WithoutCancel(ctx)
	if err := recordRun(saveCtx, cfg, info, result, logger); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	if cfg.Strict && result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// recordRun writes the optional report and ledger entries for a run.
func recordRun(ctx context.Context, cfg types.BatchConfig, info types.RunInfo, result convert.BatchResult, logger *log.Logger) error {
	if cfg.Report != "" {
		if err := report.Write(cfg.Report, report.New(info, result.Results)); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		logger.Debug("wrote report", "path", cfg.Report)
	}

	if cfg.Ledger != "" {
		store, err := ledger.Open(cfg.Ledger)
		if err != nil {
			return fmt.Errorf("opening ledger: %w", err)
		}
		defer store.Close()
		if _, err := store.RecordRun(ctx, info, result.Results); err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
		logger.Debug("recorded run", "id", info.ID, "ledger", cfg.Ledger)
	}
	return nil
}
