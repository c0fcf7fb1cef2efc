// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/svgbatch/internal/tool"
	"github.com/pdiddy/svgbatch/pkg/types"
)

// ExternalRasterizer converts SVGs by running an external tool that writes
// the output file itself. The tool is injected at construction time.
type ExternalRasterizer struct {
	tool tool.Tool
}

// NewExternalRasterizer wraps t. Availability is not checked here; a missing
// binary surfaces per job as an error wrapping tool.ErrToolNotFound.
func NewExternalRasterizer(t tool.Tool) *ExternalRasterizer {
	return &ExternalRasterizer{tool: t}
}

// Name returns the tool's binary name.
func (e *ExternalRasterizer) Name() string { return e.tool.Name() }

// Rasterize invokes the tool for job. The tool's stderr travels inside the
// returned *tool.ExitError on a non-zero exit.
func (e *ExternalRasterizer) Rasterize(ctx context.Context, job types.Job) error {
	if _, err := os.Stat(job.SourcePath); err != nil {
		return fmt.Errorf("opening SVG %s: %w", job.SourcePath, err)
	}

	_, err := e.tool.Invoke(ctx, tool.Request{
		Input:  job.SourcePath,
		Output: job.OutputPath,
		Width:  job.Width,
		Height: job.Height,
	})
	if err != nil {
		return fmt.Errorf("rasterizing %s with %s: %w", job.SourcePath, e.tool.Name(), err)
	}
	return nil
}
