// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/svgbatch/internal/tool"
	"github.com/pdiddy/svgbatch/pkg/types"
)

// NewRasterizer builds the Rasterizer for backend. BackendAuto prefers an
// installed external tool and falls back to the native renderer. An explicit
// tool that is missing only draws a warning: each job then fails on its own
// and the batch still runs to the end.
func NewRasterizer(ctx context.Context, backend types.Backend, logger *log.Logger) (Rasterizer, error) {
	switch backend {
	case types.BackendRsvg:
		return newExplicitRasterizer(ctx, tool.Rsvg(), logger), nil
	case types.BackendInkscape:
		return newExplicitRasterizer(ctx, tool.Inkscape(), logger), nil
	case types.BackendNative:
		return NativeRasterizer{}, nil
	case types.BackendAuto, "":
		t, err := tool.Detect(ctx)
		if errors.Is(err, tool.ErrToolNotFound) {
			logger.Warn("no external rasterizer found, using native renderer", "err", err)
			return NativeRasterizer{}, nil
		}
		if err != nil {
			return nil, err
		}
		return NewExternalRasterizer(t), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func newExplicitRasterizer(ctx context.Context, t tool.Tool, logger *log.Logger) *ExternalRasterizer {
	if !t.Available(ctx) {
		logger.Warn("rasterizer is not installed or not operational, every file will fail", "tool", t.Name())
	}
	return NewExternalRasterizer(t)
}
