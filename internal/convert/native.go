// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/pdiddy/svgbatch/pkg/types"
)

const nativeName = "native"

// NativeRasterizer renders SVGs in-process with oksvg and rasterx. It
// supports the SVG subset oksvg understands (no text, no filters).
type NativeRasterizer struct{}

// Name returns "native".
func (NativeRasterizer) Name() string { return nativeName }

// Rasterize parses the source and draws it stretched to the job's size, the
// same way rsvg-convert and inkscape treat an explicit width and height.
// The output format follows the output path's extension.
func (NativeRasterizer) Rasterize(ctx context.Context, job types.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(job.SourcePath)
	if err != nil {
		return fmt.Errorf("opening SVG %s: %w", job.SourcePath, err)
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return fmt.Errorf("parsing SVG %s: %w", job.SourcePath, err)
	}

	w, h := job.Width, job.Height
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	if err := imaging.Save(img, job.OutputPath); err != nil {
		return fmt.Errorf("writing %s: %w", job.OutputPath, err)
	}
	return nil
}
