//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and rasterizes every SVG in dir with the default
// settings (512x512 PNG next to each source).
func Convert(dir string) error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "--verbose", dir); err != nil {
		return fmt.Errorf("converting %s: %w", dir, err)
	}
	return nil
}
