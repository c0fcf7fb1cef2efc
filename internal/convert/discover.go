// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/svgbatch/pkg/types"
)

// ListSources returns the regular files directly inside dir whose names end
// with suffix, sorted by name. Subdirectories are not entered.
func ListSources(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if len(name) <= len(suffix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		path := filepath.Join(dir, name)
		if !isRegular(path, entry) {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// isRegular reports whether entry is a regular file, following symlinks.
func isRegular(path string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(path)
		return err == nil && info.Mode().IsRegular()
	}
	return entry.Type().IsRegular()
}

// OutputPath derives the raster path for src by replacing its extension
// with ext: "icons/a.svg" becomes "icons/a.png".
func OutputPath(src, ext string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ext
}

// PlanJobs enumerates cfg.Dir and builds one Job per matching source.
func PlanJobs(cfg types.BatchConfig) ([]types.Job, error) {
	sources, err := ListSources(cfg.Dir, cfg.Suffix)
	if err != nil {
		return nil, err
	}
	jobs := make([]types.Job, len(sources))
	for i, src := range sources {
		jobs[i] = types.Job{
			SourcePath: src,
			OutputPath: OutputPath(src, cfg.OutputExt),
			Width:      cfg.Width,
			Height:     cfg.Height,
		}
	}
	return jobs, nil
}
