// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/svgbatch/internal/ledger"
	"github.com/pdiddy/svgbatch/pkg/types"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
<circle cx="5" cy="5" r="4" fill="#0000ff"/>
</svg>`

// resetFlags returns the shared root command's flags to their defaults, so
// that viper sees unchanged flags again, before and after the test.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		for _, fs := range []*pflag.FlagSet{rootCmd.Flags(), rootCmd.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		rootCmd.SetArgs(nil)
	}
	reset()
	t.Cleanup(reset)
}

func TestLoadConfigDefaults(t *testing.T) {
	resetFlags(t)

	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultBatchConfig(), cfg)

	cfg, err = loadConfig([]string{"icons"})
	require.NoError(t, err)
	assert.Equal(t, "icons", cfg.Dir)
}

func TestRootCommandConvertsDirectory(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	for _, name := range []string{"a.svg", "b.svg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(testSVG), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))
	reportPath := filepath.Join(dir, "out", "report.yaml")
	ledgerPath := filepath.Join(t.TempDir(), "ledger.db")

	rootCmd.SetArgs([]string{
		"--backend", "native",
		"--width", "32", "--height", "32",
		"--verify",
		"--report", reportPath,
		"--ledger", ledgerPath,
		dir,
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	for _, name := range []string{"a.png", "b.png"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "notes.png"))
	assert.FileExists(t, reportPath)

	store, err := ledger.Open(ledgerPath)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Converted)
	assert.Equal(t, "native", runs[0].Backend)
}

func TestLoadConfigFlagsDoNotLeak(t *testing.T) {
	resetFlags(t)
	require.NoError(t, rootCmd.Flags().Set("width", "48"))
	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.Width)

	resetFlags(t)
	cfg, err = loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultWidth, cfg.Width)
}

func TestRootCommandExitStatus(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		noPath  bool
		strict  bool
		wantErr string
	}{
		{name: "native failure exits zero", backend: "native"},
		{name: "native failure with strict", backend: "native", strict: true, wantErr: "1 file(s) failed conversion"},
		{name: "missing tool exits zero", backend: "rsvg", noPath: true},
		{name: "missing tool with strict", backend: "rsvg", noPath: true, strict: true, wantErr: "2 file(s) failed conversion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			dir := t.TempDir()
			for _, name := range []string{"bad.svg", "ok.svg"} {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(testSVG), 0o644))
			}
			// A directory in place of the output makes writing bad.png fail.
			require.NoError(t, os.Mkdir(filepath.Join(dir, "bad.png"), 0o755))
			if tt.noPath {
				t.Setenv("PATH", t.TempDir())
			}

			args := []string{"--backend", tt.backend, "--width", "16", "--height", "16"}
			if tt.strict {
				args = append(args, "--strict")
			}
			rootCmd.SetArgs(append(args, dir))
			err := rootCmd.ExecuteContext(context.Background())

			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			if tt.backend == "native" {
				assert.FileExists(t, filepath.Join(dir, "ok.png"), "later files still convert")
			}
		})
	}
}
