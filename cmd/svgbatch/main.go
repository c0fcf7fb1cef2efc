// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the svgbatch CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/svgbatch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts the directory when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "svgbatch [dir]",
	Short: "Rasterize every SVG in a directory to fixed-size PNG files",
	Long: `svgbatch converts each .svg file in a directory (default: the current
directory) into a 512x512 .png with the same base name, next to the source.
Rasterization is done by rsvg-convert or inkscape when installed, or by the
built-in renderer otherwise.

A file that fails to convert is logged and the batch continues with the next
one. The exit status is 0 once every file has been attempted; pass --strict to
exit 1 when any file failed.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.InfoLevel
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = log.DebugLevel
		}
		cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
	},
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./svgbatch.yaml or ~/.config/svgbatch/config.yaml)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("ledger", "", "SQLite file recording run history (disabled when empty)")

	f := rootCmd.Flags()
	f.String("suffix", types.DefaultSuffix, "convert files whose names end with this suffix")
	f.String("ext", types.DefaultOutputExt, "extension of the raster outputs")
	f.Int("width", types.DefaultWidth, "output width in pixels")
	f.Int("height", types.DefaultHeight, "output height in pixels")
	f.String("backend", string(types.BackendAuto), "rasterizer: auto, rsvg, inkscape, or native")
	f.IntP("jobs", "j", types.DefaultJobs, "number of conversions to run at once")
	f.Bool("skip-existing", false, "skip sources whose output is already up to date")
	f.Bool("verify", false, "check that each output's content matches its extension")
	f.Bool("strict", false, "exit 1 when any file failed to convert")
	f.String("report", "", "write a YAML or JSON run report to this path")

	viper.SetDefault("dir", types.DefaultDir)
	_ = viper.BindPFlags(f)
	_ = viper.BindPFlag("ledger", pf.Lookup("ledger"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("svgbatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "svgbatch"))
		}
	}

	viper.SetEnvPrefix("SVGBATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, config file, environment and flags, then
// applies the optional directory argument.
func loadConfig(args []string) (types.BatchConfig, error) {
	cfg := types.DefaultBatchConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if len(args) == 1 {
		cfg.Dir = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
