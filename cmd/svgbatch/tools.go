package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/svgbatch/internal/convert"
	"github.com/pdiddy/svgbatch/internal/tool"
	"github.com/pdiddy/svgbatch/pkg/types"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show which rasterizers are installed",
	Long: `Tools checks each supported external rasterizer (rsvg-convert, inkscape)
and prints which backend --backend=auto would select.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		for _, t := range tool.All() {
			status := "missing"
			if t.Available(ctx) {
				status = "available"
			}
			fmt.Printf("%-14s %s\n", t.Name(), status)
		}
		fmt.Printf("%-14s %s\n", "native", "available (built in)")

		r, err := convert.NewRasterizer(ctx, types.BackendAuto, log.New(io.Discard))
		if err != nil {
			return err
		}
		fmt.Printf("\nauto selects: %s\n", r.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
