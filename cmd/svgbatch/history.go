package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/svgbatch/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past runs recorded in the ledger",
	Long: `History lists the most recent runs stored in the --ledger database,
newest first. With --run it lists the files of one run instead.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().String("run", "", "list the files of this run ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("ledger")
	if path == "" {
		return fmt.Errorf("no ledger configured: pass --ledger or set SVGBATCH_LEDGER")
	}
	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if runID, _ := cmd.Flags().GetString("run"); runID != "" {
		jobs, err := store.Jobs(ctx, runID)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			return fmt.Errorf("no files recorded for run %s", runID)
		}
		fmt.Fprintln(w, "STATUS\tSOURCE\tOUTPUT\tMS\tERROR")
		for _, j := range jobs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", j.Status, j.Source, j.Output, j.DurationMS, j.Error)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "ID\tSTARTED\tDIR\tBACKEND\tSIZE\tCONVERTED\tSKIPPED\tFAILED\tCANCELLED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\t%d\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Dir, r.Backend,
			r.Width, r.Height, r.Converted, r.Skipped, r.Failed, r.Cancelled)
	}
	return nil
}
