package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"

	"uniparq/internal/ioruns"
	"uniparq/pkg/config"
)

// getRunsCmd returns the runs command.
func getRunsCmd() *cobra.Command {
	var limit int

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List past conversion runs",
		Long: `Runs lists recent conversions from the run ledger, newest first.
The ledger outlives run directories, so history survives cleaning.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRuns(limit)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	runsCmd.Flags().IntVarP(
		&limit, "number", "n", 20,
		"number of runs to show",
	)

	return runsCmd
}

func runRuns(limit int) error {
	ledger, err := ioruns.OpenLedger(config.LedgerPath(cfg.HomeDir))
	if err != nil {
		return err
	}
	defer ledger.Close()

	rows, err := ledger.List(limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		gn.Info("No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tSTATUS\tENTRIES\tROWS\tDURATION")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.RunID,
			r.Timestamp,
			r.Status,
			humanize.Comma(int64(r.Entries)),
			humanize.Comma(int64(r.RowsEmitted)),
			gnfmt.TimeString(r.DurationSecs),
		)
	}
	return w.Flush()
}
