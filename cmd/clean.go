package cmd

import (
	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"uniparq/internal/ioruns"
	"uniparq/pkg/config"
)

// getCleanCmd returns the clean command.
func getCleanCmd() *cobra.Command {
	var keep int

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Prune old run directories and ledger rows",
		Long: `Clean removes run directories beyond the newest --keep and prunes
the ledger to match. The default keep count comes from configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("keep") {
				keep = cfg.Convert.KeepRuns
			}
			err := runClean(keep)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	cleanCmd.Flags().IntVarP(
		&keep, "keep", "k", 0,
		"number of runs to keep",
	)

	return cleanCmd
}

func runClean(keep int) error {
	runsDir := config.RunsDir(cfg.HomeDir)

	removed, err := ioruns.Cleanup(runsDir, keep)
	if err != nil {
		return err
	}

	ledger, err := ioruns.OpenLedger(config.LedgerPath(cfg.HomeDir))
	if err != nil {
		return err
	}
	defer ledger.Close()

	pruned, err := ledger.Prune(keep)
	if err != nil {
		return err
	}

	gn.Info("Removed <em>%d</em> run directories, pruned <em>%d</em> ledger rows.",
		len(removed), pruned)
	return nil
}
