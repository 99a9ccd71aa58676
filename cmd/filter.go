package cmd

import (
	"context"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"uniparq/internal/iofilter"
)

// getFilterCmd returns the filter command.
func getFilterCmd() *cobra.Command {
	var (
		input  string
		outDir string
		taxa   []int32
	)

	filterCmd := &cobra.Command{
		Use:   "filter",
		Short: "Split a converted Parquet file by organism",
		Long: `Filter reads a converted Parquet file and writes one file per
requested NCBI taxon ID, keeping the same schema. Rows stream through
row group by row group, so arbitrarily large inputs fit in memory.

Examples:
  # Human and mouse into separate files
  uniparq filter -i sprot.parquet -t 9606,10090

  # Into a chosen directory
  uniparq filter -i sprot.parquet -t 9606 -d ./by_taxon`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFilter(input, outDir, taxa)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	filterCmd.Flags().StringVarP(
		&input, "input", "i", "",
		"converted Parquet file",
	)
	filterCmd.MarkFlagRequired("input")
	filterCmd.Flags().Int32SliceVarP(
		&taxa, "taxa", "t", []int32{},
		"NCBI taxon IDs to extract",
	)
	filterCmd.MarkFlagRequired("taxa")
	filterCmd.Flags().StringVarP(
		&outDir, "out-dir", "d", "",
		"output directory (default: next to the input)",
	)

	return filterCmd
}

func runFilter(input, outDir string, taxa []int32) error {
	ctx := context.Background()
	if outDir == "" {
		outDir = filepath.Dir(input)
	}

	counts, err := iofilter.Split(ctx, input, outDir, taxa, cfg)
	if err != nil {
		return err
	}

	for taxon, n := range counts {
		gn.Info("Taxon <em>%d</em>: %s rows",
			taxon, humanize.Comma(int64(n)))
	}
	return nil
}
