package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"

	"uniparq/internal/iologger"
	"uniparq/internal/ioparse"
	"uniparq/internal/iopipeline"
	"uniparq/internal/ioruns"
	"uniparq/internal/iosink"
	"uniparq/pkg/config"
	"uniparq/pkg/fasta"
	"uniparq/pkg/metrics"
	"uniparq/pkg/transform"
)

// getConvertCmd returns the convert command.
func getConvertCmd() *cobra.Command {
	var (
		input       string
		output      string
		fastaPath   string
		batchSize   int
		chanCap     int
		onMalformed string
		noProgress  bool
	)

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a UniProtKB XML dump into a Parquet file",
		Long: `Convert streams a UniProtKB XML dump (.xml or .xml.gz) into a
Parquet file. One entry is parsed at a time; rows travel to the writer
in bounded batches, so memory stays flat for dumps of any size.

Each entry produces one row for the canonical sequence and one per
declared isoform. Isoform sequences come from the sidecar FASTA when
one is given, otherwise they are computed by applying the entry's
splice-variant edits. Position-bearing annotations are rewritten into
each isoform's coordinate frame; annotations that cannot be mapped are
counted by failure class and dropped, never fatal.

Every run leaves a timestamped directory under
~/.local/share/uniparq/runs with report.yaml, config_snapshot.yaml and
etl.log, and a row in the run ledger.

Examples:
  # Convert a compressed dump
  uniparq convert -i sprot.xml.gz -o sprot.parquet

  # Use the varsplic sidecar for isoform sequences
  uniparq convert -i sprot.xml.gz -f varsplic.fasta -o sprot.parquet

  # Abort on entries without a primary accession
  uniparq convert -i sprot.xml.gz --on-malformed abort`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runConvert(
				cmd, input, output, fastaPath, batchSize, chanCap,
				onMalformed, noProgress,
			)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	convertCmd.Flags().StringVarP(
		&input, "input", "i", "",
		"input XML dump (.xml or .xml.gz)",
	)
	convertCmd.MarkFlagRequired("input")
	convertCmd.Flags().StringVarP(
		&output, "output", "o", "",
		"output Parquet file (default: input name with .parquet)",
	)
	convertCmd.Flags().StringVarP(
		&fastaPath, "fasta", "f", "",
		"isoform sidecar FASTA file",
	)
	convertCmd.Flags().IntVarP(
		&batchSize, "batch-size", "b", 0,
		"rows per output batch",
	)
	convertCmd.Flags().IntVar(
		&chanCap, "channel-capacity", 0,
		"batches in flight between parser and writer",
	)
	convertCmd.Flags().StringVar(
		&onMalformed, "on-malformed", "",
		"policy for entries without accession: skip or abort",
	)
	convertCmd.Flags().BoolVar(
		&noProgress, "no-progress", false,
		"disable the progress bar",
	)

	return convertCmd
}

func runConvert(
	cmd *cobra.Command,
	input string,
	output string,
	fastaPath string,
	batchSize int,
	chanCap int,
	onMalformed string,
	noProgress bool,
) error {
	ctx := context.Background()

	if output == "" {
		output = defaultOutput(input)
	}

	var convertOpts []config.Option
	convertOpts = append(convertOpts,
		config.OptInputPath(input),
		config.OptOutputPath(output),
	)
	if cmd.Flags().Changed("fasta") {
		convertOpts = append(convertOpts, config.OptFastaPath(fastaPath))
	}
	if cmd.Flags().Changed("batch-size") {
		convertOpts = append(convertOpts, config.OptBatchSize(batchSize))
	}
	if cmd.Flags().Changed("channel-capacity") {
		convertOpts = append(
			convertOpts, config.OptChannelCapacity(chanCap),
		)
	}
	if cmd.Flags().Changed("on-malformed") {
		convertOpts = append(
			convertOpts, config.OptOnMalformed(onMalformed),
		)
	}
	cfg.Update(convertOpts)

	rc, err := ioruns.NewRunContext(config.RunsDir(cfg.HomeDir))
	if err != nil {
		return err
	}
	if err = ioruns.WriteConfigSnapshot(rc, cfg); err != nil {
		return err
	}

	// From here on logs belong to the run.
	if err = iologger.InitRun(rc.Dir, cfg.Log); err != nil {
		return err
	}
	slog.Info("Starting conversion",
		"run_id", rc.ID, "input", input, "output", output)

	m := metrics.New()
	runErr := convert(ctx, cfg, m, noProgress)

	rep := ioruns.NewReport(rc, cfg, m, runErr)
	if err = rep.Write(rc); err != nil {
		return err
	}
	if err = recordRun(rep); err != nil {
		return err
	}

	removed, err := ioruns.Cleanup(
		config.RunsDir(cfg.HomeDir), cfg.Convert.KeepRuns,
	)
	if err != nil {
		return err
	}
	if len(removed) > 0 {
		slog.Info("Removed old runs", "count", len(removed))
	}

	if runErr != nil {
		return runErr
	}

	printSummary(rep)
	return nil
}

// convert assembles and drives the parse, transform, write pipeline.
func convert(
	ctx context.Context,
	cfg *config.Config,
	m *metrics.Metrics,
	noProgress bool,
) error {
	sidecar, err := loadSidecar(cfg.Convert.FastaPath)
	if err != nil {
		return err
	}

	parser, err := ioparse.New(cfg.Convert.InputPath, cfg, m)
	if err != nil {
		return err
	}
	defer parser.Close()

	sink, err := iosink.New(cfg.Convert.OutputPath, cfg, m)
	if err != nil {
		return err
	}

	pl := iopipeline.New(parser, transform.New(m, sidecar), sink, cfg)

	stop := startProgress(cfg.Convert.InputPath, parser, noProgress)
	defer stop()

	return pl.Run(ctx)
}

func loadSidecar(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, ioparse.SidecarError(path, err)
	}
	defer f.Close()

	seqs, err := fasta.Parse(f)
	if err != nil {
		return nil, ioparse.SidecarError(path, err)
	}
	gn.Info("Loaded <em>%s</em> isoform sequences from sidecar",
		humanize.Comma(int64(len(seqs))))
	return seqs, nil
}

// startProgress renders a byte-based bar over the compressed input.
// The returned function stops and clears it.
func startProgress(
	path string, parser *ioparse.Parser, disabled bool,
) func() {
	size, err := ioparse.InputSize(path)
	if disabled || err != nil || size == 0 {
		return func() {}
	}

	bar := pb.Full.Start64(size)
	bar.Set("prefix", "converting ")
	bar.Set(pb.Bytes, true)
	bar.Set(pb.CleanOnFinish, true)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.SetCurrent(int64(parser.BytesRead()))
			}
		}
	}()

	return func() {
		close(done)
		bar.SetCurrent(int64(parser.BytesRead()))
		bar.Finish()
	}
}

func recordRun(rep *ioruns.Report) error {
	ledger, err := ioruns.OpenLedger(config.LedgerPath(cfg.HomeDir))
	if err != nil {
		return err
	}
	defer ledger.Close()
	return ledger.Record(rep)
}

func printSummary(rep *ioruns.Report) {
	perf := rep.Performance
	gn.Info(`Conversion complete
Entries: %s, rows: %s, batches: %s.
Annotations mapped: %s, dropped: %s.
Read %s, wrote %s in %s.`,
		humanize.Comma(int64(perf.EntriesParsed)),
		humanize.Comma(int64(perf.RowsEmitted)),
		humanize.Comma(int64(perf.BatchesEmitted)),
		humanize.Comma(int64(perf.MapMapped)),
		humanize.Comma(int64(perf.MapFailed)),
		humanize.Bytes(perf.BytesRead),
		humanize.Bytes(perf.BytesWritten),
		gnfmt.TimeString(rep.DurationSecs),
	)
}

// defaultOutput derives the Parquet path from the input name.
func defaultOutput(input string) string {
	base := input
	for _, suffix := range []string{".gz", ".xml"} {
		if len(base) > len(suffix) &&
			base[len(base)-len(suffix):] == suffix {
			base = base[:len(base)-len(suffix)]
		}
	}
	return base + ".parquet"
}
