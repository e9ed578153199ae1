package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Active-Apparel-Group/data-orchestration/internal/fetcher"
	"github.com/Active-Apparel-Group/data-orchestration/internal/matching"
	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
	"github.com/Active-Apparel-Group/data-orchestration/internal/pipeline"
	"github.com/Active-Apparel-Group/data-orchestration/internal/report"
	"github.com/Active-Apparel-Group/data-orchestration/internal/warehouse"
)

// matchOptions holds the match command's flags.
type matchOptions struct {
	Packed     string
	Shipped    string
	Orders     string
	Customers  string
	Threshold  float64
	Sheet      string
	Output     string
	ResultsCSV string
	QualityCSV string
	SummaryCSV string
	FromDB     bool
	Save       bool
}

var matchOpts matchOptions

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match packed and shipped lines against orders",
	Long: `Loads packed, shipped and order extracts (local CSV/TSV/XLSX files, http(s) or ftp URLs,
or the warehouse staging tables with --from-db), resolves canonical customers, runs exact then
fuzzy matching, flags quantity variances and writes the report.`,
	Example: `  audit-cli match --packed packed.xlsx --shipped shipped.csv --orders orders.csv --output audit.xlsx
  audit-cli match --from-db --save --threshold 80`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("match"); err != nil {
			return err
		}
		return runMatch(ctx, matchOpts, os.Stdout)
	},
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchOpts.Packed, "packed", "", "packed extract (path or URL)")
	f.StringVar(&matchOpts.Shipped, "shipped", "", "shipped extract (path or URL)")
	f.StringVar(&matchOpts.Orders, "orders", "", "orders extract (path or URL)")
	f.StringVar(&matchOpts.Customers, "customers", "", "canonical customer mapping YAML (default from config)")
	f.Float64Var(&matchOpts.Threshold, "threshold", 0, "fuzzy match threshold 0-100 (default from config)")
	f.StringVar(&matchOpts.Sheet, "sheet", "", "XLSX sheet name to read (default first sheet)")
	f.StringVar(&matchOpts.Output, "output", "", "write the XLSX report to this path")
	f.StringVar(&matchOpts.ResultsCSV, "results-csv", "", "write match results as CSV")
	f.StringVar(&matchOpts.QualityCSV, "quality-csv", "", "write quality groups as CSV")
	f.StringVar(&matchOpts.SummaryCSV, "summary-csv", "", "write the customer summary as CSV")
	f.BoolVar(&matchOpts.FromDB, "from-db", false, "read inputs from the warehouse staging tables")
	f.BoolVar(&matchOpts.Save, "save", false, "persist results to the warehouse audit schema")
	rootCmd.AddCommand(matchCmd)
}

func (o matchOptions) validate() error {
	if o.Threshold < 0 || o.Threshold > 100 {
		return eris.New("--threshold must be between 0 and 100")
	}
	if o.FromDB {
		return nil
	}
	if o.Orders == "" {
		return eris.New("--orders is required unless --from-db is set")
	}
	if o.Packed == "" && o.Shipped == "" {
		return eris.New("at least one of --packed or --shipped is required")
	}
	return nil
}

func runMatch(ctx context.Context, opts matchOptions, out io.Writer) error {
	if err := opts.validate(); err != nil {
		return err
	}

	lookup, err := loadCustomers(opts.Customers)
	if err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	var sink pipeline.Saver
	var in pipeline.Inputs
	if opts.FromDB || opts.Save {
		pool, err := connectWarehouse(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if opts.Save {
			if err := warehouse.Migrate(ctx, pool); err != nil {
				return eris.Wrap(err, "match: migrate warehouse")
			}
			sink = warehouse.NewSink(pool)
		}
		if opts.FromDB {
			in, err = pipeline.LoadWarehouse(ctx, warehouse.NewSource(pool, warehouseTables()))
			if err != nil {
				return err
			}
		}
	}
	if !opts.FromDB {
		loadOpts := fetcher.LoadOptions{XLSX: fetcher.XLSXOptions{SheetName: opts.Sheet}}
		src := pipeline.FileSources{Packed: opts.Packed, Shipped: opts.Shipped, Orders: opts.Orders}
		in, err = pipeline.LoadFiles(ctx, src, loadOpts, remoteOptions())
		if err != nil {
			return err
		}
	}

	p := pipeline.New(st, lookup, sink, resolveThreshold(opts.Threshold))
	res, err := p.Run(ctx, in)
	if err != nil {
		return err
	}

	if err := writeOutputs(opts, res.Output); err != nil {
		if ferr := st.FailRun(ctx, res.Run.ID, err.Error()); ferr != nil {
			zap.L().Warn("match: failed to record failure", zap.Error(ferr))
		}
		return err
	}

	formatMatchSummary(out, res.Run, res.Output.Summary)
	return nil
}

func writeOutputs(opts matchOptions, out *matching.Output) error {
	if opts.Output != "" {
		if err := report.WriteWorkbook(opts.Output, out); err != nil {
			return err
		}
	}
	csvs := []struct {
		path  string
		write func(io.Writer) error
	}{
		{opts.ResultsCSV, func(w io.Writer) error { return report.WriteResultsCSV(w, out.Results) }},
		{opts.QualityCSV, func(w io.Writer) error { return report.WriteQualityCSV(w, out.Quality) }},
		{opts.SummaryCSV, func(w io.Writer) error { return report.WriteSummaryCSV(w, out.Summary) }},
	}
	for _, c := range csvs {
		if c.path == "" {
			continue
		}
		if err := writeCSVFile(c.path, c.write); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "match: create %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "match: close %s", path)
}

// formatMatchSummary writes the run header and the per-customer table to w.
func formatMatchSummary(out io.Writer, run *model.Run, summary []model.CustomerSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Run:\t%s\n", run.ID)
	_, _ = fmt.Fprintf(w, "Threshold:\t%.0f\n", run.Threshold)
	if s := run.Stats; s != nil {
		_, _ = fmt.Fprintf(w, "Rows:\t%d (exact %d, fuzzy %d, no match %d)\n",
			s.ResultRows, s.ExactMatches, s.FuzzyMatches, s.NoMatches)
		_, _ = fmt.Fprintf(w, "Exact match rate:\t%.1f%%\n", s.ExactMatchRate)
		_, _ = fmt.Fprintf(w, "Quality rate:\t%.1f%%\n", s.QualityRate)
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "CUSTOMER\tROWS\tEXACT\tFUZZY\tNO_MATCH\tEXACT%\tQUALITY%")
	for _, c := range summary {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.1f\t%.1f\n",
			c.CanonicalCustomer, c.TotalRecords,
			c.ExactMatches, c.FuzzyMatches, c.NoMatches,
			c.ExactMatchRate, c.QualityRate,
		)
	}
	_ = w.Flush()
}
