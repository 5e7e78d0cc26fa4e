// Package report handles the maintenance report command
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/maint-report/cmd/common"
	"fjacquet/maint-report/cmd/root"
	"fjacquet/maint-report/internal/batch"
	"fjacquet/maint-report/internal/categorizer"
	csvutil "fjacquet/maint-report/internal/common"
	"fjacquet/maint-report/internal/container"
	"fjacquet/maint-report/internal/dateutils"
	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"
	reporting "fjacquet/maint-report/internal/report"
	"fjacquet/maint-report/internal/storage"
	"fjacquet/maint-report/internal/validation"
	"fjacquet/maint-report/internal/workorders"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Options holds the report command flags.
type Options struct {
	Inputs      []string
	Output      string
	Summary     string
	Format      string
	Unmatched   string
	SQLite      string
	Origin      string
	From        string
	To          string
	Classes     []string
	TopN        int
	Fallback    bool
	Threshold   float64
	Progress    bool
	ListOrigins bool
}

// Cmd represents the report command
var Cmd = NewCommand()

// NewCommand builds the report command.
func NewCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Classify a work-order export and build the maintenance report",
		Long: `Load one or more work-order exports, apply the origin, date and class filters,
classify every description into a failure component and aggregate the result
into the maintenance report tables.

Several -i files are consolidated into one dataset; rows without an origin take
the origin named by their file.

Example:
  maint-report report -i os_campo.csv -i os_terceiros.csv --from 01/01/2024 --summary report.json
  maint-report report -i orders.csv -o classified.csv --fallback --threshold 0.8 --unmatched unmatched.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.NewContainer(cmd)
			if err != nil {
				return err
			}
			applyConfigDefaults(cmd, opts, c)
			return Run(cmd.Context(), cmd, c, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.Inputs, "input", "i", nil, "Work-order export CSV (repeatable)")
	flags.StringVarP(&opts.Output, "output", "o", "", "Write the classified work orders to this CSV file")
	flags.StringVar(&opts.Summary, "summary", "", "Write the report to this file instead of stdout")
	flags.StringVar(&opts.Format, "format", "", "Report format: json or yaml (default from config)")
	flags.StringVar(&opts.Unmatched, "unmatched", "", "Write the distinct unclassified descriptions to this CSV file")
	flags.StringVar(&opts.SQLite, "sqlite", "", "Also export the classified work orders to this SQLite database")
	flags.StringVar(&opts.Origin, "origin", "", "Only include work orders from this origin")
	flags.StringVar(&opts.From, "from", "", "Only include work orders entered on or after this date")
	flags.StringVar(&opts.To, "to", "", "Only include work orders entered on or before this date")
	flags.StringSliceVar(&opts.Classes, "class", nil, "Only include these maintenance class codes (repeatable)")
	flags.IntVar(&opts.TopN, "top", 0, "Number of fleets in the top-N tables (default from config)")
	flags.BoolVar(&opts.Fallback, "fallback", false, "Relabel unclassified work orders with the statistical fallback")
	flags.Float64Var(&opts.Threshold, "threshold", categorizer.DefaultConfidenceThreshold, "Minimum fallback prediction probability (0-1)")
	flags.BoolVar(&opts.Progress, "progress", false, "Show a progress bar while classifying")
	flags.BoolVar(&opts.ListOrigins, "list-origins", false, "List the origins present in the input and exit")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// applyConfigDefaults fills the options the user did not set from the
// configuration.
func applyConfigDefaults(cmd *cobra.Command, opts *Options, c *container.Container) {
	cfg := c.GetConfig()
	if opts.Format == "" {
		opts.Format = cfg.Report.Format
	}
	if opts.SQLite == "" {
		opts.SQLite = cfg.Storage.SQLite
	}
	if !cmd.Flags().Changed("fallback") {
		opts.Fallback = cfg.Fallback.Enabled
	}
	if !cmd.Flags().Changed("threshold") {
		opts.Threshold = cfg.Fallback.ConfidenceThreshold
	}
}

// Filter parses the filter options.
func (o *Options) Filter() (workorders.Filter, error) {
	f := workorders.Filter{Origin: o.Origin, Classes: o.Classes}

	var err error
	if f.From, err = dateutils.ParseDateString(o.From); err != nil {
		return f, fmt.Errorf("invalid --from date: %w", err)
	}
	if f.To, err = dateutils.ParseDateString(o.To); err != nil {
		return f, fmt.Errorf("invalid --to date: %w", err)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, fmt.Errorf("--to date %s is before --from date %s",
			dateutils.ToISODate(f.To), dateutils.ToISODate(f.From))
	}
	return f, nil
}

// Run executes the report pipeline with the wired dependencies.
func Run(ctx context.Context, cmd *cobra.Command, c *container.Container, opts *Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()
	out := cmd.OutOrStdout()

	if len(opts.Inputs) == 0 {
		return fmt.Errorf("at least one input file is required")
	}
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return fmt.Errorf("--threshold must be between 0 and 1, got %v", opts.Threshold)
	}
	if err := validation.IsValidOutputFormat(opts.Format); err != nil {
		return err
	}
	for _, path := range []string{opts.Summary, opts.Output, opts.Unmatched, opts.SQLite} {
		if err := validation.IsValidOutputPath(path); err != nil {
			return err
		}
	}
	filter, err := opts.Filter()
	if err != nil {
		return err
	}

	loaded, err := load(c, opts.Inputs)
	if err != nil {
		return err
	}

	if opts.ListOrigins {
		for _, origin := range workorders.Origins(loaded.Orders) {
			fmt.Fprintln(out, origin)
		}
		return nil
	}

	orders := filter.Apply(loaded.Orders)
	if !filter.IsEmpty() {
		logger.Info("Applied work order filters",
			logging.Field{Key: "loaded", Value: len(loaded.Orders)},
			logging.Field{Key: "selected", Value: len(orders)})
	}

	stats, err := classify(ctx, cmd, c, orders, opts.Progress)
	if err != nil {
		return err
	}

	if opts.Fallback && len(orders) > 0 {
		fb, err := c.FallbackFor(opts.Threshold)
		if err != nil {
			return err
		}
		n, err := fb.Relabel(ctx, orders)
		if err != nil {
			return err
		}
		stats.Relabeled(n)
	}
	stats.LogSummary(logger, strings.Join(loaded.SourceFiles, ", "))

	generator := c.GetReportGenerator()
	if opts.TopN > 0 {
		generator = reporting.NewReportGenerator(logger, opts.TopN)
	}
	rep := generator.Build(orders, stats)
	rep.Sources = loaded.SourceFiles

	data, err := generator.GenerateReport(rep, opts.Format)
	if err != nil {
		return err
	}
	if err := common.WriteOutput(out, opts.Summary, data); err != nil {
		return err
	}

	if opts.Output != "" {
		if err := c.GetLoader().Write(opts.Output, orders); err != nil {
			return fmt.Errorf("failed to write classified work orders: %w", err)
		}
	}

	if opts.Unmatched != "" {
		if err := csvutil.WriteCSVFile(opts.Unmatched, rep.UnmatchedRows(), c.GetLoader().Delimiter, logger); err != nil {
			return fmt.Errorf("failed to write unmatched descriptions: %w", err)
		}
	}

	if opts.SQLite != "" {
		if err := export(ctx, c, opts.SQLite, loaded, orders, stats); err != nil {
			return err
		}
	}

	return nil
}

func load(c *container.Container, inputs []string) (batch.Result, error) {
	loader := c.GetLoader()
	if len(inputs) == 1 {
		if err := validation.IsValidInputFile(inputs[0]); err != nil {
			return batch.Result{}, fmt.Errorf("failed to load work orders: %w", err)
		}
		orders, err := loader.Load(inputs[0])
		if err != nil {
			return batch.Result{}, fmt.Errorf("failed to load work orders: %w", err)
		}
		return batch.Result{
			Orders:      orders,
			SourceFiles: []string{filepath.Base(inputs[0])},
			DateRange:   batch.DateRangeOf(orders),
		}, nil
	}
	return c.GetAggregator().Consolidate(inputs, loader.Load)
}

func classify(ctx context.Context, cmd *cobra.Command, c *container.Container, orders []models.WorkOrder, showProgress bool) (models.ClassificationStats, error) {
	if !showProgress || len(orders) == 0 {
		return c.GetCategorizer().ClassifyAll(ctx, orders)
	}

	bar := progressbar.NewOptions(len(orders),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Classifying work orders..."),
		progressbar.OptionClearOnFinish(),
	)
	stats, err := c.GetCategorizer().ClassifyAllWithProgress(ctx, orders, bar)
	_ = bar.Finish()
	return stats, err
}

func export(ctx context.Context, c *container.Container, path string, loaded batch.Result, orders []models.WorkOrder, stats models.ClassificationStats) error {
	exporter, err := c.OpenExporter(path)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer exporter.Close()

	_, err = exporter.Export(ctx, storage.Run{
		Source:      strings.Join(loaded.SourceFiles, ", "),
		RuleVersion: c.GetCategorizer().Rules().Version,
		Stats:       stats,
	}, orders)
	if err != nil {
		return fmt.Errorf("failed to export to SQLite: %w", err)
	}
	return nil
}
