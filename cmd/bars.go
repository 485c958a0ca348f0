package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/chunkplot/internal/chart"
	cfgpkg "github.com/KaramelBytes/chunkplot/internal/config"
	"github.com/KaramelBytes/chunkplot/internal/logging"
	"github.com/KaramelBytes/chunkplot/internal/measurements"
	"github.com/KaramelBytes/chunkplot/internal/utils"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var (
	barsInput     string
	barsOutputDir string
	barsExclude   []string
)

var barsCmd = &cobra.Command{
	Use:   "bars",
	Short: "Render a grouped bar chart per metric of the measurements CSV",
	Long: `Reads the measurements CSV, drops the fixed-size baseline rows, collapses
chunker labels to their algorithm name and writes graph_<metric>.png for every
column from dedup_ratio to the last one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *settings()
		f := cmd.Flags()
		if f.Changed("input") {
			c.MeasurementsPath = barsInput
		}
		if f.Changed("output-dir") {
			c.OutputDir = barsOutputDir
		}
		if f.Changed("exclude") {
			c.ExcludeChunkers = barsExclude
		}
		return createGroupedBarCharts(cmd.OutOrStdout(), &c)
	},
}

func init() {
	rootCmd.AddCommand(barsCmd)
	barsCmd.Flags().StringVarP(&barsInput, "input", "i", "", "measurements CSV (default from config: ../measurements.csv)")
	barsCmd.Flags().StringVarP(&barsOutputDir, "output-dir", "o", "", "directory for graph_<metric>.png files (default: current directory)")
	barsCmd.Flags().StringArrayVar(&barsExclude, "exclude", nil, "exact chunker label to leave out (repeatable; replaces the configured list)")
}

// createGroupedBarCharts writes one chart per metric column. A missing input
// file is reported on w and is not an error.
func createGroupedBarCharts(w io.Writer, c *cfgpkg.Global) error {
	tbl, err := measurements.Load(c.MeasurementsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			failure.Fprintf(w, "Error: file %s not found.\n", c.MeasurementsPath)
			return nil
		}
		return err
	}
	if err := tbl.Validate(); err != nil {
		return err
	}

	removed, err := tbl.Exclude(c.ExcludeChunkers...)
	if err != nil {
		return err
	}
	logging.Debugf("loaded %s", logging.Fields("file", tbl.Name, "rows", len(tbl.Rows), "excluded", removed))
	if err := tbl.NormalizeChunkers(); err != nil {
		return err
	}
	metrics, err := tbl.MetricColumns(c.FirstMetric)
	if err != nil {
		return err
	}

	opt := chart.DefaultGroupedOptions()
	width := vg.Length(c.ChartWidthIn) * vg.Inch
	height := vg.Length(c.ChartHeightIn) * vg.Inch
	if err := utils.EnsureDir(c.OutputDir); err != nil {
		return err
	}

	for _, metric := range metrics {
		if !tbl.IsNumeric(metric) {
			logging.Warnf("skipping non-numeric column %q", metric)
			continue
		}
		pv, err := tbl.Pivot(measurements.NameColumn, measurements.ChunkerColumn, metric)
		if err != nil {
			return fmt.Errorf("pivot %s: %w", metric, err)
		}
		if len(pv.Rows) == 0 {
			logging.Warnf("skipping column %q: no values left after filtering", metric)
			continue
		}
		series := make([]chart.Series, 0, len(pv.Columns))
		for _, chunker := range pv.Columns {
			series = append(series, chart.Series{Label: chunker, Values: pv.Column(chunker)})
		}
		opt.YLabel = measurements.MetricLabel(metric)
		p, err := chart.GroupedBars(pv.Rows, series, opt)
		if err != nil {
			return fmt.Errorf("chart %s: %w", metric, err)
		}
		out := filepath.Join(c.OutputDir, measurements.GraphFileName(metric))
		if err := chart.Save(p, width, height, out); err != nil {
			return err
		}
		logging.Debugf("wrote %s", logging.Fields("metric", metric, "file", out, "datasets", len(pv.Rows), "chunkers", len(pv.Columns)))
	}

	success.Fprintln(w, "✓ Charts created successfully.")
	return nil
}
