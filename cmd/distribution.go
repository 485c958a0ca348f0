package cmd

import (
	"io"

	"github.com/KaramelBytes/chunkplot/internal/chart"
	cfgpkg "github.com/KaramelBytes/chunkplot/internal/config"
	"github.com/KaramelBytes/chunkplot/internal/distribution"
	"github.com/KaramelBytes/chunkplot/internal/logging"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

var (
	distInput     string
	distOutput    string
	distMaxSize   float64
	distBarWidth  float64
	distMajorStep float64
	distMinorStep float64
)

var distributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Show the chunk size distribution as a bar chart",
	Long: `Reads a JSON array of [size, count] pairs, sorts it by size and shows one
bar per pair in the image viewer. With --output the chart is saved instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *settings()
		f := cmd.Flags()
		if f.Changed("input") {
			c.DistributionPath = distInput
		}
		if f.Changed("max-size") {
			c.DistributionMaxSize = distMaxSize
		}
		if f.Changed("bar-width") {
			if err := mustPositive("bar-width", distBarWidth); err != nil {
				return err
			}
			c.DistributionBarWidth = distBarWidth
		}
		if f.Changed("major-step") {
			if err := mustPositive("major-step", distMajorStep); err != nil {
				return err
			}
			c.DistributionMajorStep = distMajorStep
		}
		if f.Changed("minor-step") {
			if err := mustPositive("minor-step", distMinorStep); err != nil {
				return err
			}
			c.DistributionMinorStep = distMinorStep
		}

		p, err := renderDistribution(&c)
		if err != nil {
			return err
		}
		width := vg.Length(c.DistributionWidthIn) * vg.Inch
		height := vg.Length(c.DistributionHeightIn) * vg.Inch
		if distOutput != "" {
			if err := chart.Save(p, width, height, distOutput); err != nil {
				return err
			}
			reportSaved(cmd.OutOrStdout(), distOutput)
			return nil
		}
		return chart.Display(cmd.Context(), p, width, height, c.Viewer)
	},
}

func init() {
	rootCmd.AddCommand(distributionCmd)
	d := cfgpkg.Defaults()
	distributionCmd.Flags().StringVarP(&distInput, "input", "i", "", "distribution JSON (default from config: ../distribution-kernel-1000.json)")
	distributionCmd.Flags().StringVarP(&distOutput, "output", "o", "", "save the chart to this file instead of displaying it")
	distributionCmd.Flags().Float64Var(&distMaxSize, "max-size", 0, "only plot sizes up to this value (0 = no limit)")
	distributionCmd.Flags().Float64Var(&distBarWidth, "bar-width", d.DistributionBarWidth, "bar width in size units; match the bucket adjustment of the input")
	distributionCmd.Flags().Float64Var(&distMajorStep, "major-step", d.DistributionMajorStep, "spacing of labelled x ticks")
	distributionCmd.Flags().Float64Var(&distMinorStep, "minor-step", d.DistributionMinorStep, "spacing of minor x ticks")
}

// renderDistribution loads, sorts and charts the configured distribution. Load
// and parse failures are returned unmodified.
func renderDistribution(c *cfgpkg.Global) (*plot.Plot, error) {
	tbl, err := distribution.Load(c.DistributionPath)
	if err != nil {
		return nil, err
	}
	tbl = tbl.Limit(c.DistributionMaxSize).Sorted()
	sizes, counts := tbl.Split()
	logging.Debugf("distribution %s", logging.Fields("file", c.DistributionPath, "entries", len(tbl), "max_size", tbl.MaxSize()))

	return chart.Histogram(sizes, counts, chart.HistogramOptions{
		BarWidth:  c.DistributionBarWidth,
		MajorStep: c.DistributionMajorStep,
		MinorStep: c.DistributionMinorStep,
	})
}

func reportSaved(w io.Writer, path string) {
	success.Fprintf(w, "✓ Wrote %s\n", path)
}
