package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/chunkplot/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set chunkplot configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "measurements_path: %s\n", c.MeasurementsPath)
		fmt.Fprintf(w, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(w, "first_metric: %s\n", c.FirstMetric)
		fmt.Fprintf(w, "exclude_chunkers: %s\n", strings.Join(quoteAll(c.ExcludeChunkers), ", "))
		fmt.Fprintf(w, "chart_size_in: %gx%g\n", c.ChartWidthIn, c.ChartHeightIn)
		fmt.Fprintf(w, "distribution_path: %s\n", c.DistributionPath)
		fmt.Fprintf(w, "distribution_bar_width: %g\n", c.DistributionBarWidth)
		fmt.Fprintf(w, "distribution_ticks: major=%g minor=%g\n", c.DistributionMajorStep, c.DistributionMinorStep)
		if c.DistributionMaxSize > 0 {
			fmt.Fprintf(w, "distribution_max_size: %g\n", c.DistributionMaxSize)
		}
		if c.Viewer != "" {
			fmt.Fprintf(w, "viewer: %s\n", c.Viewer)
		}
		if c.LogFile != "" {
			fmt.Fprintf(w, "log_file: %s\n", c.LogFile)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			// --config may name a file that does not exist yet
			if cfgFile == "" || !errors.Is(err, os.ErrNotExist) {
				return err
			}
			c = cfgpkg.Defaults()
		}
		switch key {
		case "measurements_path":
			c.MeasurementsPath = val
		case "output_dir":
			c.OutputDir = val
		case "first_metric":
			c.FirstMetric = val
		case "exclude_chunkers":
			// one label per line: labels themselves contain commas
			c.ExcludeChunkers = nil
			for _, l := range strings.Split(val, "\n") {
				if l = strings.TrimSpace(l); l != "" {
					c.ExcludeChunkers = append(c.ExcludeChunkers, l)
				}
			}
		case "distribution_path":
			c.DistributionPath = val
		case "viewer":
			c.Viewer = val
		case "log_file":
			c.LogFile = val
		case "chart_width_in", "chart_height_in",
			"distribution_bar_width", "distribution_major_step", "distribution_minor_step",
			"distribution_max_size", "distribution_width_in", "distribution_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			setFloat(c, key, f)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		success.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setFloat(c *cfgpkg.Global, key string, f float64) {
	switch key {
	case "chart_width_in":
		c.ChartWidthIn = f
	case "chart_height_in":
		c.ChartHeightIn = f
	case "distribution_bar_width":
		c.DistributionBarWidth = f
	case "distribution_major_step":
		c.DistributionMajorStep = f
	case "distribution_minor_step":
		c.DistributionMinorStep = f
	case "distribution_max_size":
		c.DistributionMaxSize = f
	case "distribution_width_in":
		c.DistributionWidthIn = f
	case "distribution_height_in":
		c.DistributionHeightIn = f
	}
}

func quoteAll(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = strconv.Quote(s)
	}
	return out
}
