package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	cfgpkg "github.com/KaramelBytes/chunkplot/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var measurementsCSV = strings.Join([]string{
	"date,name,chunker,size,dedup_ratio,avg_chunk_size,write_time,chunk_throughput,path",
	"2024-05-01,kernel,\"Fixed size chunking, chunk size: 4096\",100,0.9,4096,1.5,300,/d/kernel",
	"2024-05-01,kernel,\"Rabin, min: 2048, avg: 4096, max: 8192\",100,0.5,4100,2.0,120,/d/kernel",
	"2024-05-01,kernel,\"Super, min: 2048, avg: 4096\",100,0.6,4000,1.0,240,/d/kernel",
	"2024-05-01,gcc,\"Rabin, min: 2048, avg: 4096, max: 8192\",100,0.4,4200,2.2,110,/d/gcc",
	"2024-05-01,gcc,\"Super, min: 2048, avg: 4096\",100,0.7,3900,1.1,230,/d/gcc",
}, "\n") + "\n"

// runCmd is a helper to execute the root command with args and capture stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	reset := func(fl *pflag.Flag) {
		if !fl.Changed {
			return
		}
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range []*cobra.Command{barsCmd, distributionCmd} {
		c.Flags().VisitAll(reset)
	}
	barsExclude = nil
	color.NoColor = true
	distOutput = ""
	cfg = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func pngFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	for i, m := range matches {
		matches[i] = filepath.Base(m)
	}
	sort.Strings(matches)
	return matches
}

func TestCLI_BarsWritesOneChartPerNumericMetric(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "measurements.csv")
	if err := os.WriteFile(in, []byte(measurementsCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	outDir := filepath.Join(home, "charts")

	out, err := runCmd(t, "bars", "--input", in, "--output-dir", outDir)
	if err != nil {
		t.Fatalf("bars failed: %v", err)
	}
	got := pngFiles(t, outDir)
	want := []string{
		"graph_avg_chunk_size.png",
		"graph_chunk_throughput.png",
		"graph_dedup_ratio.png",
		"graph_write_time.png",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("charts = %v, want %v", got, want)
	}
	if strings.TrimSpace(out) != "✓ Charts created successfully." {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCLI_BarsMissingInputReportsOneLine(t *testing.T) {
	home := isolateHome(t)
	outDir := filepath.Join(home, "charts")
	missing := filepath.Join(home, "measurements.csv")

	out, err := runCmd(t, "bars", "--input", missing, "--output-dir", outDir)
	if err != nil {
		t.Fatalf("missing input must not fail the command: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %q", out)
	}
	if !strings.Contains(out, "Error: file "+missing+" not found.") {
		t.Fatalf("unexpected message: %q", out)
	}
	if got := pngFiles(t, outDir); len(got) != 0 {
		t.Fatalf("expected no charts, got %v", got)
	}
}

func TestCLI_BarsMissingFirstMetricFails(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "m.csv")
	if err := os.WriteFile(in, []byte("name,chunker,ratio\na,X,1\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if _, err := runCmd(t, "bars", "--input", in, "--output-dir", home); err == nil {
		t.Fatalf("expected error for missing dedup_ratio column")
	}
}

func TestCLI_DistributionSavesChart(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "distribution-kernel-1000.json")
	if err := os.WriteFile(in, []byte(`[[500,10],[100,20],[300,5]]`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	outPath := filepath.Join(home, "distribution.png")

	out, err := runCmd(t, "distribution", "--input", in, "--output", outPath)
	if err != nil {
		t.Fatalf("distribution failed: %v", err)
	}
	if fi, err := os.Stat(outPath); err != nil || fi.Size() == 0 {
		t.Fatalf("chart not written: %v", err)
	}
	if !strings.Contains(out, "Wrote "+outPath) {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCLI_DistributionDisplayLeavesNoFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no test(1) on windows")
	}
	home := isolateHome(t)
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	t.Setenv("CHUNKPLOT_VIEWER", "test -s")
	in := filepath.Join(home, "distribution-kernel-1000.json")
	if err := os.WriteFile(in, []byte(`[[4000,7],[8000,3],[20000,1]]`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}

	if _, err := runCmd(t, "distribution", "--input", in); err != nil {
		t.Fatalf("distribution failed: %v", err)
	}
	left, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("read tmp: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("temporary image left behind: %v", left)
	}
}

func TestCLI_DistributionMalformedInputFails(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "bad.json")
	if err := os.WriteFile(in, []byte(`{"size": 1}`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if _, err := runCmd(t, "distribution", "--input", in, "--output", filepath.Join(home, "x.png")); err == nil {
		t.Fatalf("expected error for malformed distribution")
	}
}

func TestCLI_ConfigSetThenShow(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "chunkplot.yaml")

	if _, err := runCmd(t, "--config", path, "config", "set", "distribution_bar_width", "500"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	out, err := runCmd(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "distribution_bar_width: 500") {
		t.Fatalf("setting not persisted: %q", out)
	}
	if _, err := runCmd(t, "--config", path, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDistributionFlagDefaultsFollowConfig(t *testing.T) {
	d := cfgpkg.Defaults()
	for name, want := range map[string]float64{
		"bar-width":  d.DistributionBarWidth,
		"major-step": d.DistributionMajorStep,
		"minor-step": d.DistributionMinorStep,
	} {
		got, err := distributionCmd.Flags().GetFloat64(name)
		if err != nil {
			t.Fatalf("flag %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("--%s default = %g, want %g", name, got, want)
		}
	}
}
