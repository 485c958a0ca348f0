package chart

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Series is one bar per category, drawn in the same colour and named in the legend.
type Series struct {
	Label  string
	Values []float64
}

// GroupedOptions controls the layout of a grouped bar chart.
type GroupedOptions struct {
	XLabel string
	YLabel string
	// GroupWidth is the share of each category slot covered by its cluster.
	GroupWidth float64
	LabelSize  vg.Length
	TickSize   vg.Length
}

func DefaultGroupedOptions() GroupedOptions {
	return GroupedOptions{
		XLabel:     "Dataset",
		GroupWidth: 0.8,
		LabelSize:  vg.Points(15),
		TickSize:   vg.Points(14),
	}
}

// ClusterLayout splits a cluster of groupWidth into n equal bars and returns
// each bar's centre offset from the category position.
func ClusterLayout(n int, groupWidth float64) (offsets []float64, barWidth float64) {
	if n <= 0 {
		return nil, 0
	}
	barWidth = groupWidth / float64(n)
	offsets = make([]float64, n)
	for j := range offsets {
		offsets[j] = -groupWidth/2 + (float64(j)+0.5)*barWidth
	}
	return offsets, barWidth
}

// GroupedBars builds a clustered bar chart: categories along x at 0..n-1, one
// bar per series inside each cluster.
func GroupedBars(categories []string, series []Series, opt GroupedOptions) (*plot.Plot, error) {
	if len(categories) == 0 {
		return nil, errors.New("grouped bars: no categories")
	}
	if len(series) == 0 {
		return nil, errors.New("grouped bars: no series")
	}
	if opt.GroupWidth <= 0 || opt.GroupWidth > 1 {
		return nil, fmt.Errorf("grouped bars: group width must be in (0, 1], got %g", opt.GroupWidth)
	}

	p := plot.New()
	p.X.Label.Text = opt.XLabel
	p.Y.Label.Text = opt.YLabel
	if opt.LabelSize > 0 {
		p.X.Label.TextStyle.Font.Size = opt.LabelSize
		p.Y.Label.TextStyle.Font.Size = opt.LabelSize
	}
	if opt.TickSize > 0 {
		p.X.Tick.Label.Font.Size = opt.TickSize
		p.Y.Tick.Label.Font.Size = opt.TickSize
	}

	offsets, width := ClusterLayout(len(series), opt.GroupWidth)
	for j, s := range series {
		if len(s.Values) != len(categories) {
			return nil, fmt.Errorf("grouped bars: series %q has %d values for %d categories", s.Label, len(s.Values), len(categories))
		}
		centers := make([]float64, len(categories))
		for i := range categories {
			centers[i] = float64(i) + offsets[j]
		}
		b, err := NewBars(centers, s.Values, width)
		if err != nil {
			return nil, err
		}
		b.Color = SeriesColor(j)
		p.Add(b)
		p.Legend.Add(s.Label, b)
	}
	p.Legend.Top = true

	p.NominalX(categories...)
	p.X.Min = -0.5
	p.X.Max = float64(len(categories)) - 0.5
	return p, nil
}
