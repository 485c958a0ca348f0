package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// HistogramOptions controls bar width and x-axis ticks of a size distribution chart.
type HistogramOptions struct {
	BarWidth  float64
	MajorStep float64
	MinorStep float64
}

// Histogram draws one bar per (size, count) pair centred at size. Sizes are
// expected in ascending order; equal sizes are drawn on top of each other.
// The x axis always starts at or below 0.
func Histogram(sizes, counts []float64, opt HistogramOptions) (*plot.Plot, error) {
	if len(sizes) == 0 {
		return nil, errors.New("histogram: empty distribution")
	}
	if opt.MajorStep <= 0 || opt.MinorStep <= 0 {
		return nil, fmt.Errorf("histogram: tick steps must be positive, got major=%g minor=%g", opt.MajorStep, opt.MinorStep)
	}
	b, err := NewBars(sizes, counts, opt.BarWidth)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Add(b)
	// major ticks count from 0, so keep it on the axis
	p.X.Min = math.Min(p.X.Min, 0)
	limit := math.Inf(-1)
	for _, s := range sizes {
		limit = math.Max(limit, s)
	}
	p.X.Tick.Marker = StepTicks{Major: opt.MajorStep, Minor: opt.MinorStep, Limit: limit}
	return p, nil
}

// StepTicks places labelled major ticks at 0, Major, 2*Major, ... strictly
// below Limit, and unlabelled minor ticks at every multiple of Minor that is
// not already a major tick.
type StepTicks struct {
	Major float64
	Minor float64
	Limit float64
}

var _ plot.Ticker = StepTicks{}

// Ticks implements plot.Ticker.
func (t StepTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	if t.Major > 0 {
		first := math.Max(0, math.Ceil(min/t.Major))
		for k := first; ; k++ {
			v := k * t.Major
			if v >= t.Limit || v > max {
				break
			}
			ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
		}
	}
	if t.Minor > 0 {
		for k := math.Ceil(min / t.Minor); k*t.Minor <= max; k++ {
			v := k * t.Minor
			if t.isMajor(v) {
				continue
			}
			ticks = append(ticks, plot.Tick{Value: v})
		}
	}
	return ticks
}

func (t StepTicks) isMajor(v float64) bool {
	if t.Major <= 0 || v < 0 || v >= t.Limit {
		return false
	}
	const eps = 1e-9
	r := math.Mod(v, t.Major)
	return r < eps*t.Major || t.Major-r < eps*t.Major
}
