package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Bars draws vertical bars whose centre and width are given in data units,
// unlike plotter.BarChart whose width is a fixed canvas length. Bars with a
// NaN height are not drawn.
type Bars struct {
	Centers []float64
	Heights []float64
	Width   float64

	Color     color.Color
	LineStyle draw.LineStyle
}

var _ plot.Plotter = (*Bars)(nil)
var _ plot.DataRanger = (*Bars)(nil)
var _ plot.Thumbnailer = (*Bars)(nil)

// NewBars returns bars of the given data-unit width centred at centers.
func NewBars(centers, heights []float64, width float64) (*Bars, error) {
	if len(centers) != len(heights) {
		return nil, fmt.Errorf("bars: %d centers but %d heights", len(centers), len(heights))
	}
	if width <= 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return nil, fmt.Errorf("bars: width must be positive, got %g", width)
	}
	for _, x := range centers {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.New("bars: centers must be finite")
		}
	}
	return &Bars{
		Centers: centers,
		Heights: heights,
		Width:   width,
		Color:   Palette[0],
	}, nil
}

// Rect returns the data-space rectangle of bar i.
func (b *Bars) Rect(i int) (xmin, xmax, ymin, ymax float64) {
	h := b.Heights[i]
	xmin = b.Centers[i] - b.Width/2
	return xmin, xmin + b.Width, math.Min(0, h), math.Max(0, h)
}

// Plot implements plot.Plotter.
func (b *Bars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for i := range b.Centers {
		if math.IsNaN(b.Heights[i]) {
			continue
		}
		x0, x1, y0, y1 := b.Rect(i)
		pts := []vg.Point{
			{X: trX(x0), Y: trY(y0)},
			{X: trX(x0), Y: trY(y1)},
			{X: trX(x1), Y: trY(y1)},
			{X: trX(x1), Y: trY(y0)},
		}
		c.FillPolygon(b.Color, c.ClipPolygonXY(pts))
		if b.LineStyle.Width > 0 {
			pts = append(pts, pts[0])
			c.StrokeLines(b.LineStyle, c.ClipLinesXY(pts)...)
		}
	}
}

// DataRange implements plot.DataRanger. The y range always includes zero.
func (b *Bars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	for i := range b.Centers {
		x0, x1, y0, y1 := b.Rect(i)
		xmin = math.Min(xmin, x0)
		xmax = math.Max(xmax, x1)
		if !math.IsNaN(b.Heights[i]) {
			ymin = math.Min(ymin, y0)
			ymax = math.Max(ymax, y1)
		}
	}
	if len(b.Centers) == 0 {
		xmin, xmax = 0, 0
	}
	return xmin, xmax, ymin, ymax
}

// Thumbnail implements plot.Thumbnailer for legend entries.
func (b *Bars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.Color, c.ClipPolygonXY(pts))
	if b.LineStyle.Width > 0 {
		pts = append(pts, pts[0])
		c.StrokeLines(b.LineStyle, c.ClipLinesXY(pts)...)
	}
}

// Palette is the category colour cycle used for bar series.
var Palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	color.RGBA{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	color.RGBA{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	color.RGBA{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

// SeriesColor cycles through Palette.
func SeriesColor(i int) color.Color {
	return Palette[i%len(Palette)]
}
