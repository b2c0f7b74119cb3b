package http

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ensaio/internal/dataprocessing"
	"ensaio/pkg/contracts/domain"
)

const (
	chartWidth  = 640
	chartHeight = 320
	chartLeft   = 80
	chartRight  = 20
	chartTop    = 30
	chartBottom = 50
	chartTicks  = 5
)

// ChartPoint is a marker position in SVG coordinates
type ChartPoint struct {
	X, Y  float64
	Label string
}

// ChartTick is an axis tick position and its text
type ChartTick struct {
	Pos   float64
	Label string
}

// ChartView is the DP line chart laid out for the result template
type ChartView struct {
	Width, Height int
	Title         string
	XTitle        string
	YTitle        string
	Left, Right   float64
	Top, Bottom   float64
	Line          string
	Points        []ChartPoint
	XTicks        []ChartTick
	YTicks        []ChartTick
}

// NewChartView lays out DP against ciclos on linear axes. It returns nil for
// tables without chart points.
func NewChartView(table *domain.Table) *ChartView {
	if !table.HasChart() {
		return nil
	}

	xs := make([]float64, len(table.Points))
	ys := make([]float64, len(table.Points))
	for i, p := range table.Points {
		xs[i] = float64(p.Cycle)
		ys[i] = p.Value
	}
	xMin, xMax := span(xs)
	// the DP axis always starts at or below zero
	yMin, yMax := span(append(ys, 0))

	v := &ChartView{
		Width:  chartWidth,
		Height: chartHeight,
		Title:  "Gráfico DP",
		XTitle: "Ciclos",
		YTitle: "DP",
		Left:   chartLeft,
		Right:  chartWidth - chartRight,
		Top:    chartTop,
		Bottom: chartHeight - chartBottom,
	}

	scaleX := func(x float64) float64 {
		return v.Left + (x-xMin)/(xMax-xMin)*(v.Right-v.Left)
	}
	scaleY := func(y float64) float64 {
		return v.Bottom - (y-yMin)/(yMax-yMin)*(v.Bottom-v.Top)
	}

	coords := make([]string, len(table.Points))
	for i, p := range table.Points {
		pt := ChartPoint{
			X:     round1(scaleX(xs[i])),
			Y:     round1(scaleY(ys[i])),
			Label: fmt.Sprintf("%d ciclos: %s", p.Cycle, dataprocessing.FormatDecimal(p.Value, 5)),
		}
		v.Points = append(v.Points, pt)
		coords[i] = strconv.FormatFloat(pt.X, 'f', -1, 64) + "," + strconv.FormatFloat(pt.Y, 'f', -1, 64)
	}
	v.Line = strings.Join(coords, " ")

	for i := 0; i <= chartTicks; i++ {
		f := float64(i) / chartTicks
		x := xMin + f*(xMax-xMin)
		y := yMin + f*(yMax-yMin)
		v.XTicks = append(v.XTicks, ChartTick{Pos: round1(scaleX(x)), Label: strconv.FormatInt(int64(math.Round(x)), 10)})
		v.YTicks = append(v.YTicks, ChartTick{Pos: round1(scaleY(y)), Label: dataprocessing.FormatDecimal(y, 5)})
	}
	return v
}

// span returns the range of values, widened when all values are equal
func span(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		pad := math.Abs(lo) * 0.1
		if pad == 0 {
			pad = 1
		}
		lo, hi = lo-pad, hi+pad
	}
	return lo, hi
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
