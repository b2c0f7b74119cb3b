package console

import (
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"ensaio/internal/dataprocessing"
	"ensaio/pkg/contracts/domain"
)

const (
	minPlotWidth = 10
	axisGap      = " │"
	marker       = '●'
	trace        = '·'
)

// Chart draws DP against ciclos as text no wider than width columns.
// Values are placed on linear axes; the DP axis starts at zero.
func Chart(points []domain.ChartPoint, width, height int) string {
	if len(points) == 0 {
		return ""
	}
	if height < 2 {
		height = 2
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Cycle)
		ys[i] = p.Value
	}
	xMin, xMax := bounds(xs)
	yMin, yMax := bounds(append(ys, 0))

	labels := make([]string, height)
	labels[0] = dataprocessing.FormatDecimal(yMax, 5)
	labels[height/2] = dataprocessing.FormatDecimal(yMin+(yMax-yMin)/2, 5)
	labels[height-1] = dataprocessing.FormatDecimal(yMin, 5)
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}

	plotWidth := max(width-labelWidth-runewidth.StringWidth(axisGap), minPlotWidth)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", plotWidth))
	}
	col := func(x float64) int {
		return int(math.Round((x - xMin) / (xMax - xMin) * float64(plotWidth-1)))
	}
	row := func(y float64) int {
		return height - 1 - int(math.Round((y-yMin)/(yMax-yMin)*float64(height-1)))
	}

	for i := 1; i < len(points); i++ {
		c0, c1 := col(xs[i-1]), col(xs[i])
		if c1 <= c0 {
			continue
		}
		for c := c0 + 1; c < c1; c++ {
			f := float64(c-c0) / float64(c1-c0)
			grid[row(ys[i-1]+f*(ys[i]-ys[i-1]))][c] = trace
		}
	}
	for i := range points {
		grid[row(ys[i])][col(xs[i])] = marker
	}

	var b strings.Builder
	b.WriteString(runewidth.FillLeft("DP", labelWidth))
	b.WriteString("\n")
	for i, line := range grid {
		b.WriteString(runewidth.FillLeft(labels[i], labelWidth))
		b.WriteString(axisGap)
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteString("\n")
	}

	pad := strings.Repeat(" ", labelWidth+1)
	b.WriteString(pad)
	b.WriteString("└")
	b.WriteString(strings.Repeat("─", plotWidth))
	b.WriteString("\n")

	first := strconv.FormatInt(int64(math.Round(xMin)), 10)
	last := strconv.FormatInt(int64(math.Round(xMax)), 10)
	axis := first + strings.Repeat(" ", max(plotWidth-runewidth.StringWidth(first)-runewidth.StringWidth(last), 1)) + last
	b.WriteString(pad + " " + axis)
	b.WriteString("\n")
	b.WriteString(pad + " " + runewidth.FillLeft("Ciclos", plotWidth))
	return b.String()
}

// bounds returns the range of values, widened when all values are equal
func bounds(values []float64) (float64, float64) {
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
