// Package chart renders the static report figures as standalone SVG
// documents: the degree histogram, the log-log heavy-tail scatter,
// centrality bar charts, eccentricity profiles and the static network
// plot. Rendering is deterministic so regenerated reports diff cleanly.
package chart

import (
	"fmt"
	"math"
	"sort"

	"github.com/kpellard/heronet/pkg/analysis"
)

const (
	barFill    = "#4363d8"
	axisColor  = "#444444"
	gridColor  = "#dddddd"
	labelColor = "#222222"
	titleSize  = 16
	labelSize  = 12
)

// Config controls the dimensions and labeling of one rendered chart.
type Config struct {
	Width  int
	Height int
	Margin int
	Title  string
	XLabel string
	YLabel string
}

// DefaultConfig returns an 800x500 canvas with room for axis labels.
func DefaultConfig(title string) Config {
	return Config{
		Width:  800,
		Height: 500,
		Margin: 60,
		Title:  title,
	}
}

// plotArea returns the drawable region inside the margins.
func (c Config) plotArea() (x0, y0, x1, y1 float64) {
	m := float64(c.Margin)
	return m, m * 0.75, float64(c.Width) - m*0.5, float64(c.Height) - m
}

// XY is one data point for the line chart.
type XY struct {
	X float64
	Y float64
}

// frame draws the canvas, title, axes and axis labels shared by the
// rectangular charts.
func frame(cfg Config) (*svgBuilder, float64, float64, float64, float64) {
	b := newSVG(cfg.Width, cfg.Height)
	x0, y0, x1, y1 := cfg.plotArea()

	if cfg.Title != "" {
		b.text(float64(cfg.Width)/2, float64(cfg.Margin)*0.45, "middle", titleSize, labelColor, cfg.Title)
	}
	b.line(x0, y1, x1, y1, axisColor, 1)
	b.line(x0, y0, x0, y1, axisColor, 1)
	if cfg.XLabel != "" {
		b.text((x0+x1)/2, float64(cfg.Height)-12, "middle", labelSize, labelColor, cfg.XLabel)
	}
	if cfg.YLabel != "" {
		b.vtext(18, (y0+y1)/2, labelSize, labelColor, cfg.YLabel)
	}
	return b, x0, y0, x1, y1
}

func emptyChart(cfg Config) []byte {
	b, x0, y0, x1, y1 := frame(cfg)
	b.text((x0+x1)/2, (y0+y1)/2, "middle", labelSize, labelColor, "No data")
	return b.close()
}

// Histogram renders the degree distribution as a bar chart with one bar
// per observed degree.
func Histogram(buckets []analysis.DegreeBucket, cfg Config) []byte {
	if len(buckets) == 0 {
		return emptyChart(cfg)
	}
	b, x0, y0, x1, y1 := frame(cfg)

	minDeg := buckets[0].Degree
	maxDeg := buckets[len(buckets)-1].Degree
	maxCount := 0
	for _, bk := range buckets {
		if bk.Count > maxCount {
			maxCount = bk.Count
		}
	}

	plotW := x1 - x0
	plotH := y1 - y0
	span := float64(maxDeg - minDeg + 1)
	barW := plotW / span

	for _, bk := range buckets {
		h := float64(bk.Count) / float64(maxCount) * plotH
		x := x0 + float64(bk.Degree-minDeg)*barW
		b.rect(x, y1-h, math.Max(barW-1, 0.5), h, barFill)
	}

	for i := 0; i <= 4; i++ {
		frac := float64(i) / 4
		y := y1 - frac*plotH
		count := frac * float64(maxCount)
		b.line(x0-4, y, x0, y, axisColor, 1)
		b.text(x0-8, y+4, "end", labelSize, labelColor, fmt.Sprintf("%.0f", count))

		deg := float64(minDeg) + frac*(span-1)
		x := x0 + frac*plotW
		b.line(x, y1, x, y1+4, axisColor, 1)
		b.text(x, y1+18, "middle", labelSize, labelColor, fmt.Sprintf("%.0f", deg))
	}
	return b.close()
}

// LogLogScatter renders degree versus frequency on log10 axes, the view
// where a heavy-tailed distribution falls on a rough descending line.
// Buckets with degree or count below one cannot be plotted and are
// skipped.
func LogLogScatter(buckets []analysis.DegreeBucket, cfg Config) []byte {
	var pts []XY
	for _, bk := range buckets {
		if bk.Degree < 1 || bk.Count < 1 {
			continue
		}
		pts = append(pts, XY{X: math.Log10(float64(bk.Degree)), Y: math.Log10(float64(bk.Count))})
	}
	if len(pts) == 0 {
		return emptyChart(cfg)
	}
	b, x0, y0, x1, y1 := frame(cfg)

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	sx := scaler(minX, maxX, x0, x1)
	sy := scaler(minY, maxY, y1, y0)

	// Decade gridlines with the original values as labels.
	for d := math.Floor(minX); d <= math.Ceil(maxX); d++ {
		x := sx(d)
		b.line(x, y0, x, y1, gridColor, 1)
		b.text(x, y1+18, "middle", labelSize, labelColor, fmt.Sprintf("%.0f", math.Pow(10, d)))
	}
	for d := math.Floor(minY); d <= math.Ceil(maxY); d++ {
		y := sy(d)
		b.line(x0, y, x1, y, gridColor, 1)
		b.text(x0-8, y+4, "end", labelSize, labelColor, fmt.Sprintf("%.0f", math.Pow(10, d)))
	}

	for _, p := range pts {
		b.circle(sx(p.X), sy(p.Y), 3.5, barFill)
	}
	return b.close()
}

// BarChart renders a ranked list as horizontal bars, best first.
func BarChart(items []analysis.RankedNode, cfg Config) []byte {
	if len(items) == 0 {
		return emptyChart(cfg)
	}

	b := newSVG(cfg.Width, cfg.Height)
	if cfg.Title != "" {
		b.text(float64(cfg.Width)/2, float64(cfg.Margin)*0.45, "middle", titleSize, labelColor, cfg.Title)
	}

	// Wide left gutter for character names.
	x0 := float64(cfg.Width) * 0.3
	x1 := float64(cfg.Width) - float64(cfg.Margin)
	y0 := float64(cfg.Margin) * 0.75
	y1 := float64(cfg.Height) - float64(cfg.Margin)*0.5

	maxScore := items[0].Score
	for _, it := range items {
		if it.Score > maxScore {
			maxScore = it.Score
		}
	}
	if maxScore <= 0 {
		maxScore = 1
	}

	rowH := (y1 - y0) / float64(len(items))
	barH := rowH * 0.7
	for i, it := range items {
		y := y0 + float64(i)*rowH + (rowH-barH)/2
		w := it.Score / maxScore * (x1 - x0)
		b.rect(x0, y, w, barH, barFill)
		b.text(x0-8, y+barH/2+4, "end", labelSize, labelColor, it.Name)
		b.text(x0+w+6, y+barH/2+4, "start", labelSize, labelColor, formatScore(it.Score))
	}
	b.line(x0, y0, x0, y1, axisColor, 1)
	return b.close()
}

// LineChart renders a series as a polyline with point markers, sorted
// by X.
func LineChart(series []XY, cfg Config) []byte {
	if len(series) == 0 {
		return emptyChart(cfg)
	}
	b, x0, y0, x1, y1 := frame(cfg)

	pts := make([]XY, len(series))
	copy(pts, series)
	sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })

	minX, maxX := pts[0].X, pts[len(pts)-1].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	sx := scaler(minX, maxX, x0, x1)
	sy := scaler(minY, maxY, y1, y0)

	poly := make([]point, 0, len(pts))
	for _, p := range pts {
		poly = append(poly, point{x: sx(p.X), y: sy(p.Y)})
	}
	b.polyline(poly, barFill, 2)
	for _, p := range poly {
		b.circle(p.x, p.y, 3, barFill)
	}

	for i := 0; i <= 4; i++ {
		frac := float64(i) / 4
		x := x0 + frac*(x1-x0)
		y := y1 - frac*(y1-y0)
		b.line(x, y1, x, y1+4, axisColor, 1)
		b.text(x, y1+18, "middle", labelSize, labelColor, formatScore(minX+frac*(maxX-minX)))
		b.line(x0-4, y, x0, y, axisColor, 1)
		b.text(x0-8, y+4, "end", labelSize, labelColor, formatScore(minY+frac*(maxY-minY)))
	}
	return b.close()
}

// scaler maps [from0, from1] linearly onto [to0, to1]. A degenerate
// input range maps everything to the midpoint.
func scaler(from0, from1, to0, to1 float64) func(float64) float64 {
	span := from1 - from0
	if math.Abs(span) < 1e-12 {
		mid := (to0 + to1) / 2
		return func(float64) float64 { return mid }
	}
	return func(v float64) float64 {
		return to0 + (v-from0)/span*(to1-to0)
	}
}

func formatScore(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e6 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4f", v)
}
