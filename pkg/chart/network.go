package chart

import (
	"math"

	"github.com/kpellard/heronet/pkg/viz"
)

// Network renders a static plot of the network: edges as gray lines
// with width following co-appearance weight, nodes as colored circles
// sized and colored like the interactive view. Positions come from one
// of the viz layouts and are expected in the unit square.
func Network(data *viz.NetworkData, pos map[uint64]viz.Point, cfg Config) []byte {
	if data == nil || len(data.Nodes) == 0 {
		return emptyChart(cfg)
	}

	b := newSVG(cfg.Width, cfg.Height)
	if cfg.Title != "" {
		b.text(float64(cfg.Width)/2, float64(cfg.Margin)*0.45, "middle", titleSize, labelColor, cfg.Title)
	}

	x0, y0, x1, y1 := cfg.plotArea()
	sx := scaler(0, 1, x0, x1)
	sy := scaler(0, 1, y0, y1)

	maxWeight := 0.0
	for _, e := range data.Edges {
		if e.Value > maxWeight {
			maxWeight = e.Value
		}
	}
	for _, e := range data.Edges {
		pf, okF := pos[e.From]
		pt, okT := pos[e.To]
		if !okF || !okT {
			continue
		}
		width := 0.5
		if maxWeight > 0 {
			width += 2 * e.Value / maxWeight
		}
		b.line(sx(pf.X), sy(pf.Y), sx(pt.X), sy(pt.Y), "#cccccc", width)
	}

	for _, n := range data.Nodes {
		p, ok := pos[n.ID]
		if !ok {
			continue
		}
		// Interactive sizes run 15..50; a fifth of that keeps 300+
		// circles from smothering each other on a static canvas.
		r := math.Max(n.Size/5, 2)
		b.circle(sx(p.X), sy(p.Y), r, n.Color)
	}
	return b.close()
}
