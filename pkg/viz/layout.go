package viz

import (
	"math"
	"math/rand"

	"github.com/kpellard/heronet/pkg/graph"
)

// Point is a 2D position in the unit square.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SpringLayout positions nodes with Fruchterman-Reingold force
// simulation: all pairs repel, edges attract as unweighted springs.
// The same seed always produces the same layout. iterations
// non-positive means 50.
func SpringLayout(g *graph.Graph, iterations int, seed int64) map[uint64]Point {
	n := g.NodeCount()
	out := make(map[uint64]Point, n)
	if n == 0 {
		return out
	}
	if iterations <= 0 {
		iterations = 50
	}

	rng := rand.New(rand.NewSource(seed))
	pos := make([]Point, n)
	for i := range pos {
		pos[i] = Point{X: rng.Float64(), Y: rng.Float64()}
	}
	if n == 1 {
		out[1] = Point{X: 0.5, Y: 0.5}
		return out
	}

	k := math.Sqrt(1 / float64(n))
	temp := 0.1

	disp := make([]Point, n)
	for iter := 0; iter < iterations; iter++ {
		for i := range disp {
			disp[i] = Point{}
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				d := math.Hypot(dx, dy)
				if d < 1e-9 {
					d = 1e-9
					dx = 1e-9
				}
				rep := k * k / d
				disp[i].X += dx / d * rep
				disp[i].Y += dy / d * rep
				disp[j].X -= dx / d * rep
				disp[j].Y -= dy / d * rep
			}
		}

		for _, e := range g.Edges() {
			i, j := int(e.From-1), int(e.To-1)
			dx := pos[i].X - pos[j].X
			dy := pos[i].Y - pos[j].Y
			d := math.Hypot(dx, dy)
			if d < 1e-9 {
				continue
			}
			attr := d * d / k
			disp[i].X -= dx / d * attr
			disp[i].Y -= dy / d * attr
			disp[j].X += dx / d * attr
			disp[j].Y += dy / d * attr
		}

		for i := 0; i < n; i++ {
			d := math.Hypot(disp[i].X, disp[i].Y)
			if d < 1e-9 {
				continue
			}
			step := math.Min(d, temp)
			pos[i].X += disp[i].X / d * step
			pos[i].Y += disp[i].Y / d * step
		}
		temp *= 0.95
	}

	rescaleToUnit(pos)
	for i, p := range pos {
		out[uint64(i+1)] = p
	}
	return out
}

// CircularLayout spaces nodes evenly on a circle. A non-nil order
// controls the placement sequence, which keeps community members
// adjacent when the caller sorts by community first.
func CircularLayout(g *graph.Graph, order []uint64) map[uint64]Point {
	n := g.NodeCount()
	out := make(map[uint64]Point, n)
	if n == 0 {
		return out
	}

	if order == nil {
		order = make([]uint64, 0, n)
		for _, node := range g.Nodes() {
			order = append(order, node.ID)
		}
	}

	const radius = 0.45
	step := 2 * math.Pi / float64(len(order))
	for i, id := range order {
		angle := float64(i) * step
		out[id] = Point{
			X: 0.5 + radius*math.Cos(angle),
			Y: 0.5 + radius*math.Sin(angle),
		}
	}
	return out
}

// rescaleToUnit min-max normalizes positions into [0, 1] on both axes.
func rescaleToUnit(pos []Point) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	spanX := maxX - minX
	spanY := maxY - minY
	for i := range pos {
		if spanX > 1e-9 {
			pos[i].X = (pos[i].X - minX) / spanX
		} else {
			pos[i].X = 0.5
		}
		if spanY > 1e-9 {
			pos[i].Y = (pos[i].Y - minY) / spanY
		} else {
			pos[i].Y = 0.5
		}
	}
}
