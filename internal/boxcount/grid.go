package boxcount

import (
	"math"

	"github.com/san-kum/boxdim/internal/dynamo"
)

// MaxCubes bounds the size of a single grid. Each cube costs about 64 bytes
// and every cube is tested against every state, so the cap keeps one grid
// near 256 MiB.
const MaxCubes = 1 << 22

// minChunk is the smallest number of cubes handed to one worker.
const minChunk = 64

// Grid is the set of cubes tiling a region at one side length. Cubes are
// enumerated lexicographically by tile index (i, j, k) with x outermost.
type Grid struct {
	region  Region
	side    float64
	dims    [3]int
	cubes   []Cube
	workers int
}

type Option func(*Grid)

// WithWorkers bounds the goroutines used by CountOccupied. n <= 0 means
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(g *Grid) { g.workers = n }
}

// Build tiles region with cubes of the given side. When a span is not a
// multiple of side the last layer of cubes overhangs the upper bound.
func Build(region Region, side float64, opts ...Option) (*Grid, error) {
	if !(side > 0) || math.IsInf(side, 1) {
		return nil, dynamo.InvalidArgument("side", side, "must be positive and finite")
	}
	if err := region.Validate(); err != nil {
		return nil, err
	}

	g := &Grid{region: region, side: side}
	for _, opt := range opts {
		opt(g)
	}

	span := region.Span()
	total := 1.0
	for i := range g.dims {
		// Checked before tiling so a tiny side cannot overflow the count.
		if total *= math.Ceil(span[i] / side); total > MaxCubes {
			return nil, dynamo.InvalidArgument("side", side, "grid would exceed MaxCubes")
		}
		g.dims[i] = tiles(region.Lo[i], region.Hi[i], side)
	}
	if g.dims[0]*g.dims[1]*g.dims[2] > MaxCubes {
		return nil, dynamo.InvalidArgument("side", side, "grid would exceed MaxCubes")
	}

	nx, ny, nz := g.dims[0], g.dims[1], g.dims[2]
	g.cubes = make([]Cube, 0, nx*ny*nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				g.cubes = append(g.cubes, g.tile(i, j, k))
			}
		}
	}

	return g, nil
}

// edge returns the coordinate of the i-th tile boundary on an axis. Adjacent
// cubes share the exact same float for their common face.
func (g *Grid) edge(axis, i int) float64 {
	return g.region.Lo[axis] + float64(i)*g.side
}

func (g *Grid) tile(i, j, k int) Cube {
	idx := [3]int{i, j, k}
	var c Cube
	c.side = g.side
	for a := range idx {
		c.min[a] = g.edge(a, idx[a])
		c.max[a] = g.edge(a, idx[a]+1)
		c.openUpper[a] = idx[a] < g.dims[a]-1
	}
	return c
}

func (g *Grid) Region() Region    { return g.region }
func (g *Grid) Side() float64     { return g.side }
func (g *Grid) Dims() [3]int      { return g.dims }
func (g *Grid) Len() int          { return len(g.cubes) }
func (g *Grid) Cube(idx int) Cube { return g.cubes[idx] }

// Cubes returns a copy of the cubes in enumeration order.
func (g *Grid) Cubes() []Cube {
	out := make([]Cube, len(g.cubes))
	copy(out, g.cubes)
	return out
}

// Index returns the enumeration index of tile (i, j, k).
func (g *Grid) Index(i, j, k int) int {
	return (i*g.dims[1]+j)*g.dims[2] + k
}

// Locate returns the index of the unique cube owning p, or false when p is
// outside the grid.
func (g *Grid) Locate(p dynamo.State) (int, bool) {
	var idx [3]int
	for a := range p {
		i, ok := g.axisIndex(a, p[a])
		if !ok {
			return -1, false
		}
		idx[a] = i
	}
	return g.Index(idx[0], idx[1], idx[2]), true
}

func (g *Grid) axisIndex(axis int, v float64) (int, bool) {
	n := g.dims[axis]
	if !(v >= g.edge(axis, 0)) || v > g.edge(axis, n) || math.IsInf(v, 0) {
		return 0, false
	}

	i := int(math.Floor((v - g.region.Lo[axis]) / g.side))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	for i > 0 && v < g.edge(axis, i) {
		i--
	}
	for i < n-1 && v >= g.edge(axis, i+1) {
		i++
	}
	return i, true
}

// Occupancy is the result of one occupancy sweep.
type Occupancy struct {
	Side  float64
	Total int
	// Count is N(s), the number of cubes holding at least one state.
	Count    int
	Occupied []Cube
}

// Fraction returns Count/Total.
func (o Occupancy) Fraction() float64 {
	if o.Total == 0 {
		return 0
	}
	return float64(o.Count) / float64(o.Total)
}

// CountOccupied tests every cube against states and reports the occupied
// ones in enumeration order. The grid and states are not modified, so
// repeated calls give the same result.
func (g *Grid) CountOccupied(states []dynamo.State) Occupancy {
	occ := Occupancy{Side: g.side, Total: len(g.cubes)}
	if len(states) == 0 {
		return occ
	}

	hit := make([]bool, len(g.cubes))
	dynamo.ParallelFor(len(g.cubes), minChunk, g.workers, func(start, end int) {
		for i := start; i < end; i++ {
			hit[i] = g.cubes[i].ContainsAny(states)
		}
	})

	for i, h := range hit {
		if h {
			occ.Occupied = append(occ.Occupied, g.cubes[i])
		}
	}
	occ.Count = len(occ.Occupied)
	return occ
}
