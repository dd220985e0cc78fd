package boxcount

import (
	"math"

	"github.com/san-kum/boxdim/internal/dynamo"
)

// Region is the cuboid [Lo, Hi) to be tiled.
type Region struct {
	Lo dynamo.State `json:"lo" yaml:"lo"`
	Hi dynamo.State `json:"hi" yaml:"hi"`
}

// Cuboid returns the symmetric region [-l, l)^3.
func Cuboid(l float64) Region {
	return Region{Lo: dynamo.State{-l, -l, -l}, Hi: dynamo.State{l, l, l}}
}

// Around returns the smallest region containing [lo, hi] padded by margin on
// every side.
func Around(lo, hi dynamo.State, margin float64) Region {
	m := dynamo.State{margin, margin, margin}
	return Region{Lo: lo.Sub(m), Hi: hi.Add(m)}
}

// Span returns Hi - Lo per axis.
func (r Region) Span() dynamo.State { return r.Hi.Sub(r.Lo) }

// Validate rejects non-finite bounds and empty or inverted axes.
func (r Region) Validate() error {
	if !r.Lo.IsFinite() || !r.Hi.IsFinite() {
		return dynamo.InvalidArgument("region", r, "bounds must be finite")
	}
	for i := range r.Lo {
		if !(r.Hi[i] > r.Lo[i]) {
			return dynamo.InvalidArgument("region", r, "upper bound must exceed lower bound on every axis")
		}
	}
	return nil
}

// tiles returns how many cubes of side s cover [lo, hi]. Rounding noise in
// the quotient does not inflate exact multiples by one, but the last edge
// lo + n*s never stops short of hi.
func tiles(lo, hi, s float64) int {
	q := (hi - lo) / s
	n := int(math.Ceil(q - q*1e-9))
	if n < 1 {
		n = 1
	}
	for lo+float64(n)*s < hi {
		n++
	}
	return n
}
