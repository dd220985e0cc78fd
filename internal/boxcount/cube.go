package boxcount

import (
	"math"

	"github.com/san-kum/boxdim/internal/dynamo"
)

// Cube is an immutable axis-aligned cell with lower corner Min and side
// length Side.
type Cube struct {
	min, max dynamo.State
	side     float64
	// openUpper[i] excludes the upper face on axis i.
	openUpper [3]bool
}

// NewCube returns a cube with closed bounds [min, min+side] on every axis.
func NewCube(min dynamo.State, side float64) (Cube, error) {
	if !(side > 0) || math.IsInf(side, 1) {
		return Cube{}, dynamo.InvalidArgument("side", side, "must be positive and finite")
	}
	if !min.IsFinite() {
		return Cube{}, dynamo.InvalidArgument("min", min, "must be finite")
	}
	return Cube{min: min, max: min.Add(dynamo.State{side, side, side}), side: side}, nil
}

func (c Cube) Min() dynamo.State { return c.min }
func (c Cube) Max() dynamo.State { return c.max }
func (c Cube) Side() float64     { return c.side }

// Center returns the midpoint of the cube.
func (c Cube) Center() dynamo.State {
	return c.min.Add(c.max).Scale(0.5)
}

// Contains reports whether p lies within the cube's bounds on all three axes.
// NaN coordinates are never contained.
func (c Cube) Contains(p dynamo.State) bool {
	for i := range p {
		if !(p[i] >= c.min[i]) {
			return false
		}
		if c.openUpper[i] {
			if !(p[i] < c.max[i]) {
				return false
			}
		} else if !(p[i] <= c.max[i]) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether any of the states lies in the cube. It stops at
// the first match.
func (c Cube) ContainsAny(states []dynamo.State) bool {
	for _, s := range states {
		if c.Contains(s) {
			return true
		}
	}
	return false
}
