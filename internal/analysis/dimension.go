package analysis

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/boxdim/internal/boxcount"
	"github.com/san-kum/boxdim/internal/dynamo"
)

// ErrInsufficientScales is returned when fewer than two distinct scales have
// a non-zero occupancy count.
var ErrInsufficientScales = errors.New("analysis: need at least two occupied scales")

// ScalePoint is the occupancy count at one cube side.
type ScalePoint struct {
	Side       float64 `json:"side"`
	Count      int     `json:"count"`
	Total      int     `json:"total"`
	LogInvSide float64 `json:"log_inv_side"`
	LogCount   float64 `json:"log_count"`
}

// DimensionEstimate is a fitted box-counting dimension.
type DimensionEstimate struct {
	Points    []ScalePoint `json:"points"`
	Dimension float64      `json:"dimension"`
	Intercept float64      `json:"intercept"`
	RSquared  float64      `json:"r_squared"`
}

// Scales returns n side lengths spaced geometrically from max down to min.
func Scales(max, min float64, n int) ([]float64, error) {
	if !(min > 0) || !(max >= min) || math.IsInf(max, 1) {
		return nil, dynamo.InvalidArgument("scales", [2]float64{max, min}, "need 0 < min <= max")
	}
	if n < 1 {
		return nil, dynamo.InvalidArgument("scales", n, "need at least one scale")
	}
	if n == 1 {
		return []float64{max}, nil
	}
	return floats.LogSpan(make([]float64, n), max, min), nil
}

// Occupancy builds a grid at side s over region and counts the occupied cubes.
func Occupancy(states []dynamo.State, region boxcount.Region, side float64, opts ...boxcount.Option) (ScalePoint, error) {
	g, err := boxcount.Build(region, side, opts...)
	if err != nil {
		return ScalePoint{}, err
	}
	occ := g.CountOccupied(states)

	pt := ScalePoint{Side: side, Count: occ.Count, Total: occ.Total, LogInvSide: math.Log(1 / side)}
	if occ.Count > 0 {
		pt.LogCount = math.Log(float64(occ.Count))
	}
	return pt, nil
}

// BoxDimension counts occupied cubes at every side in sides and fits the
// dimension with Fit. ctx is checked between scales.
func BoxDimension(ctx context.Context, states []dynamo.State, region boxcount.Region, sides []float64, opts ...boxcount.Option) (*DimensionEstimate, error) {
	points := make([]ScalePoint, 0, len(sides))
	for _, side := range sides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pt, err := Occupancy(states, region, side, opts...)
		if err != nil {
			return nil, err
		}
		points = append(points, pt)
	}
	return Fit(points)
}

// Fit returns the least-squares slope of log N(s) against log(1/s). Points
// with no occupied cube are kept in the estimate but left out of the fit.
func Fit(points []ScalePoint) (*DimensionEstimate, error) {
	var xs, ys []float64
	distinct := make(map[float64]struct{})
	for _, pt := range points {
		if pt.Count > 0 {
			xs = append(xs, pt.LogInvSide)
			ys = append(ys, pt.LogCount)
			distinct[pt.Side] = struct{}{}
		}
	}
	if len(distinct) < 2 {
		return nil, ErrInsufficientScales
	}

	est := &DimensionEstimate{Points: points}
	est.Intercept, est.Dimension = stat.LinearRegression(xs, ys, nil, false)
	// A flat set of counts is fitted exactly by slope zero, where RSquared
	// would divide zero by zero.
	if floats.Max(ys) == floats.Min(ys) {
		est.RSquared = 1
	} else {
		est.RSquared = stat.RSquared(xs, ys, nil, est.Intercept, est.Dimension)
	}
	return est, nil
}
