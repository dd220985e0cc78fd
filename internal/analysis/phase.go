package analysis

import "github.com/san-kum/boxdim/internal/dynamo"

// Point is a sample of a 2D plot.
type Point struct{ X, Y float64 }

// PhasePortrait pairs each state coordinate on axis with the derivative
// recorded at the same index. The derivative at index i is taken before step
// i, matching how the integrator records it.
func PhasePortrait(traj *dynamo.Trajectory, axis int) []Point {
	if traj == nil || axis < 0 || axis > 2 {
		return nil
	}

	n := min(len(traj.States), len(traj.Derivatives))
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		points[i] = Point{X: traj.States[i][axis], Y: traj.Derivatives[i][axis]}
	}
	return points
}

// TimeSeries pairs sample times with one coordinate.
func TimeSeries(traj *dynamo.Trajectory, axis int) []Point {
	if traj == nil || axis < 0 || axis > 2 {
		return nil
	}

	times := traj.Times()
	points := make([]Point, len(times))
	for i, t := range times {
		points[i] = Point{X: t, Y: traj.States[i][axis]}
	}
	return points
}
