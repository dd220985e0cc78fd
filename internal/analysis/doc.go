// Package analysis characterizes trajectories produced by the integrator.
//
//   - [BoxDimension]: box-counting dimension from occupancy counts at several scales
//   - [Scales]: geometrically decreasing cube sides
//   - [PhasePortrait]: coordinate against its recorded derivative
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//
// # Dimension Estimate
//
// The estimate is the least-squares slope of log N(s) against log(1/s):
//
//	sides, err := analysis.Scales(20, 1.25, 5)
//	if err != nil {
//		return err
//	}
//	est, err := analysis.BoxDimension(ctx, traj.States, boxcount.Cuboid(75), sides)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("D = %.3f (R² %.3f)\n", est.Dimension, est.RSquared)
package analysis
