// Package dynamo provides core primitives for three-dimensional autonomous
// dynamical systems.
//
// The package defines the value types shared by the integrator and the
// box-counting grid:
//
//   - [State]: a point (x, y, z) in phase space
//   - [Params]: the three control constants of a vector field
//   - [VectorField]: a pure function dX/dt = f(X; p)
//   - [Trajectory]: the states and pre-step derivatives of one integration run
//
// # Example
//
//	traj, err := integrators.RK4(physics.Lorenz, x0, 0, 100, 40000, p)
//	grid, err := boxcount.Build(boxcount.Cuboid(75), 10)
//	occ := grid.CountOccupied(traj.States)
//
// # Thread Safety
//
// All types are values or are treated as read-only once returned, so a
// Trajectory may be shared between goroutines without locking.
package dynamo
