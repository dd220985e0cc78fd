// Package boxcount tiles a cuboid region with equal cubes and counts how many
// of them a trajectory visits.
//
// The count N(s) at side length s is the input to a box-counting dimension
// estimate: D is the slope of log N(s) against log(1/s).
//
// # Membership
//
// A standalone [Cube] has closed bounds on every face. Inside a [Grid] the
// upper face of a cube is excluded whenever a neighbouring cube starts there,
// so every point of the tiled region belongs to exactly one cube. Upper faces
// on the outer edge of the grid stay closed.
//
// # Concurrency
//
// [Grid.CountOccupied] splits the cubes into contiguous chunks and tests them
// on separate goroutines. Cubes are immutable and the trajectory is only read,
// so no locking is involved.
package boxcount
