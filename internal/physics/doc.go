// Package physics provides three-dimensional chaotic vector fields.
//
// Each field is a plain [dynamo.VectorField], so any of them can be handed to
// the integrator without adapters:
//
//   - [Lorenz]: butterfly attractor, p = (sigma, rho, beta)
//   - [Rossler]: spiral attractor, p = (a, b, c)
//
// [Lookup] resolves a [System] by name for the CLI and config layers.
//
//	sys, _ := physics.Lookup("lorenz")
//	dx := sys.Field(dynamo.State{1, 1, 1}, sys.DefaultParam)
package physics
