package integrators

import "github.com/san-kum/boxdim/internal/dynamo"

// Step advances s by one classical RK4 step of size h and returns the new
// state together with the first-stage derivative k0 = f(s).
func Step(f dynamo.VectorField, s dynamo.State, p dynamo.Params, h float64) (next, k0 dynamo.State) {
	k0 = f(s, p)
	k1 := f(s.AddScaled(h/2, k0), p)
	k2 := f(s.AddScaled(h/2, k1), p)
	k3 := f(s.AddScaled(h, k2), p)

	h6 := h / 6.0
	for i := range next {
		next[i] = s[i] + h6*(k0[i]+2*k1[i]+2*k2[i]+k3[i])
	}
	return next, k0
}

// RK4 integrates f from x0 over [t0, maxTime] in n equal steps.
//
// States[i] holds the state after step i+1 and Derivatives[i] holds f at the
// state before that step. Divergent trajectories are returned unchanged; the
// only rejected input is n <= 0.
func RK4(f dynamo.VectorField, x0 dynamo.State, t0, maxTime float64, n int, p dynamo.Params) (*dynamo.Trajectory, error) {
	if n <= 0 {
		return nil, dynamo.InvalidArgument("steps", n, "must be positive")
	}

	h := (maxTime - t0) / float64(n)
	traj := &dynamo.Trajectory{
		States:      make([]dynamo.State, n),
		Derivatives: make([]dynamo.State, n),
		T0:          t0,
		Step:        h,
	}

	s := x0
	for i := 0; i < n; i++ {
		next, k0 := Step(f, s, p, h)
		traj.States[i] = next
		traj.Derivatives[i] = k0
		s = next
	}

	return traj, nil
}
