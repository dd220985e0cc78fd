package analysis

import (
	"math"

	"github.com/san-kum/boxdim/internal/dynamo"
	"github.com/san-kum/boxdim/internal/integrators"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two trajectories separated by d0 along x
// 2. After every step, accumulate ln(d/d0)
// 3. Rescale the separation back to d0
// 4. λ ≈ sum / (steps * h)
func LyapunovExponent(f dynamo.VectorField, p dynamo.Params, x0 dynamo.State, h float64, steps int, d0 float64) float64 {
	if steps <= 0 || h == 0 || d0 <= 0 {
		return 0
	}

	x := x0
	xp := x0
	xp[0] += d0

	sumLog := 0.0
	for i := 0; i < steps; i++ {
		x, _ = integrators.Step(f, x, p, h)
		xp, _ = integrators.Step(f, xp, p, h)

		delta := xp.Sub(x)
		sep := delta.Norm()
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			continue
		}
		sumLog += math.Log(sep / d0)

		// Renormalize to keep the pair in the linear regime
		xp = x.AddScaled(d0/sep, delta)
	}

	return sumLog / (float64(steps) * h)
}
