package physics

import "github.com/san-kum/boxdim/internal/dynamo"

// Lorenz is the Lorenz vector field with p = (sigma, rho, beta):
//
//	dx = sigma*(y - x)
//	dy = x*(rho - z) - y
//	dz = x*y - beta*z
func Lorenz(s dynamo.State, p dynamo.Params) dynamo.State {
	sigma, rho, beta := p[0], p[1], p[2]
	return dynamo.State{sigma * (s[1] - s[0]), s[0]*(rho-s[2]) - s[1], s[0]*s[1] - beta*s[2]}
}

// LorenzClassic returns Lorenz's original chaotic parameters (10, 28, 8/3).
func LorenzClassic() dynamo.Params { return dynamo.Params{10.0, 28.0, 8.0 / 3.0} }
