package physics

import "github.com/san-kum/boxdim/internal/dynamo"

// Rossler is the Rössler vector field with p = (a, b, c).
func Rossler(s dynamo.State, p dynamo.Params) dynamo.State {
	a, b, c := p[0], p[1], p[2]
	return dynamo.State{-s[1] - s[2], s[0] + a*s[1], b + s[2]*(s[0]-c)}
}

func RosslerClassic() dynamo.Params { return dynamo.Params{0.2, 0.2, 5.7} }
