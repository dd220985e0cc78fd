package physics

import (
	"fmt"
	"sort"

	"github.com/san-kum/boxdim/internal/dynamo"
)

// System bundles a vector field with its conventional parameters and
// starting point.
type System struct {
	Name         string
	ParamNames   [3]string
	Field        dynamo.VectorField
	DefaultParam dynamo.Params
	DefaultState dynamo.State
}

// Param returns the index of a named parameter, or -1.
func (s System) Param(name string) int {
	for i, n := range s.ParamNames {
		if n == name {
			return i
		}
	}
	return -1
}

var systems = map[string]System{
	"lorenz": {
		Name:         "lorenz",
		ParamNames:   [3]string{"sigma", "rho", "beta"},
		Field:        Lorenz,
		DefaultParam: LorenzClassic(),
		DefaultState: dynamo.State{1.0, 1.0, 1.0},
	},
	"rossler": {
		Name:         "rossler",
		ParamNames:   [3]string{"a", "b", "c"},
		Field:        Rossler,
		DefaultParam: RosslerClassic(),
		DefaultState: dynamo.State{1.0, 1.0, 1.0},
	},
}

// Lookup returns the system registered under name.
func Lookup(name string) (System, error) {
	s, ok := systems[name]
	if !ok {
		return System{}, fmt.Errorf("unknown system: %s", name)
	}
	return s, nil
}

// Names lists the registered systems in sorted order.
func Names() []string {
	names := make([]string, 0, len(systems))
	for name := range systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
