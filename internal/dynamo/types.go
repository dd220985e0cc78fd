package dynamo

import (
	"fmt"
	"math"
)

// State is a point (x, y, z) in phase space. It is a value type; every
// arithmetic method returns a new State.
type State [3]float64

func (s State) X() float64 { return s[0] }
func (s State) Y() float64 { return s[1] }
func (s State) Z() float64 { return s[2] }

func (s State) Add(o State) State {
	return State{s[0] + o[0], s[1] + o[1], s[2] + o[2]}
}

func (s State) Sub(o State) State {
	return State{s[0] - o[0], s[1] - o[1], s[2] - o[2]}
}

func (s State) Scale(f float64) State {
	return State{s[0] * f, s[1] * f, s[2] * f}
}

// AddScaled returns s + f*o.
func (s State) AddScaled(f float64, o State) State {
	return State{s[0] + f*o[0], s[1] + f*o[1], s[2] + f*o[2]}
}

func (s State) Norm() float64 {
	return math.Sqrt(s[0]*s[0] + s[1]*s[1] + s[2]*s[2])
}

// IsFinite reports whether no component is NaN or Inf.
func (s State) IsFinite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) String() string {
	return fmt.Sprintf("(%g, %g, %g)", s[0], s[1], s[2])
}

// Params holds the three constants of a vector field, e.g. (sigma, rho, beta)
// for the Lorenz system.
type Params [3]float64

// VectorField maps a state and parameters to the time derivative at that
// state. Implementations must be pure.
type VectorField func(s State, p Params) State

// Trajectory is the output of one fixed-step integration run.
//
// States[i] is the state after step i+1. Derivatives[i] is the field evaluated
// at the state before that step, so Derivatives[0] is f(x0).
type Trajectory struct {
	States      []State
	Derivatives []State
	T0          float64
	Step        float64
}

func (t *Trajectory) Len() int { return len(t.States) }

// Times returns the sample time of every state: T0 + (i+1)*Step.
func (t *Trajectory) Times() []float64 {
	times := make([]float64, len(t.States))
	for i := range times {
		times[i] = t.T0 + float64(i+1)*t.Step
	}
	return times
}

// Axis returns one coordinate of every state, e.g. Axis(0) is x(t).
func (t *Trajectory) Axis(i int) []float64 {
	out := make([]float64, len(t.States))
	for j, s := range t.States {
		out[j] = s[i]
	}
	return out
}

// DerivativeAxis returns one coordinate of every recorded derivative.
func (t *Trajectory) DerivativeAxis(i int) []float64 {
	out := make([]float64, len(t.Derivatives))
	for j, d := range t.Derivatives {
		out[j] = d[i]
	}
	return out
}

// Bounds returns the componentwise minimum and maximum over all finite
// states. ok is false when there is no finite state.
func (t *Trajectory) Bounds() (lo, hi State, ok bool) {
	for _, s := range t.States {
		if !s.IsFinite() {
			continue
		}
		if !ok {
			lo, hi, ok = s, s, true
			continue
		}
		for i := range s {
			lo[i] = math.Min(lo[i], s[i])
			hi[i] = math.Max(hi[i], s[i])
		}
	}
	return lo, hi, ok
}
