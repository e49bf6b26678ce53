package neuro

import "math"

// Mode is the execution shape discipline of a component: a single entity,
// a population of independent entities, or a dense pairwise relation.
type Mode int

const (
	ModeScalar Mode = iota
	ModeVector
	ModeMatrix
)

func (m Mode) String() string {
	switch m {
	case ModeScalar:
		return "scalar"
	case ModeVector:
		return "vector"
	case ModeMatrix:
		return "matrix"
	default:
		return "unknown"
	}
}

// Field declares one named state variable and its initial value.
type Field struct {
	Name string
	Init float64
}

type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) Fill(val float64) {
	for i := range v {
		v[i] = val
	}
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Add(other Vector) {
	for i := range v {
		if i < len(other) {
			v[i] += other[i]
		}
	}
}

func (v Vector) AddScalar(val float64) {
	for i := range v {
		v[i] += val
	}
}

// RHS is a normalized right-hand side dy/dt = f(y, t, args...). The args
// carry any external state fields the equation reads (membrane potential,
// gating drive, ...), each elementwise-aligned with y.
type RHS func(y Vector, t float64, args ...Vector) Vector

// Stepper advances y by one fixed step of size dt. Implementations must be
// pure with respect to y and t: no hidden time state, scratch buffers only.
type Stepper interface {
	Step(f RHS, y Vector, t, dt float64, args ...Vector) Vector
}

// IntegrationSpec selects the numerical rule for one state field at
// type-declaration time. Tau is only meaningful for the exponential rule.
type IntegrationSpec struct {
	Kind string
	Tau  float64
}
