package integrators

import "github.com/san-kum/neurodyn/internal/neuro"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f neuro.RHS, y neuro.Vector, t, dt float64, args ...neuro.Vector) neuro.Vector {
	dy := f(y, t, args...)
	result := make(neuro.Vector, len(y))
	for i := range y {
		result[i] = y[i] + dt*dy[i]
	}
	return result
}
