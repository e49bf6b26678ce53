package integrators

import (
	"math"

	"github.com/san-kum/neurodyn/internal/neuro"
)

// ExpEuler integrates equations of the form dy/dt = -y/tau + input by
// solving the linear decay part exactly per step and treating the remainder
// of the right-hand side explicitly. Unlike plain Euler it stays bounded for
// any dt/tau ratio, which is what fast-decaying gating variables need.
type ExpEuler struct {
	tau float64
}

func NewExpEuler(tau float64) *ExpEuler {
	return &ExpEuler{tau: tau}
}

func (e *ExpEuler) Step(f neuro.RHS, y neuro.Vector, t, dt float64, args ...neuro.Vector) neuro.Vector {
	a := -1.0 / e.tau
	ea := math.Exp(a * dt)
	dy := f(y, t, args...)

	result := make(neuro.Vector, len(y))
	for i := range y {
		// Split f into a*y + b and advance the linear part exactly.
		b := dy[i] - a*y[i]
		result[i] = y[i]*ea + b/a*(ea-1)
	}
	return result
}
