package integrators

import "github.com/san-kum/neurodyn/internal/neuro"

// Heun is the improved Euler predictor-corrector rule.
type Heun struct {
	k1, k2  neuro.Vector
	scratch neuro.Vector
}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) ensureScratch(n int) {
	if len(h.k1) != n {
		h.k1 = make(neuro.Vector, n)
		h.k2 = make(neuro.Vector, n)
		h.scratch = make(neuro.Vector, n)
	}
}

func (h *Heun) Step(f neuro.RHS, y neuro.Vector, t, dt float64, args ...neuro.Vector) neuro.Vector {
	n := len(y)
	h.ensureScratch(n)

	k1 := f(y, t, args...)
	copy(h.k1, k1)

	for i := 0; i < n; i++ {
		h.scratch[i] = y[i] + dt*h.k1[i]
	}
	k2 := f(h.scratch, t+dt, args...)
	copy(h.k2, k2)

	result := make(neuro.Vector, n)
	for i := 0; i < n; i++ {
		result[i] = y[i] + dt*0.5*(h.k1[i]+h.k2[i])
	}
	return result
}
