package integrators

import "github.com/san-kum/neurodyn/internal/neuro"

type RK4 struct {
	k1, k2, k3, k4 neuro.Vector
	scratch        neuro.Vector
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(neuro.Vector, n)
		r.k2 = make(neuro.Vector, n)
		r.k3 = make(neuro.Vector, n)
		r.k4 = make(neuro.Vector, n)
		r.scratch = make(neuro.Vector, n)
	}
}

func (r *RK4) Step(f neuro.RHS, y neuro.Vector, t, dt float64, args ...neuro.Vector) neuro.Vector {
	n := len(y)
	r.ensureScratch(n)

	k1 := f(y, t, args...)
	copy(r.k1, k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + dt*0.5*r.k1[i]
	}
	k2 := f(r.scratch, t+dt*0.5, args...)
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + dt*0.5*r.k2[i]
	}
	k3 := f(r.scratch, t+dt*0.5, args...)
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + dt*r.k3[i]
	}
	k4 := f(r.scratch, t+dt, args...)
	copy(r.k4, k4)

	result := make(neuro.Vector, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = y[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}
