// Package models declares the built-in neuron and synapse types.
//
// Each constructor returns an immutable type declaration; the same value
// can back any number of groups or connections. Parameters are fixed at
// declaration time and captured by the phase closures.
package models

import (
	"math"

	"github.com/san-kum/neurodyn/internal/component"
	"github.com/san-kum/neurodyn/internal/integrators"
	"github.com/san-kum/neurodyn/internal/neuro"
)

// HHParams are the interneuron constants of the gamma-oscillation model
// (Wang & Buzsaki 1996).
type HHParams struct {
	C         float64
	GLeak     float64
	ELeak     float64
	GNa       float64
	ENa       float64
	GK        float64
	EK        float64
	Phi       float64
	Threshold float64
}

func DefaultHHParams() HHParams {
	return HHParams{
		C:         1.0,
		GLeak:     0.1,
		ELeak:     -65,
		GNa:       35,
		ENa:       55,
		GK:        9,
		EK:        -90,
		Phi:       5.0,
		Threshold: 0,
	}
}

// NewHH declares a Hodgkin-Huxley neuron with h and n gating variables and
// instantaneous m. The spike field flags upward threshold crossings.
func NewHH(p HHParams) *component.NeuType {
	rhsH := func(h neuro.Vector, t float64, args ...neuro.Vector) neuro.Vector {
		v := args[0]
		dh := make(neuro.Vector, len(h))
		for i := range h {
			alpha := 0.07 * math.Exp(-(v[i]+58)/20)
			beta := 1 / (math.Exp(-0.1*(v[i]+28)) + 1)
			dh[i] = p.Phi * (alpha*(1-h[i]) - beta*h[i])
		}
		return dh
	}

	rhsN := func(nv neuro.Vector, t float64, args ...neuro.Vector) neuro.Vector {
		v := args[0]
		dn := make(neuro.Vector, len(nv))
		for i := range nv {
			alpha := -0.01 * (v[i] + 34) / (math.Exp(-0.1*(v[i]+34)) - 1)
			beta := 0.125 * math.Exp(-(v[i]+44)/80)
			dn[i] = p.Phi * (alpha*(1-nv[i]) - beta*nv[i])
		}
		return dn
	}

	rhsV := func(v neuro.Vector, t float64, args ...neuro.Vector) neuro.Vector {
		h, nv, isyn := args[0], args[1], args[2]
		dv := make(neuro.Vector, len(v))
		for i := range v {
			mAlpha := -0.1 * (v[i] + 35) / (math.Exp(-0.1*(v[i]+35)) - 1)
			mBeta := 4 * math.Exp(-(v[i]+60)/18)
			m := mAlpha / (mAlpha + mBeta)
			iNa := p.GNa * m * m * m * h[i] * (v[i] - p.ENa)
			iK := p.GK * nv[i] * nv[i] * nv[i] * nv[i] * (v[i] - p.EK)
			iL := p.GLeak * (v[i] - p.ELeak)
			dv[i] = (-iNa - iK - iL + isyn[i]) / p.C
		}
		return dv
	}

	return &component.NeuType{
		Name: "hh",
		Fields: []neuro.Field{
			{Name: "V", Init: -55.0},
			{Name: "h"},
			{Name: "n"},
			{Name: "sp"},
			{Name: "inp"},
		},
		Mode: neuro.ModeVector,
		Integration: map[string]neuro.IntegrationSpec{
			"V": {Kind: integrators.KindRK4},
			"h": {Kind: integrators.KindRK4},
			"n": {Kind: integrators.KindRK4},
		},
		Phases: []component.NeuPhase{
			{
				Name:  component.PhaseUpdate,
				Reads: []string{"V", "h", "n", "sp", "inp"},
				Run: func(g *component.NeuronGroup, t, dt float64) error {
					st := g.ST()
					v, _ := st.Get("V")
					h, _ := st.Get("h")
					nv, _ := st.Get("n")
					sp, _ := st.Get("sp")
					inp, _ := st.Get("inp")

					newH := g.Stepper("h").Step(rhsH, h, t, dt, v)
					newN := g.Stepper("n").Step(rhsN, nv, t, dt, v)
					newV := g.Stepper("V").Step(rhsV, v, t, dt, h, nv, inp)

					for i := range v {
						if v[i] < p.Threshold && newV[i] >= p.Threshold {
							sp[i] = 1
						} else {
							sp[i] = 0
						}
					}
					copy(h, newH)
					copy(nv, newN)
					copy(v, newV)
					return nil
				},
			},
		},
	}
}
