package models

import (
	"github.com/san-kum/neurodyn/internal/component"
	"github.com/san-kum/neurodyn/internal/integrators"
	"github.com/san-kum/neurodyn/internal/neuro"
)

type LIFParams struct {
	Tau    float64 // membrane time constant
	VRest  float64
	VReset float64
	VTh    float64
	R      float64 // input resistance
}

func DefaultLIFParams() LIFParams {
	return LIFParams{
		Tau:    10.0,
		VRest:  -65.0,
		VReset: -68.0,
		VTh:    -50.0,
		R:      1.0,
	}
}

// NewLIF declares a leaky integrate-and-fire neuron. The membrane equation
// is linear decay toward rest, so it uses the exponential rule and stays
// stable for any dt.
func NewLIF(p LIFParams) *component.NeuType {
	rhsV := func(v neuro.Vector, t float64, args ...neuro.Vector) neuro.Vector {
		inp := args[0]
		dv := make(neuro.Vector, len(v))
		for i := range v {
			dv[i] = (-(v[i] - p.VRest) + p.R*inp[i]) / p.Tau
		}
		return dv
	}

	return &component.NeuType{
		Name: "lif",
		Fields: []neuro.Field{
			{Name: "V", Init: p.VRest},
			{Name: "sp"},
			{Name: "inp"},
		},
		Mode: neuro.ModeVector,
		Integration: map[string]neuro.IntegrationSpec{
			"V": {Kind: integrators.KindExponential, Tau: p.Tau},
		},
		Phases: []component.NeuPhase{
			{
				Name:  component.PhaseUpdate,
				Reads: []string{"V", "sp", "inp"},
				Run: func(g *component.NeuronGroup, t, dt float64) error {
					st := g.ST()
					v, _ := st.Get("V")
					sp, _ := st.Get("sp")
					inp, _ := st.Get("inp")

					newV := g.Stepper("V").Step(rhsV, v, t, dt, inp)
					for i := range v {
						if newV[i] >= p.VTh {
							sp[i] = 1
							newV[i] = p.VReset
						} else {
							sp[i] = 0
						}
					}
					copy(v, newV)
					return nil
				},
			},
		},
	}
}
