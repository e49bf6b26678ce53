package models

import (
	"math"

	"github.com/san-kum/neurodyn/internal/component"
	"github.com/san-kum/neurodyn/internal/integrators"
	"github.com/san-kum/neurodyn/internal/neuro"
)

type GABAaParams struct {
	GMax      float64
	E         float64
	Alpha     float64
	Beta      float64
	Threshold float64 // presynaptic threshold for transmitter release
}

func DefaultGABAaParams() GABAaParams {
	return GABAaParams{GMax: 0.1, E: -75, Alpha: 12, Beta: 0.1, Threshold: 0}
}

// NewGABAa declares the inhibitory synapse of the gamma-oscillation model.
// Transmitter concentration follows the presynaptic membrane potential
// through a sigmoid, and the gate relaxes with alpha/beta kinetics.
func NewGABAa(p GABAaParams) *component.SynType {
	rhsS := func(s neuro.Vector, t float64, args ...neuro.Vector) neuro.Vector {
		tt := args[0]
		ds := make(neuro.Vector, len(s))
		for i := range s {
			ds[i] = p.Alpha*tt[i]*(1-s[i]) - p.Beta*s[i]
		}
		return ds
	}

	return &component.SynType{
		Name:         "gabaa",
		Fields:       []neuro.Field{{Name: "s"}, {Name: "g"}},
		Mode:         neuro.ModeVector,
		RequiresPre:  []string{"V"},
		RequiresPost: []string{"V"},
		PostField:    "inp",
		Integration: map[string]neuro.IntegrationSpec{
			"s": {Kind: integrators.KindRK4},
		},
		Phases: []component.SynPhase{
			{
				Name:  component.PhaseUpdate,
				Reads: []string{"s", "g"},
				Run: func(c *component.SynConn, t, dt float64) error {
					st := c.ST()
					s, _ := st.Get("s")
					g, _ := st.Get("g")
					preV, err := c.Pre().Get("V")
					if err != nil {
						return err
					}

					conn := c.Conn()
					tt := make(neuro.Vector, len(s))
					for preID, synIDs := range conn.Pre2Syn {
						above := preV[preID] - p.Threshold
						release := 1 / (1 + math.Exp(-above/2))
						for _, sid := range synIDs {
							tt[sid] = release
						}
					}

					newS := c.Stepper("s").Step(rhsS, s, t, dt, tt)
					copy(s, newS)
					for i := range g {
						g[i] = p.GMax * s[i]
					}
					return nil
				},
			},
			{
				Name:  component.PhaseOutput,
				Reads: []string{"g"},
				Run: func(c *component.SynConn, t, dt float64) error {
					g, _ := c.ST().Get("g")
					conn := c.Conn()
					out := make(neuro.Vector, c.NPost())
					for postID, synIDs := range conn.Post2Syn {
						for _, sid := range synIDs {
							out[postID] += g[sid]
						}
					}
					return c.Stage(out)
				},
			},
		},
		Current: func(c *component.SynConn, delayed neuro.Vector, t float64) (neuro.Vector, error) {
			v, err := c.Post().Get("V")
			if err != nil {
				return nil, err
			}
			out := make(neuro.Vector, len(delayed))
			for i := range delayed {
				out[i] = -delayed[i] * (v[i] - p.E)
			}
			return out, nil
		},
	}
}
