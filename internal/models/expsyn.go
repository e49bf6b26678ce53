package models

import (
	"github.com/san-kum/neurodyn/internal/component"
	"github.com/san-kum/neurodyn/internal/integrators"
	"github.com/san-kum/neurodyn/internal/neuro"
)

type ExpSynParams struct {
	Tau  float64 // gate decay time constant
	GMax float64
	E    float64 // reversal potential
	W    float64 // gate increment per presynaptic spike
}

func DefaultExpSynParams() ExpSynParams {
	return ExpSynParams{Tau: 2.0, GMax: 0.1, E: 0, W: 1.0}
}

// NewExpSyn declares a conductance synapse with a single exponentially
// decaying gate: a presynaptic spike kicks the gate up, the gate decays
// with tau, and the injected current is g_max * s * (E - V_post).
func NewExpSyn(p ExpSynParams) *component.SynType {
	rhsS := func(s neuro.Vector, t float64, args ...neuro.Vector) neuro.Vector {
		ds := make(neuro.Vector, len(s))
		for i := range s {
			ds[i] = -s[i] / p.Tau
		}
		return ds
	}

	return &component.SynType{
		Name:         "expsyn",
		Fields:       []neuro.Field{{Name: "s"}, {Name: "g"}},
		Mode:         neuro.ModeVector,
		RequiresPre:  []string{"sp"},
		RequiresPost: []string{"V"},
		PostField:    "inp",
		Integration: map[string]neuro.IntegrationSpec{
			"s": {Kind: integrators.KindExponential, Tau: p.Tau},
		},
		Phases: []component.SynPhase{
			{
				Name:  component.PhaseUpdate,
				Reads: []string{"s", "g"},
				Run: func(c *component.SynConn, t, dt float64) error {
					st := c.ST()
					s, _ := st.Get("s")
					g, _ := st.Get("g")
					sp, err := c.Pre().Get("sp")
					if err != nil {
						return err
					}

					conn := c.Conn()
					for preID, synIDs := range conn.Pre2Syn {
						if sp[preID] > 0 {
							for _, sid := range synIDs {
								s[sid] += p.W
							}
						}
					}

					newS := c.Stepper("s").Step(rhsS, s, t, dt)
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
				out[i] = delayed[i] * (p.E - v[i])
			}
			return out, nil
		},
	}
}
