package component

import (
	"errors"
	"testing"

	"github.com/san-kum/neurodyn/internal/connectivity"
	"github.com/san-kum/neurodyn/internal/integrators"
	"github.com/san-kum/neurodyn/internal/neuro"
)

func testNeuType() *NeuType {
	return &NeuType{
		Name: "leaky",
		Fields: []neuro.Field{
			{Name: "V", Init: -65.0},
			{Name: "sp"},
			{Name: "inp"},
		},
		Mode: neuro.ModeVector,
		Phases: []NeuPhase{
			{
				Name:  PhaseUpdate,
				Reads: []string{"V", "inp"},
				Run: func(g *NeuronGroup, t, dt float64) error {
					v, _ := g.ST().Get("V")
					inp, _ := g.ST().Get("inp")
					for i := range v {
						v[i] += dt * inp[i]
					}
					return nil
				},
			},
		},
		Integration: map[string]neuro.IntegrationSpec{
			"V": {Kind: integrators.KindEuler},
		},
	}
}

func testSynType() *SynType {
	return &SynType{
		Name:         "passthrough",
		Fields:       []neuro.Field{{Name: "g"}},
		Mode:         neuro.ModeVector,
		RequiresPre:  []string{"sp"},
		RequiresPost: []string{"V"},
		PostField:    "inp",
		Phases: []SynPhase{
			{
				Name:  PhaseOutput,
				Reads: []string{"g"},
				Run: func(c *SynConn, t, dt float64) error {
					out := make(neuro.Vector, c.NPost())
					g, _ := c.ST().Get("g")
					conn := c.Conn()
					for j := 0; j < c.NPost(); j++ {
						for _, s := range conn.Post2Syn[j] {
							out[j] += g[s]
						}
					}
					return c.Stage(out)
				},
			},
		},
	}
}

func TestNewGroup(t *testing.T) {
	g, err := NewGroup("exc", testNeuType(), 8)
	if err != nil {
		t.Fatalf("new group failed: %v", err)
	}
	if g.N() != 8 {
		t.Errorf("expected 8 neurons, got %d", g.N())
	}
	if g.Stepper("V") == nil {
		t.Error("integration spec for V should compile to a stepper")
	}
	if g.Stepper("sp") != nil {
		t.Error("sp has no integration spec")
	}
}

func TestBindTimeUnknownField(t *testing.T) {
	typ := testNeuType()
	typ.Phases = append(typ.Phases, NeuPhase{
		Name:  PhaseOutput,
		Reads: []string{"ge"}, // not declared
		Run:   func(g *NeuronGroup, t, dt float64) error { return nil },
	})

	if _, err := NewGroup("bad", typ, 4); !errors.Is(err, neuro.ErrUnknownField) {
		t.Errorf("undeclared phase read should fail at bind time, got %v", err)
	}
}

func TestUnboundSynapse(t *testing.T) {
	c := NewSynConn("syn", testSynType())

	if err := c.RunPhase(PhaseUpdate, 0, 0, 0.1); !errors.Is(err, neuro.ErrUnbound) {
		t.Errorf("stepping unbound connection should fail, got %v", err)
	}
	if err := c.Prepare(0.1); !errors.Is(err, neuro.ErrUnbound) {
		t.Errorf("preparing unbound connection should fail, got %v", err)
	}
	if err := c.Bind(nil, nil, connectivity.OneToOne()); !errors.Is(err, neuro.ErrUnbound) {
		t.Errorf("binding nil endpoints should fail, got %v", err)
	}
}

func TestSynapseRequiresValidation(t *testing.T) {
	pre, _ := NewGroup("pre", testNeuType(), 3)
	post, _ := NewGroup("post", testNeuType(), 3)

	typ := testSynType()
	typ.RequiresPre = []string{"w"} // pre group has no such field
	c := NewSynConn("syn", typ)

	if err := c.Bind(pre, post, connectivity.OneToOne()); !errors.Is(err, neuro.ErrUnknownField) {
		t.Errorf("missing required pre field should fail bind, got %v", err)
	}
}

func TestConnectAllocatesPerSynapseState(t *testing.T) {
	pre, _ := NewGroup("pre", testNeuType(), 4)
	post, _ := NewGroup("post", testNeuType(), 4)

	c, err := Connect("syn", testSynType(), pre, post, connectivity.AllToAll(true))
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	if c.ST().Size() != 16 {
		t.Errorf("vector-mode synapse state should have one entry per synapse, got %d", c.ST().Size())
	}
	if c.Conn().NSyn != 16 {
		t.Errorf("expected 16 synapses, got %d", c.Conn().NSyn)
	}
}

func TestSourceAccumulation(t *testing.T) {
	g, _ := NewGroup("exc", testNeuType(), 3)

	one := func(step int, t float64) (neuro.Vector, error) {
		return neuro.Vector{1, 1, 1}, nil
	}
	two := func(step int, t float64) (neuro.Vector, error) {
		return neuro.Vector{2, 2, 2}, nil
	}

	if err := g.AddSource("inp", one); err != nil {
		t.Fatalf("add source failed: %v", err)
	}
	if err := g.AddExternal("inp", two); err != nil {
		t.Fatalf("add external failed: %v", err)
	}

	if err := g.RunPhase(PhaseInput, 0, 0, 0.1); err != nil {
		t.Fatalf("input phase failed: %v", err)
	}

	inp, _ := g.ST().Get("inp")
	for i, v := range inp {
		if v != 3 {
			t.Errorf("inp[%d] = %g, want 3 (sources summed onto zeroed field)", i, v)
		}
	}

	// Input phase re-zeroes before accumulating, so values do not pile up
	// across steps.
	g.RunPhase(PhaseInput, 1, 0.1, 0.1)
	inp, _ = g.ST().Get("inp")
	if inp[0] != 3 {
		t.Errorf("second step should still give 3, got %g", inp[0])
	}

	g.ClearExternals()
	g.RunPhase(PhaseInput, 2, 0.2, 0.1)
	inp, _ = g.ST().Get("inp")
	if inp[0] != 1 {
		t.Errorf("after clearing externals only the synaptic source remains, got %g", inp[0])
	}
}

func TestAddSourceUnknownField(t *testing.T) {
	g, _ := NewGroup("exc", testNeuType(), 3)
	if err := g.AddSource("missing", func(int, float64) (neuro.Vector, error) { return nil, nil }); !errors.Is(err, neuro.ErrUnknownField) {
		t.Errorf("source on undeclared field should fail, got %v", err)
	}
}

func TestUndeclaredPhaseIsNoOp(t *testing.T) {
	g, _ := NewGroup("exc", testNeuType(), 3)
	if err := g.RunPhase("monitor", 0, 0, 0.1); err != nil {
		t.Errorf("undeclared phase should be a no-op, got %v", err)
	}
}

func TestMatrixModeSynapse(t *testing.T) {
	pre, _ := NewGroup("pre", testNeuType(), 3)
	post, _ := NewGroup("post", testNeuType(), 5)

	typ := testSynType()
	typ.Mode = neuro.ModeMatrix
	typ.Phases = nil

	c, err := Connect("syn", typ, pre, post, connectivity.AllToAll(true), WithWeight(0.25))
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	if c.ST().Size() != 15 {
		t.Errorf("matrix state should be 3x5, got size %d", c.ST().Size())
	}
	if c.Matrix().At(2, 4) != 0.25 {
		t.Errorf("weight not applied: %g", c.Matrix().At(2, 4))
	}
}
