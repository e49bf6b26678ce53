package component

import (
	"fmt"

	"github.com/san-kum/neurodyn/internal/integrators"
	"github.com/san-kum/neurodyn/internal/neuro"
	"github.com/san-kum/neurodyn/internal/state"
)

type source struct {
	slot int
	fn   SourceFn
}

// NeuronGroup instantiates a NeuType over a population of n neurons.
type NeuronGroup struct {
	name      string
	typ       *NeuType
	n         int
	st        *state.Container
	steppers  map[string]neuro.Stepper
	sources   []source
	externals []source
	scratch   neuro.Vector
}

// NewGroup allocates the group's state container and validates every
// declared phase and integration spec against the field schema.
func NewGroup(name string, typ *NeuType, n int) (*NeuronGroup, error) {
	if typ.Mode == neuro.ModeScalar {
		n = 1
	}

	st, err := state.New(typ.Fields, typ.Mode, n, 0)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", name, err)
	}

	for _, ph := range typ.Phases {
		for _, field := range ph.Reads {
			if !st.Has(field) {
				return nil, fmt.Errorf("group %q phase %q: %w: %q", name, ph.Name, neuro.ErrUnknownField, field)
			}
		}
	}

	steppers := make(map[string]neuro.Stepper, len(typ.Integration))
	for field, spec := range typ.Integration {
		if !st.Has(field) {
			return nil, fmt.Errorf("group %q integration: %w: %q", name, neuro.ErrUnknownField, field)
		}
		stp, err := integrators.Compile(spec.Kind, spec.Tau)
		if err != nil {
			return nil, fmt.Errorf("group %q field %q: %w", name, field, err)
		}
		steppers[field] = stp
	}

	return &NeuronGroup{
		name:     name,
		typ:      typ,
		n:        st.Size(),
		st:       st,
		steppers: steppers,
		scratch:  make(neuro.Vector, st.Size()),
	}, nil
}

func (g *NeuronGroup) Name() string            { return g.name }
func (g *NeuronGroup) Mode() neuro.Mode        { return g.typ.Mode }
func (g *NeuronGroup) State() *state.Container { return g.st }
func (g *NeuronGroup) ST() *state.Container    { return g.st }
func (g *NeuronGroup) N() int                  { return g.n }
func (g *NeuronGroup) Type() *NeuType          { return g.typ }

// Stepper returns the compiled integration rule for a field, or nil when
// the type declared none.
func (g *NeuronGroup) Stepper(field string) neuro.Stepper {
	return g.steppers[field]
}

func (g *NeuronGroup) Phases() []string {
	names := make([]string, len(g.typ.Phases))
	for i, ph := range g.typ.Phases {
		names[i] = ph.Name
	}
	return names
}

// AddSource registers a permanent input source (a synapse connection)
// feeding the named field. The group's input phase drains all sources.
func (g *NeuronGroup) AddSource(field string, fn SourceFn) error {
	slot, err := g.st.Slot(field)
	if err != nil {
		return fmt.Errorf("group %q: %w", g.name, err)
	}
	g.sources = append(g.sources, source{slot: slot, fn: fn})
	return nil
}

// AddExternal registers a per-run external drive. The network clears these
// when the run finishes.
func (g *NeuronGroup) AddExternal(field string, fn SourceFn) error {
	slot, err := g.st.Slot(field)
	if err != nil {
		return fmt.Errorf("group %q: %w", g.name, err)
	}
	g.externals = append(g.externals, source{slot: slot, fn: fn})
	return nil
}

func (g *NeuronGroup) ClearExternals() {
	g.externals = nil
}

func (g *NeuronGroup) Prepare(dt float64) error { return nil }
func (g *NeuronGroup) AdvanceDelays()           {}

func (g *NeuronGroup) RunPhase(phase string, step int, t, dt float64) error {
	if phase == PhaseInput {
		if err := g.applySources(step, t); err != nil {
			return err
		}
	}
	for i := range g.typ.Phases {
		if g.typ.Phases[i].Name == phase {
			return g.typ.Phases[i].Run(g, t, dt)
		}
	}
	return nil
}

// applySources zeroes every driven field, then accumulates synaptic and
// external contributions into it.
func (g *NeuronGroup) applySources(step int, t float64) error {
	if len(g.sources) == 0 && len(g.externals) == 0 {
		return nil
	}

	zeroed := make(map[int]bool, 1)
	for _, lists := range [][]source{g.sources, g.externals} {
		for _, src := range lists {
			if !zeroed[src.slot] {
				g.st.Buf(src.slot).Fill(0)
				zeroed[src.slot] = true
			}
		}
	}

	for _, lists := range [][]source{g.sources, g.externals} {
		for _, src := range lists {
			vec, err := src.fn(step, t)
			if err != nil {
				return err
			}
			g.st.Buf(src.slot).Add(vec)
		}
	}
	return nil
}
