package component

import (
	"fmt"

	"github.com/san-kum/neurodyn/internal/connectivity"
	"github.com/san-kum/neurodyn/internal/delay"
	"github.com/san-kum/neurodyn/internal/integrators"
	"github.com/san-kum/neurodyn/internal/neuro"
	"github.com/san-kum/neurodyn/internal/state"
)

// SynConn instantiates a SynType between two neuron groups. It owns its
// state container, connectivity map, and delay buffer; it holds non-owning
// references to the endpoint groups' containers.
type SynConn struct {
	name string
	typ  *SynType

	pre  *NeuronGroup
	post *NeuronGroup

	st   *state.Container
	conn *connectivity.Map
	mat  *connectivity.Matrix

	steppers map[string]neuro.Stepper

	delayTime float64
	coldStart float64
	weight    float64
	buf       *delay.Buffer
	readBuf   neuro.Vector
}

type SynOption func(*SynConn)

// WithDelay sets the transmission delay. The ring capacity is fixed when
// the first run supplies dt; a later run with a different dt fails with a
// stale-buffer error.
func WithDelay(d float64) SynOption {
	return func(c *SynConn) { c.delayTime = d }
}

// WithColdStart sets the value delayed reads return before the first full
// delay window. The default is zero, matching a conductance at rest.
func WithColdStart(v float64) SynOption {
	return func(c *SynConn) { c.coldStart = v }
}

// WithWeight sets the dense matrix weight used in matrix mode.
func WithWeight(w float64) SynOption {
	return func(c *SynConn) { c.weight = w }
}

// NewSynConn creates an unbound connection. Stepping it before Bind fails
// with ErrUnbound.
func NewSynConn(name string, typ *SynType, opts ...SynOption) *SynConn {
	c := &SynConn{name: name, typ: typ, weight: 1.0}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect builds and binds a connection in one call.
func Connect(name string, typ *SynType, pre, post *NeuronGroup, pattern connectivity.Pattern, opts ...SynOption) (*SynConn, error) {
	c := NewSynConn(name, typ, opts...)
	if err := c.Bind(pre, post, pattern); err != nil {
		return nil, err
	}
	return c, nil
}

// Bind attaches both endpoint groups, builds the connectivity map, and
// allocates the connection's own state. All declared field requirements
// are validated here, before any run.
func (c *SynConn) Bind(pre, post *NeuronGroup, pattern connectivity.Pattern) error {
	if pre == nil || post == nil {
		return fmt.Errorf("connection %q: %w", c.name, neuro.ErrUnbound)
	}

	for _, field := range c.typ.RequiresPre {
		if !pre.ST().Has(field) {
			return fmt.Errorf("connection %q requires pre field: %w: %q", c.name, neuro.ErrUnknownField, field)
		}
	}
	for _, field := range c.typ.RequiresPost {
		if !post.ST().Has(field) {
			return fmt.Errorf("connection %q requires post field: %w: %q", c.name, neuro.ErrUnknownField, field)
		}
	}
	if c.typ.PostField != "" && !post.ST().Has(c.typ.PostField) {
		return fmt.Errorf("connection %q post field: %w: %q", c.name, neuro.ErrUnknownField, c.typ.PostField)
	}

	var st *state.Container
	var err error
	switch c.typ.Mode {
	case neuro.ModeMatrix:
		c.mat, err = connectivity.BuildMatrix(pattern, pre.N(), post.N(), c.weight)
		if err != nil {
			return fmt.Errorf("connection %q: %w", c.name, err)
		}
		st, err = state.New(c.typ.Fields, neuro.ModeMatrix, pre.N(), post.N())
	default:
		c.conn, err = connectivity.Build(pattern, pre.N(), post.N())
		if err != nil {
			return fmt.Errorf("connection %q: %w", c.name, err)
		}
		// One entry per synapse.
		st, err = state.New(c.typ.Fields, neuro.ModeVector, c.conn.NSyn, 0)
	}
	if err != nil {
		return fmt.Errorf("connection %q: %w", c.name, err)
	}

	for _, ph := range c.typ.Phases {
		for _, field := range ph.Reads {
			if !st.Has(field) {
				return fmt.Errorf("connection %q phase %q: %w: %q", c.name, ph.Name, neuro.ErrUnknownField, field)
			}
		}
	}

	steppers := make(map[string]neuro.Stepper, len(c.typ.Integration))
	for field, spec := range c.typ.Integration {
		if !st.Has(field) {
			return fmt.Errorf("connection %q integration: %w: %q", c.name, neuro.ErrUnknownField, field)
		}
		stp, err := integrators.Compile(spec.Kind, spec.Tau)
		if err != nil {
			return fmt.Errorf("connection %q field %q: %w", c.name, field, err)
		}
		steppers[field] = stp
	}

	c.pre = pre
	c.post = post
	c.st = st
	c.steppers = steppers

	if c.typ.PostField != "" {
		if err := post.AddSource(c.typ.PostField, c.currentSource); err != nil {
			return err
		}
	}
	return nil
}

func (c *SynConn) Name() string            { return c.name }
func (c *SynConn) Mode() neuro.Mode        { return c.typ.Mode }
func (c *SynConn) State() *state.Container { return c.st }
func (c *SynConn) ST() *state.Container    { return c.st }
func (c *SynConn) Type() *SynType          { return c.typ }

// Pre and Post expose the endpoint containers read-only.
func (c *SynConn) Pre() state.View  { return c.pre.ST().View() }
func (c *SynConn) Post() state.View { return c.post.ST().View() }

func (c *SynConn) Conn() *connectivity.Map      { return c.conn }
func (c *SynConn) Matrix() *connectivity.Matrix { return c.mat }

func (c *SynConn) NPre() int  { return c.pre.N() }
func (c *SynConn) NPost() int { return c.post.N() }

func (c *SynConn) Stepper(field string) neuro.Stepper {
	return c.steppers[field]
}

func (c *SynConn) Phases() []string {
	names := make([]string, len(c.typ.Phases))
	for i, ph := range c.typ.Phases {
		names[i] = ph.Name
	}
	return names
}

// Prepare sizes the delay ring against the run timestep. A second run with
// a different dt invalidates the buffer.
func (c *SynConn) Prepare(dt float64) error {
	if c.pre == nil || c.post == nil {
		return fmt.Errorf("connection %q: %w", c.name, neuro.ErrUnbound)
	}
	if c.buf == nil {
		buf, err := delay.New(c.delayTime, dt, c.post.N(), c.coldStart)
		if err != nil {
			return fmt.Errorf("connection %q: %w", c.name, err)
		}
		c.buf = buf
		return nil
	}
	if err := c.buf.CheckDt(dt); err != nil {
		return fmt.Errorf("connection %q: %w", c.name, err)
	}
	return nil
}

func (c *SynConn) AdvanceDelays() {
	if c.buf != nil {
		c.buf.Advance()
	}
}

func (c *SynConn) RunPhase(phase string, step int, t, dt float64) error {
	if c.pre == nil || c.post == nil {
		return fmt.Errorf("connection %q: %w", c.name, neuro.ErrUnbound)
	}
	for i := range c.typ.Phases {
		if c.typ.Phases[i].Name == phase {
			return c.typ.Phases[i].Run(c, t, dt)
		}
	}
	return nil
}

// Stage pushes the per-post output of the current step into the delay
// ring. Output phases call this instead of touching the post group.
func (c *SynConn) Stage(values neuro.Vector) error {
	if c.buf == nil {
		return fmt.Errorf("connection %q: staged output before Prepare", c.name)
	}
	return c.buf.Push(values)
}

// currentSource is registered on the post group; it reads the delayed
// output and converts it into the injected current.
func (c *SynConn) currentSource(step int, t float64) (neuro.Vector, error) {
	if c.buf == nil {
		return nil, fmt.Errorf("connection %q: read before Prepare", c.name)
	}
	delayed, err := c.buf.Read(c.readBuf)
	if err != nil {
		return nil, err
	}
	c.readBuf = delayed

	if c.typ.Current != nil {
		return c.typ.Current(c, delayed, t)
	}
	return delayed, nil
}
