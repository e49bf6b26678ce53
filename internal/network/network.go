// Package network owns the ordered collection of components and drives
// every phase of every component for each fixed timestep.
//
// The scheduler is single-threaded and phase-lockstep by default: all
// components finish a phase before any component starts the next one, which
// is what lets a synapse's update phase read presynaptic spike state written
// earlier in the same step. Optional parallelism fans a single phase out
// across components with disjoint write sets, with a barrier between phases.
package network

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/neurodyn/internal/component"
	"github.com/san-kum/neurodyn/internal/monitor"
	"github.com/san-kum/neurodyn/internal/neuro"
)

type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ExternalInput drives a field of a group for the duration of one run,
// either with a constant or a per-step series (zero past its end).
type ExternalInput struct {
	Group  *component.NeuronGroup
	Field  string
	Value  float64
	Series []float64
}

type RunResult struct {
	StepsCompleted int
	FinalTime      float64
	Status         Status
}

// Network is the single owner of global simulation time. Components never
// read or advance time themselves; it is passed into every phase.
type Network struct {
	comps    []component.Component
	mons     []*monitor.Monitor
	phases   []string
	pipeline bool
	parallel bool
	status   Status
}

func New(comps ...component.Component) *Network {
	return &Network{
		comps:  comps,
		phases: component.DefaultPhaseOrder(),
		status: StatusIdle,
	}
}

func (n *Network) Add(comps ...component.Component) {
	n.comps = append(n.comps, comps...)
}

func (n *Network) AddMonitor(m *monitor.Monitor) {
	n.mons = append(n.mons, m)
}

// SetPhaseOrder replaces the per-step phase order. It must be called
// before Run; the order is immutable during a run.
func (n *Network) SetPhaseOrder(phases []string) {
	n.phases = append([]string(nil), phases...)
}

// SetPipeline switches from phase-lockstep ordering to running each
// component's full pipeline before the next component's.
func (n *Network) SetPipeline(enabled bool) { n.pipeline = enabled }

// SetParallel fans each phase out across components. Write sets stay
// disjoint because groups only write their own containers and connections
// only their own state and staged output.
func (n *Network) SetParallel(enabled bool) { n.parallel = enabled }

func (n *Network) Status() Status { return n.status }

// Run advances the network for round(duration/dt) steps.
func (n *Network) Run(ctx context.Context, duration, dt float64, inputs []ExternalInput) (*RunResult, error) {
	if duration <= 0 || dt <= 0 {
		return nil, fmt.Errorf("%w: duration=%g dt=%g", neuro.ErrInvalidDuration, duration, dt)
	}

	nSteps := int(math.Round(duration / dt))
	result := &RunResult{Status: StatusIdle}

	for _, c := range n.comps {
		if err := c.Prepare(dt); err != nil {
			n.status = StatusFailed
			result.Status = StatusFailed
			return result, err
		}
	}

	driven := make([]*component.NeuronGroup, 0, len(inputs))
	defer func() {
		for _, g := range driven {
			g.ClearExternals()
		}
	}()
	for _, in := range inputs {
		if err := n.bindInput(in); err != nil {
			return result, err
		}
		driven = append(driven, in.Group)
	}

	n.status = StatusRunning
	for step := 0; step < nSteps; step++ {
		select {
		case <-ctx.Done():
			n.status = StatusFailed
			result.Status = StatusFailed
			result.StepsCompleted = step
			result.FinalTime = float64(step) * dt
			return result, ctx.Err()
		default:
		}

		t := float64(step) * dt

		if err := n.runStep(step, t, dt); err != nil {
			n.status = StatusFailed
			result.Status = StatusFailed
			result.StepsCompleted = step
			result.FinalTime = t
			return result, err
		}

		// Monitors see post-step state only; delay rings advance exactly
		// once per step, after everything has read the previous slot.
		for _, m := range n.mons {
			m.Sample(step, t)
		}
		for _, c := range n.comps {
			c.AdvanceDelays()
		}
	}

	n.status = StatusIdle
	result.StepsCompleted = nSteps
	result.FinalTime = float64(nSteps) * dt
	result.Status = StatusIdle
	return result, nil
}

// Runner drives a prepared network one step at a time. Interactive views
// own the pacing; batch runs should use Run instead.
type Runner struct {
	net  *Network
	dt   float64
	step int
}

// NewRunner prepares the network and binds inputs without stepping.
// Close releases the bound inputs when the caller is done.
func (n *Network) NewRunner(dt float64, inputs []ExternalInput) (*Runner, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("%w: dt=%g", neuro.ErrInvalidDuration, dt)
	}
	for _, c := range n.comps {
		if err := c.Prepare(dt); err != nil {
			return nil, err
		}
	}
	for _, in := range inputs {
		if err := n.bindInput(in); err != nil {
			return nil, err
		}
	}
	n.status = StatusRunning
	return &Runner{net: n, dt: dt}, nil
}

// Step advances the network by one timestep, sampling monitors and
// advancing delay rings exactly as Run does.
func (r *Runner) Step() error {
	t := float64(r.step) * r.dt
	if err := r.net.runStep(r.step, t, r.dt); err != nil {
		r.net.status = StatusFailed
		return err
	}
	for _, m := range r.net.mons {
		m.Sample(r.step, t)
	}
	for _, c := range r.net.comps {
		c.AdvanceDelays()
	}
	r.step++
	return nil
}

func (r *Runner) StepCount() int { return r.step }
func (r *Runner) Time() float64  { return float64(r.step) * r.dt }
func (r *Runner) Dt() float64    { return r.dt }

func (r *Runner) Close() {
	for _, c := range r.net.comps {
		if g, ok := c.(*component.NeuronGroup); ok {
			g.ClearExternals()
		}
	}
	if r.net.status == StatusRunning {
		r.net.status = StatusIdle
	}
}

func (n *Network) bindInput(in ExternalInput) error {
	if in.Group == nil {
		return fmt.Errorf("network: external input needs a group")
	}
	vec := make(neuro.Vector, in.Group.N())
	series := in.Series
	value := in.Value
	fn := func(step int, t float64) (neuro.Vector, error) {
		v := value
		if len(series) > 0 {
			if step < len(series) {
				v = series[step]
			} else {
				v = 0
			}
		}
		vec.Fill(v)
		return vec, nil
	}
	return in.Group.AddExternal(in.Field, fn)
}

func (n *Network) runStep(step int, t, dt float64) error {
	if n.pipeline {
		for _, c := range n.comps {
			for _, phase := range n.phases {
				if err := c.RunPhase(phase, step, t, dt); err != nil {
					return &neuro.StepError{Step: step, Time: t, Component: c.Name(), Err: err}
				}
			}
		}
		return nil
	}

	for _, phase := range n.phases {
		if n.parallel {
			if err := n.runPhaseParallel(phase, step, t, dt); err != nil {
				return err
			}
			continue
		}
		for _, c := range n.comps {
			if err := c.RunPhase(phase, step, t, dt); err != nil {
				return &neuro.StepError{Step: step, Time: t, Component: c.Name(), Err: err}
			}
		}
	}
	return nil
}

// runPhaseParallel runs groups before connections so a parallel update
// phase never races a synapse reading freshly written presynaptic state.
func (n *Network) runPhaseParallel(phase string, step int, t, dt float64) error {
	var groups, conns []component.Component
	for _, c := range n.comps {
		if _, ok := c.(*component.NeuronGroup); ok {
			groups = append(groups, c)
		} else {
			conns = append(conns, c)
		}
	}

	for _, batch := range [][]component.Component{groups, conns} {
		if len(batch) == 0 {
			continue
		}
		errs := make([]error, len(batch))
		neuro.ParallelFor(len(batch), 1, func(start, end int) {
			for i := start; i < end; i++ {
				errs[i] = batch[i].RunPhase(phase, step, t, dt)
			}
		})
		for i, err := range errs {
			if err != nil {
				return &neuro.StepError{Step: step, Time: t, Component: batch[i].Name(), Err: err}
			}
		}
	}
	return nil
}
