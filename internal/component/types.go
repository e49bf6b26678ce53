// Package component binds declared neuron and synapse types to concrete
// state containers, connectivity maps, and delay buffers.
//
// A [NeuType] or [SynType] is an immutable declaration shared read-only by
// many components; [NeuronGroup] and [SynConn] are the runtime instances
// the network scheduler steps. All field references a type declares are
// resolved against the bound containers at construction time, so a phase
// reading an undeclared field fails before any run starts.
package component

import (
	"github.com/san-kum/neurodyn/internal/neuro"
	"github.com/san-kum/neurodyn/internal/state"
)

// Conventional phase names. The set and order a network executes is
// configurable per run; these are the defaults.
const (
	PhaseInput  = "input"
	PhaseUpdate = "update"
	PhaseOutput = "output"
)

// DefaultPhaseOrder is the fixed per-component pipeline order.
func DefaultPhaseOrder() []string {
	return []string{PhaseInput, PhaseUpdate, PhaseOutput}
}

// Component is one schedulable entity in a network.
type Component interface {
	Name() string
	Mode() neuro.Mode
	State() *state.Container

	// Phases returns the declared phase names in execution order.
	Phases() []string

	// RunPhase executes one named phase. Undeclared phases are a no-op.
	RunPhase(phase string, step int, t, dt float64) error

	// Prepare binds run-time parameters (dt) before the first step.
	Prepare(dt float64) error

	// AdvanceDelays moves every owned delay buffer forward one step.
	// The scheduler calls it exactly once per step, after all phases.
	AdvanceDelays()
}

// SourceFn produces a per-neuron input vector for one step. Synaptic
// currents and external drive both reach a group through this shape, so
// only the owning group ever writes its own input field.
type SourceFn func(step int, t float64) (neuro.Vector, error)

// NeuPhase is one named step-phase of a neuron type. Reads lists the own
// fields the phase touches; they are validated at bind time.
type NeuPhase struct {
	Name  string
	Reads []string
	Run   func(g *NeuronGroup, t, dt float64) error
}

// NeuType is the immutable declaration of a neuron model.
type NeuType struct {
	Name        string
	Fields      []neuro.Field
	Mode        neuro.Mode
	Phases      []NeuPhase
	Integration map[string]neuro.IntegrationSpec
}

// SynPhase is one named step-phase of a synapse type.
type SynPhase struct {
	Name  string
	Reads []string
	Run   func(c *SynConn, t, dt float64) error
}

// CurrentFn converts the delayed per-post output of a connection into the
// current injected into the postsynaptic input field. The delayed vector is
// what the output phase staged delaySteps ago.
type CurrentFn func(c *SynConn, delayed neuro.Vector, t float64) (neuro.Vector, error)

// SynType is the immutable declaration of a synapse model.
type SynType struct {
	Name         string
	Fields       []neuro.Field
	Mode         neuro.Mode
	RequiresPre  []string
	RequiresPost []string

	// PostField is the postsynaptic input field this connection drives.
	PostField string

	Phases      []SynPhase
	Integration map[string]neuro.IntegrationSpec
	Current     CurrentFn
}
