package neuro

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrShape indicates a value write whose shape does not match the
	// container's mode shape.
	ErrShape = errors.New("neuro: value shape does not match container shape")

	// ErrUnknownField indicates a reference to a field not declared in the
	// container's schema.
	ErrUnknownField = errors.New("neuro: field not declared in state container")

	// ErrInvalidConnectivity indicates a malformed adjacency or index relation.
	ErrInvalidConnectivity = errors.New("neuro: invalid connectivity relation")

	// ErrStaleBuffer indicates a delay buffer used after a dt change
	// invalidated its capacity.
	ErrStaleBuffer = errors.New("neuro: delay buffer invalidated by timestep change")

	// ErrUnbound indicates a synapse connection stepped without both
	// endpoint groups bound.
	ErrUnbound = errors.New("neuro: synapse connection not bound to endpoint groups")

	// ErrInvalidDuration indicates non-positive run parameters.
	ErrInvalidDuration = errors.New("neuro: duration and dt must be positive")
)

// StepError attaches step index and component identity to an error raised
// while the network was running.
type StepError struct {
	Step      int
	Time      float64
	Component string
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("component %q at step %d (t=%.4f): %v", e.Component, e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
