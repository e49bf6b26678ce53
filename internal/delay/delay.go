// Package delay implements the fixed-capacity ring buffer that models
// synaptic transmission delay: a value pushed at step t becomes readable at
// step t + delaySteps and never earlier.
package delay

import (
	"fmt"
	"math"

	"github.com/san-kum/neurodyn/internal/neuro"
)

type Buffer struct {
	dt     float64
	steps  int
	width  int
	cursor int
	slots  []neuro.Vector
	stale  bool
}

// New sizes the ring from the wall-clock delay and the run timestep. Every
// slot starts at fill, which is what cold-start reads return until the
// window is full. The small epsilon keeps ceil from over-counting when
// delay/dt lands on an integer in floating point.
func New(delayTime, dt float64, width int, fill float64) (*Buffer, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("delay: dt must be positive, got %g", dt)
	}
	if delayTime < 0 {
		return nil, fmt.Errorf("delay: delay must be non-negative, got %g", delayTime)
	}
	if width <= 0 {
		return nil, fmt.Errorf("delay: width must be positive, got %d", width)
	}

	steps := int(math.Ceil(delayTime/dt - 1e-9))
	if steps < 0 {
		steps = 0
	}

	b := &Buffer{
		dt:    dt,
		steps: steps,
		width: width,
		slots: make([]neuro.Vector, steps+1),
	}
	for i := range b.slots {
		b.slots[i] = make(neuro.Vector, width)
		if fill != 0 {
			b.slots[i].Fill(fill)
		}
	}
	return b, nil
}

func (b *Buffer) Steps() int  { return b.steps }
func (b *Buffer) Dt() float64 { return b.dt }

// CheckDt invalidates the buffer if the run timestep no longer matches the
// one the capacity was computed from.
func (b *Buffer) CheckDt(dt float64) error {
	if dt != b.dt {
		b.stale = true
	}
	if b.stale {
		return fmt.Errorf("%w: built for dt=%g, run uses dt=%g", neuro.ErrStaleBuffer, b.dt, dt)
	}
	return nil
}

// Push writes the current step's value into the ring.
func (b *Buffer) Push(values neuro.Vector) error {
	if b.stale {
		return neuro.ErrStaleBuffer
	}
	if len(values) != b.width {
		return fmt.Errorf("%w: buffer width %d, got %d values", neuro.ErrShape, b.width, len(values))
	}
	copy(b.slots[b.cursor], values)
	return nil
}

// Read returns the value pushed delaySteps ago, copied into dst (allocated
// when nil). Inside the cold-start window it returns the fill value.
func (b *Buffer) Read(dst neuro.Vector) (neuro.Vector, error) {
	if b.stale {
		return nil, neuro.ErrStaleBuffer
	}
	if dst == nil || len(dst) != b.width {
		dst = make(neuro.Vector, b.width)
	}
	copy(dst, b.slots[(b.cursor+1)%len(b.slots)])
	return dst, nil
}

// Advance moves the ring cursor forward one step. The scheduler calls this
// exactly once per simulation step, after every phase has run.
func (b *Buffer) Advance() {
	b.cursor = (b.cursor + 1) % len(b.slots)
}
