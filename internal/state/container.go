// Package state provides named-field storage for one simulation entity.
//
// A container resolves field names to integer slots once at construction;
// hot paths use slot indices while the name-based surface stays available
// for configuration and tests.
package state

import (
	"fmt"

	"github.com/san-kum/neurodyn/internal/neuro"
)

type Container struct {
	mode  neuro.Mode
	rows  int
	cols  int
	size  int
	names []string
	slots map[string]int
	data  []neuro.Vector
}

// New allocates a container for the declared fields. rows is the entity
// count in vector mode and the presynaptic count in matrix mode; cols is
// only used in matrix mode.
func New(fields []neuro.Field, mode neuro.Mode, rows, cols int) (*Container, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("state: container needs at least one field")
	}

	size := 0
	switch mode {
	case neuro.ModeScalar:
		size = 1
		rows, cols = 1, 1
	case neuro.ModeVector:
		if rows <= 0 {
			return nil, fmt.Errorf("state: vector mode needs size > 0, got %d", rows)
		}
		size = rows
		cols = 1
	case neuro.ModeMatrix:
		if rows <= 0 || cols <= 0 {
			return nil, fmt.Errorf("state: matrix mode needs %dx%d > 0", rows, cols)
		}
		size = rows * cols
	default:
		return nil, fmt.Errorf("state: unknown mode %v", mode)
	}

	c := &Container{
		mode:  mode,
		rows:  rows,
		cols:  cols,
		size:  size,
		names: make([]string, 0, len(fields)),
		slots: make(map[string]int, len(fields)),
		data:  make([]neuro.Vector, 0, len(fields)),
	}

	for _, f := range fields {
		if _, dup := c.slots[f.Name]; dup {
			return nil, fmt.Errorf("state: duplicate field %q", f.Name)
		}
		buf := make(neuro.Vector, size)
		if f.Init != 0 {
			buf.Fill(f.Init)
		}
		c.slots[f.Name] = len(c.data)
		c.names = append(c.names, f.Name)
		c.data = append(c.data, buf)
	}

	return c, nil
}

func (c *Container) Mode() neuro.Mode { return c.mode }
func (c *Container) Size() int        { return c.size }
func (c *Container) Rows() int        { return c.rows }
func (c *Container) Cols() int        { return c.cols }

// FieldNames returns the fields in declaration order.
func (c *Container) FieldNames() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Container) Has(name string) bool {
	_, ok := c.slots[name]
	return ok
}

// Slot resolves a field name to its index. Phase binding uses this once so
// step code never pays the map lookup.
func (c *Container) Slot(name string) (int, error) {
	i, ok := c.slots[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", neuro.ErrUnknownField, name)
	}
	return i, nil
}

// Buf returns the live buffer for a slot. Only the owning component may
// mutate it.
func (c *Container) Buf(slot int) neuro.Vector {
	return c.data[slot]
}

// Get returns the live buffer for a named field.
func (c *Container) Get(name string) (neuro.Vector, error) {
	i, err := c.Slot(name)
	if err != nil {
		return nil, err
	}
	return c.data[i], nil
}

// Set overwrites a field. The value must match the container's shape
// exactly; a single-element value broadcasts in any mode.
func (c *Container) Set(name string, values []float64) error {
	i, err := c.Slot(name)
	if err != nil {
		return err
	}
	if len(values) == 1 {
		c.data[i].Fill(values[0])
		return nil
	}
	if len(values) != c.size {
		return fmt.Errorf("%w: field %q wants %d values, got %d", neuro.ErrShape, name, c.size, len(values))
	}
	copy(c.data[i], values)
	return nil
}

// Fill sets every entry of a field to the same value.
func (c *Container) Fill(name string, v float64) error {
	i, err := c.Slot(name)
	if err != nil {
		return err
	}
	c.data[i].Fill(v)
	return nil
}

// View exposes read-only access for collaborating components. Go cannot
// enforce immutability on slices, so View keeps the mutating surface off
// the type instead.
type View struct {
	c *Container
}

func (c *Container) View() View { return View{c: c} }

func (v View) Has(name string) bool { return v.c.Has(name) }
func (v View) Size() int            { return v.c.Size() }

func (v View) Get(name string) (neuro.Vector, error) {
	return v.c.Get(name)
}
