// Package monitor records state-field snapshots over a run.
//
// A monitor never mutates the state it watches; the scheduler samples it
// after every phase of a step has completed, so histories only ever contain
// post-step values.
package monitor

import (
	"fmt"

	"github.com/san-kum/neurodyn/internal/component"
	"github.com/san-kum/neurodyn/internal/neuro"
)

// Sample is one recorded snapshot of a field.
type Sample struct {
	Step   int
	Time   float64
	Values neuro.Vector
}

type series struct {
	comp    component.Component
	field   string
	slot    int
	stride  int
	samples []Sample
}

type Monitor struct {
	series []*series
	keys   map[string]*series
}

func New() *Monitor {
	return &Monitor{keys: make(map[string]*series)}
}

func key(comp, field string) string { return comp + "." + field }

// Attach starts recording a field of a component every stride steps.
// The field must exist in the component's container.
func (m *Monitor) Attach(comp component.Component, field string, stride int) error {
	slot, err := comp.State().Slot(field)
	if err != nil {
		return fmt.Errorf("monitor %s.%s: %w", comp.Name(), field, err)
	}
	if stride < 1 {
		stride = 1
	}

	s := &series{comp: comp, field: field, slot: slot, stride: stride}
	m.series = append(m.series, s)
	m.keys[key(comp.Name(), field)] = s
	return nil
}

// Sample appends the current value of every attached field whose stride
// divides the step. Values are copied, never aliased.
func (m *Monitor) Sample(step int, t float64) {
	for _, s := range m.series {
		if step%s.stride != 0 {
			continue
		}
		s.samples = append(s.samples, Sample{
			Step:   step,
			Time:   t,
			Values: s.comp.State().Buf(s.slot).Clone(),
		})
	}
}

// History returns the full recorded sequence for one component field.
func (m *Monitor) History(comp, field string) ([]Sample, bool) {
	s, ok := m.keys[key(comp, field)]
	if !ok {
		return nil, false
	}
	return s.samples, true
}

// Window returns the samples with lo <= step < hi.
func (m *Monitor) Window(comp, field string, lo, hi int) ([]Sample, bool) {
	all, ok := m.History(comp, field)
	if !ok {
		return nil, false
	}
	out := make([]Sample, 0)
	for _, s := range all {
		if s.Step >= lo && s.Step < hi {
			out = append(out, s)
		}
	}
	return out, true
}

// Fields lists the attached component.field keys in attachment order.
func (m *Monitor) Fields() []string {
	out := make([]string, len(m.series))
	for i, s := range m.series {
		out[i] = key(s.comp.Name(), s.field)
	}
	return out
}

// Trace extracts a single neuron's value across a history, a convenience
// for plotting membrane traces.
func Trace(samples []Sample, index int) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if index < len(s.Values) {
			out = append(out, s.Values[index])
		}
	}
	return out
}
