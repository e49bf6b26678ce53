// Package metrics summarizes monitor histories into scalar measures.
package metrics

import (
	"github.com/san-kum/neurodyn/internal/monitor"
	"github.com/san-kum/neurodyn/internal/neuro"
)

type Metric interface {
	Name() string
	Observe(values neuro.Vector, t float64)
	Value() float64
	Reset()
}

// Apply replays a recorded history through a metric and returns its value.
func Apply(m Metric, samples []monitor.Sample) float64 {
	m.Reset()
	for _, s := range samples {
		m.Observe(s.Values, s.Time)
	}
	return m.Value()
}

// FiringRate counts threshold crossings of a spike field per neuron per
// unit time.
type FiringRate struct {
	name      string
	threshold float64
	spikes    int
	neurons   int
	first     float64
	last      float64
	samples   int
}

func NewFiringRate(threshold float64) *FiringRate {
	return &FiringRate{name: "firing_rate", threshold: threshold}
}

func (f *FiringRate) Name() string { return f.name }

func (f *FiringRate) Observe(values neuro.Vector, t float64) {
	if f.samples == 0 {
		f.first = t
		f.neurons = len(values)
	}
	f.last = t
	f.samples++
	for _, v := range values {
		if v > f.threshold {
			f.spikes++
		}
	}
}

func (f *FiringRate) Value() float64 {
	span := f.last - f.first
	if f.neurons == 0 || span <= 0 {
		return 0
	}
	return float64(f.spikes) / (float64(f.neurons) * span)
}

func (f *FiringRate) Reset() {
	f.spikes = 0
	f.neurons = 0
	f.samples = 0
	f.first = 0
	f.last = 0
}

// MeanField averages a state field over neurons and time.
type MeanField struct {
	name    string
	total   float64
	entries int
}

func NewMeanField(field string) *MeanField {
	return &MeanField{name: "mean_" + field}
}

func (m *MeanField) Name() string { return m.name }

func (m *MeanField) Observe(values neuro.Vector, t float64) {
	for _, v := range values {
		m.total += v
		m.entries++
	}
}

func (m *MeanField) Value() float64 {
	if m.entries == 0 {
		return 0
	}
	return m.total / float64(m.entries)
}

func (m *MeanField) Reset() {
	m.total = 0
	m.entries = 0
}

// PeakField tracks the maximum absolute value seen in a field, a quick
// divergence check for long runs.
type PeakField struct {
	name string
	peak float64
}

func NewPeakField(field string) *PeakField {
	return &PeakField{name: "peak_" + field}
}

func (p *PeakField) Name() string { return p.name }

func (p *PeakField) Observe(values neuro.Vector, t float64) {
	for _, v := range values {
		if v < 0 {
			v = -v
		}
		if v > p.peak {
			p.peak = v
		}
	}
}

func (p *PeakField) Value() float64 { return p.peak }
func (p *PeakField) Reset()         { p.peak = 0 }
