// Package experiment assembles a runnable network from a configuration.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/neurodyn/internal/component"
	"github.com/san-kum/neurodyn/internal/config"
	"github.com/san-kum/neurodyn/internal/metrics"
	"github.com/san-kum/neurodyn/internal/monitor"
	"github.com/san-kum/neurodyn/internal/network"
)

type Experiment struct {
	cfg   *config.Config
	group *component.NeuronGroup
	syn   *component.SynConn
	net   *network.Network
	mon   *monitor.Monitor
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the group, the recurrent connection (unless the synapse is
// "none"), and monitors for every configured field.
func (e *Experiment) Setup(reg *Registry) error {
	typ, err := reg.GetNeuron(e.cfg.Model)
	if err != nil {
		return err
	}

	g, err := component.NewGroup(e.cfg.Model, typ, e.cfg.Neurons)
	if err != nil {
		return err
	}
	e.group = g

	comps := []component.Component{g}

	if e.cfg.Synapse != "" && e.cfg.Synapse != "none" {
		synType, err := reg.GetSynapse(e.cfg.Synapse, e.cfg.Params)
		if err != nil {
			return err
		}
		pattern, err := reg.GetPattern(e.cfg.Connect, e.cfg.Seed)
		if err != nil {
			return err
		}

		opts := []component.SynOption{}
		if e.cfg.Params.Delay > 0 {
			opts = append(opts, component.WithDelay(e.cfg.Params.Delay))
		}
		if e.cfg.Params.Weight != 0 {
			opts = append(opts, component.WithWeight(e.cfg.Params.Weight))
		}

		syn, err := component.Connect(e.cfg.Synapse, synType, g, g, pattern, opts...)
		if err != nil {
			return err
		}
		e.syn = syn
		comps = append(comps, syn)
	}

	e.mon = monitor.New()
	for _, field := range e.cfg.Monitors {
		if err := e.mon.Attach(g, field, 1); err != nil {
			return err
		}
	}

	e.net = network.New(comps...)
	e.net.AddMonitor(e.mon)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*network.RunResult, error) {
	if e.net == nil {
		return nil, fmt.Errorf("experiment not set up")
	}

	var inputs []network.ExternalInput
	if e.cfg.Input.Field != "" && e.cfg.Input.Value != 0 {
		inputs = append(inputs, network.ExternalInput{
			Group: e.group,
			Field: e.cfg.Input.Field,
			Value: e.cfg.Input.Value,
		})
	}

	return e.net.Run(ctx, e.cfg.Duration, e.cfg.Dt, inputs)
}

// StartRunner binds the configured input and hands back a step-at-a-time
// runner for interactive views.
func (e *Experiment) StartRunner() (*network.Runner, error) {
	if e.net == nil {
		return nil, fmt.Errorf("experiment not set up")
	}
	var inputs []network.ExternalInput
	if e.cfg.Input.Field != "" && e.cfg.Input.Value != 0 {
		inputs = append(inputs, network.ExternalInput{
			Group: e.group,
			Field: e.cfg.Input.Field,
			Value: e.cfg.Input.Value,
		})
	}
	return e.net.NewRunner(e.cfg.Dt, inputs)
}

func (e *Experiment) Group() *component.NeuronGroup { return e.group }
func (e *Experiment) Network() *network.Network     { return e.net }
func (e *Experiment) Monitor() *monitor.Monitor     { return e.mon }

// Metrics summarizes the recorded histories: firing rate from the spike
// field, mean and peak of the membrane potential.
func (e *Experiment) Metrics() map[string]float64 {
	out := make(map[string]float64)
	if e.mon == nil {
		return out
	}
	if hist, ok := e.mon.History(e.group.Name(), "sp"); ok {
		out["firing_rate"] = metrics.Apply(metrics.NewFiringRate(0), hist)
	}
	if hist, ok := e.mon.History(e.group.Name(), "V"); ok {
		m := metrics.NewMeanField("V")
		out[m.Name()] = metrics.Apply(m, hist)
		p := metrics.NewPeakField("V")
		out[p.Name()] = metrics.Apply(p, hist)
	}
	return out
}
