package experiment

import (
	"fmt"

	"github.com/san-kum/neurodyn/internal/component"
	"github.com/san-kum/neurodyn/internal/config"
	"github.com/san-kum/neurodyn/internal/connectivity"
	"github.com/san-kum/neurodyn/internal/models"
)

type Registry struct {
	neurons  map[string]func() *component.NeuType
	synapses map[string]func(config.SynapseConfig) *component.SynType
	patterns map[string]func(config.ConnectConfig, int64) connectivity.Pattern
}

func NewRegistry() *Registry {
	r := &Registry{
		neurons:  make(map[string]func() *component.NeuType),
		synapses: make(map[string]func(config.SynapseConfig) *component.SynType),
		patterns: make(map[string]func(config.ConnectConfig, int64) connectivity.Pattern),
	}

	r.neurons["hh"] = func() *component.NeuType { return models.NewHH(models.DefaultHHParams()) }
	r.neurons["lif"] = func() *component.NeuType { return models.NewLIF(models.DefaultLIFParams()) }

	r.synapses["gabaa"] = func(sc config.SynapseConfig) *component.SynType {
		p := models.DefaultGABAaParams()
		if sc.GMax != 0 {
			p.GMax = sc.GMax
		}
		if sc.E != 0 {
			p.E = sc.E
		}
		return models.NewGABAa(p)
	}
	r.synapses["expsyn"] = func(sc config.SynapseConfig) *component.SynType {
		p := models.DefaultExpSynParams()
		if sc.GMax != 0 {
			p.GMax = sc.GMax
		}
		if sc.E != 0 {
			p.E = sc.E
		}
		if sc.Tau != 0 {
			p.Tau = sc.Tau
		}
		if sc.Weight != 0 {
			p.W = sc.Weight
		}
		return models.NewExpSyn(p)
	}

	r.patterns["all_to_all"] = func(cc config.ConnectConfig, seed int64) connectivity.Pattern {
		return connectivity.AllToAll(cc.SelfConn)
	}
	r.patterns["one_to_one"] = func(cc config.ConnectConfig, seed int64) connectivity.Pattern {
		return connectivity.OneToOne()
	}
	r.patterns["fixed_prob"] = func(cc config.ConnectConfig, seed int64) connectivity.Pattern {
		return connectivity.FixedProb(cc.Prob, cc.SelfConn, seed)
	}

	return r
}

func (r *Registry) GetNeuron(name string) (*component.NeuType, error) {
	fn, ok := r.neurons[name]
	if !ok {
		return nil, fmt.Errorf("unknown neuron model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetSynapse(name string, sc config.SynapseConfig) (*component.SynType, error) {
	fn, ok := r.synapses[name]
	if !ok {
		return nil, fmt.Errorf("unknown synapse model: %s", name)
	}
	return fn(sc), nil
}

func (r *Registry) GetPattern(cc config.ConnectConfig, seed int64) (connectivity.Pattern, error) {
	name := cc.Pattern
	if name == "" {
		name = "all_to_all"
	}
	fn, ok := r.patterns[name]
	if !ok {
		return nil, fmt.Errorf("unknown connectivity pattern: %s", name)
	}
	return fn(cc, seed), nil
}

func (r *Registry) ListNeurons() []string {
	names := make([]string, 0, len(r.neurons))
	for name := range r.neurons {
		names = append(names, name)
	}
	return names
}

func (r *Registry) ListSynapses() []string {
	names := make([]string, 0, len(r.synapses))
	for name := range r.synapses {
		names = append(names, name)
	}
	return names
}
