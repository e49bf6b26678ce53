package config

var Presets = map[string]map[string]*Config{
	"hh": {
		"gamma": {
			Model: "hh", Synapse: "gabaa", Dt: 0.05, Duration: 500.0, Neurons: 100,
			Connect:  ConnectConfig{Pattern: "all_to_all"},
			Params:   SynapseConfig{GMax: 0.1 / 100, E: -75, Delay: 0.0, Weight: 1.0},
			Input:    InputConfig{Field: "inp", Value: 1.2},
			Monitors: []string{"V", "sp"},
		},
		"single": {
			Model: "hh", Synapse: "none", Dt: 0.05, Duration: 100.0, Neurons: 1,
			Input:    InputConfig{Field: "inp", Value: 1.2},
			Monitors: []string{"V", "sp"},
		},
		"quiet": {
			Model: "hh", Synapse: "none", Dt: 0.05, Duration: 100.0, Neurons: 10,
			Monitors: []string{"V"},
		},
	},
	"lif": {
		"driven": {
			Model: "lif", Synapse: "none", Dt: 0.1, Duration: 200.0, Neurons: 50,
			Input:    InputConfig{Field: "inp", Value: 30.0},
			Monitors: []string{"V", "sp"},
		},
		"chain": {
			Model: "lif", Synapse: "expsyn", Dt: 0.1, Duration: 200.0, Neurons: 50,
			Connect:  ConnectConfig{Pattern: "fixed_prob", Prob: 0.2},
			Params:   SynapseConfig{GMax: 0.5, E: 0, Tau: 2.0, Delay: 1.0, Weight: 1.0},
			Input:    InputConfig{Field: "inp", Value: 30.0},
			Monitors: []string{"V", "sp"},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
