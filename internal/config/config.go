package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.05
	DefaultDuration = 100.0
	DefaultNeurons  = 100
	DefaultDrive    = 1.2
	DefaultDelay    = 0.0
	DefaultWeight   = 1.0
)

type Config struct {
	Model    string        `yaml:"model"`
	Synapse  string        `yaml:"synapse"`
	Dt       float64       `yaml:"dt"`
	Duration float64       `yaml:"duration"`
	Seed     int64         `yaml:"seed"`
	Neurons  int           `yaml:"neurons"`
	Connect  ConnectConfig `yaml:"connect"`
	Params   SynapseConfig `yaml:"synapse_params"`
	Input    InputConfig   `yaml:"input"`
	Monitors []string      `yaml:"monitors"`
}

type ConnectConfig struct {
	Pattern  string  `yaml:"pattern"`
	Prob     float64 `yaml:"prob"`
	SelfConn bool    `yaml:"self_conn"`
}

type SynapseConfig struct {
	GMax   float64 `yaml:"g_max"`
	E      float64 `yaml:"e"`
	Tau    float64 `yaml:"tau"`
	Delay  float64 `yaml:"delay"`
	Weight float64 `yaml:"weight"`
}

type InputConfig struct {
	Field string  `yaml:"field"`
	Value float64 `yaml:"value"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    "hh",
		Synapse:  "none",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Neurons:  DefaultNeurons,
		Connect: ConnectConfig{
			Pattern: "all_to_all",
			Prob:    0.1,
		},
		Params: SynapseConfig{
			Delay:  DefaultDelay,
			Weight: DefaultWeight,
		},
		Input: InputConfig{
			Field: "inp",
			Value: DefaultDrive,
		},
		Monitors: []string{"V", "sp"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
