package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/neurodyn/internal/config"
)

func TestSetupAndRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model = "lif"
	cfg.Synapse = "none"
	cfg.Neurons = 5
	cfg.Duration = 10.0
	cfg.Dt = 0.1
	cfg.Input = config.InputConfig{Field: "inp", Value: 30.0}
	cfg.Monitors = []string{"V", "sp"}

	exp := New(cfg)
	if err := exp.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.StepsCompleted != 100 {
		t.Errorf("expected 100 steps, got %d", result.StepsCompleted)
	}

	hist, ok := exp.Monitor().History("lif", "V")
	if !ok || len(hist) != 100 {
		t.Errorf("expected 100 V samples, got %d (ok=%v)", len(hist), ok)
	}

	m := exp.Metrics()
	if _, ok := m["firing_rate"]; !ok {
		t.Error("expected firing_rate metric")
	}
	if _, ok := m["mean_V"]; !ok {
		t.Error("expected mean_V metric")
	}
}

func TestSetupRecurrent(t *testing.T) {
	cfg := config.GetPreset("hh", "gamma")
	if cfg == nil {
		t.Fatal("missing preset")
	}
	local := *cfg
	local.Neurons = 10
	local.Duration = 5.0

	exp := New(&local)
	if err := exp.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestSetupUnknownModel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model = "izhikevich"

	exp := New(cfg)
	if err := exp.Setup(NewRegistry()); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestRunWithoutSetup(t *testing.T) {
	exp := New(config.DefaultConfig())
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error when running before setup")
	}
}

func TestRegistryPatterns(t *testing.T) {
	reg := NewRegistry()

	for _, name := range []string{"all_to_all", "one_to_one", "fixed_prob", ""} {
		if _, err := reg.GetPattern(config.ConnectConfig{Pattern: name, Prob: 0.5}, 1); err != nil {
			t.Errorf("pattern %q: %v", name, err)
		}
	}
	if _, err := reg.GetPattern(config.ConnectConfig{Pattern: "ring"}, 1); err == nil {
		t.Error("expected error for unknown pattern")
	}
}
