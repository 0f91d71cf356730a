package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.System != "decay2" {
		t.Errorf("System = %q, want decay2", cfg.System)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("Dt = %v, want %v", cfg.Dt, DefaultDt)
	}
	if cfg.Integrator != "rk4" {
		t.Errorf("Integrator = %q, want rk4", cfg.Integrator)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.System = "robertson"
	cfg.Duration = 40
	cfg.Params = map[string]float64{"k1": 0.05}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.System != "robertson" {
		t.Errorf("System = %q", loaded.System)
	}
	if loaded.Duration != 40 {
		t.Errorf("Duration = %v", loaded.Duration)
	}
	if loaded.Params["k1"] != 0.05 {
		t.Errorf("Params[k1] = %v", loaded.Params["k1"])
	}
}

func TestLoadInlineReactions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inline.yaml")
	data := `
system: mychain
species: [a, b]
reactions:
  - rate: k
    reactants: {a: 1}
    net: {a: -1, b: 1}
params: {k: 1.5}
init: {a: 1}
dt: 0.01
duration: 5
integrator: rk4
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sc, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sc.Name != "mychain" {
		t.Errorf("Name = %q", sc.Name)
	}
	if len(sc.Reactions) != 1 || sc.Reactions[0].Rate != "k" {
		t.Errorf("Reactions = %+v", sc.Reactions)
	}
	if sc.Params["k"] != 1.5 {
		t.Errorf("Params = %v", sc.Params)
	}
}

func TestResolveCatalogWithOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.System = "decay2"
	cfg.Params = map[string]float64{"l1": 9}
	cfg.Init = map[string]float64{"y": 0.5}

	sc, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sc.Params["l1"] != 9 {
		t.Errorf("override lost: l1 = %v", sc.Params["l1"])
	}
	if sc.Params["l2"] != 1 {
		t.Errorf("catalog default lost: l2 = %v", sc.Params["l2"])
	}
	if sc.Init["x"] != 1 || sc.Init["y"] != 0.5 {
		t.Errorf("Init = %v", sc.Init)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"unknown system", func(c *Config) { c.System = "nope" }},
		{"no system no reactions", func(c *Config) { c.System = "" }},
		{"init undeclared species", func(c *Config) { c.Init = map[string]float64{"Q": 1} }},
		{"inline reactions without species", func(c *Config) {
			c.Reactions = []ReactionConfig{{Rate: "k"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(cfg)
			if _, err := cfg.Resolve(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestInitState(t *testing.T) {
	cfg := DefaultConfig()
	sc, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	x0 := sc.InitState()
	if len(x0) != 3 {
		t.Fatalf("len = %d", len(x0))
	}
	// decay2 starts with all mass in x
	if x0[0] != 1 || x0[1] != 0 || x0[2] != 0 {
		t.Errorf("x0 = %v", x0)
	}
}

func TestPresets(t *testing.T) {
	for system, presets := range Presets {
		for name, cfg := range presets {
			if cfg.System != system {
				t.Errorf("%s/%s: System = %q", system, name, cfg.System)
			}
			if _, err := cfg.Resolve(); err != nil {
				t.Errorf("%s/%s: Resolve: %v", system, name, err)
			}
		}
	}

	if GetPreset("robertson", "classic") == nil {
		t.Error("GetPreset(robertson, classic) = nil")
	}
	if GetPreset("robertson", "nope") != nil {
		t.Error("expected nil for unknown preset")
	}
	if GetPreset("nope", "classic") != nil {
		t.Error("expected nil for unknown system")
	}
	if names := ListPresets("decay2"); len(names) != 2 {
		t.Errorf("ListPresets(decay2) = %v", names)
	}
	if ListPresets("nope") != nil {
		t.Error("expected nil for unknown system")
	}
}
