// Package config loads and saves run configurations. A config names a
// built-in system or defines reactions inline, binds rate-constant values
// and initial concentrations by name, and carries integration settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elowan/kinetix/internal/kinetics"
)

const (
	DefaultDt        = 0.001
	DefaultDuration  = 10.0
	DefaultTolerance = 1e-6
)

type Config struct {
	System     string             `yaml:"system,omitempty"`
	Species    []string           `yaml:"species,omitempty"`
	Reactions  []ReactionConfig   `yaml:"reactions,omitempty"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	Init       map[string]float64 `yaml:"init,omitempty"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Integrator string             `yaml:"integrator"`
	Adaptive   bool               `yaml:"adaptive"`
	Tolerance  float64            `yaml:"tolerance"`
	Seed       int64              `yaml:"seed,omitempty"`
}

type ReactionConfig struct {
	Rate      string         `yaml:"rate"`
	Reactants map[string]int `yaml:"reactants"`
	Net       map[string]int `yaml:"net"`
}

func DefaultConfig() *Config {
	return &Config{
		System:     "decay2",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Integrator: "rk4",
		Tolerance:  DefaultTolerance,
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

// Scenario is a fully resolved run description: the reaction network plus
// numeric bindings, after merging a catalog entry with config overrides.
type Scenario struct {
	Name      string
	Species   []string
	Reactions []kinetics.Reaction
	Params    map[string]float64
	Init      map[string]float64
}

// Resolve merges the config into a Scenario. When System names a catalog
// entry, its species, reactions, params, and init are the base and the
// config's params/init override per name; inline species/reactions replace
// the catalog network entirely.
func (c *Config) Resolve() (*Scenario, error) {
	if c.Dt <= 0 {
		return nil, fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return nil, fmt.Errorf("config: duration must be positive, got %g", c.Duration)
	}

	sc := &Scenario{
		Params: map[string]float64{},
		Init:   map[string]float64{},
	}

	if len(c.Species) > 0 || len(c.Reactions) > 0 {
		if len(c.Species) == 0 {
			return nil, fmt.Errorf("config: inline reactions require a species list")
		}
		sc.Name = c.System
		if sc.Name == "" {
			sc.Name = "custom"
		}
		sc.Species = append([]string(nil), c.Species...)
		for _, r := range c.Reactions {
			sc.Reactions = append(sc.Reactions, kinetics.Reaction{
				Rate:      r.Rate,
				Reactants: r.Reactants,
				Net:       r.Net,
			})
		}
	} else {
		if c.System == "" {
			return nil, fmt.Errorf("config: either system or inline species/reactions required")
		}
		entry, err := kinetics.Lookup(c.System)
		if err != nil {
			return nil, err
		}
		sc.Name = entry.Name
		sc.Species = append([]string(nil), entry.Species...)
		sc.Reactions = append([]kinetics.Reaction(nil), entry.Reactions...)
		for k, v := range entry.Params {
			sc.Params[k] = v
		}
		for k, v := range entry.Init {
			sc.Init[k] = v
		}
	}

	for k, v := range c.Params {
		sc.Params[k] = v
	}
	for k, v := range c.Init {
		sc.Init[k] = v
	}

	declared := map[string]bool{}
	for _, s := range sc.Species {
		declared[s] = true
	}
	for name := range sc.Init {
		if !declared[name] {
			return nil, fmt.Errorf("config: init names undeclared species %q", name)
		}
	}
	return sc, nil
}

// InitState lays out the initial concentrations in declared species order;
// species absent from Init start at zero.
func (s *Scenario) InitState() []float64 {
	x0 := make([]float64, len(s.Species))
	for i, name := range s.Species {
		x0[i] = s.Init[name]
	}
	return x0
}
