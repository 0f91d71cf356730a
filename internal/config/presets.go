package config

var Presets = map[string]map[string]*Config{
	"robertson": {
		"classic": {
			System: "robertson", Integrator: "rk45", Adaptive: true,
			Dt: 1e-4, Duration: 40.0, Tolerance: 1e-8,
		},
		"long": {
			System: "robertson", Integrator: "rk45", Adaptive: true,
			Dt: 1e-4, Duration: 1000.0, Tolerance: 1e-8,
		},
	},
	"decay2": {
		"default": {
			System: "decay2", Integrator: "rk4",
			Dt: 0.001, Duration: 10.0, Tolerance: 1e-6,
		},
		"fast": {
			System: "decay2", Integrator: "rk4",
			Dt: 0.001, Duration: 3.0, Tolerance: 1e-6,
			Params: map[string]float64{"l1": 10, "l2": 5},
		},
	},
	"brusselator": {
		"oscillate": {
			System: "brusselator", Integrator: "rk4",
			Dt: 0.001, Duration: 50.0, Tolerance: 1e-6,
		},
		"damped": {
			System: "brusselator", Integrator: "rk4",
			Dt: 0.001, Duration: 50.0, Tolerance: 1e-6,
			Params: map[string]float64{"k2": 1.5},
		},
	},
	"binding": {
		"equilibrium": {
			System: "binding", Integrator: "rk4",
			Dt: 0.0005, Duration: 5.0, Tolerance: 1e-6,
		},
		"excess": {
			System: "binding", Integrator: "rk4",
			Dt: 0.0005, Duration: 5.0, Tolerance: 1e-6,
			Init: map[string]float64{"A": 1, "B": 5},
		},
	},
}

func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	return names
}
