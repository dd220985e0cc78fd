package config

import "sort"

var Presets = map[string]map[string]*Config{
	"lorenz": {
		"original": DefaultConfig(),
		"classic": {
			System: "lorenz", Params: map[string]float64{"sigma": 10, "rho": 28, "beta": 8.0 / 3.0},
			InitState: []float64{0, 1, 1.05}, MaxTime: 50, Steps: 20000,
			Box: BoxConfig{AutoRegion: true, Margin: 5, Side: 10, MinSide: 2.5, Scales: 3},
		},
		"reference": {
			System: "lorenz", Params: map[string]float64{"sigma": 10, "rho": 28, "beta": 8.0 / 3.0},
			InitState: []float64{0, 1, 1.05}, MaxTime: 1, Steps: 1000,
			Box: BoxConfig{HalfWidth: 50, Side: 10, MinSide: 10, Scales: 1},
		},
	},
	"rossler": {
		"classic": {
			System: "rossler", Params: map[string]float64{"a": 0.2, "b": 0.2, "c": 5.7},
			InitState: []float64{1, 1, 1}, MaxTime: 200, Steps: 20000,
			Box: BoxConfig{AutoRegion: true, Margin: 2, Side: 4, MinSide: 1, Scales: 3},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
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
	sort.Strings(names)
	return names
}
