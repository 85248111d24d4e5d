package config

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Presets tweak the physical and motion parameters of the default config.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"fine": func(c *Config) {
		c.Motion.Step = 0.002
		c.Waveform.PhaseStep = 0.05
	},
	"coarse": func(c *Config) {
		c.Motion.Step = 0.05
	},
	"high-inductance": func(c *Config) {
		c.Physics.Inductance = 0.1
		c.Waveform.FrequencyScale = 1e-7
	},
}

// GetPreset returns a full config with the named preset applied.
func GetPreset(name string) (*Config, error) {
	apply, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	cfg := DefaultConfig()
	cfg.Preset = name
	apply(cfg)
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
