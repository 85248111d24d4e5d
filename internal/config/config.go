package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/capsim/internal/input"
	"github.com/san-kum/capsim/internal/motion"
	"github.com/san-kum/capsim/internal/observability"
	"github.com/san-kum/capsim/internal/physics"
	"github.com/san-kum/capsim/internal/waveform"
)

const (
	DefaultInitialPosition = 1.0
	DefaultFPS             = 60
	DefaultHoldWindow      = 500 * time.Millisecond
	DefaultTheme           = "phosphor"
	DefaultLogName         = "capsim.log"
	DefaultDataDir         = ".capsim"
	RunsDirName            = "runs"
	EnvPrefix              = "CAPSIM"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Preset          string                     `yaml:"preset" mapstructure:"preset"`
	Physics         physics.Constants          `yaml:"physics" mapstructure:"physics"`
	Motion          motion.Integrator          `yaml:"motion" mapstructure:"motion"`
	InitialPosition float64                    `yaml:"initial_position" mapstructure:"initial_position"`
	Waveform        waveform.Params            `yaml:"waveform" mapstructure:"waveform"`
	Keys            input.KeyMap               `yaml:"keys" mapstructure:"keys"`
	FPS             int                        `yaml:"fps" mapstructure:"fps"`
	HoldWindow      time.Duration              `yaml:"hold_window" mapstructure:"hold_window"`
	Theme           string                     `yaml:"theme" mapstructure:"theme"`
	DataDir         string                     `yaml:"data_dir" mapstructure:"data_dir"`
	Log             observability.LoggerConfig `yaml:"log" mapstructure:"log"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:          "default",
		Physics:         physics.DefaultConstants(),
		Motion:          motion.Default(),
		InitialPosition: DefaultInitialPosition,
		Waveform:        waveform.DefaultParams(),
		Keys:            input.DefaultKeyMap(),
		FPS:             DefaultFPS,
		HoldWindow:      DefaultHoldWindow,
		Theme:           DefaultTheme,
		DataDir:         DefaultDataDir,
		Log:             observability.DefaultLoggerConfig(),
	}
}

// Load layers configuration: built-in defaults, then the named preset, then
// the YAML file, then CAPSIM_* environment variables and any flags already
// bound to v. An empty path looks for capsim.yaml in the working directory
// and is not an error when none exists.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("capsim")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	base := DefaultConfig()
	if name := v.GetString("preset"); name != "" {
		p, err := GetPreset(name)
		if err != nil {
			return nil, err
		}
		base = p
	}
	if err := setDefaults(v, base); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every leaf of cfg as a viper default so environment
// variables resolve for keys the file does not mention.
func setDefaults(v *viper.Viper, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, val := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if sub, ok := val.(map[string]any); ok {
				walk(key, sub)
				continue
			}
			v.SetDefault(key, val)
		}
	}
	walk("", tree)
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings a host cannot run without.
func (c *Config) Validate() error {
	if _, err := physics.NewCapacitor(c.Physics); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Motion.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !finite(c.InitialPosition) {
		return fmt.Errorf("%w: initial_position must be finite", ErrInvalidConfig)
	}
	if !finite(c.Motion.Floor) || !finite(c.Motion.ReferenceOffset) {
		return fmt.Errorf("%w: motion floor %g and reference_offset %g must be finite",
			ErrInvalidConfig, c.Motion.Floor, c.Motion.ReferenceOffset)
	}
	w := c.Waveform
	if !(w.AmplitudeFraction > 0) || !finite(w.Wavelength) || !finite(w.FrequencyScale) || !(w.PhaseStep >= 0) {
		return fmt.Errorf("%w: waveform %+v", ErrInvalidConfig, w)
	}
	if c.Keys.Up == "" || c.Keys.Down == "" || c.Keys.Up == c.Keys.Down {
		return fmt.Errorf("%w: keys up=%q down=%q", ErrInvalidConfig, c.Keys.Up, c.Keys.Down)
	}
	if c.FPS <= 0 || c.FPS > 1000 {
		return fmt.Errorf("%w: fps %d out of range", ErrInvalidConfig, c.FPS)
	}
	if c.HoldWindow <= 0 {
		return fmt.Errorf("%w: hold_window must be positive", ErrInvalidConfig)
	}
	if _, err := observability.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LogPath is where file logging goes when no explicit file is configured.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, DefaultLogName)
}

// RunsDir is the root of the stored headless runs.
func (c *Config) RunsDir() string {
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, RunsDirName)
}

// FrameInterval is the scheduler period for the configured frame rate.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
