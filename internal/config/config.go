package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Scheiermann/supersolids-notes/internal/engine"
	"github.com/Scheiermann/supersolids-notes/internal/grid"
	"github.com/Scheiermann/supersolids-notes/internal/profiles"
)

const (
	DefaultHalfWidth  = 10.0
	DefaultResolution = 256
	DefaultDt         = 0.002
	DefaultSteps      = 2000
	DefaultAccuracy   = 1e-12
	DefaultWidth      = 1.0
	DefaultNoiseMin   = 0.8
	DefaultNoiseMax   = 1.4
)

var ErrAxisCount = errors.New("config: axis parameter count must be 1 or match dim")

type Config struct {
	Dim        int         `yaml:"dim"`
	HalfWidth  []float64   `yaml:"half_width"`
	Resolution []int       `yaml:"resolution"`
	Dt         float64     `yaml:"dt"`
	Steps      int         `yaml:"steps"`
	G          float64     `yaml:"g"`
	GDipole    float64     `yaml:"g_dipole"`
	RealTime   bool        `yaml:"real_time"`
	Accuracy   float64     `yaml:"accuracy"`
	Seed       int64       `yaml:"seed"`
	Wave       WaveConfig  `yaml:"wave"`
	Trap       TrapConfig  `yaml:"trap"`
	Noise      NoiseConfig `yaml:"noise"`
}

type WaveConfig struct {
	Widths  []float64 `yaml:"widths"`
	Centers []float64 `yaml:"centers"`
	Kick    float64   `yaml:"kick"`
}

type TrapConfig struct {
	AlphaY float64 `yaml:"alpha_y"`
	AlphaZ float64 `yaml:"alpha_z"`
}

type NoiseConfig struct {
	Enabled bool    `yaml:"enabled"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
}

func DefaultConfig() *Config {
	return &Config{
		Dim:        1,
		HalfWidth:  []float64{DefaultHalfWidth},
		Resolution: []int{DefaultResolution},
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Accuracy:   DefaultAccuracy,
		Wave: WaveConfig{
			Widths: []float64{DefaultWidth},
		},
		Trap: TrapConfig{
			AlphaY: 1.0,
			AlphaZ: 1.0,
		},
		Noise: NoiseConfig{
			Min: DefaultNoiseMin,
			Max: DefaultNoiseMax,
		},
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

// broadcast stretches a single per-axis value to dim entries; explicit
// per-axis lists pass through unchanged.
func broadcast[T any](vals []T, dim int) ([]T, error) {
	switch len(vals) {
	case dim:
		return vals, nil
	case 1:
		out := make([]T, dim)
		for i := range out {
			out[i] = vals[0]
		}
		return out, nil
	}
	return nil, ErrAxisCount
}

// Axes assembles the grid axes from the configured half-widths and
// resolutions, broadcasting single values across all dimensions.
func (c *Config) Axes() ([]grid.Axis, error) {
	halfWidths, err := broadcast(c.HalfWidth, c.Dim)
	if err != nil {
		return nil, err
	}
	resolutions, err := broadcast(c.Resolution, c.Dim)
	if err != nil {
		return nil, err
	}

	axes := make([]grid.Axis, c.Dim)
	for i := range axes {
		axes[i] = grid.Axis{HalfWidth: halfWidths[i], Resolution: resolutions[i]}
	}
	return axes, nil
}

func (c *Config) Mode() engine.Mode {
	if c.RealTime {
		return engine.RealTime
	}
	return engine.ImagTime
}

func (c *Config) EngineParams() engine.Params {
	return engine.Params{
		G:          c.G,
		GDipole:    c.GDipole,
		Dt:         c.Dt,
		Mode:       c.Mode(),
		StepBudget: c.Steps,
	}
}

func (c *Config) GaussianSpec() (profiles.GaussianSpec, error) {
	spec := profiles.DefaultGaussian(c.Dim)
	spec.Kick = c.Wave.Kick

	if len(c.Wave.Widths) > 0 {
		widths, err := broadcast(c.Wave.Widths, c.Dim)
		if err != nil {
			return spec, err
		}
		spec.Widths = widths
	}
	if len(c.Wave.Centers) > 0 {
		centers, err := broadcast(c.Wave.Centers, c.Dim)
		if err != nil {
			return spec, err
		}
		spec.Centers = centers
	}
	return spec, nil
}

// TrapScales returns the per-axis frequency ratios of the harmonic trap;
// alpha_y and alpha_z only apply to grids that have those axes.
func (c *Config) TrapScales() []float64 {
	scales := profiles.IsotropicScales(c.Dim)
	if c.Dim >= 2 && c.Trap.AlphaY > 0 {
		scales[1] = c.Trap.AlphaY
	}
	if c.Dim >= 3 && c.Trap.AlphaZ > 0 {
		scales[2] = c.Trap.AlphaZ
	}
	return scales
}
