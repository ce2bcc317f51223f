// Package config loads and saves simulator configuration as YAML and ships
// the built-in presets.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/magspin/internal/rotor"
	"github.com/san-kum/magspin/internal/session"
)

const (
	DefaultTargetRPM = 3000.0
	DefaultDuration  = 60.0
	DefaultTick      = 0.05
)

type Config struct {
	Params PlantConfig `yaml:"params"`
	Run    RunConfig   `yaml:"run"`
}

// PlantConfig mirrors rotor.Params with the field names operators know from
// preset files.
type PlantConfig struct {
	Inertia      float64 `yaml:"inertia"`
	Kt           float64 `yaml:"kt"`
	R            float64 `yaml:"r"`
	AlphaR       float64 `yaml:"alpha_r"`
	TRef         float64 `yaml:"t_ref"`
	CTh          float64 `yaml:"c_th"`
	HTh          float64 `yaml:"h_th"`
	TAmb         float64 `yaml:"t_amb"`
	Ke           float64 `yaml:"ke"`
	Kg           float64 `yaml:"kg"`
	Kv           float64 `yaml:"kv"`
	CMech        float64 `yaml:"c_mech"`
	RPMLimit     float64 `yaml:"rpm_limit"`
	TLimit       float64 `yaml:"t_limit"`
	IMax         float64 `yaml:"i_max"`
	DutyMax      float64 `yaml:"duty_max"`
	PulsesPerRev int     `yaml:"pulses_per_rev"`
}

type RunConfig struct {
	TargetRPM float64 `yaml:"target_rpm"`
	HoldBand  float64 `yaml:"hold_band"`
	MinRPM    float64 `yaml:"min_rpm"`
	Duration  float64 `yaml:"duration"` // simulated seconds
	Tick      float64 `yaml:"tick"`     // outer tick period [s]
	Dt        float64 `yaml:"dt"`       // integration micro-step [s]
}

func DefaultConfig() *Config {
	return &Config{
		Params: fromParams(rotor.DefaultParams()),
		Run: RunConfig{
			TargetRPM: DefaultTargetRPM,
			HoldBand:  rotor.DefaultHoldBand,
			MinRPM:    rotor.DefaultMinRPM,
			Duration:  DefaultDuration,
			Tick:      DefaultTick,
			Dt:        session.DefaultDt,
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

// PlantParams converts the yaml view into the immutable plant bundle.
func (c *Config) PlantParams() rotor.Params {
	return rotor.Params{
		Inertia:      c.Params.Inertia,
		Kt:           c.Params.Kt,
		R:            c.Params.R,
		AlphaR:       c.Params.AlphaR,
		TRef:         c.Params.TRef,
		CTh:          c.Params.CTh,
		HTh:          c.Params.HTh,
		TAmb:         c.Params.TAmb,
		Ke:           c.Params.Ke,
		Kg:           c.Params.Kg,
		Kv:           c.Params.Kv,
		CMech:        c.Params.CMech,
		RPMLimit:     c.Params.RPMLimit,
		TLimit:       c.Params.TLimit,
		IMax:         c.Params.IMax,
		DutyMax:      c.Params.DutyMax,
		PulsesPerRev: c.Params.PulsesPerRev,
	}
}

// Commands builds the steady per-tick command snapshot for a scripted run.
// Defaults come from DefaultConfig, so explicit zeros in a loaded file are
// taken at face value.
func (c *Config) Commands() rotor.Commands {
	cmds := rotor.DefaultCommands(c.Run.TargetRPM)
	cmds.HoldBand = c.Run.HoldBand
	cmds.MinRPM = c.Run.MinRPM
	return cmds
}

// SubstepsPerTick derives the substep batch size from the tick period and
// micro-step, defaulting to the standard batch when unset.
func (c *Config) SubstepsPerTick() int {
	if c.Run.Tick <= 0 || c.Run.Dt <= 0 {
		return session.DefaultSubsteps
	}
	n := int(c.Run.Tick / c.Run.Dt)
	if n < 1 {
		n = 1
	}
	return n
}

func fromParams(p rotor.Params) PlantConfig {
	return PlantConfig{
		Inertia:      p.Inertia,
		Kt:           p.Kt,
		R:            p.R,
		AlphaR:       p.AlphaR,
		TRef:         p.TRef,
		CTh:          p.CTh,
		HTh:          p.HTh,
		TAmb:         p.TAmb,
		Ke:           p.Ke,
		Kg:           p.Kg,
		Kv:           p.Kv,
		CMech:        p.CMech,
		RPMLimit:     p.RPMLimit,
		TLimit:       p.TLimit,
		IMax:         p.IMax,
		DutyMax:      p.DutyMax,
		PulsesPerRev: p.PulsesPerRev,
	}
}
