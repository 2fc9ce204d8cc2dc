package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/controllers"
	"github.com/san-kum/robosim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 5.0
	DefaultEngine   = EngineMemory

	EngineMemory   = "memory"
	EngineChipmunk = "chipmunk"
)

type Config struct {
	Description string               `yaml:"description"`
	Meshes      string               `yaml:"meshes,omitempty"`
	Engine      string               `yaml:"engine"`
	Dt          float64              `yaml:"dt"`
	Duration    float64              `yaml:"duration"`
	Origin      [3]float64           `yaml:"origin"`
	Strict      bool                 `yaml:"strict"`
	Controller  ControllerConfig     `yaml:"controller"`
	Trajectory  map[string][]float64 `yaml:"trajectory,omitempty"`
}

type ControllerConfig struct {
	Type             string                        `yaml:"type"`
	Mode             string                        `yaml:"mode"`
	ControlAllJoints bool                          `yaml:"control_all_joints"`
	DisableCollision bool                          `yaml:"disable_collision"`
	Drive            physics.DriveParams           `yaml:"drive"`
	Targets          map[string]physics.JointState `yaml:"targets,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine:   DefaultEngine,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Controller: ControllerConfig{
			Type:             "joint",
			Mode:             controllers.Dynamic.String(),
			ControlAllJoints: true,
			Drive:            physics.DefaultDrive(),
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
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Engine {
	case EngineMemory, EngineChipmunk:
	default:
		return fmt.Errorf("unknown engine: %s", c.Engine)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if _, err := controllers.ParseMode(c.Controller.Mode); err != nil {
		return err
	}
	return nil
}

func (c *Config) OriginVec() mgl64.Vec3 {
	return mgl64.Vec3(c.Origin)
}

// ControllerParameters builds the tagged controller configuration.
func (c *Config) ControllerParameters() (controllers.Parameters, error) {
	mode, err := controllers.ParseMode(c.Controller.Mode)
	if err != nil {
		return controllers.Parameters{}, err
	}
	targets := make(map[string]physics.JointState, len(c.Controller.Targets))
	for name, s := range c.Controller.Targets {
		targets[name] = s
	}
	return controllers.Parameters{
		Kind: controllers.ParseKind(c.Controller.Type),
		Joint: controllers.JointParameters{
			Mode:             mode,
			ControlAllJoints: c.Controller.ControlAllJoints,
			DisableCollision: c.Controller.DisableCollision,
			Drive:            c.Controller.Drive,
			Targets:          targets,
		},
	}, nil
}

// ApplyPreset overlays the engine and controller section of a preset.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(c.Engine, name)
	if p == nil {
		return fmt.Errorf("unknown preset %q for engine %s", name, c.Engine)
	}
	c.Engine = p.Engine
	c.Controller.Type = p.Controller.Type
	c.Controller.Mode = p.Controller.Mode
	c.Controller.ControlAllJoints = p.Controller.ControlAllJoints
	c.Controller.DisableCollision = p.Controller.DisableCollision
	c.Controller.Drive = p.Controller.Drive
	if p.Dt > 0 {
		c.Dt = p.Dt
	}
	return nil
}
