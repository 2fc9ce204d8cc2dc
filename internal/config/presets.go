package config

import "github.com/san-kum/robosim/internal/physics"

func preset(engine, mode string, disableCollision bool, dt float64) *Config {
	return &Config{
		Engine: engine, Dt: dt, Duration: DefaultDuration,
		Controller: ControllerConfig{
			Type: "joint", Mode: mode, ControlAllJoints: true,
			DisableCollision: disableCollision, Drive: physics.DefaultDrive(),
		},
	}
}

var Presets = map[string]map[string]*Config{
	EngineMemory: {
		"kinematic":            preset(EngineMemory, "kinematic", false, 0.01),
		"dynamic":              preset(EngineMemory, "dynamic", false, 0.01),
		"dynamic_no_collision": preset(EngineMemory, "dynamic", true, 0.01),
	},
	EngineChipmunk: {
		"kinematic":            preset(EngineChipmunk, "kinematic", false, 1.0/60),
		"dynamic":              preset(EngineChipmunk, "dynamic", false, 1.0/240),
		"dynamic_no_collision": preset(EngineChipmunk, "dynamic", true, 1.0/240),
	},
}

func GetPreset(engine, preset string) *Config {
	enginePresets, ok := Presets[engine]
	if !ok {
		return nil
	}
	cfg, ok := enginePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(engine string) []string {
	enginePresets, ok := Presets[engine]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(enginePresets))
	for name := range enginePresets {
		names = append(names, name)
	}
	return names
}
