package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/san-kum/robosim/internal/assembly"
	"github.com/san-kum/robosim/internal/assets"
	"github.com/san-kum/robosim/internal/config"
	"github.com/san-kum/robosim/internal/controllers"
	"github.com/san-kum/robosim/internal/description"
	"github.com/san-kum/robosim/internal/metrics"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/physics/chipmunk"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/sim"
)

const stabilityThreshold = 0.01

// session is one assembled robot with its engine and controller.
type session struct {
	cfg        *config.Config
	desc       *description.Model
	engine     physics.Engine
	model      *robot.Model
	summary    assembly.Summary
	controller *controllers.JointController
	faults     *robot.Collector
}

func newEngine(name string) (physics.Engine, error) {
	switch name {
	case config.EngineMemory:
		return physics.NewMemory(), nil
	case config.EngineChipmunk:
		return chipmunk.New(), nil
	default:
		return nil, fmt.Errorf("unknown engine: %s", name)
	}
}

func loadResolver(path string) (assets.Resolver, error) {
	if path == "" {
		return assets.NewLibrary(), nil
	}
	return assets.Load(path)
}

// loadConfig layers the config file, one preset and command line flags in
// that order.
func loadConfig(presetName string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if engineName != "" {
		cfg.Engine = engineName
	}
	if presetName != "" {
		if err := cfg.ApplyPreset(presetName); err != nil {
			return nil, err
		}
	}
	if dt > 0 {
		cfg.Dt = dt
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	if meshFile != "" {
		cfg.Meshes = meshFile
	}
	if mode != "" {
		cfg.Controller.Mode = mode
	}
	return cfg, cfg.Validate()
}

func newSession(descPath string, cfg *config.Config, logger *log.Logger) (*session, error) {
	desc, err := description.Load(descPath)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}
	resolver, err := loadResolver(cfg.Meshes)
	if err != nil {
		return nil, err
	}

	faults := &robot.Collector{}
	reporter := robot.Tee{robot.NewLogReporter(logger), faults}

	asm := assembly.New(engine, resolver, reporter).WithLogger(logger)
	model, summary, err := asm.Assemble(desc, assembly.Options{
		Origin: cfg.OriginVec(),
		Strict: cfg.Strict,
	})
	if err != nil {
		return nil, err
	}

	params, err := cfg.ControllerParameters()
	if err != nil {
		return nil, err
	}
	ctrl := controllers.NewJointController(engine, reporter).WithLogger(logger)
	if !ctrl.Configure(params) {
		return nil, fmt.Errorf("controller type %q is not supported", cfg.Controller.Type)
	}
	if err := ctrl.Initialize(model); err != nil {
		return nil, err
	}

	return &session{
		cfg:        cfg,
		desc:       desc,
		engine:     engine,
		model:      model,
		summary:    summary,
		controller: ctrl,
		faults:     faults,
	}, nil
}

func (s *session) simulator() *sim.Simulator {
	sm := sim.New(s.controller, s.engine)
	sm.AddMetric(metrics.NewTrackingError())
	sm.AddMetric(metrics.NewControlEffort())
	sm.AddMetric(metrics.NewStability(stabilityThreshold))
	return sm
}

func (s *session) simConfig() sim.Config {
	return sim.Config{Dt: s.cfg.Dt, Duration: s.cfg.Duration}
}

func (s *session) trajectory() sim.Trajectory {
	return sim.Trajectory(s.cfg.Trajectory)
}

// job pairs sm with this session's own dt, duration and trajectory.
func (s *session) job(sm *sim.Simulator) sim.Job {
	return sim.Job{Sim: sm, Config: s.simConfig(), Trajectory: s.trajectory()}
}
