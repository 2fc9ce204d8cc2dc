package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/robosim/internal/physics"
)

var ErrNotStarted = errors.New("sim: not started")

type Simulator struct {
	controller Controller
	engine     physics.Engine
	metrics    []Metric
	observers  []Observer

	cfg        Config
	trajectory Trajectory
	step       int
	time       float64
	started    bool
}

func New(controller Controller, engine physics.Engine) *Simulator {
	return &Simulator{
		controller: controller,
		engine:     engine,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Controller() Controller { return s.controller }
func (s *Simulator) Time() float64          { return s.time }
func (s *Simulator) StepIndex() int         { return s.step }

// Start resets the clock and metrics for a new run.
func (s *Simulator) Start(cfg Config, trajectory Trajectory) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	s.cfg = cfg
	s.trajectory = trajectory
	s.step = 0
	s.time = 0
	s.started = true
	for _, m := range s.metrics {
		m.Reset()
	}
	return nil
}

// Progress is the completed fraction of the started run.
func (s *Simulator) Progress() float64 {
	if !s.started {
		return 0
	}
	return min(float64(s.step)/float64(max(s.cfg.Steps(), 1)), 1)
}

// Done reports whether the configured duration has elapsed.
func (s *Simulator) Done() bool {
	return s.started && s.step >= s.cfg.Steps()
}

// Step applies the trajectory sample for the current tick, ticks the
// controller, advances the engine and records what the joints did.
func (s *Simulator) Step() (Sample, error) {
	if !s.started {
		return Sample{}, ErrNotStarted
	}
	dt := s.cfg.Dt

	for _, name := range s.controller.JointNames() {
		pos, ok := s.trajectory.At(name, s.step)
		if !ok {
			continue
		}
		state, _ := s.controller.JointState(name)
		state.Position = pos
		s.controller.SetJointState(name, state)
	}

	s.controller.Tick(dt)
	s.engine.Step(dt)
	s.time += dt

	sample := s.sample()
	s.step++

	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnStep(sample)
	}
	return sample, nil
}

func (s *Simulator) sample() Sample {
	sample := Sample{Step: s.step, Time: s.time}
	owner := s.controller.Owner()
	for _, name := range s.controller.JointNames() {
		js := JointSample{Name: name}
		js.Commanded, _ = s.controller.JointState(name)
		if owner != nil {
			if j, ok := owner.Joint(name); ok {
				js.Commanded = j.Commanded
				js.Sensed = s.engine.Encoder(j.Handle)
			}
		}
		sample.Joints = append(sample.Joints, js)
	}
	return sample
}

func (s *Simulator) Run(ctx context.Context, cfg Config, trajectory Trajectory) (*Result, error) {
	if err := s.Start(cfg, trajectory); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &Result{
		Samples: make([]Sample, 0, steps),
		Metrics: make(map[string]float64),
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sample, err := s.Step()
		if err != nil {
			return result, err
		}
		result.Samples = append(result.Samples, sample)
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
