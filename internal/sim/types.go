package sim

import (
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/robot"
)

// Controller is the per-step joint driver the simulator ticks.
type Controller interface {
	Owner() *robot.Model
	Tick(dt float64)
	JointNames() []string
	JointState(name string) (physics.JointState, bool)
	SetJointState(name string, state physics.JointState) bool
}

type JointSample struct {
	Name      string
	Commanded physics.JointState
	Sensed    float64
}

// Error is commanded position minus sensed position.
func (j JointSample) Error() float64 { return j.Commanded.Position - j.Sensed }

type Sample struct {
	Step   int
	Time   float64
	Joints []JointSample
}

func (s Sample) Joint(name string) (JointSample, bool) {
	for _, j := range s.Joints {
		if j.Name == name {
			return j, true
		}
	}
	return JointSample{}, false
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Dt       float64
	Duration float64
}

func (c Config) Steps() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(c.Duration/c.Dt + 1e-9)
}

// Trajectory is a commanded position per tick for each joint. A joint
// holds its last value once its sequence runs out.
type Trajectory map[string][]float64

func (tr Trajectory) At(name string, step int) (float64, bool) {
	seq := tr[name]
	if len(seq) == 0 {
		return 0, false
	}
	if step >= len(seq) {
		return seq[len(seq)-1], true
	}
	return seq[step], true
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
}

// Series returns the commanded and sensed position of one joint over the
// run.
func (r *Result) Series(name string) (commanded, sensed []float64) {
	for _, s := range r.Samples {
		if j, ok := s.Joint(name); ok {
			commanded = append(commanded, j.Commanded.Position)
			sensed = append(sensed, j.Sensed)
		}
	}
	return commanded, sensed
}

func (r *Result) Times() []float64 {
	times := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		times[i] = s.Time
	}
	return times
}
