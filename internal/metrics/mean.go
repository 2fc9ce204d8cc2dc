package metrics

import (
	"math"

	"github.com/san-kum/robosim/internal/sim"
)

// jointMean accumulates a per-joint quantity and reports its mean over
// every joint sample and per joint.
type jointMean struct {
	name  string
	value func(sim.JointSample) float64

	sum     float64
	samples int
	peak    float64
	joints  map[string]*accum
}

type accum struct {
	sum float64
	n   int
}

func newJointMean(name string, value func(sim.JointSample) float64) jointMean {
	return jointMean{name: name, value: value, joints: make(map[string]*accum)}
}

func (m *jointMean) Name() string { return m.name }

func (m *jointMean) Observe(s sim.Sample) {
	for _, j := range s.Joints {
		v := m.value(j)
		m.sum += v
		m.samples++
		m.peak = math.Max(m.peak, v)

		a := m.joints[j.Name]
		if a == nil {
			a = &accum{}
			m.joints[j.Name] = a
		}
		a.sum += v
		a.n++
	}
}

func (m *jointMean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

// Joint is the mean for one joint, false if it was never sampled.
func (m *jointMean) Joint(name string) (float64, bool) {
	a, ok := m.joints[name]
	if !ok || a.n == 0 {
		return 0, false
	}
	return a.sum / float64(a.n), true
}

// Peak is the largest single joint sample seen.
func (m *jointMean) Peak() float64 { return m.peak }

func (m *jointMean) Reset() {
	m.sum, m.samples, m.peak = 0, 0, 0
	m.joints = make(map[string]*accum)
}
