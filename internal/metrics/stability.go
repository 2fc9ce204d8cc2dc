package metrics

import (
	"math"
	"sort"

	"github.com/san-kum/robosim/internal/sim"
)

// Stability is the fraction of steps on which every joint stayed within
// threshold of its commanded position.
type Stability struct {
	threshold float64
	steps     int
	settled   int
	outside   map[string]int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold, outside: make(map[string]int)}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(sample sim.Sample) {
	s.steps++
	within := true
	for _, j := range sample.Joints {
		if math.Abs(j.Error()) > s.threshold {
			s.outside[j.Name]++
			within = false
		}
	}
	if within {
		s.settled++
	}
}

func (s *Stability) Value() float64 {
	if s.steps == 0 {
		return 1.0
	}
	return float64(s.settled) / float64(s.steps)
}

// Worst returns the joint that spent the most steps outside the band, and
// false when none did. Ties go to the lexically first name.
func (s *Stability) Worst() (string, bool) {
	names := make([]string, 0, len(s.outside))
	for name := range s.outside {
		names = append(names, name)
	}
	sort.Strings(names)

	worst, most := "", 0
	for _, name := range names {
		if s.outside[name] > most {
			worst, most = name, s.outside[name]
		}
	}
	return worst, most > 0
}

func (s *Stability) Reset() {
	s.steps, s.settled = 0, 0
	s.outside = make(map[string]int)
}
