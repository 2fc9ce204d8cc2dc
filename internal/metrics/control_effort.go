package metrics

import (
	"math"

	"github.com/san-kum/robosim/internal/sim"
)

// ControlEffort is the mean absolute commanded velocity per joint sample.
// In dynamic mode that velocity is the raw position error the drive is
// asked to close each tick.
type ControlEffort struct{ jointMean }

func NewControlEffort() *ControlEffort {
	return &ControlEffort{newJointMean("control_effort", func(j sim.JointSample) float64 {
		return math.Abs(j.Commanded.Velocity)
	})}
}
