package metrics

import (
	"math"

	"github.com/san-kum/robosim/internal/sim"
)

// TrackingError is the mean absolute difference between commanded and
// sensed joint positions.
type TrackingError struct{ jointMean }

func NewTrackingError() *TrackingError {
	return &TrackingError{newJointMean("tracking_error", func(j sim.JointSample) float64 {
		return math.Abs(j.Error())
	})}
}
