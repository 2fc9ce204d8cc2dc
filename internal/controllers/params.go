package controllers

import (
	"fmt"

	"github.com/san-kum/robosim/internal/physics"
)

type Mode int

const (
	// Kinematic moves joints by direct position assignment.
	Kinematic Mode = iota
	// Dynamic moves joints through the engine's motors.
	Dynamic
)

func (m Mode) String() string {
	switch m {
	case Kinematic:
		return "kinematic"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "kinematic":
		return Kinematic, nil
	case "dynamic", "":
		return Dynamic, nil
	default:
		return Dynamic, fmt.Errorf("unknown controller mode: %s", s)
	}
}

// ParameterKind tags which controller a Parameters value configures.
type ParameterKind int

const (
	KindUnknown ParameterKind = iota
	KindJoint
	KindBase
	KindGripper
)

func (k ParameterKind) String() string {
	switch k {
	case KindJoint:
		return "joint"
	case KindBase:
		return "base"
	case KindGripper:
		return "gripper"
	default:
		return "unknown"
	}
}

func ParseKind(s string) ParameterKind {
	switch s {
	case "joint", "":
		return KindJoint
	case "base":
		return KindBase
	case "gripper":
		return KindGripper
	default:
		return KindUnknown
	}
}

// Parameters is a tagged controller configuration. Only the field that
// matches Kind is meaningful.
type Parameters struct {
	Kind  ParameterKind
	Joint JointParameters
}

type JointParameters struct {
	Mode             Mode
	ControlAllJoints bool
	DisableCollision bool
	Drive            physics.DriveParams
	// Targets pre-registers joints with initial commanded states.
	Targets map[string]physics.JointState
}

func NewJointParameters(p JointParameters) Parameters {
	return Parameters{Kind: KindJoint, Joint: p}
}
