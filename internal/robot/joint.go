package robot

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/rmath"
)

type JointID int

const NoJoint JointID = -1

type Joint struct {
	ID     JointID
	Name   string
	Type   string
	Parent LinkID
	Child  LinkID
	Axis   mgl64.Vec3
	Pose   rmath.Pose

	Handle physics.JointID
	// Drive is the configuration last pushed to the engine.
	Drive physics.DriveParams
	// Commanded is the target last handed to the engine.
	Commanded physics.JointState
}

func NewJoint(name string, parent, child LinkID) *Joint {
	return &Joint{
		ID:     NoJoint,
		Name:   name,
		Type:   "revolute",
		Parent: parent,
		Child:  child,
		Axis:   mgl64.Vec3{0, 0, 1},
		Pose:   rmath.Identity(),
		Handle: physics.InvalidJoint,
	}
}
