package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/assets"
	"github.com/san-kum/robosim/internal/rmath"
)

// Engine is the physics/rendering resource manager.
type Engine interface {
	// CreateBody creates a consolidated rigid body at a world pose.
	CreateBody(name string, pose rmath.Pose) BodyID
	SetBodyPose(body BodyID, pose rmath.Pose)
	BodyPose(body BodyID) rmath.Pose

	// CreatePart creates a sub-part snapped to the body's transform.
	// Visual parts are attached without simulating on their own.
	CreatePart(body BodyID, name string, kind PartKind) PartID
	// WeldPart merges the part into its body's rigid body.
	WeldPart(part PartID)
	// AddLocalTransform offsets the part relative to its attachment.
	AddLocalTransform(part PartID, pose rmath.Pose)
	SetSolverIterations(part PartID, position, velocity int)
	BindMesh(part PartID, mesh assets.Mesh)
	SetVisible(part PartID, visible bool)

	SetPartChannel(part PartID, channel Channel)
	SetPartCollision(part PartID, enabled CollisionEnabled)
	SetPartProfile(part PartID, profile Profile)
	SetPartMass(part PartID, kg float64)
	SetPartGravity(part PartID, enabled bool)

	SetBodyMass(body BodyID, kg float64)
	SetBodyGravity(body BodyID, enabled bool)
	SetSimulatePhysics(body BodyID, enabled bool)
	SetBodyCollision(body BodyID, enabled bool)

	// CreateJoint connects child to parent. parent may be InvalidBody for a
	// joint anchored to the world.
	CreateJoint(name string, parent, child BodyID, anchor rmath.Pose, axis mgl64.Vec3) JointID
	SetDrive(joint JointID, drive DriveParams)
	// SetMotorTarget hands a position/velocity target to the joint motor.
	SetMotorTarget(joint JointID, target JointState)
	// SetJointPosition places the joint directly, bypassing the motor.
	SetJointPosition(joint JointID, position float64)
	// Encoder returns the sensed joint position.
	Encoder(joint JointID) float64

	Step(dt float64)
}
