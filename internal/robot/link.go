package robot

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/rmath"
)

type LinkID int

// NoLink marks an absent link reference, e.g. the parent of a joint
// anchored to the world.
const NoLink LinkID = -1

// Part is a visual or collision mesh instance attached to a link.
type Part struct {
	Name      string
	Kind      physics.PartKind
	Handle    physics.PartID
	LocalPose rmath.Pose
	Mesh      string
	// Resolved is false when the mesh asset could not be found. An
	// unresolved visual is never drawn; an unresolved collision has no
	// physical extent.
	Resolved bool
	Profile  physics.Profile
}

type Link struct {
	ID    LinkID
	Name  string
	Model string

	PoseRelativeTo string
	// Pose is relative to PoseRelativeTo.
	Pose rmath.Pose
	// Origin is the world offset the owning model was spawned at.
	Origin mgl64.Vec3

	Body       physics.BodyID
	Visuals    []Part
	Collisions []Part

	ChildJoints []JointID
	Attached    bool

	SelfCollide bool
	Gravity     bool
	// Mass is the overridden total mass, zero when the engine derives it.
	Mass float64

	// Faults holds the recoverable sub-part failures from construction.
	Faults []error
}

func NewLink(name, model string) *Link {
	return &Link{
		ID:    NoLink,
		Name:  name,
		Model: model,
		Pose:  rmath.Identity(),
		Body:  physics.InvalidBody,
	}
}

// Visual returns the first visual part.
func (l *Link) Visual() (*Part, bool) {
	if len(l.Visuals) == 0 {
		return nil, false
	}
	return &l.Visuals[0], true
}

// Collision returns the first collision part.
func (l *Link) Collision() (*Part, bool) {
	if len(l.Collisions) == 0 {
		return nil, false
	}
	return &l.Collisions[0], true
}

// CollisionByName finds a collision part by exact name or, when exact is
// false, by substring.
func (l *Link) CollisionByName(name string, exact bool) (*Part, bool) {
	for i := range l.Collisions {
		c := &l.Collisions[i]
		if c.Name == name || (!exact && strings.Contains(c.Name, name)) {
			return c, true
		}
	}
	return nil, false
}

func (l *Link) NumCollisions() int { return len(l.Collisions) }

// AddJoint records j as a joint whose child is this link.
func (l *Link) AddJoint(j JointID) {
	for _, id := range l.ChildJoints {
		if id == j {
			return
		}
	}
	l.ChildJoints = append(l.ChildJoints, j)
}
