package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/assets"
	"github.com/san-kum/robosim/internal/rmath"
)

type BodyRecord struct {
	Name      string
	Pose      rmath.Pose
	Mass      float64
	MassSet   bool
	Gravity   bool
	Simulate  bool
	Collision bool
	Parts     []PartID
}

type PartRecord struct {
	Name               string
	Kind               PartKind
	Body               BodyID
	Welded             bool
	Local              rmath.Pose
	PositionIterations int
	VelocityIterations int
	Mesh               *assets.Mesh
	Visible            bool
	Channel            Channel
	Collision          CollisionEnabled
	Profile            Profile
	Mass               float64
	MassSet            bool
	Gravity            bool
}

type JointRecord struct {
	Name     string
	Parent   BodyID
	Child    BodyID
	Anchor   rmath.Pose
	Axis     mgl64.Vec3
	Drive    DriveParams
	Target   JointState
	Position float64
}

// Memory is a headless Engine. It keeps every resource in slices indexed
// by ID and counts calls per operation. Step advances each simulated
// joint by its motor's target velocity when the velocity drive is on.
type Memory struct {
	bodies []BodyRecord
	parts  []PartRecord
	joints []JointRecord
	calls  map[string]int
	time   float64
}

func NewMemory() *Memory {
	return &Memory{calls: make(map[string]int)}
}

// Calls returns how many times op was invoked, e.g. "SetMotorTarget".
func (m *Memory) Calls(op string) int { return m.calls[op] }

func (m *Memory) ResetCalls() { m.calls = make(map[string]int) }

func (m *Memory) Time() float64 { return m.time }

func (m *Memory) Body(id BodyID) (BodyRecord, bool) {
	if b := m.body(id); b != nil {
		return *b, true
	}
	return BodyRecord{}, false
}

func (m *Memory) Part(id PartID) (PartRecord, bool) {
	if p := m.part(id); p != nil {
		return *p, true
	}
	return PartRecord{}, false
}

func (m *Memory) Joint(id JointID) (JointRecord, bool) {
	if j := m.joint(id); j != nil {
		return *j, true
	}
	return JointRecord{}, false
}

// SetEncoder pins the sensed position of a joint.
func (m *Memory) SetEncoder(id JointID, position float64) {
	if j := m.joint(id); j != nil {
		j.Position = position
	}
}

func (m *Memory) body(id BodyID) *BodyRecord {
	if id < 0 || int(id) >= len(m.bodies) {
		return nil
	}
	return &m.bodies[id]
}

func (m *Memory) part(id PartID) *PartRecord {
	if id < 0 || int(id) >= len(m.parts) {
		return nil
	}
	return &m.parts[id]
}

func (m *Memory) joint(id JointID) *JointRecord {
	if id < 0 || int(id) >= len(m.joints) {
		return nil
	}
	return &m.joints[id]
}

func (m *Memory) CreateBody(name string, pose rmath.Pose) BodyID {
	m.calls["CreateBody"]++
	m.bodies = append(m.bodies, BodyRecord{
		Name:      name,
		Pose:      pose,
		Gravity:   true,
		Collision: true,
	})
	return BodyID(len(m.bodies) - 1)
}

func (m *Memory) SetBodyPose(id BodyID, pose rmath.Pose) {
	m.calls["SetBodyPose"]++
	if b := m.body(id); b != nil {
		b.Pose = pose
	}
}

func (m *Memory) BodyPose(id BodyID) rmath.Pose {
	if b := m.body(id); b != nil {
		return b.Pose
	}
	return rmath.Identity()
}

func (m *Memory) CreatePart(body BodyID, name string, kind PartKind) PartID {
	m.calls["CreatePart"]++
	b := m.body(body)
	if b == nil {
		return InvalidPart
	}
	m.parts = append(m.parts, PartRecord{
		Name:    name,
		Kind:    kind,
		Body:    body,
		Local:   rmath.Identity(),
		Visible: true,
		Gravity: true,
	})
	id := PartID(len(m.parts) - 1)
	b.Parts = append(b.Parts, id)
	return id
}

func (m *Memory) WeldPart(id PartID) {
	m.calls["WeldPart"]++
	if p := m.part(id); p != nil {
		p.Welded = true
	}
}

func (m *Memory) AddLocalTransform(id PartID, pose rmath.Pose) {
	m.calls["AddLocalTransform"]++
	if p := m.part(id); p != nil {
		p.Local = p.Local.Compose(pose)
	}
}

func (m *Memory) SetSolverIterations(id PartID, position, velocity int) {
	m.calls["SetSolverIterations"]++
	if p := m.part(id); p != nil {
		p.PositionIterations = position
		p.VelocityIterations = velocity
	}
}

func (m *Memory) BindMesh(id PartID, mesh assets.Mesh) {
	m.calls["BindMesh"]++
	if p := m.part(id); p != nil {
		p.Mesh = &mesh
	}
}

func (m *Memory) SetVisible(id PartID, visible bool) {
	m.calls["SetVisible"]++
	if p := m.part(id); p != nil {
		p.Visible = visible
	}
}

func (m *Memory) SetPartChannel(id PartID, channel Channel) {
	m.calls["SetPartChannel"]++
	if p := m.part(id); p != nil {
		p.Channel = channel
	}
}

func (m *Memory) SetPartCollision(id PartID, enabled CollisionEnabled) {
	m.calls["SetPartCollision"]++
	if p := m.part(id); p != nil {
		p.Collision = enabled
	}
}

func (m *Memory) SetPartProfile(id PartID, profile Profile) {
	m.calls["SetPartProfile"]++
	if p := m.part(id); p != nil {
		p.Profile = profile
	}
}

func (m *Memory) SetPartMass(id PartID, kg float64) {
	m.calls["SetPartMass"]++
	if p := m.part(id); p != nil {
		p.Mass = kg
		p.MassSet = true
	}
}

func (m *Memory) SetPartGravity(id PartID, enabled bool) {
	m.calls["SetPartGravity"]++
	if p := m.part(id); p != nil {
		p.Gravity = enabled
	}
}

func (m *Memory) SetBodyMass(id BodyID, kg float64) {
	m.calls["SetBodyMass"]++
	if b := m.body(id); b != nil {
		b.Mass = kg
		b.MassSet = true
	}
}

func (m *Memory) SetBodyGravity(id BodyID, enabled bool) {
	m.calls["SetBodyGravity"]++
	if b := m.body(id); b != nil {
		b.Gravity = enabled
	}
}

func (m *Memory) SetSimulatePhysics(id BodyID, enabled bool) {
	m.calls["SetSimulatePhysics"]++
	if b := m.body(id); b != nil {
		b.Simulate = enabled
	}
}

func (m *Memory) SetBodyCollision(id BodyID, enabled bool) {
	m.calls["SetBodyCollision"]++
	if b := m.body(id); b != nil {
		b.Collision = enabled
	}
}

func (m *Memory) CreateJoint(name string, parent, child BodyID, anchor rmath.Pose, axis mgl64.Vec3) JointID {
	m.calls["CreateJoint"]++
	if m.body(child) == nil {
		return InvalidJoint
	}
	m.joints = append(m.joints, JointRecord{
		Name:   name,
		Parent: parent,
		Child:  child,
		Anchor: anchor,
		Axis:   axis,
	})
	return JointID(len(m.joints) - 1)
}

func (m *Memory) SetDrive(id JointID, drive DriveParams) {
	m.calls["SetDrive"]++
	if j := m.joint(id); j != nil {
		j.Drive = drive
	}
}

func (m *Memory) SetMotorTarget(id JointID, target JointState) {
	m.calls["SetMotorTarget"]++
	if j := m.joint(id); j != nil {
		j.Target = target
	}
}

func (m *Memory) SetJointPosition(id JointID, position float64) {
	m.calls["SetJointPosition"]++
	if j := m.joint(id); j != nil {
		j.Position = position
	}
}

func (m *Memory) Encoder(id JointID) float64 {
	if j := m.joint(id); j != nil {
		return j.Position
	}
	return 0
}

func (m *Memory) Step(dt float64) {
	m.calls["Step"]++
	m.time += dt
	for i := range m.joints {
		j := &m.joints[i]
		child := m.body(j.Child)
		if child == nil || !child.Simulate || !j.Drive.VelocityDrive {
			continue
		}
		j.Position += j.Target.Velocity * dt
	}
}
