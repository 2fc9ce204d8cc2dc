// Package chipmunk is a planar physics.Engine on top of the cp port of
// Chipmunk2D. Poses are projected onto the XY plane and only yaw
// survives; joints rotate about the plane normal.
package chipmunk

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/robosim/internal/assets"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/rmath"
)

const (
	// robotGroup is shared by every shape that must not collide with its
	// own robot.
	robotGroup  uint = 1
	minMass          = 1e-6
	minExtent        = 1e-3
	defaultMass      = 1.0
)

// Density in kg/m³ turns collision box volume into a mass estimate for
// bodies that never get an explicit mass.
var Density = 1000.0

var Gravity = cp.Vector{X: 0, Y: -9.81}

type body struct {
	body      *cp.Body
	z         float64
	mass      float64
	massSet   bool
	volume    float64
	size      mgl64.Vec3
	gravity   bool
	simulate  bool
	collision bool
	parts     []physics.PartID
}

type part struct {
	body      physics.BodyID
	kind      physics.PartKind
	shape     *cp.Shape
	local     rmath.Pose
	mesh      *assets.Mesh
	welded    bool
	visible   bool
	channel   physics.Channel
	collision physics.CollisionEnabled
	profile   physics.Profile
	mass      float64
	gravity   bool
	filter    cp.ShapeFilter
	sensor    bool
}

type joint struct {
	parent  physics.BodyID
	child   physics.BodyID
	pivot   *cp.Constraint
	spring  *cp.Constraint
	motor   *cp.Constraint
	drive   physics.DriveParams
	target  physics.JointState
	inSpace bool
}

type Engine struct {
	space  *cp.Space
	bodies []*body
	parts  []*part
	joints []*joint
	time   float64
}

var _ physics.Engine = (*Engine)(nil)

func New() *Engine {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(Gravity)
	return &Engine{space: space}
}

func (e *Engine) Space() *cp.Space { return e.space }

func (e *Engine) Time() float64 { return e.time }

func (e *Engine) body(id physics.BodyID) *body {
	if id < 0 || int(id) >= len(e.bodies) {
		return nil
	}
	return e.bodies[id]
}

func (e *Engine) part(id physics.PartID) *part {
	if id < 0 || int(id) >= len(e.parts) {
		return nil
	}
	return e.parts[id]
}

func (e *Engine) joint(id physics.JointID) *joint {
	if id < 0 || int(id) >= len(e.joints) {
		return nil
	}
	return e.joints[id]
}

// cpBody returns the body for id, or the space's static body for an
// invalid id.
func (e *Engine) cpBody(id physics.BodyID) *cp.Body {
	if b := e.body(id); b != nil {
		return b.body
	}
	return e.space.StaticBody
}

func (e *Engine) CreateBody(name string, pose rmath.Pose) physics.BodyID {
	rec := &body{
		mass:      defaultMass,
		size:      mgl64.Vec3{1, 1, 1},
		gravity:   true,
		simulate:  true,
		collision: true,
	}
	rec.body = cp.NewBody(defaultMass, cp.MomentForBox(defaultMass, 1, 1))
	rec.body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping, dt float64) {
		if !rec.gravity {
			gravity = cp.Vector{}
		}
		cp.BodyUpdateVelocity(b, gravity, damping, dt)
	})
	e.space.AddBody(rec.body)
	e.bodies = append(e.bodies, rec)

	id := physics.BodyID(len(e.bodies) - 1)
	e.SetBodyPose(id, pose)
	return id
}

func (e *Engine) SetBodyPose(id physics.BodyID, pose rmath.Pose) {
	b := e.body(id)
	if b == nil {
		return
	}
	b.z = pose.Position.Z()
	b.body.SetPosition(cp.Vector{X: pose.Position.X(), Y: pose.Position.Y()})
	b.body.SetAngle(pose.Yaw())
}

func (e *Engine) BodyPose(id physics.BodyID) rmath.Pose {
	b := e.body(id)
	if b == nil {
		return rmath.Identity()
	}
	p := b.body.Position()
	return rmath.Pose{
		Position: mgl64.Vec3{p.X, p.Y, b.z},
		Rotation: mgl64.QuatRotate(b.body.Angle(), mgl64.Vec3{0, 0, 1}),
	}
}

func (e *Engine) CreatePart(id physics.BodyID, name string, kind physics.PartKind) physics.PartID {
	b := e.body(id)
	if b == nil {
		return physics.InvalidPart
	}
	e.parts = append(e.parts, &part{
		body:    id,
		kind:    kind,
		local:   rmath.Identity(),
		visible: true,
		gravity: true,
	})
	pid := physics.PartID(len(e.parts) - 1)
	b.parts = append(b.parts, pid)
	return pid
}

func (e *Engine) WeldPart(id physics.PartID) {
	if p := e.part(id); p != nil {
		p.welded = true
	}
}

func (e *Engine) AddLocalTransform(id physics.PartID, pose rmath.Pose) {
	p := e.part(id)
	if p == nil {
		return
	}
	p.local = p.local.Compose(pose)
	if p.shape != nil {
		e.rebuildShape(p)
	}
}

func (e *Engine) SetSolverIterations(id physics.PartID, position, velocity int) {
	if e.part(id) == nil {
		return
	}
	n := position
	if velocity > n {
		n = velocity
	}
	if n > 0 && uint(n) > e.space.Iterations {
		e.space.Iterations = uint(n)
	}
}

// BindMesh gives the part an axis-aligned box shape of the mesh extent,
// centred on the part's local offset.
func (e *Engine) BindMesh(id physics.PartID, mesh assets.Mesh) {
	p := e.part(id)
	if p == nil {
		return
	}
	p.mesh = &mesh
	e.rebuildShape(p)

	if p.kind == physics.CollisionPart {
		b := e.bodies[p.body]
		for i := 0; i < 3; i++ {
			b.size[i] = math.Max(b.size[i], mesh.Extent[i])
		}
		b.volume += boxVolume(mesh.Extent)
		if !b.massSet {
			b.mass = math.Max(Density*b.volume, minMass)
		}
		if b.simulate {
			e.restoreMass(b)
		}
	}
}

func boxVolume(extent mgl64.Vec3) float64 {
	v := 1.0
	for _, x := range extent {
		v *= math.Max(x, minExtent)
	}
	return v
}

func (e *Engine) rebuildShape(p *part) {
	if p.shape != nil {
		e.space.RemoveShape(p.shape)
		p.shape = nil
	}
	if p.mesh == nil {
		return
	}
	b := e.bodies[p.body]
	hw := math.Max(p.mesh.Extent.X(), minExtent) / 2
	hh := math.Max(p.mesh.Extent.Y(), minExtent) / 2
	cx, cy := p.local.Position.X(), p.local.Position.Y()
	bb := cp.BB{L: cx - hw, B: cy - hh, R: cx + hw, T: cy + hh}
	p.shape = cp.NewBox2(b.body, bb, 0)
	e.applyFilter(p)
	e.space.AddShape(p.shape)
}

func (e *Engine) applyFilter(p *part) {
	category := uint(1) << uint(p.channel)
	b := e.bodies[p.body]

	switch {
	case !b.collision || p.collision == physics.NoCollision || p.profile == physics.ProfileIgnoreAll:
		p.filter, p.sensor = cp.SHAPE_FILTER_NONE, true
	case p.collision == physics.QueryOnly || p.profile == physics.ProfileOverlapOnly:
		p.filter, p.sensor = cp.NewShapeFilter(cp.NO_GROUP, category, cp.ALL_CATEGORIES), true
	case p.profile == physics.ProfileNoSelfCollision:
		p.filter, p.sensor = cp.NewShapeFilter(robotGroup, category, cp.ALL_CATEGORIES), false
	default:
		p.filter, p.sensor = cp.NewShapeFilter(cp.NO_GROUP, category, cp.ALL_CATEGORIES), false
	}
	if p.shape != nil {
		p.shape.SetFilter(p.filter)
		p.shape.SetSensor(p.sensor)
	}
}

func (e *Engine) SetVisible(id physics.PartID, visible bool) {
	if p := e.part(id); p != nil {
		p.visible = visible
	}
}

func (e *Engine) SetPartChannel(id physics.PartID, channel physics.Channel) {
	if p := e.part(id); p != nil {
		p.channel = channel
		e.applyFilter(p)
	}
}

func (e *Engine) SetPartCollision(id physics.PartID, enabled physics.CollisionEnabled) {
	if p := e.part(id); p != nil {
		p.collision = enabled
		e.applyFilter(p)
	}
}

func (e *Engine) SetPartProfile(id physics.PartID, profile physics.Profile) {
	if p := e.part(id); p != nil {
		p.profile = profile
		e.applyFilter(p)
	}
}

// SetPartMass is recorded only. Shapes carry no density so the body mass
// set through SetBodyMass stays authoritative.
func (e *Engine) SetPartMass(id physics.PartID, kg float64) {
	if p := e.part(id); p != nil {
		p.mass = kg
	}
}

func (e *Engine) SetPartGravity(id physics.PartID, enabled bool) {
	if p := e.part(id); p != nil {
		p.gravity = enabled
	}
}

func (e *Engine) SetBodyMass(id physics.BodyID, kg float64) {
	b := e.body(id)
	if b == nil {
		return
	}
	b.mass = math.Max(kg, minMass)
	b.massSet = true
	if b.simulate {
		e.restoreMass(b)
	}
}

func (e *Engine) restoreMass(b *body) {
	b.body.SetMass(b.mass)
	b.body.SetMoment(cp.MomentForBox(b.mass, b.size.X(), b.size.Y()))
}

func (e *Engine) SetBodyGravity(id physics.BodyID, enabled bool) {
	if b := e.body(id); b != nil {
		b.gravity = enabled
	}
}

// SetSimulatePhysics switches the body between dynamic and kinematic.
// Joints whose child is kinematic leave the space until it is dynamic
// again.
func (e *Engine) SetSimulatePhysics(id physics.BodyID, enabled bool) {
	b := e.body(id)
	if b == nil || b.simulate == enabled {
		return
	}
	b.simulate = enabled
	if enabled {
		b.body.SetType(cp.BODY_DYNAMIC)
		e.restoreMass(b)
	} else {
		b.body.SetType(cp.BODY_KINEMATIC)
	}
	for _, j := range e.joints {
		if j.child == id {
			e.syncConstraints(j)
		}
	}
}

func (e *Engine) Simulated(id physics.BodyID) bool {
	b := e.body(id)
	return b != nil && b.simulate
}

func (e *Engine) SetBodyCollision(id physics.BodyID, enabled bool) {
	b := e.body(id)
	if b == nil {
		return
	}
	b.collision = enabled
	for _, pid := range b.parts {
		e.applyFilter(e.parts[pid])
	}
}

func (e *Engine) CreateJoint(name string, parent, child physics.BodyID, anchor rmath.Pose, axis mgl64.Vec3) physics.JointID {
	c := e.body(child)
	if c == nil {
		return physics.InvalidJoint
	}
	a := e.cpBody(parent)
	pivot := cp.Vector{X: anchor.Position.X(), Y: anchor.Position.Y()}

	j := &joint{
		parent: parent,
		child:  child,
		pivot:  cp.NewPivotJoint(a, c.body, pivot),
		spring: cp.NewDampedRotarySpring(a, c.body, 0, 0, 0),
		motor:  cp.NewSimpleMotor(a, c.body, 0),
	}
	e.joints = append(e.joints, j)
	e.syncConstraints(j)
	return physics.JointID(len(e.joints) - 1)
}

func (e *Engine) syncConstraints(j *joint) {
	want := e.bodies[j.child].simulate
	if want == j.inSpace {
		return
	}
	for _, c := range []*cp.Constraint{j.pivot, j.spring, j.motor} {
		if want {
			e.space.AddConstraint(c)
		} else {
			e.space.RemoveConstraint(c)
		}
	}
	j.inSpace = want
}

// SetDrive maps the position drive onto the rotary spring and the velocity
// drive onto the motor.
func (e *Engine) SetDrive(id physics.JointID, drive physics.DriveParams) {
	j := e.joint(id)
	if j == nil {
		return
	}
	j.drive = drive

	spring := j.spring.Class.(*cp.DampedRotarySpring)
	spring.Stiffness, spring.Damping = 0, 0
	if drive.PositionDrive {
		spring.Stiffness = drive.PositionGain
		spring.Damping = drive.VelocityGain
	}
	j.spring.SetMaxForce(drive.MaxForce)

	if drive.VelocityDrive {
		j.motor.SetMaxForce(drive.MaxForce)
	} else {
		j.motor.SetMaxForce(0)
	}
}

func (e *Engine) Drive(id physics.JointID) physics.DriveParams {
	if j := e.joint(id); j != nil {
		return j.drive
	}
	return physics.DriveParams{}
}

// SetMotorTarget sets the spring rest angle and the motor rate. Both
// constraints measure parent minus child, so the signs flip.
func (e *Engine) SetMotorTarget(id physics.JointID, target physics.JointState) {
	j := e.joint(id)
	if j == nil {
		return
	}
	j.target = target
	j.spring.Class.(*cp.DampedRotarySpring).RestAngle = -target.Position
	j.motor.Class.(*cp.SimpleMotor).Rate = -target.Velocity
}

func (e *Engine) MotorTarget(id physics.JointID) physics.JointState {
	if j := e.joint(id); j != nil {
		return j.target
	}
	return physics.JointState{}
}

func (e *Engine) SetJointPosition(id physics.JointID, position float64) {
	j := e.joint(id)
	if j == nil {
		return
	}
	child := e.bodies[j.child].body
	child.SetAngle(e.cpBody(j.parent).Angle() + position)
	child.SetAngularVelocity(0)
}

func (e *Engine) Encoder(id physics.JointID) float64 {
	j := e.joint(id)
	if j == nil {
		return 0
	}
	return e.bodies[j.child].body.Angle() - e.cpBody(j.parent).Angle()
}

func (e *Engine) Step(dt float64) {
	e.space.Step(dt)
	e.time += dt
}
