package links

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/assets"
	"github.com/san-kum/robosim/internal/description"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/rmath"
	"github.com/san-kum/robosim/internal/robot"
)

// ResidualMass is assigned to every sub-part of a link with an inertial
// block so the parts do not skew the body's mass distribution.
const ResidualMass = 0.001

// Builder constructs a single link. It is not reused.
type Builder struct {
	engine   physics.Engine
	resolver assets.Resolver
	reporter robot.Reporter
	log      *log.Logger

	model  *robot.Model
	desc   *description.Link
	origin mgl64.Vec3
	link   *robot.Link
}

// Build runs the construction steps in order. Geometry has to exist
// before the profile, mass and gravity steps walk the parts.
func (b *Builder) Build() (*robot.Link, error) {
	if err := b.newLink(); err != nil {
		return nil, err
	}
	b.setPose()
	b.setVisuals()
	b.setCollisions()
	b.setCollisionProfile()
	b.setInertial()
	b.setGravity()
	b.engine.SetSimulatePhysics(b.link.Body, true)

	b.log.Debug("link built",
		"model", b.model.Name,
		"link", b.link.Name,
		"visuals", len(b.link.Visuals),
		"collisions", len(b.link.Collisions),
		"faults", len(b.link.Faults))
	return b.link, nil
}

func (b *Builder) newLink() error {
	l := robot.NewLink(b.desc.Name, b.model.Name)
	l.SelfCollide = b.desc.SelfCollide
	l.Gravity = b.desc.Gravity
	l.Origin = b.origin
	if _, err := b.model.AddLink(l); err != nil {
		b.reporter.Report(err)
		return err
	}
	l.Body = b.engine.CreateBody(l.Name, rmath.Translation(b.origin))
	b.link = l
	return nil
}

// setPose stores the pose only. Composing it with the ancestors' poses is
// up to the model assembly.
func (b *Builder) setPose() {
	b.link.PoseRelativeTo = b.desc.PoseRelativeTo
	b.link.Pose = b.desc.Pose.Transform()
}

func (b *Builder) setVisuals() {
	for i := range b.desc.Visuals {
		b.setVisual(&b.desc.Visuals[i])
	}
}

func (b *Builder) setVisual(v *description.Visual) {
	id := b.engine.CreatePart(b.link.Body, v.Name, physics.VisualPart)
	local := v.Pose.Transform()
	b.engine.AddLocalTransform(id, local)

	part := robot.Part{
		Name:      v.Name,
		Kind:      physics.VisualPart,
		Handle:    id,
		LocalPose: local,
		Mesh:      meshRef(v.Geometry),
	}
	if mesh, ok := b.resolve(v.Geometry); ok {
		b.engine.BindMesh(id, mesh)
		part.Resolved = true
	} else {
		b.engine.SetVisible(id, false)
		b.log.Debug("visual mesh unresolved", "link", b.link.Name, "part", v.Name, "mesh", part.Mesh)
	}
	b.link.Visuals = append(b.link.Visuals, part)
}

func (b *Builder) setCollisions() {
	for i := range b.desc.Collisions {
		b.setCollision(&b.desc.Collisions[i])
	}
}

func (b *Builder) setCollision(c *description.Collision) {
	id := b.engine.CreatePart(b.link.Body, c.Name, physics.CollisionPart)
	b.engine.SetSolverIterations(id, physics.PositionIterations, physics.VelocityIterations)
	b.engine.WeldPart(id)
	local := c.Pose.Transform()
	b.engine.AddLocalTransform(id, local)

	part := robot.Part{
		Name:      c.Name,
		Kind:      physics.CollisionPart,
		Handle:    id,
		LocalPose: local,
		Mesh:      meshRef(c.Geometry),
	}
	if mesh, ok := b.resolve(c.Geometry); ok {
		b.engine.BindMesh(id, mesh)
		part.Resolved = true
	} else {
		err := &robot.Error{
			Kind:  robot.ErrCollisionMeshUnresolved,
			Model: b.model.Name,
			Link:  b.link.Name,
			Part:  c.Name,
		}
		b.link.Faults = append(b.link.Faults, err)
		b.reporter.Report(err)
	}
	b.engine.SetVisible(id, false)
	b.link.Collisions = append(b.link.Collisions, part)
}

func (b *Builder) setCollisionProfile() {
	for i := range b.link.Visuals {
		v := &b.link.Visuals[i]
		b.engine.SetPartChannel(v.Handle, physics.ChannelRobot)
		b.engine.SetPartProfile(v.Handle, VisualProfile)
		v.Profile = VisualProfile
	}

	profile := CollisionProfile(len(b.link.Visuals) > 0, b.desc.SelfCollide)
	for i := range b.link.Collisions {
		c := &b.link.Collisions[i]
		b.engine.SetPartChannel(c.Handle, physics.ChannelRobot)
		b.engine.SetPartCollision(c.Handle, physics.QueryAndPhysics)
		b.engine.SetPartProfile(c.Handle, profile)
		c.Profile = profile
	}
}

// setInertial leaves mass to the engine when the description has no
// inertial block.
func (b *Builder) setInertial() {
	if b.desc.Inertial == nil {
		return
	}
	b.eachPart(func(p *robot.Part) {
		b.engine.SetPartMass(p.Handle, ResidualMass)
	})
	b.engine.SetBodyMass(b.link.Body, b.desc.Inertial.Mass)
	b.link.Mass = b.desc.Inertial.Mass
}

// setGravity keeps gravity off the welded parts so it acts once, on the
// consolidated body.
func (b *Builder) setGravity() {
	b.eachPart(func(p *robot.Part) {
		b.engine.SetPartGravity(p.Handle, false)
	})
	b.engine.SetBodyGravity(b.link.Body, b.desc.Gravity)
}

func (b *Builder) eachPart(fn func(*robot.Part)) {
	for i := range b.link.Visuals {
		fn(&b.link.Visuals[i])
	}
	for i := range b.link.Collisions {
		fn(&b.link.Collisions[i])
	}
}

func (b *Builder) resolve(g description.Geometry) (assets.Mesh, bool) {
	if g.Box != nil {
		return assets.Box(*g.Box), true
	}
	if b.resolver == nil {
		return assets.Mesh{}, false
	}
	return b.resolver.Resolve(g.Mesh)
}

func meshRef(g description.Geometry) string {
	if g.Box != nil {
		return assets.Box(*g.Box).Name
	}
	return g.Mesh
}
