// Package assembly builds a whole robot model from its description: one
// link per description entry through the link factory, then the joints
// between them, then the world pose of every body.
package assembly

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/assets"
	"github.com/san-kum/robosim/internal/description"
	"github.com/san-kum/robosim/internal/links"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/rmath"
	"github.com/san-kum/robosim/internal/robot"
)

// WorldFrame can be named as a joint parent to fix the child to the world.
const WorldFrame = "world"

type Options struct {
	Origin mgl64.Vec3
	// Strict aborts on the first link that fails to build.
	Strict bool
}

type Summary struct {
	Links   int
	Joints  int
	Skipped int
	Faults  int
}

type Assembler struct {
	Factory  *links.Factory
	Engine   physics.Engine
	Reporter robot.Reporter
	log      *log.Logger
}

func New(engine physics.Engine, resolver assets.Resolver, reporter robot.Reporter) *Assembler {
	if reporter == nil {
		reporter = robot.Discard
	}
	return &Assembler{
		Factory:  links.NewFactory(engine, resolver, reporter),
		Engine:   engine,
		Reporter: reporter,
		log:      log.WithPrefix("assembly"),
	}
}

func (a *Assembler) WithLogger(l *log.Logger) *Assembler {
	a.log = l.WithPrefix("assembly")
	a.Factory.WithLogger(l)
	return a
}

func (a *Assembler) Assemble(desc *description.Model, opts Options) (*robot.Model, Summary, error) {
	var sum Summary
	if desc == nil {
		err := &robot.Error{Kind: robot.ErrInvalidInput}
		a.Reporter.Report(err)
		return nil, sum, err
	}

	model := robot.NewModel(desc.Name)
	for i := range desc.Links {
		l, err := a.Factory.CreateLink(model, &desc.Links[i], links.WithOrigin(opts.Origin))
		if err != nil {
			if opts.Strict {
				return nil, sum, fmt.Errorf("link %s: %w", desc.Links[i].Name, err)
			}
			sum.Skipped++
			continue
		}
		sum.Faults += len(l.Faults)
	}

	for i := range desc.Joints {
		if a.addJoint(model, &desc.Joints[i]) {
			sum.Joints++
		} else {
			sum.Skipped++
		}
	}

	a.placeLinks(model, opts.Origin)
	a.anchorJoints(model)

	sum.Links = model.NumLinks()
	a.log.Info("model assembled",
		"model", model.Name,
		"links", sum.Links,
		"joints", sum.Joints,
		"skipped", sum.Skipped,
		"faults", sum.Faults)
	return model, sum, nil
}

func (a *Assembler) addJoint(model *robot.Model, d *description.Joint) bool {
	child, ok := model.Link(d.Child)
	if !ok {
		a.Reporter.Report(&robot.Error{Kind: robot.ErrLinkNotFound, Model: model.Name, Joint: d.Name, Link: d.Child})
		return false
	}

	parentID := robot.NoLink
	if d.Parent != WorldFrame && d.Parent != "" {
		p, ok := model.Link(d.Parent)
		if !ok {
			a.Reporter.Report(&robot.Error{Kind: robot.ErrLinkNotFound, Model: model.Name, Joint: d.Name, Link: d.Parent})
			return false
		}
		parentID = p.ID
	}

	j := robot.NewJoint(d.Name, parentID, child.ID)
	if d.Type != "" {
		j.Type = d.Type
	}
	if d.Axis != (mgl64.Vec3{}) {
		j.Axis = d.Axis
	}
	j.Pose = d.Pose.Transform()
	if _, err := model.AddJoint(j); err != nil {
		a.Reporter.Report(err)
		return false
	}

	child.AddJoint(j.ID)
	child.Attached = true
	return true
}

// placeLinks resolves every link's pose against its PoseRelativeTo frame
// and moves its body there.
func (a *Assembler) placeLinks(model *robot.Model, origin mgl64.Vec3) {
	r := &resolver{
		model:    model,
		reporter: a.Reporter,
		world:    make(map[robot.LinkID]rmath.Pose),
		visiting: make(map[robot.LinkID]bool),
	}
	base := rmath.Translation(origin)
	for _, l := range model.Links() {
		a.Engine.SetBodyPose(l.Body, base.Compose(r.resolve(l)))
	}
}

// anchorJoints creates the engine joints once bodies are in place. The
// joint frame is given relative to the child link.
func (a *Assembler) anchorJoints(model *robot.Model) {
	for _, j := range model.Joints() {
		child, _ := model.LinkAt(j.Child)
		parentBody := physics.InvalidBody
		if parent, ok := model.LinkAt(j.Parent); ok {
			parentBody = parent.Body
		}
		anchor := a.Engine.BodyPose(child.Body).Compose(j.Pose)
		j.Handle = a.Engine.CreateJoint(j.Name, parentBody, child.Body, anchor, j.Axis)
		if j.Handle == physics.InvalidJoint {
			a.Reporter.Report(&robot.Error{Kind: robot.ErrInvalidInput, Model: model.Name, Joint: j.Name})
		}
	}
}

type resolver struct {
	model    *robot.Model
	reporter robot.Reporter
	world    map[robot.LinkID]rmath.Pose
	visiting map[robot.LinkID]bool
}

// resolve returns the link's pose in the model frame. Unknown frames and
// cycles fall back to the model frame.
func (r *resolver) resolve(l *robot.Link) rmath.Pose {
	if p, ok := r.world[l.ID]; ok {
		return p
	}

	frame := rmath.Identity()
	switch ref := l.PoseRelativeTo; ref {
	case "", description.ModelFrame:
	default:
		parent, ok := r.model.Link(ref)
		switch {
		case !ok:
			r.reporter.Report(&robot.Error{Kind: robot.ErrLinkNotFound, Model: r.model.Name, Link: ref})
		case r.visiting[parent.ID] || parent.ID == l.ID:
			r.reporter.Report(fmt.Errorf("pose frame cycle at %s: %w",
				ref, &robot.Error{Kind: robot.ErrInvalidInput, Model: r.model.Name, Link: l.Name}))
		default:
			r.visiting[l.ID] = true
			frame = r.resolve(parent)
			delete(r.visiting, l.ID)
		}
	}

	p := frame.Compose(l.Pose)
	r.world[l.ID] = p
	return p
}
