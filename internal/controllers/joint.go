package controllers

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/robot"
)

// JointController keeps a commanded state per registered joint and pushes
// it to the engine every tick, either as a direct position (Kinematic) or
// as a motor target (Dynamic).
//
// The mode is applied once by Initialize. Changing it afterwards takes
// another Initialize.
type JointController struct {
	mode             Mode
	controlAllJoints bool
	disableCollision bool
	drive            physics.DriveParams
	desired          map[string]physics.JointState

	owner    *robot.Model
	engine   physics.Engine
	reporter robot.Reporter
	log      *log.Logger
}

func NewJointController(engine physics.Engine, reporter robot.Reporter) *JointController {
	if reporter == nil {
		reporter = robot.Discard
	}
	return &JointController{
		mode:     Dynamic,
		drive:    physics.DefaultDrive(),
		desired:  make(map[string]physics.JointState),
		engine:   engine,
		reporter: reporter,
		log:      log.WithPrefix("controllers"),
	}
}

func (c *JointController) WithLogger(l *log.Logger) *JointController {
	c.log = l.WithPrefix("controllers")
	return c
}

// Configure replaces mode, flags, drive and targets wholesale. Parameters
// of another kind are ignored and the previous configuration stays.
func (c *JointController) Configure(p Parameters) bool {
	if p.Kind != KindJoint {
		c.log.Warn("ignoring controller parameters", "kind", p.Kind)
		return false
	}
	jp := p.Joint
	c.mode = jp.Mode
	c.controlAllJoints = jp.ControlAllJoints
	c.disableCollision = jp.DisableCollision
	c.drive = jp.Drive
	for name, state := range jp.Targets {
		c.desired[name] = state
	}
	return true
}

func (c *JointController) Mode() Mode                 { return c.mode }
func (c *JointController) Drive() physics.DriveParams { return c.drive }
func (c *JointController) Owner() *robot.Model        { return c.owner }

// Initialize binds the controller to owner, applies the mode and pushes
// the drive and initial target to every pre-registered joint. Names that
// do not resolve are reported once and dropped.
func (c *JointController) Initialize(owner *robot.Model) error {
	if owner == nil {
		err := &robot.Error{Kind: robot.ErrOwnerMissing}
		c.reporter.Report(err)
		return err
	}
	c.owner = owner
	c.ApplyMode()
	c.log.Debug("initialized", "model", owner.Name, "mode", c.mode, "joints", len(c.desired))

	for _, name := range c.JointNames() {
		j, ok := owner.Joint(name)
		if !ok {
			c.reporter.Report(&robot.Error{Kind: robot.ErrJointNotFound, Model: owner.Name, Joint: name})
			delete(c.desired, name)
			continue
		}
		c.setDrive(j, c.drive)
		c.setMotorTarget(j, c.desired[name])
	}

	if c.controlAllJoints {
		c.AddJoints(owner.JointNames(), nil)
	}
	return nil
}

// ApplyMode configures the drives and the bodies for the current mode.
func (c *JointController) ApplyMode() {
	if c.owner == nil {
		c.reporter.Report(&robot.Error{Kind: robot.ErrOwnerMissing})
		return
	}

	simulate := true
	switch c.mode {
	case Kinematic:
		c.drive.PositionDrive = false
		c.drive.VelocityDrive = false
		simulate = false
	case Dynamic:
		c.drive.PositionDrive = true
		c.drive.VelocityDrive = true
		for _, l := range c.owner.Links() {
			if c.disableCollision {
				c.engine.SetBodyCollision(l.Body, false)
			}
			c.engine.SetBodyGravity(l.Body, false)
		}
	}

	for _, j := range c.owner.Joints() {
		if child, ok := c.owner.ChildLink(j); ok {
			c.engine.SetSimulatePhysics(child.Body, simulate)
		}
	}
}

// AddJoints registers every named joint of the owner that is not already
// registered, with a zero state and drive (or the controller's default
// drive when drive is nil). Unknown names are skipped.
func (c *JointController) AddJoints(names []string, drive *physics.DriveParams) {
	if c.owner == nil {
		c.reporter.Report(&robot.Error{Kind: robot.ErrOwnerMissing})
		return
	}
	d := c.drive
	if drive != nil {
		d = *drive
	}
	for _, name := range names {
		if _, ok := c.desired[name]; ok {
			continue
		}
		j, ok := c.owner.Joint(name)
		if !ok {
			continue
		}
		c.desired[name] = physics.JointState{}
		c.setDrive(j, d)
	}
}

// SetJointState sets the commanded state of a registered joint.
func (c *JointController) SetJointState(name string, state physics.JointState) bool {
	if _, ok := c.desired[name]; !ok {
		return false
	}
	c.desired[name] = state
	return true
}

func (c *JointController) JointState(name string) (physics.JointState, bool) {
	s, ok := c.desired[name]
	return s, ok
}

// JointNames returns the registered joint names, sorted.
func (c *JointController) JointNames() []string {
	names := make([]string, 0, len(c.desired))
	for name := range c.desired {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *JointController) Tick(dt float64) {
	if c.owner == nil {
		c.reporter.Report(&robot.Error{Kind: robot.ErrOwnerMissing})
		return
	}
	c.MoveJoints(dt)
}

func (c *JointController) MoveJoints(dt float64) {
	switch c.mode {
	case Kinematic:
		c.moveKinematic()
	case Dynamic:
		c.moveDynamic(dt)
	}
}

func (c *JointController) moveKinematic() {
	for _, name := range c.JointNames() {
		j, ok := c.owner.Joint(name)
		if !ok {
			c.reporter.Report(&robot.Error{Kind: robot.ErrJointNotFound, Model: c.owner.Name, Joint: name})
			continue
		}
		state := c.desired[name]
		c.engine.SetJointPosition(j.Handle, state.Position)
		j.Commanded = state
	}
}

func (c *JointController) moveDynamic(dt float64) {
	for _, name := range c.JointNames() {
		j, ok := c.owner.Joint(name)
		if !ok {
			c.reporter.Report(&robot.Error{Kind: robot.ErrJointNotFound, Model: c.owner.Name, Joint: name})
			continue
		}
		state := c.desired[name]
		state.Velocity = c.jointVelocity(dt, j, state.Position)
		c.setMotorTarget(j, state)
	}
}

// jointVelocity is the raw position error, not divided by dt.
func (c *JointController) jointVelocity(dt float64, j *robot.Joint, desired float64) float64 {
	return desired - c.engine.Encoder(j.Handle)
}

func (c *JointController) setDrive(j *robot.Joint, d physics.DriveParams) {
	c.engine.SetDrive(j.Handle, d)
	j.Drive = d
}

func (c *JointController) setMotorTarget(j *robot.Joint, s physics.JointState) {
	c.engine.SetMotorTarget(j.Handle, s)
	j.Commanded = s
}
