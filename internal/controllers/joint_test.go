package controllers_test

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/robosim/internal/assets"
	"github.com/san-kum/robosim/internal/controllers"
	"github.com/san-kum/robosim/internal/description"
	"github.com/san-kum/robosim/internal/links"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/rmath"
	"github.com/san-kum/robosim/internal/robot"
)

type rig struct {
	engine  *physics.Memory
	reports *robot.Collector
	model   *robot.Model
	factory *links.Factory
}

func newRig() *rig {
	eng := physics.NewMemory()
	var c robot.Collector
	return &rig{
		engine:  eng,
		reports: &c,
		model:   robot.NewModel("arm"),
		factory: links.NewFactory(eng, assets.NewLibrary(), robot.Discard),
	}
}

func (r *rig) link(name string, visuals, collisions int, selfCollide bool) *robot.Link {
	size := mgl64.Vec3{0.1, 0.1, 0.1}
	d := &description.Link{Name: name, Gravity: true, SelfCollide: selfCollide}
	for i := 0; i < visuals; i++ {
		d.Visuals = append(d.Visuals, description.Visual{Name: fmt.Sprintf("v%d", i), Geometry: description.Geometry{Box: &size}})
	}
	for i := 0; i < collisions; i++ {
		d.Collisions = append(d.Collisions, description.Collision{Name: fmt.Sprintf("c%d", i), Geometry: description.Geometry{Box: &size}})
	}
	l, err := r.factory.CreateLink(r.model, d)
	Expect(err).NotTo(HaveOccurred())
	return l
}

func (r *rig) joint(name string, parent, child *robot.Link) *robot.Joint {
	parentID, parentBody := robot.NoLink, physics.InvalidBody
	if parent != nil {
		parentID, parentBody = parent.ID, parent.Body
	}
	j := robot.NewJoint(name, parentID, child.ID)
	j.Handle = r.engine.CreateJoint(name, parentBody, child.Body, rmath.Identity(), j.Axis)
	_, err := r.model.AddJoint(j)
	Expect(err).NotTo(HaveOccurred())
	child.Attached = true
	child.AddJoint(j.ID)
	return j
}

func (r *rig) controller(p controllers.JointParameters) *controllers.JointController {
	c := controllers.NewJointController(r.engine, r.reports)
	Expect(c.Configure(controllers.NewJointParameters(p))).To(BeTrue())
	return c
}

func dynamic() controllers.JointParameters {
	return controllers.JointParameters{Mode: controllers.Dynamic, Drive: physics.DefaultDrive()}
}

func kinematic() controllers.JointParameters {
	return controllers.JointParameters{Mode: controllers.Kinematic, Drive: physics.DefaultDrive()}
}

var _ = Describe("JointController", func() {
	var r *rig

	BeforeEach(func() {
		r = newRig()
	})

	Describe("defaults", func() {
		It("starts dynamic with the default drive", func() {
			c := controllers.NewJointController(r.engine, nil)
			Expect(c.Mode()).To(Equal(controllers.Dynamic))
			Expect(c.Drive()).To(Equal(physics.DefaultDrive()))
			Expect(c.JointNames()).To(BeEmpty())
		})
	})

	Describe("Configure", func() {
		It("keeps the previous configuration for other kinds", func() {
			c := r.controller(kinematic())
			applied := c.Configure(controllers.Parameters{
				Kind:  controllers.KindGripper,
				Joint: controllers.JointParameters{Mode: controllers.Dynamic},
			})
			Expect(applied).To(BeFalse())
			Expect(c.Mode()).To(Equal(controllers.Kinematic))
		})

		It("logs rejected kinds under the controllers prefix", func() {
			var buf bytes.Buffer
			c := r.controller(kinematic()).WithLogger(log.New(&buf))
			c.Configure(controllers.Parameters{Kind: controllers.KindGripper})
			Expect(buf.String()).To(ContainSubstring("controllers: ignoring controller parameters"))
		})

		It("replaces the drive wholesale", func() {
			c := r.controller(dynamic())
			drive := physics.DriveParams{PositionGain: 10, VelocityGain: 1, MaxForce: 5}
			c.Configure(controllers.NewJointParameters(controllers.JointParameters{Mode: controllers.Dynamic, Drive: drive}))
			Expect(c.Drive()).To(Equal(drive))
		})
	})

	Describe("Initialize", func() {
		It("reports a missing owner and skips later ticks", func() {
			c := r.controller(dynamic())
			err := c.Initialize(nil)
			Expect(err).To(MatchError(robot.ErrOwnerMissing))

			c.Tick(0.01)
			Expect(r.reports.Count(robot.ErrOwnerMissing)).To(Equal(2))
			Expect(r.engine.Calls("SetMotorTarget")).To(BeZero())
		})

		It("pushes drive and target to pre-registered joints", func() {
			base := r.link("base", 1, 1, true)
			arm := r.link("arm", 1, 1, true)
			j := r.joint("shoulder", base, arm)

			p := dynamic()
			p.Targets = map[string]physics.JointState{"shoulder": {Position: 0.3}}
			c := r.controller(p)
			Expect(c.Initialize(r.model)).To(Succeed())

			rec, ok := r.engine.Joint(j.Handle)
			Expect(ok).To(BeTrue())
			Expect(rec.Drive).To(Equal(physics.DefaultDrive()))
			Expect(rec.Target.Position).To(Equal(0.3))
			Expect(j.Commanded.Position).To(Equal(0.3))
		})

		It("registers every joint with controlAllJoints", func() {
			base := r.link("base", 1, 1, true)
			r.joint("a", base, r.link("l1", 1, 1, true))
			r.joint("b", base, r.link("l2", 1, 1, true))

			p := dynamic()
			p.ControlAllJoints = true
			c := r.controller(p)
			Expect(c.Initialize(r.model)).To(Succeed())
			Expect(c.JointNames()).To(Equal([]string{"a", "b"}))
		})
	})

	Describe("ApplyMode", func() {
		It("makes child bodies kinematic and clears drive flags", func() {
			base := r.link("base", 1, 1, true)
			arm := r.link("arm", 1, 1, true)
			r.joint("shoulder", base, arm)

			c := r.controller(kinematic())
			Expect(c.Initialize(r.model)).To(Succeed())

			body, _ := r.engine.Body(arm.Body)
			Expect(body.Simulate).To(BeFalse())
			Expect(c.Drive().PositionDrive).To(BeFalse())
			Expect(c.Drive().VelocityDrive).To(BeFalse())
		})

		It("disables gravity on every link in dynamic mode", func() {
			base := r.link("base", 1, 1, true)
			arm := r.link("arm", 1, 1, true)
			r.joint("shoulder", base, arm)

			c := r.controller(dynamic())
			Expect(c.Initialize(r.model)).To(Succeed())

			for _, l := range r.model.Links() {
				body, _ := r.engine.Body(l.Body)
				Expect(body.Gravity).To(BeFalse(), l.Name)
				Expect(body.Collision).To(BeTrue(), l.Name)
			}
			body, _ := r.engine.Body(arm.Body)
			Expect(body.Simulate).To(BeTrue())
			Expect(c.Drive().PositionDrive).To(BeTrue())
			Expect(c.Drive().VelocityDrive).To(BeTrue())
		})

		It("disables collision when asked", func() {
			base := r.link("base", 1, 1, true)
			r.joint("shoulder", base, r.link("arm", 1, 1, true))

			p := dynamic()
			p.DisableCollision = true
			c := r.controller(p)
			Expect(c.Initialize(r.model)).To(Succeed())

			for _, l := range r.model.Links() {
				body, _ := r.engine.Body(l.Body)
				Expect(body.Collision).To(BeFalse(), l.Name)
			}
		})
	})

	Describe("AddJoints", func() {
		It("is idempotent", func() {
			base := r.link("base", 1, 1, true)
			r.joint("a", base, r.link("l1", 1, 1, true))
			r.joint("b", base, r.link("l2", 1, 1, true))

			c := r.controller(dynamic())
			Expect(c.Initialize(r.model)).To(Succeed())

			c.AddJoints([]string{"a", "b"}, nil)
			once := c.JointNames()
			drives := r.engine.Calls("SetDrive")

			c.AddJoints([]string{"a", "b"}, nil)
			Expect(c.JointNames()).To(Equal(once))
			Expect(r.engine.Calls("SetDrive")).To(Equal(drives))
		})

		It("skips unknown names silently", func() {
			r.link("base", 1, 1, true)
			c := r.controller(dynamic())
			Expect(c.Initialize(r.model)).To(Succeed())

			c.AddJoints([]string{"ghost"}, nil)
			Expect(c.JointNames()).To(BeEmpty())
			Expect(r.reports.Errors).To(BeEmpty())
		})

		It("uses the supplied drive", func() {
			base := r.link("base", 1, 1, true)
			j := r.joint("a", base, r.link("l1", 1, 1, true))

			c := r.controller(dynamic())
			Expect(c.Initialize(r.model)).To(Succeed())

			drive := physics.DriveParams{PositionGain: 1, VelocityGain: 2, MaxForce: 3, PositionDrive: true}
			c.AddJoints([]string{"a"}, &drive)
			rec, _ := r.engine.Joint(j.Handle)
			Expect(rec.Drive).To(Equal(drive))
			Expect(j.Drive).To(Equal(drive))
		})
	})

	Describe("Tick", func() {
		It("never touches motor targets in kinematic mode", func() {
			base := r.link("base", 1, 1, true)
			j := r.joint("a", base, r.link("l1", 1, 1, true))

			c := r.controller(kinematic())
			Expect(c.Initialize(r.model)).To(Succeed())
			c.AddJoints([]string{"a"}, nil)
			Expect(c.SetJointState("a", physics.JointState{Position: 0.7})).To(BeTrue())

			r.engine.ResetCalls()
			for i := 0; i < 5; i++ {
				c.Tick(0.01)
			}
			Expect(r.engine.Calls("SetMotorTarget")).To(BeZero())
			Expect(r.engine.Calls("SetJointPosition")).To(Equal(5))
			Expect(r.engine.Encoder(j.Handle)).To(Equal(0.7))
		})

		It("commands the raw position error as velocity", func() {
			base := r.link("base", 1, 1, true)
			j := r.joint("a", base, r.link("l1", 1, 1, true))

			c := r.controller(dynamic())
			Expect(c.Initialize(r.model)).To(Succeed())
			c.AddJoints([]string{"a"}, nil)
			c.SetJointState("a", physics.JointState{Position: 2.0})
			r.engine.SetEncoder(j.Handle, 0.5)

			c.Tick(0.01)
			rec, _ := r.engine.Joint(j.Handle)
			Expect(rec.Target.Position).To(Equal(2.0))
			Expect(rec.Target.Velocity).To(Equal(1.5))
		})

		It("does not divide by dt", func() {
			base := r.link("base", 1, 1, true)
			j := r.joint("a", base, r.link("l1", 1, 1, true))

			c := r.controller(dynamic())
			Expect(c.Initialize(r.model)).To(Succeed())
			c.AddJoints([]string{"a"}, nil)
			c.SetJointState("a", physics.JointState{Position: 1.0})

			for _, dt := range []float64{0.001, 0.1, 1} {
				c.Tick(dt)
				rec, _ := r.engine.Joint(j.Handle)
				Expect(rec.Target.Velocity).To(Equal(1.0))
			}
		})

		It("reports a missing pre-registered joint exactly once", func() {
			base := r.link("base", 1, 1, true)
			r.joint("a", base, r.link("l1", 1, 1, true))

			p := dynamic()
			p.Targets = map[string]physics.JointState{"a": {}, "ghost": {Position: 1}}
			c := r.controller(p)
			Expect(c.Initialize(r.model)).To(Succeed())
			Expect(r.reports.Count(robot.ErrJointNotFound)).To(Equal(1))
			Expect(c.JointNames()).To(Equal([]string{"a"}))

			for i := 0; i < 3; i++ {
				c.Tick(0.01)
			}
			Expect(r.reports.Count(robot.ErrJointNotFound)).To(Equal(1))
			Expect(r.engine.Calls("SetMotorTarget")).To(Equal(1 + 3))
		})

		It("ignores state writes for unregistered joints", func() {
			c := r.controller(dynamic())
			Expect(c.SetJointState("nope", physics.JointState{Position: 1})).To(BeFalse())
			_, ok := c.JointState("nope")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("end to end", func() {
		It("tracks the commanded sequence against a zero encoder", func() {
			l := r.link("body", 1, 2, false)
			Expect(l.NumCollisions()).To(Equal(2))
			Expect(l.Visuals).To(HaveLen(1))
			j := r.joint("j1", nil, l)

			c := r.controller(dynamic())
			Expect(c.Initialize(r.model)).To(Succeed())
			c.AddJoints([]string{"j1"}, nil)

			var got []float64
			for _, pos := range []float64{0.0, 1.0, 1.0} {
				c.SetJointState("j1", physics.JointState{Position: pos})
				r.engine.SetEncoder(j.Handle, 0)
				c.Tick(0.01)
				rec, _ := r.engine.Joint(j.Handle)
				got = append(got, rec.Target.Velocity)
			}
			Expect(got).To(Equal([]float64{0.0, 1.0, 1.0}))
			Expect(r.reports.Errors).To(BeEmpty())
		})
	})
})
