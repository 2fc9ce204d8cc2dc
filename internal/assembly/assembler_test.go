package assembly_test

import (
	"bytes"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/robosim/internal/assembly"
	"github.com/san-kum/robosim/internal/assets"
	"github.com/san-kum/robosim/internal/controllers"
	"github.com/san-kum/robosim/internal/description"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/robot"
)

const armYAML = `
name: arm
links:
  - name: base
    collisions:
      - name: base_col
        geometry: {box: [0.4, 0.4, 0.1]}
    visuals:
      - name: base_vis
        geometry: {mesh: base}
  - name: upper
    pose_relative_to: base
    pose: {xyz: [0, 0, 0.5]}
    self_collide: true
    inertial: {mass: 2}
    collisions:
      - name: upper_col
        geometry: {box: [0.1, 0.1, 0.5]}
  - name: tool
    pose_relative_to: upper
    pose: {xyz: [0, 0, 0.5]}
    collisions:
      - name: tool_col
        geometry: {box: [0.05, 0.05, 0.1]}
joints:
  - name: fixed
    parent: world
    child: base
  - name: shoulder
    parent: base
    child: upper
  - name: wrist
    parent: upper
    child: tool
    axis: [1, 0, 0]
`

var _ = Describe("Assembler", func() {
	var (
		eng     *physics.Memory
		reports *robot.Collector
		asm     *assembly.Assembler
	)

	BeforeEach(func() {
		eng = physics.NewMemory()
		reports = &robot.Collector{}
		lib := assets.NewLibrary()
		lib.Add("base", assets.Mesh{URI: "package://arm/base.dae", Extent: mgl64.Vec3{0.4, 0.4, 0.1}})
		asm = assembly.New(eng, lib, reports)
	})

	parse := func(src string) *description.Model {
		desc, err := description.Parse([]byte(src))
		Expect(err).NotTo(HaveOccurred())
		return desc
	}

	It("keeps component prefixes on a supplied logger", func() {
		var buf bytes.Buffer
		logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
		_, _, err := asm.WithLogger(logger).Assemble(parse(armYAML), assembly.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("assembly: model assembled"))
		Expect(buf.String()).To(ContainSubstring("links: link built"))
	})

	It("builds every link and joint", func() {
		model, sum, err := asm.Assemble(parse(armYAML), assembly.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(sum).To(Equal(assembly.Summary{Links: 3, Joints: 3}))
		Expect(model.JointNames()).To(ConsistOf("fixed", "shoulder", "wrist"))
		Expect(reports.Errors).To(BeEmpty())

		root, ok := model.Root()
		Expect(ok).To(BeTrue())
		Expect(root.Name).To(Equal("base"))
	})

	It("wires back-references and attachment", func() {
		model, _, err := asm.Assemble(parse(armYAML), assembly.Options{})
		Expect(err).NotTo(HaveOccurred())

		base, _ := model.Link("base")
		upper, _ := model.Link("upper")
		tool, _ := model.Link("tool")
		fixed, _ := model.Joint("fixed")
		shoulder, _ := model.Joint("shoulder")
		wrist, _ := model.Joint("wrist")

		Expect(base.ChildJoints).To(Equal([]robot.JointID{fixed.ID}))
		Expect(upper.ChildJoints).To(Equal([]robot.JointID{shoulder.ID}))
		Expect(tool.ChildJoints).To(Equal([]robot.JointID{wrist.ID}))
		for _, l := range model.Links() {
			for _, id := range l.ChildJoints {
				j, ok := model.JointAt(id)
				Expect(ok).To(BeTrue())
				Expect(j.Child).To(Equal(l.ID), "joint %s listed on link %s", j.Name, l.Name)
			}
		}
		Expect(base.Attached).To(BeTrue())
		Expect(upper.Attached).To(BeTrue())
		Expect(tool.Attached).To(BeTrue())
		Expect(wrist.Axis).To(Equal(mgl64.Vec3{1, 0, 0}))
		Expect(shoulder.Axis).To(Equal(mgl64.Vec3{0, 0, 1}))

		rec, ok := eng.Joint(wrist.Handle)
		Expect(ok).To(BeTrue())
		Expect(rec.Parent).To(Equal(upper.Body))
		Expect(rec.Child).To(Equal(tool.Body))

		fixed, _ = model.Joint("fixed")
		rec, _ = eng.Joint(fixed.Handle)
		Expect(rec.Parent).To(Equal(physics.InvalidBody))
	})

	It("composes poses through the relative frames and the origin", func() {
		origin := mgl64.Vec3{1, 0, 0}
		model, _, err := asm.Assemble(parse(armYAML), assembly.Options{Origin: origin})
		Expect(err).NotTo(HaveOccurred())

		tool, _ := model.Link("tool")
		pose := eng.BodyPose(tool.Body)
		Expect(pose.Position.ApproxEqualThreshold(mgl64.Vec3{1, 0, 1}, 1e-9)).To(BeTrue(), "%v", pose.Position)
		Expect(tool.Origin).To(Equal(origin))
	})

	It("skips links without collision geometry and joints that reference them", func() {
		src := armYAML + `
  - name: dangling
    parent: tool
    child: camera
`
		desc := parse(src)
		desc.Links = append(desc.Links, description.Link{Name: "camera", Gravity: true})

		model, sum, err := asm.Assemble(desc, assembly.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Links).To(Equal(3))
		Expect(sum.Skipped).To(Equal(2))
		_, ok := model.Link("camera")
		Expect(ok).To(BeFalse())
		Expect(reports.Count(robot.ErrNoCollisionGeometry)).To(Equal(1))
		Expect(reports.Count(robot.ErrLinkNotFound)).To(Equal(1))
	})

	It("aborts in strict mode", func() {
		desc := parse(armYAML)
		desc.Links = append(desc.Links, description.Link{Name: "camera"})

		model, _, err := asm.Assemble(desc, assembly.Options{Strict: true})
		Expect(err).To(MatchError(robot.ErrNoCollisionGeometry))
		Expect(model).To(BeNil())
	})

	It("counts unresolved collision meshes as faults", func() {
		src := `
name: m
links:
  - name: a
    collisions:
      - name: c
        geometry: {mesh: missing}
`
		_, sum, err := asm.Assemble(parse(src), assembly.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Faults).To(Equal(1))
		Expect(reports.Count(robot.ErrCollisionMeshUnresolved)).To(Equal(1))
	})

	It("falls back to the model frame on cycles", func() {
		src := `
name: m
links:
  - name: a
    pose_relative_to: b
    pose: {xyz: [1, 0, 0]}
    collisions: [{name: c, geometry: {box: [1, 1, 1]}}]
  - name: b
    pose_relative_to: a
    pose: {xyz: [0, 1, 0]}
    collisions: [{name: c, geometry: {box: [1, 1, 1]}}]
`
		model, _, err := asm.Assemble(parse(src), assembly.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(reports.Count(robot.ErrInvalidInput)).To(Equal(1))

		a, _ := model.Link("a")
		b, _ := model.Link("b")
		Expect(eng.BodyPose(b.Body).Position.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-9)).To(BeTrue())
		Expect(eng.BodyPose(a.Body).Position.ApproxEqualThreshold(mgl64.Vec3{1, 1, 0}, 1e-9)).To(BeTrue())
	})

	It("reports an unknown pose frame", func() {
		src := `
name: m
links:
  - name: a
    pose_relative_to: ghost
    collisions: [{name: c, geometry: {box: [1, 1, 1]}}]
`
		_, _, err := asm.Assemble(parse(src), assembly.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(reports.Count(robot.ErrLinkNotFound)).To(Equal(1))
	})

	It("rejects a nil description", func() {
		_, _, err := asm.Assemble(nil, assembly.Options{})
		Expect(err).To(MatchError(robot.ErrInvalidInput))
	})

	It("hands a ready model to the joint controller", func() {
		model, _, err := asm.Assemble(parse(armYAML), assembly.Options{})
		Expect(err).NotTo(HaveOccurred())

		c := controllers.NewJointController(eng, reports)
		c.Configure(controllers.NewJointParameters(controllers.JointParameters{
			Mode:             controllers.Dynamic,
			ControlAllJoints: true,
			Drive:            physics.DefaultDrive(),
		}))
		Expect(c.Initialize(model)).To(Succeed())
		Expect(c.JointNames()).To(Equal([]string{"fixed", "shoulder", "wrist"}))

		c.SetJointState("shoulder", physics.JointState{Position: 0.5})
		c.Tick(0.01)
		shoulder, _ := model.Joint("shoulder")
		rec, _ := eng.Joint(shoulder.Handle)
		Expect(rec.Target.Velocity).To(Equal(0.5))
		Expect(reports.Errors).To(BeEmpty())
	})
})
