package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/assets"
	"github.com/san-kum/robosim/internal/rmath"
)

var _ Engine = (*Memory)(nil)

func TestMemoryParts(t *testing.T) {
	m := NewMemory()
	body := m.CreateBody("base", rmath.Identity())
	part := m.CreatePart(body, "base_collision", CollisionPart)

	m.WeldPart(part)
	m.AddLocalTransform(part, rmath.Translation(mgl64.Vec3{1, 0, 0}))
	m.AddLocalTransform(part, rmath.Translation(mgl64.Vec3{0, 2, 0}))
	m.BindMesh(part, assets.Box(mgl64.Vec3{1, 1, 1}))
	m.SetPartProfile(part, ProfileNoSelfCollision)

	p, ok := m.Part(part)
	if !ok {
		t.Fatal("part not found")
	}
	if !p.Welded {
		t.Error("expected welded part")
	}
	if want := (mgl64.Vec3{1, 2, 0}); !p.Local.Position.ApproxEqual(want) {
		t.Errorf("local transforms should accumulate, got %v", p.Local.Position)
	}
	if p.Mesh == nil || p.Mesh.URI != "primitive://box" {
		t.Errorf("expected box mesh, got %+v", p.Mesh)
	}
	if p.Profile != ProfileNoSelfCollision {
		t.Errorf("expected no-self-collision profile, got %s", p.Profile)
	}

	b, _ := m.Body(body)
	if len(b.Parts) != 1 || b.Parts[0] != part {
		t.Errorf("expected body to own part, got %v", b.Parts)
	}
}

func TestMemoryInvalidIDs(t *testing.T) {
	m := NewMemory()
	if id := m.CreatePart(InvalidBody, "x", VisualPart); id != InvalidPart {
		t.Errorf("expected invalid part, got %d", id)
	}
	if id := m.CreateJoint("j", InvalidBody, 7, rmath.Identity(), mgl64.Vec3{0, 0, 1}); id != InvalidJoint {
		t.Errorf("expected invalid joint, got %d", id)
	}
	m.SetMotorTarget(InvalidJoint, JointState{Position: 1})
	if got := m.Encoder(InvalidJoint); got != 0 {
		t.Errorf("expected zero encoder, got %f", got)
	}
}

func TestMemoryStep(t *testing.T) {
	m := NewMemory()
	parent := m.CreateBody("base", rmath.Identity())
	child := m.CreateBody("arm", rmath.Identity())
	j := m.CreateJoint("shoulder", parent, child, rmath.Identity(), mgl64.Vec3{0, 0, 1})

	m.SetDrive(j, DefaultDrive())
	m.SetMotorTarget(j, JointState{Position: 1, Velocity: 2})

	m.Step(0.1)
	if got := m.Encoder(j); got != 0 {
		t.Errorf("joint of a non-simulated body should not move, got %f", got)
	}

	m.SetSimulatePhysics(child, true)
	m.Step(0.1)
	if got := m.Encoder(j); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("expected encoder 0.2, got %f", got)
	}

	if m.Calls("Step") != 2 {
		t.Errorf("expected 2 steps, got %d", m.Calls("Step"))
	}
}
