package robot

import (
	"errors"
	"testing"
)

func TestModelArena(t *testing.T) {
	m := NewModel("arm")

	if _, ok := m.Root(); ok {
		t.Error("empty model should have no root")
	}

	base := NewLink("base", "")
	upper := NewLink("upper", "")
	baseID, err := m.AddLink(base)
	if err != nil {
		t.Fatalf("add base: %v", err)
	}
	upperID, err := m.AddLink(upper)
	if err != nil {
		t.Fatalf("add upper: %v", err)
	}

	if baseID != 0 || upperID != 1 {
		t.Errorf("expected ids 0, 1, got %d, %d", baseID, upperID)
	}
	if upper.Model != "arm" {
		t.Errorf("expected owner arm, got %q", upper.Model)
	}

	root, ok := m.Root()
	if !ok || root != base {
		t.Error("first link should be root")
	}

	if _, err := m.AddLink(NewLink("base", "")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for duplicate link, got %v", err)
	}

	j := NewJoint("shoulder", baseID, upperID)
	jid, err := m.AddJoint(j)
	if err != nil {
		t.Fatalf("add joint: %v", err)
	}

	got, ok := m.Joint("shoulder")
	if !ok || got.ID != jid {
		t.Error("joint lookup failed")
	}
	child, ok := m.ChildLink(got)
	if !ok || child != upper {
		t.Error("child link lookup failed")
	}

	if _, ok := m.Joint("elbow"); ok {
		t.Error("expected missing joint")
	}
	if _, ok := m.LinkAt(42); ok {
		t.Error("expected out-of-range link")
	}

	names := m.JointNames()
	if len(names) != 1 || names[0] != "shoulder" {
		t.Errorf("unexpected joint names %v", names)
	}
}

func TestLinkLookups(t *testing.T) {
	l := NewLink("gripper", "arm")

	if _, ok := l.Collision(); ok {
		t.Error("expected no collision on fresh link")
	}

	l.Collisions = []Part{{Name: "gripper_palm"}, {Name: "gripper_finger_left"}}
	l.Visuals = []Part{{Name: "gripper_visual"}}

	first, ok := l.Collision()
	if !ok || first.Name != "gripper_palm" {
		t.Errorf("expected first collision gripper_palm, got %+v", first)
	}
	if v, ok := l.Visual(); !ok || v.Name != "gripper_visual" {
		t.Errorf("unexpected visual %+v", v)
	}

	tests := []struct {
		name  string
		exact bool
		want  string
		found bool
	}{
		{"gripper_palm", true, "gripper_palm", true},
		{"finger", true, "", false},
		{"finger", false, "gripper_finger_left", true},
		{"thumb", false, "", false},
	}
	for _, tt := range tests {
		p, ok := l.CollisionByName(tt.name, tt.exact)
		if ok != tt.found {
			t.Errorf("CollisionByName(%q, %v) found=%v, want %v", tt.name, tt.exact, ok, tt.found)
			continue
		}
		if ok && p.Name != tt.want {
			t.Errorf("CollisionByName(%q, %v) = %s, want %s", tt.name, tt.exact, p.Name, tt.want)
		}
	}

	l.AddJoint(3)
	l.AddJoint(3)
	if len(l.ChildJoints) != 1 {
		t.Errorf("AddJoint should not duplicate, got %v", l.ChildJoints)
	}
}

func TestErrorContext(t *testing.T) {
	err := &Error{Kind: ErrJointNotFound, Model: "arm", Joint: "elbow"}

	if !errors.Is(err, ErrJointNotFound) {
		t.Error("errors.Is should match the kind")
	}
	want := "robot: joint not found model=arm joint=elbow"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if kv := err.KeyVals(); len(kv) != 4 {
		t.Errorf("expected 4 key/values, got %v", kv)
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	c.Report(&Error{Kind: ErrJointNotFound, Joint: "a"})
	c.Report(&Error{Kind: ErrOwnerMissing})
	c.Report(nil)

	if len(c.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(c.Errors))
	}
	if c.Count(ErrJointNotFound) != 1 {
		t.Errorf("expected 1 joint-not-found, got %d", c.Count(ErrJointNotFound))
	}

	var other Collector
	Tee{&c, nil, &other}.Report(&Error{Kind: ErrLinkNotFound})
	if other.Count(ErrLinkNotFound) != 1 || c.Count(ErrLinkNotFound) != 1 {
		t.Error("tee should report to every reporter")
	}
}
