package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/controllers"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/rmath"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/sim"
)

func newTestModel(t *testing.T) (Model, *controllers.JointController) {
	t.Helper()
	eng := physics.NewMemory()
	r := robot.NewModel("arm")
	for _, name := range []string{"base", "tool"} {
		l := robot.NewLink(name, "arm")
		l.Body = eng.CreateBody(name, rmath.Identity())
		if _, err := r.AddLink(l); err != nil {
			t.Fatal(err)
		}
	}
	base, _ := r.Link("base")
	tool, _ := r.Link("tool")
	j := robot.NewJoint("wrist", base.ID, tool.ID)
	j.Handle = eng.CreateJoint("wrist", base.Body, tool.Body, rmath.Identity(), mgl64.Vec3{0, 0, 1})
	if _, err := r.AddJoint(j); err != nil {
		t.Fatal(err)
	}

	ctrl := controllers.NewJointController(eng, nil)
	params := controllers.NewJointParameters(controllers.JointParameters{
		Mode:             controllers.Kinematic,
		ControlAllJoints: true,
		Drive:            physics.DefaultDrive(),
	})
	ctrl.Configure(params)
	ctrl.Initialize(r)

	s := sim.New(ctrl, eng)
	if err := s.Start(sim.Config{Dt: 0.01, Duration: 1}, nil); err != nil {
		t.Fatal(err)
	}
	return New(s, r, eng), ctrl
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelPauseAndSpeed(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, " ")
	if !m.paused {
		t.Error("expected paused after space")
	}
	next, _ := m.Update(tickMsg{})
	m = next.(Model)
	if m.sim.StepIndex() != 0 {
		t.Errorf("expected no steps while paused, got %d", m.sim.StepIndex())
	}

	m = press(m, "+")
	m = press(m, "+")
	if m.speed != 4 {
		t.Errorf("expected speed 4, got %d", m.speed)
	}
	m = press(m, "-")
	if m.speed != 2 {
		t.Errorf("expected speed 2, got %d", m.speed)
	}

	m = press(m, " ")
	next, _ = m.Update(tickMsg{})
	m = next.(Model)
	if m.sim.StepIndex() != 2 {
		t.Errorf("expected 2 steps, got %d", m.sim.StepIndex())
	}
}

func TestModelNudge(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = press(m, "up")
	state, ok := ctrl.JointState("wrist")
	if !ok {
		t.Fatal("wrist not registered")
	}
	if state.Position != nudgeStep {
		t.Errorf("expected %f, got %f", nudgeStep, state.Position)
	}

	m = press(m, "n")
	js, _ := m.last.Joint("wrist")
	if js.Sensed != nudgeStep {
		t.Errorf("expected sensed %f, got %f", nudgeStep, js.Sensed)
	}
	if len(m.history["wrist"]) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(m.history["wrist"]))
	}
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{"arm", "wrist", "running"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
