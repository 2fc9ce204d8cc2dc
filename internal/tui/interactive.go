package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/sim"
	"github.com/san-kum/robosim/internal/viz"
)

const (
	historyLen = 60
	nudgeStep  = 0.05

	errTolerance = 0.01
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model steps a simulator from the bubbletea event loop. The selected
// joint's commanded position can be nudged while it runs.
type Model struct {
	sim    *sim.Simulator
	robot  *robot.Model
	engine physics.Engine
	joints []string

	cursor  int
	paused  bool
	speed   int
	last    sim.Sample
	history map[string][]float64
	err     error

	width, height int
}

func New(s *sim.Simulator, r *robot.Model, engine physics.Engine) Model {
	return Model{
		sim:     s,
		robot:   r,
		engine:  engine,
		joints:  s.Controller().JointNames(),
		speed:   1,
		history: make(map[string][]float64),
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			for i := 0; i < m.speed && !m.sim.Done(); i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	s, err := m.sim.Step()
	if err != nil {
		m.err = err
		m.paused = true
		return
	}
	m.last = s
	for _, j := range s.Joints {
		h := append(m.history[j.Name], j.Error())
		if len(h) > historyLen {
			h = h[len(h)-historyLen:]
		}
		m.history[j.Name] = h
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "n":
		m.step()
	case "+", "=":
		m.speed = min(m.speed*2, 64)
	case "-":
		m.speed = max(m.speed/2, 1)
	case "tab", "j":
		if len(m.joints) > 0 {
			m.cursor = (m.cursor + 1) % len(m.joints)
		}
	case "shift+tab", "k":
		if len(m.joints) > 0 {
			m.cursor = (m.cursor + len(m.joints) - 1) % len(m.joints)
		}
	case "up", "right":
		m.nudge(nudgeStep)
	case "down", "left":
		m.nudge(-nudgeStep)
	}
	return m, nil
}

// nudge shifts the selected joint's commanded position. The change only
// sticks for joints the run's trajectory does not drive.
func (m *Model) nudge(delta float64) {
	if len(m.joints) == 0 {
		return
	}
	c := m.sim.Controller()
	name := m.joints[m.cursor]
	state, ok := c.JointState(name)
	if !ok {
		return
	}
	state.Position += delta
	c.SetJointState(name, state)
}

func (m Model) View() string {
	var b strings.Builder

	status := viz.StatusRunning.Render("running")
	if m.paused {
		status = viz.StatusPaused.Render("paused")
	}
	if m.sim.Done() {
		status = dim.Render("done")
	}
	if m.err != nil {
		status = viz.StatusFault.Render(m.err.Error())
	}
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		viz.Title.Render(m.robot.Name), status,
		dim.Render(fmt.Sprintf("t=%.3fs  step=%d  x%d", m.sim.Time(), m.sim.StepIndex(), m.speed))))
	b.WriteString(viz.Separator(min(m.width, 80)) + "\n")

	canvas := viz.NewCanvas(36, 10)
	skel := viz.NewSkeleton(m.robot, m.engine)
	canvas.Fit(skel.Points)
	canvas.DrawSkeleton(skel)

	left := viz.Panel.Render(cyan.Render(canvas.String()))
	right := viz.Panel.Render(m.jointList())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n")

	b.WriteString(viz.ProgressBar(m.sim.Progress(), 40) + "\n")
	b.WriteString(viz.KeyHint.Render("space pause  n step  +/- speed  j/k select  arrows nudge  q quit"))
	return b.String()
}

func (m Model) jointList() string {
	if len(m.joints) == 0 {
		return dim.Render("no controlled joints")
	}
	var b strings.Builder
	for i, name := range m.joints {
		marker, style := "  ", white
		if i == m.cursor {
			marker, style = "> ", yellow
		}
		js, _ := m.last.Joint(name)
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n", marker, style.Render(fmt.Sprintf("%-12s", name)),
			dim.Render(fmt.Sprintf("cmd %+.3f  enc %+.3f", js.Commanded.Position, js.Sensed)),
			viz.ErrorLevel(fmt.Sprintf("err %+.3f", js.Error()), js.Error(), errTolerance)))
		b.WriteString("   " + green.Render(viz.Sparkline(m.history[name], 30)) + "\n")
	}
	return b.String()
}

// Run blocks until the user quits.
func Run(s *sim.Simulator, r *robot.Model, engine physics.Engine) error {
	p := tea.NewProgram(New(s, r, engine), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
