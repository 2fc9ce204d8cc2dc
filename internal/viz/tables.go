package viz

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/storage"
)

func newTable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Secondary).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(CurrentTheme.Text).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(CurrentTheme.Muted)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

func LinkTable(model *robot.Model) string {
	t := newTable("link", "visuals", "collisions", "mass", "self collide", "gravity", "attached", "faults")
	for _, l := range model.Links() {
		t.Row(
			l.Name,
			strconv.Itoa(len(l.Visuals)),
			strconv.Itoa(len(l.Collisions)),
			fmt.Sprintf("%.3f", l.Mass),
			yesNo(l.SelfCollide),
			yesNo(l.Gravity),
			yesNo(l.Attached),
			strconv.Itoa(len(l.Faults)),
		)
	}
	return t.String()
}

// JointTable shows each joint with its commanded target and the engine's
// encoder reading.
func JointTable(model *robot.Model, engine physics.Engine) string {
	t := newTable("joint", "type", "parent", "child", "commanded", "velocity", "sensed")
	for _, j := range model.Joints() {
		parent := "world"
		if p, ok := model.LinkAt(j.Parent); ok {
			parent = p.Name
		}
		child := "?"
		if c, ok := model.LinkAt(j.Child); ok {
			child = c.Name
		}
		t.Row(
			j.Name,
			j.Type,
			parent,
			child,
			fmt.Sprintf("%.4f", j.Commanded.Position),
			fmt.Sprintf("%.4f", j.Commanded.Velocity),
			fmt.Sprintf("%.4f", engine.Encoder(j.Handle)),
		)
	}
	return t.String()
}

func RunTable(runs []storage.RunMetadata) string {
	t := newTable("id", "model", "engine", "mode", "steps", "tracking error", "time")
	for _, r := range runs {
		t.Row(
			r.ID,
			r.Model,
			r.Engine,
			r.Mode,
			strconv.Itoa(r.Steps),
			fmt.Sprintf("%.4f", r.Metrics["tracking_error"]),
			r.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}
	return t.String()
}

func MetricsTable(metrics map[string]float64) string {
	t := newTable("metric", "value")
	for _, name := range sortedKeys(metrics) {
		t.Row(name, fmt.Sprintf("%.6f", metrics[name]))
	}
	return t.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
