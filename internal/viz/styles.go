package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared styles, rebuilt from CurrentTheme by SetTheme.
var (
	Panel         lipgloss.Style
	Title         lipgloss.Style
	Subtle        lipgloss.Style
	StatusRunning lipgloss.Style
	StatusPaused  lipgloss.Style
	StatusFault   lipgloss.Style
	KeyHint       lipgloss.Style

	levelGood, levelWarn, levelBad lipgloss.Style
)

func init() { applyTheme(CurrentTheme) }

func applyTheme(t Theme) {
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Muted).
		Padding(0, 1)
	Title = lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	StatusPaused = lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
	StatusFault = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	KeyHint = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)

	levelGood = lipgloss.NewStyle().Foreground(t.Success)
	levelWarn = lipgloss.NewStyle().Foreground(t.Warning)
	levelBad = lipgloss.NewStyle().Foreground(t.Error)
}

// ProgressBar renders fraction (0..1) of a run as a bar of width cells.
func ProgressBar(fraction float64, width int) string {
	done := min(max(int(fraction*float64(width)), 0), width)
	bar := strings.Repeat("█", done) + strings.Repeat("░", width-done)
	if fraction >= 1 {
		return levelGood.Render(bar)
	}
	return Subtle.Render(bar)
}

var ticks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders the last width values scaled between their min and
// max.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	out := make([]rune, len(values))
	top := len(ticks) - 1
	for i, v := range values {
		out[i] = ticks[min(max(int((v-lo)/span*float64(top)), 0), top)]
	}
	return string(out)
}

// ErrorLevel colours s by how far |err| is from tol: within, within ten
// times, or beyond.
func ErrorLevel(s string, err, tol float64) string {
	if err < 0 {
		err = -err
	}
	switch {
	case err <= tol:
		return levelGood.Render(s)
	case err <= 10*tol:
		return levelWarn.Render(s)
	default:
		return levelBad.Render(s)
	}
}

func Separator(width int) string {
	return Subtle.Render(strings.Repeat("─", max(width, 0)))
}
