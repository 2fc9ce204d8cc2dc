package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/san-kum/robosim/internal/sim"
)

const (
	barWidth    = 40
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer that redraws a joint bar chart at most
// frameRate times a second.
type LiveRenderer struct {
	out       io.Writer
	model     string
	frameRate int
	lastFrame time.Time
	// Range is the joint position mapped to a full bar.
	Range     float64
}

func NewLiveRenderer(out io.Writer, model string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		model:     model,
		frameRate: frameRate,
		Range:     math.Pi,
	}
}

func (r *LiveRenderer) OnStep(s sim.Sample) {
	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	fmt.Fprint(r.out, r.Frame(s))
}

// Frame renders one sample without the frame-rate limit.
func (r *LiveRenderer) Frame(s sim.Sample) string {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  step=%d  t=%.3fs\n", r.model, s.Step, s.Time))
	b.WriteString("  " + strings.Repeat("-", barWidth+30) + "\n")

	nameWidth := 0
	for _, j := range s.Joints {
		nameWidth = max(nameWidth, len(j.Name))
	}
	for _, j := range s.Joints {
		b.WriteString(fmt.Sprintf("  %-*s %s  cmd=%+.3f enc=%+.3f\n",
			nameWidth, j.Name, r.bar(j.Commanded.Position, j.Sensed), j.Commanded.Position, j.Sensed))
	}
	return b.String()
}

// bar draws the sensed position as '#' and the commanded one as '|' on a
// centred axis.
func (r *LiveRenderer) bar(commanded, sensed float64) string {
	cells := []rune(strings.Repeat(" ", barWidth))
	mid := barWidth / 2
	cells[mid] = '.'

	pos := func(v float64) int {
		x := mid + int(math.Round(v/r.Range*float64(mid)))
		return min(max(x, 0), barWidth-1)
	}
	s := pos(sensed)
	lo, hi := min(mid, s), max(mid, s)
	for i := lo; i <= hi; i++ {
		cells[i] = '#'
	}
	cells[pos(commanded)] = '|'
	return "[" + string(cells) + "]"
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
