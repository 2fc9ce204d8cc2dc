package robot

import (
	"errors"

	"github.com/charmbracelet/log"
)

// Reporter receives recoverable failures.
type Reporter interface {
	Report(err error)
}

// LogReporter logs each failure at error level with its context as keys.
type LogReporter struct {
	Logger *log.Logger
}

func NewLogReporter(logger *log.Logger) *LogReporter {
	return &LogReporter{Logger: logger}
}

func (r *LogReporter) Report(err error) {
	if err == nil || r.Logger == nil {
		return
	}
	var re *Error
	if errors.As(err, &re) {
		r.Logger.Error(re.Kind.Error(), re.KeyVals()...)
		return
	}
	r.Logger.Error(err.Error())
}

// Collector keeps every reported error.
type Collector struct {
	Errors []error
}

func (c *Collector) Report(err error) {
	if err != nil {
		c.Errors = append(c.Errors, err)
	}
}

// Count returns how many collected errors match kind.
func (c *Collector) Count(kind error) int {
	n := 0
	for _, err := range c.Errors {
		if errors.Is(err, kind) {
			n++
		}
	}
	return n
}

func (c *Collector) Reset() { c.Errors = nil }

// Tee reports to every non-nil reporter.
type Tee []Reporter

func (t Tee) Report(err error) {
	for _, r := range t {
		if r != nil {
			r.Report(err)
		}
	}
}

// Discard drops every report.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(error) {}
