package view

import (
	"fmt"
	"io"
	"time"

	"orgbackup/internal/color"
)

// TimeElapsedView is the closing line of a run: how long it took since startTime.
type TimeElapsedView struct {
	startTime time.Time
	out       io.Writer
	since     func(time.Time) time.Duration
}

func NewTimeElapsedView(startTime time.Time, out io.Writer, since func(time.Time) time.Duration) *TimeElapsedView {
	return &TimeElapsedView{startTime: startTime, out: out, since: since}
}

func (v *TimeElapsedView) Render(int) int {
	if _, err := fmt.Fprintf(v.out, "Finished in %s\n", color.FgGreen(RoundDuration(v.since(v.startTime)))); err != nil {
		return 0
	}
	return 1
}

// RoundDuration rounds to whole seconds from a minute up, to hundredths below.
func RoundDuration(d time.Duration) time.Duration {
	if d >= time.Minute {
		return d.Round(time.Second)
	}
	return d.Round(10 * time.Millisecond)
}
