package interactive

import (
	"io"
	"time"

	"github.com/tmc/spinner"
)

// Spin starts a wait indicator on out and returns the function that stops
// it.
func Spin(pos int, out io.Writer) func() {
	s := spinner.New(
		spinner.WithFrames(spinner.Dots8),
		spinner.WithWriter(out),
		spinner.WithIntervalFunc(
			spinner.SpeedupInterval(90*time.Millisecond, 40*time.Millisecond, time.Second*5),
		),
		spinner.WithColorFunc(spinner.GreyPulse(15*time.Millisecond)),
		spinner.WithPosition(pos),
	)
	s.Start()
	return s.Stop
}
