package spheretrace

import (
	"time"
)

type Time struct {
	Start time.Time
	Time  time.Time
	Dt    time.Duration
	Frame uint64

	now func() time.Time
}

// Elapsed is the time since the app started, in seconds.
func (t *Time) Elapsed() float32 {
	return float32(t.Time.Sub(t.Start).Seconds())
}

// TimeModule provides the Time resource. Now overrides the clock.
type TimeModule struct {
	Now func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := mod.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	cmd.AddResources(&Time{
		Start: start,
		Time:  start,
		now:   now,
	})
	cmd.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(timeResource *Time) {
	now := timeResource.now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Frame++
}
