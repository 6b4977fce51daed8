package bench

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNoSweep = errors.New("no sweep axis selected")

// Result is one finished measurement.
type Result struct {
	Config    Config
	Frames    int
	Elapsed   time.Duration
	FrameRate float64
	RayCount  float64
}

// Controller runs the sweep state machine. It is driven by Observe, once per
// rendered frame, with the frame's ray work.
type Controller struct {
	RunID    uuid.UUID
	Settings Settings
	State    State
	Results  []Result

	configs []Config
	index   int
	log     *LogWriter

	started time.Time
	frames  int
	counted int
	rayWork float64
}

func NewController(s Settings, log *LogWriter) *Controller {
	if s.Window <= 0 {
		s.Window = DefaultWindow
	}
	return &Controller{
		RunID:    uuid.New(),
		Settings: s,
		State:    Idle,
		configs:  s.Configs(),
		log:      log,
	}
}

// Begin leaves Idle and starts measuring the first configuration.
func (c *Controller) Begin(now time.Time) error {
	ev, ok := startEvent(c.Settings.Axis)
	if !ok {
		return ErrNoSweep
	}
	if len(c.configs) == 0 {
		return fmt.Errorf("%w: axis %v has no configurations", ErrNoSweep, c.Settings.Axis)
	}
	next, err := Next(c.State, ev)
	if err != nil {
		return err
	}
	c.State = next
	c.index = 0
	c.reset(now)
	return nil
}

func (c *Controller) reset(now time.Time) {
	c.started = now
	c.frames = 0
	c.counted = 0
	c.rayWork = 0
}

// Current is the configuration being measured.
func (c *Controller) Current() Config {
	if c.index < len(c.configs) {
		return c.configs[c.index]
	}
	if len(c.configs) > 0 {
		return c.configs[len(c.configs)-1]
	}
	return c.Settings.Base()
}

func (c *Controller) Index() int { return c.index }

func (c *Controller) Len() int { return len(c.configs) }

func (c *Controller) Done() bool { return c.State == Done }

// Observe records one frame. counted is false when ray accounting was off for
// the frame. It returns true when the window closed and the controller moved to
// the next configuration or finished.
func (c *Controller) Observe(now time.Time, rayWork float64, counted bool) (bool, error) {
	if c.State == Idle || c.State == Done {
		return false, nil
	}

	c.frames++
	if counted {
		c.counted++
		c.rayWork += rayWork
	}

	elapsed := now.Sub(c.started)
	if elapsed < c.Settings.Window {
		return false, nil
	}

	r := Result{
		Config:    c.Current(),
		Frames:    c.frames,
		Elapsed:   elapsed,
		FrameRate: float64(c.frames) / elapsed.Seconds(),
	}
	if c.counted > 0 {
		r.RayCount = c.rayWork / float64(c.counted)
	}
	c.Results = append(c.Results, r)
	if c.log != nil {
		if err := c.log.WriteRow(r.Config, r.FrameRate, r.RayCount); err != nil {
			return false, fmt.Errorf("write result row: %w", err)
		}
	}

	c.index++
	ev := WindowElapsed
	if c.index >= len(c.configs) {
		ev = Exhausted
	}
	next, err := Next(c.State, ev)
	if err != nil {
		return false, err
	}
	c.State = next
	c.reset(now)

	if c.State == Done {
		if err := c.Close(); err != nil {
			return true, fmt.Errorf("close log: %w", err)
		}
	}
	return true, nil
}

// Close flushes and closes the log. Rows already written stay on disk when a
// sweep is cut short. Safe to call more than once.
func (c *Controller) Close() error {
	if c.log == nil {
		return nil
	}
	err := c.log.Close()
	c.log = nil
	return err
}
