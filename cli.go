package spheretrace

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gekko3d/spheretrace/bench"
	"github.com/gekko3d/spheretrace/rt/core"
	"github.com/urfave/cli"
)

var ErrHeadlessNeedsSweep = errors.New("-headless needs a sweep axis (-nt, -it, -dt or -st)")

// Options is the parsed command line.
type Options struct {
	Settings bench.Settings
	Width    int
	Height   int
	CPU      bool
	Headless bool
	Debug    bool
	OutDir   string

	Stdout io.Writer
	Stderr io.Writer
}

func DefaultOptions() Options {
	return Options{
		Settings: bench.DefaultSettings(),
		Width:    800,
		Height:   600,
		OutDir:   ".",
	}
}

// Validate rejects option sets that must never reach window creation.
func (o Options) Validate() error {
	if err := core.ValidateCaps(o.Settings.Spheres, o.Settings.Iterations); err != nil {
		return err
	}
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", o.Width, o.Height)
	}
	if o.Settings.Window <= 0 {
		return fmt.Errorf("invalid measurement window %v", o.Settings.Window)
	}
	if o.Headless && o.Settings.Axis == bench.AxisNone {
		return ErrHeadlessNeedsSweep
	}
	return nil
}

func (o Options) Backend() Backend {
	switch {
	case o.Headless:
		return BackendHeadless
	case o.CPU:
		return BackendCPU
	}
	return BackendGPU
}

// FirstAxis returns the first sweep flag present in args. Later sweep flags
// are ignored.
func FirstAxis(args []string) bench.Axis {
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if i := strings.IndexByte(name, '='); i >= 0 {
			if v := name[i+1:]; v == "false" || v == "0" {
				continue
			}
			name = name[:i]
		}
		if a, ok := bench.AxisForFlag(name); ok {
			return a
		}
	}
	return bench.AxisNone
}

// NewCLI builds the command line app. axis is the sweep picked from the raw
// arguments; launch runs once the options are valid.
func NewCLI(stdout, stderr io.Writer, axis bench.Axis, launch func(Options) error) *cli.App {
	def := DefaultOptions()

	app := cli.NewApp()
	app.Name = "spheretrace"
	app.Usage = "ray trace a grid of analytic spheres and benchmark it"
	app.HideVersion = true
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "n", Value: def.Settings.Spheres, Usage: fmt.Sprintf("number of spheres (max %d)", core.MaxSpheres)},
		cli.IntFlag{Name: "i", Value: def.Settings.Iterations, Usage: fmt.Sprintf("reflection/refraction depth (max %d)", core.MaxIterations)},
		cli.BoolFlag{Name: "p", Usage: "turn the ground plane off"},
		cli.BoolFlag{Name: "m", Usage: "turn light movement off"},
		cli.BoolFlag{Name: "r", Usage: "turn refraction off"},
		cli.BoolFlag{Name: "o", Usage: "turn ray accounting off"},
		cli.BoolFlag{Name: "nt", Usage: "sweep the sphere count"},
		cli.BoolFlag{Name: "it", Usage: "sweep the iteration depth"},
		cli.BoolFlag{Name: "dt", Usage: "sweep the camera distance"},
		cli.BoolFlag{Name: "st", Usage: "run the standard suite"},
		cli.DurationFlag{Name: "window", Value: def.Settings.Window, Usage: "measurement window per configuration"},
		cli.IntFlag{Name: "width", Value: def.Width, Usage: "window width"},
		cli.IntFlag{Name: "height", Value: def.Height, Usage: "window height"},
		cli.BoolFlag{Name: "cpu", Usage: "trace on the CPU and present through the GPU"},
		cli.BoolFlag{Name: "headless", Usage: "trace on the CPU without a window (sweeps only)"},
		cli.StringFlag{Name: "out", Value: def.OutDir, Usage: "directory for sweep logs"},
		cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
	}
	app.OnUsageError = func(c *cli.Context, err error, isSubcommand bool) error {
		fmt.Fprintf(c.App.ErrWriter, "Incorrect Usage: %v\n\n", err)
		cli.HelpPrinter(c.App.ErrWriter, cli.AppHelpTemplate, c.App)
		return err
	}
	app.Action = func(c *cli.Context) error {
		if c.NArg() > 0 {
			cli.HelpPrinter(c.App.ErrWriter, cli.AppHelpTemplate, c.App)
			return fmt.Errorf("unexpected argument %q", c.Args().First())
		}

		o := def
		o.Stdout, o.Stderr = stdout, stderr
		o.Settings.Axis = axis
		o.Settings.Spheres = c.Int("n")
		o.Settings.SpheresSet = c.IsSet("n")
		o.Settings.Iterations = c.Int("i")
		o.Settings.Plane = !c.Bool("p")
		o.Settings.LightMoving = !c.Bool("m")
		o.Settings.Refraction = !c.Bool("r")
		o.Settings.RayAccounting = !c.Bool("o")
		o.Settings.Window = c.Duration("window")
		o.Width = c.Int("width")
		o.Height = c.Int("height")
		o.CPU = c.Bool("cpu")
		o.Headless = c.Bool("headless")
		o.OutDir = c.String("out")
		o.Debug = c.Bool("debug")

		if err := o.Validate(); err != nil {
			return err
		}
		return launch(o)
	}
	return app
}

// RunCLI parses args (args[0] is the program name) and launches the app.
func RunCLI(args []string, stdout, stderr io.Writer, launch func(Options) error) error {
	axis := FirstAxis(args[min(1, len(args)):])
	return NewCLI(stdout, stderr, axis, launch).Run(args)
}

// Launch builds the app for o and runs it until the window closes or the sweep
// finishes.
func Launch(o Options) error {
	b := NewAppBuilder().UseStates(StateRunning, StateExiting)
	b.UseModule(
		LoggingModule{Prefix: "spheretrace", Debug: o.Debug, Out: o.Stdout, Err: o.Stderr},
		TimeModule{},
		SceneModule{Config: o.Settings.Base()},
	)
	if !o.Headless {
		b.UseModule(NewPlatformWindow(o.Width, o.Height, "spheretrace"), InputModule{})
	}
	b.UseModule(TracerModule{Backend: o.Backend(), Width: o.Width, Height: o.Height})
	if o.Settings.Axis == bench.AxisNone {
		b.UseModule(FlyingCameraModule{})
	} else {
		b.UseModule(BenchModule{Settings: o.Settings, OutDir: o.OutDir})
	}

	return b.Build().Run()
}
