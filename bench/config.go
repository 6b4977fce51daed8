// Package bench drives parametric benchmark sweeps: it walks a fixed list of
// configurations, measures each one for a time window and logs one row per
// configuration.
package bench

import (
	"time"
)

type Axis int

const (
	AxisNone Axis = iota
	AxisSpheres
	AxisIterations
	AxisDistance
	AxisStandard
)

func (a Axis) String() string {
	switch a {
	case AxisSpheres:
		return "Spheres"
	case AxisIterations:
		return "Iterations"
	case AxisDistance:
		return "Distance"
	case AxisStandard:
		return "Standard"
	}
	return "None"
}

// AxisForFlag maps a sweep flag name to its axis.
func AxisForFlag(name string) (Axis, bool) {
	switch name {
	case "nt":
		return AxisSpheres, true
	case "it":
		return AxisIterations, true
	case "dt":
		return AxisDistance, true
	case "st":
		return AxisStandard, true
	}
	return AxisNone, false
}

var (
	SphereCounts    = []int{1, 8, 27, 64, 125, 216}
	IterationDepths = []int{2, 4, 6, 8, 10, 12, 14, 16}
	Distances       = []float32{10, 13, 16, 19, 22, 25, 28, 31}
)

const (
	DefaultSpheres    = 27
	DefaultIterations = 4
	DefaultDistance   = 12
	DefaultWindow     = 5 * time.Second
)

// Config is one measured benchmark configuration.
type Config struct {
	Spheres       int
	Iterations    int
	Distance      float32
	Plane         bool
	LightMoving   bool
	Refraction    bool
	RayAccounting bool
}

// Settings is the user's starting point for a run: the fixed values of the
// axes that are not swept plus the feature toggles.
type Settings struct {
	Axis       Axis
	Spheres    int
	SpheresSet bool
	Iterations int
	Distance   float32
	Window     time.Duration

	Plane         bool
	LightMoving   bool
	Refraction    bool
	RayAccounting bool
}

func DefaultSettings() Settings {
	return Settings{
		Spheres:       DefaultSpheres,
		Iterations:    DefaultIterations,
		Distance:      DefaultDistance,
		Window:        DefaultWindow,
		Plane:         true,
		LightMoving:   true,
		Refraction:    true,
		RayAccounting: true,
	}
}

// Base is the configuration used outside a sweep.
func (s Settings) Base() Config {
	return Config{
		Spheres:       s.Spheres,
		Iterations:    s.Iterations,
		Distance:      s.Distance,
		Plane:         s.Plane,
		LightMoving:   s.LightMoving,
		Refraction:    s.Refraction,
		RayAccounting: s.RayAccounting,
	}
}

// Configs lists the configurations of the selected axis in run order.
func (s Settings) Configs() []Config {
	base := s.Base()
	var out []Config
	switch s.Axis {
	case AxisSpheres:
		for _, n := range SphereCounts {
			c := base
			c.Spheres = n
			out = append(out, c)
		}
	case AxisIterations:
		for _, n := range IterationDepths {
			c := base
			c.Iterations = n
			out = append(out, c)
		}
	case AxisDistance:
		for _, d := range Distances {
			c := base
			c.Distance = d
			out = append(out, c)
		}
	case AxisStandard:
		out = StandardSuite(s.Spheres, s.Iterations, s.Distance)
	}
	return out
}

// StandardSuite is a cumulative ladder: every row switches off one more feature
// than the previous, ending with everything off.
func StandardSuite(spheres, iterations int, distance float32) []Config {
	c := Config{
		Spheres:       spheres,
		Iterations:    iterations,
		Distance:      distance,
		Plane:         true,
		LightMoving:   true,
		Refraction:    true,
		RayAccounting: true,
	}
	out := []Config{c}
	c.Plane = false
	out = append(out, c)
	c.LightMoving = false
	out = append(out, c)
	c.Refraction = false
	out = append(out, c)
	c.RayAccounting = false
	out = append(out, c)
	return out
}
