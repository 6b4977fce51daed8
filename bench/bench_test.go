package bench

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settings(axis Axis) Settings {
	s := DefaultSettings()
	s.Axis = axis
	s.Window = time.Second
	return s
}

// drive feeds frames 100ms apart until the controller finishes.
func drive(t *testing.T, c *Controller, rayWork float64) {
	t.Helper()
	now := time.Unix(1000, 0)
	require.NoError(t, c.Begin(now))
	for i := 0; i < 10000 && !c.Done(); i++ {
		now = now.Add(100 * time.Millisecond)
		_, err := c.Observe(now, rayWork, c.Current().RayAccounting)
		require.NoError(t, err)
	}
	require.True(t, c.Done(), "sweep must terminate")
}

func TestConfigsPerAxis(t *testing.T) {
	tests := []struct {
		axis Axis
		n    int
	}{
		{AxisSpheres, len(SphereCounts)},
		{AxisIterations, len(IterationDepths)},
		{AxisDistance, len(Distances)},
		{AxisStandard, 5},
		{AxisNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			assert.Len(t, settings(tt.axis).Configs(), tt.n)
		})
	}

	cs := settings(AxisSpheres).Configs()
	for i, c := range cs {
		assert.Equal(t, SphereCounts[i], c.Spheres)
		assert.Equal(t, DefaultIterations, c.Iterations)
	}
	ds := settings(AxisDistance).Configs()
	assert.Equal(t, float32(10), ds[0].Distance)
	assert.Equal(t, float32(31), ds[len(ds)-1].Distance)
}

func TestStandardSuiteLadder(t *testing.T) {
	suite := StandardSuite(27, 4, 12)
	require.Len(t, suite, 5)

	assert.True(t, suite[0].Plane && suite[0].LightMoving && suite[0].Refraction && suite[0].RayAccounting)
	assert.False(t, suite[1].Plane)
	assert.True(t, suite[1].LightMoving)
	assert.False(t, suite[2].LightMoving)
	assert.True(t, suite[2].Refraction)
	assert.False(t, suite[3].Refraction)
	assert.True(t, suite[3].RayAccounting)
	last := suite[4]
	assert.False(t, last.Plane || last.LightMoving || last.Refraction || last.RayAccounting)
}

func TestTransitionTable(t *testing.T) {
	s, err := Next(Idle, StartDistance)
	require.NoError(t, err)
	assert.Equal(t, SweepDistance, s)

	s, err = Next(s, WindowElapsed)
	require.NoError(t, err)
	assert.Equal(t, SweepDistance, s)

	s, err = Next(s, Exhausted)
	require.NoError(t, err)
	assert.Equal(t, Done, s)

	_, err = Next(Done, WindowElapsed)
	assert.Error(t, err)
	_, err = Next(Idle, WindowElapsed)
	assert.Error(t, err)
}

func TestControllerOneRowPerConfigInOrder(t *testing.T) {
	var buf bytes.Buffer
	s := settings(AxisIterations)
	log := NewLogWriter(&buf, false)
	require.NoError(t, log.WriteHeader())

	c := NewController(s, log)
	drive(t, c, 1234.4)

	require.Len(t, c.Results, len(IterationDepths))
	for i, r := range c.Results {
		assert.Equal(t, IterationDepths[i], r.Config.Iterations)
		assert.InDelta(t, 10, r.FrameRate, 0.01)
		assert.InDelta(t, 1234.4, r.RayCount, 1e-9)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1+len(IterationDepths))
	assert.Equal(t, "Spheres\tIterations\tDistance\tFrameRate\tRayCount", lines[0])
	assert.Equal(t, "27\t2\t12\t10\t1234", lines[1])
	assert.Equal(t, "27\t16\t12\t10\t1234", lines[len(lines)-1])

	// Further frames after Done are ignored.
	advanced, err := c.Observe(time.Unix(5000, 0), 1, true)
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Len(t, c.Results, len(IterationDepths))
}

func TestControllerRayCountZeroWithoutAccounting(t *testing.T) {
	s := settings(AxisSpheres)
	s.RayAccounting = false
	c := NewController(s, nil)
	drive(t, c, 999)
	for _, r := range c.Results {
		assert.Equal(t, 0.0, r.RayCount)
	}
}

func TestControllerRequiresAxis(t *testing.T) {
	c := NewController(settings(AxisNone), nil)
	assert.ErrorIs(t, c.Begin(time.Now()), ErrNoSweep)
	assert.Equal(t, Idle, c.State)
}

func TestLogName(t *testing.T) {
	s := settings(AxisSpheres)
	assert.Equal(t, "Spheres.txt", LogName(s))

	s.SpheresSet = true
	assert.Equal(t, "Spheres.txt", LogName(s))
	s.Axis = AxisIterations
	assert.Equal(t, "Iterations_27.txt", LogName(s))
	s.Axis = AxisDistance
	s.Refraction = false
	assert.Equal(t, "Distance_27_NoRefraction.txt", LogName(s))

	s.Axis = AxisStandard
	assert.Equal(t, "Standard.txt", LogName(s))
}

func TestStandardSweepWritesFile(t *testing.T) {
	dir := t.TempDir()
	s := settings(AxisStandard)
	log, path, err := CreateLog(dir, s)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Standard.txt"), path)

	c := NewController(s, log)
	drive(t, c, 500)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Spheres\tIterations\tDistance\tPlane\tLightMoving\tRefraction\tFrameRate\tRayCount", lines[0])
	assert.Equal(t, "27\t4\t12\t1\t1\t1\t10\t500", lines[1])
	assert.Equal(t, "27\t4\t12\t0\t0\t0\t10\t0", lines[5])
}

func TestAxisForFlag(t *testing.T) {
	a, ok := AxisForFlag("dt")
	assert.True(t, ok)
	assert.Equal(t, AxisDistance, a)
	_, ok = AxisForFlag("n")
	assert.False(t, ok)
}

func TestHostInfoString(t *testing.T) {
	h := HostInfo{CPU: "cpu", Cores: 8, ClockGHz: 3.2, MemoryGiB: 16, OS: "linux/amd64"}
	assert.Equal(t, "cpu (8 cores @ 3.20 GHz), 16 GiB RAM, linux/amd64", h.String())
}
