package spheretrace

import (
	"testing"
	"time"

	"github.com/gekko3d/spheretrace/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameStats_Sample(t *testing.T) {
	s := &FrameStats{}
	start := time.Unix(1000, 0)

	assert.False(t, s.Sample(start, 100, true), "first frame opens the window")

	closed := false
	for i := 1; i <= 20; i++ {
		closed = s.Sample(start.Add(time.Duration(i)*50*time.Millisecond), 100, true)
		if i < 20 {
			assert.False(t, closed, "frame %d", i)
		}
	}
	assert.True(t, closed)
	assert.InDelta(t, 20.0, s.FPS, 1e-9)
	assert.InDelta(t, 2000.0, s.RaysPerSec, 1e-9)
	assert.Equal(t, uint64(21), s.Frames)
}

func TestFrameStats_Sample_uncountedFrames(t *testing.T) {
	s := &FrameStats{}
	start := time.Unix(1000, 0)
	s.Sample(start, 0, false)
	assert.True(t, s.Sample(start.Add(2*time.Second), 500, false))
	assert.InDelta(t, 0.5, s.FPS, 1e-9)
	assert.Zero(t, s.RaysPerSec)
}

func TestBackend_String(t *testing.T) {
	assert.Equal(t, "gpu", BackendGPU.String())
	assert.Equal(t, "cpu", BackendCPU.String())
	assert.Equal(t, "headless", BackendHeadless.String())
	assert.Equal(t, "Backend(7)", Backend(7).String())
}

func TestHostRenderer_accounting(t *testing.T) {
	scene := core.NewScene(8, true)
	p := core.NewFrameParameters(core.NewCamera(DefaultCameraPosition), scene, 16, 12, 0, 2)
	r := newHostRenderer(16, 12, nil)

	_, err := r.Render(p, true)
	assert.Error(t, err, "no scene uploaded yet")

	r.UploadScene(scene)
	work, err := r.Render(p, true)
	require.NoError(t, err)
	assert.Greater(t, work, 0.0)

	work, err = r.Render(p, false)
	require.NoError(t, err)
	assert.Zero(t, work)

	assert.NoError(t, r.SetHud(nil))
	r.Release()
}
