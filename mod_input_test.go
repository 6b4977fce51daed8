package spheretrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInput_Apply_keyEdges(t *testing.T) {
	input := &Input{}

	input.Apply([]Event{{Kind: KeyEvent, Key: KeyW, Pressed: true}})
	assert.True(t, input.Pressed[KeyW])
	assert.True(t, input.JustPressed[KeyW])

	input.Apply(nil)
	assert.True(t, input.Pressed[KeyW], "held key stays pressed")
	assert.False(t, input.JustPressed[KeyW], "edge lasts one frame")

	input.Apply([]Event{{Kind: KeyEvent, Key: KeyW, Pressed: false}})
	assert.False(t, input.Pressed[KeyW])
	assert.True(t, input.JustReleased[KeyW])
}

func TestInput_Apply_ignoresUnknownKeys(t *testing.T) {
	input := &Input{}
	input.Apply([]Event{
		{Kind: KeyEvent, Key: -1, Pressed: true},
		{Kind: KeyEvent, Key: int(keyCount), Pressed: true},
	})
	assert.Equal(t, [keyCount]bool{}, input.Pressed)
}

func TestInput_Apply_cursorDeltas(t *testing.T) {
	input := &Input{}

	input.Apply([]Event{{Kind: CursorEvent, X: 100, Y: 50}})
	assert.True(t, input.MouseSeen)
	assert.Zero(t, input.MouseDeltaX, "first position has no delta")

	input.Apply([]Event{
		{Kind: CursorEvent, X: 110, Y: 45},
		{Kind: CursorEvent, X: 115, Y: 40},
		{Kind: ScrollEvent, Y: 1},
		{Kind: ScrollEvent, Y: 0.5},
	})
	assert.Equal(t, 15.0, input.MouseDeltaX)
	assert.Equal(t, -10.0, input.MouseDeltaY)
	assert.Equal(t, 1.5, input.ScrollY)
	assert.Equal(t, 115.0, input.MouseX)

	input.Apply(nil)
	assert.Zero(t, input.MouseDeltaX)
	assert.Zero(t, input.ScrollY)
}

func TestEventQueue_Drain(t *testing.T) {
	q := &EventQueue{}
	q.Push(Event{Kind: KeyEvent, Key: KeyP, Pressed: true})
	q.Push(Event{Kind: ScrollEvent, Y: -1})

	assert.Len(t, q.Drain(), 2)
	assert.Empty(t, q.Drain())
}

func TestKeyMapsRoundTrip(t *testing.T) {
	for k, g := range keyToGlfw {
		assert.Equal(t, k, glfwToKey[g])
	}
}
