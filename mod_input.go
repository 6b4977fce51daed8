package spheretrace

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyA int = iota
	KeyD
	KeyS
	KeyW
	KeyP
	KeyM
	KeyR
	KeySpace
	KeyEscape
	KeyTab
	KeyShift
	KeyControl
	MouseButtonLeft
	MouseButtonRight
	keyCount
)

var keyToGlfw = map[int]glfw.Key{
	KeyA:       glfw.KeyA,
	KeyD:       glfw.KeyD,
	KeyS:       glfw.KeyS,
	KeyW:       glfw.KeyW,
	KeyP:       glfw.KeyP,
	KeyM:       glfw.KeyM,
	KeyR:       glfw.KeyR,
	KeySpace:   glfw.KeySpace,
	KeyEscape:  glfw.KeyEscape,
	KeyTab:     glfw.KeyTab,
	KeyShift:   glfw.KeyLeftShift,
	KeyControl: glfw.KeyLeftControl,
}

var glfwToKey = func() map[glfw.Key]int {
	m := make(map[glfw.Key]int, len(keyToGlfw))
	for k, g := range keyToGlfw {
		m[g] = k
	}
	return m
}()

type EventKind int

const (
	KeyEvent EventKind = iota
	MouseButtonEvent
	CursorEvent
	ScrollEvent
)

// Event is one raw window event. Key holds a Key* constant for key and button
// events; X and Y hold the cursor position or scroll offsets.
type Event struct {
	Kind    EventKind
	Key     int
	Pressed bool
	X, Y    float64
}

// EventQueue collects window events between frames. Callbacks only push; the
// input system drains it once per frame.
type EventQueue struct {
	events []Event
}

func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

func (q *EventQueue) Drain() []Event {
	events := q.events
	q.events = nil
	return events
}

type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	ScrollY                  float64
	MouseSeen                bool
	MouseCaptured            bool

	WindowWidth, WindowHeight int
}

// Apply folds a frame's events into the input state.
func (input *Input) Apply(events []Event) {
	input.JustPressed = [keyCount]bool{}
	input.JustReleased = [keyCount]bool{}
	input.MouseDeltaX, input.MouseDeltaY = 0, 0
	input.ScrollY = 0

	for _, e := range events {
		switch e.Kind {
		case KeyEvent, MouseButtonEvent:
			if e.Key < 0 || e.Key >= int(keyCount) {
				continue
			}
			if e.Pressed && !input.Pressed[e.Key] {
				input.JustPressed[e.Key] = true
			}
			if !e.Pressed && input.Pressed[e.Key] {
				input.JustReleased[e.Key] = true
			}
			input.Pressed[e.Key] = e.Pressed
		case CursorEvent:
			if input.MouseSeen {
				input.MouseDeltaX += e.X - input.MouseX
				input.MouseDeltaY += e.Y - input.MouseY
			}
			input.MouseX, input.MouseY = e.X, e.Y
			input.MouseSeen = true
		case ScrollEvent:
			input.ScrollY += e.Y
		}
	}
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	queue := &EventQueue{}
	cmd.AddResources(queue, &Input{})
	app.UseSystem(System(inputSetupSystem).InStage(PreUpdate).InState(OnEnter(StateRunning)))
	app.UseSystem(System(inputSystem).InStage(PreUpdate))
}

func inputSetupSystem(s *WindowState, queue *EventQueue, input *Input) {
	w := s.windowGlfw
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		k, ok := glfwToKey[key]
		if !ok || action == glfw.Repeat {
			return
		}
		queue.Push(Event{Kind: KeyEvent, Key: k, Pressed: action == glfw.Press})
	})
	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		k := MouseButtonLeft
		switch button {
		case glfw.MouseButtonLeft:
		case glfw.MouseButtonRight:
			k = MouseButtonRight
		default:
			return
		}
		queue.Push(Event{Kind: MouseButtonEvent, Key: k, Pressed: action == glfw.Press})
	})
	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		queue.Push(Event{Kind: CursorEvent, X: x, Y: y})
	})
	w.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		queue.Push(Event{Kind: ScrollEvent, X: dx, Y: dy})
	})
	input.WindowWidth, input.WindowHeight = w.GetSize()
}

func inputSystem(s *WindowState, queue *EventQueue, input *Input) {
	glfw.PollEvents()

	wasCaptured := input.MouseCaptured
	input.Apply(queue.Drain())

	if input.JustPressed[KeyEscape] {
		s.windowGlfw.SetShouldClose(true)
	}
	if input.JustPressed[KeyTab] {
		input.MouseCaptured = !input.MouseCaptured
	}
	if input.MouseCaptured != wasCaptured {
		if input.MouseCaptured {
			s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else {
			s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
		// The cursor jumps when the mode changes; drop the delta.
		input.MouseDeltaX, input.MouseDeltaY = 0, 0
	}
}
