package spheretrace

import (
	"fmt"
	"reflect"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw        *glfw.Window
	WindowWidth       int
	WindowHeight      int
	FramebufferWidth  int
	FramebufferHeight int
	windowTitle       string
}

func (s *WindowState) Glfw() *glfw.Window { return s.windowGlfw }

func (s *WindowState) SetTitle(title string) {
	s.windowTitle = title
	s.windowGlfw.SetTitle(title)
}

// PlatformWindowModule creates the single fixed-size GLFW window. The window
// is not resizable; render targets are sized once from its framebuffer.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow fills in defaults for zero values.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	if title == "" {
		title = "spheretrace"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if app.hasResource(reflect.TypeOf((*WindowState)(nil)).Elem()) {
		return
	}

	ws, err := createWindowState(m.Width, m.Height, m.Title)
	if err != nil {
		cmd.Fail(fmt.Errorf("create window: %w", err))
		return
	}
	cmd.AddResources(ws)
	cmd.UseSystem(System(windowCloseSystem).InStage(PostUpdate))
	cmd.UseSystem(System(windowTeardownSystem).InStage(Finale).InState(OnExit(StateExiting)))
}

func createWindowState(width, height int, title string) (*WindowState, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}

	fbw, fbh := win.GetFramebufferSize()
	return &WindowState{
		windowGlfw:        win,
		WindowWidth:       width,
		WindowHeight:      height,
		FramebufferWidth:  fbw,
		FramebufferHeight: fbh,
		windowTitle:       title,
	}, nil
}

func windowCloseSystem(s *WindowState, cmd *Commands) {
	if s.windowGlfw.ShouldClose() {
		cmd.Logger().Debugf("window closed")
		cmd.Exit()
	}
}

func windowTeardownSystem(s *WindowState) {
	s.windowGlfw.Destroy()
	glfw.Terminate()
}
