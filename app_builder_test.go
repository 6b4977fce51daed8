package spheretrace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type MockModule struct {
	installed bool
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
}

type failingModule struct {
	err error
}

func (m failingModule) Install(app *App, commands *Commands) {
	commands.Fail(m.err)
}

func TestAppBuilder_Stateless(t *testing.T) {
	app := NewAppBuilder().Build()

	if app.stateful != false {
		t.Errorf("Expected stateful to be false, got %v", app.stateful)
	}
	if app.initialState != 0 {
		t.Errorf("Expected initialState to be 0, got %v", app.initialState)
	}
	if app.finalState != 0 {
		t.Errorf("Expected finalState to be 0, got %v", app.finalState)
	}
}

func TestAppBuilder_UseStates(t *testing.T) {
	app := NewAppBuilder().UseStates(1, 10).Build()

	if app.stateful != true {
		t.Errorf("Expected stateful to be true, got %v", app.stateful)
	}
	if app.initialState != 1 {
		t.Errorf("Expected initialState to be 1, got %v", app.initialState)
	}
	if app.finalState != 10 {
		t.Errorf("Expected finalState to be 10, got %v", app.finalState)
	}
	assert.Len(t, app.systems[Update.Name], 10)
}

func TestAppBuilder_Build_WithMultipleModules(t *testing.T) {
	module1 := &MockModule{}
	module2 := &MockModule{}

	NewAppBuilder().UseModule(module1).UseModule(module2).Build()

	assert.True(t, module1.installed)
	assert.True(t, module2.installed)
}

func TestAppBuilder_Build_StopsOnFailure(t *testing.T) {
	boom := errors.New("window unavailable")
	after := &MockModule{}

	app := NewAppBuilder().
		UseStates(StateRunning, StateExiting).
		UseModule(failingModule{err: boom}, after).
		Build()

	assert.False(t, after.installed)
	assert.ErrorIs(t, app.Run(), boom)
}
