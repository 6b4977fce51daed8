package spheretrace

type Commands struct {
	app *App
}

const (
	StateRunning State = iota
	StateExiting
)

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Exit stops the app cleanly once the current frame has finished.
func (cmd *Commands) Exit() {
	if cmd.app.stateful {
		cmd.app.changeState(cmd.app.finalState)
	}
}

// Fail reports a fatal error and stops the app. Run returns the first error.
func (cmd *Commands) Fail(err error) {
	cmd.app.Logger().Errorf("%v", err)
	cmd.app.fail(err)
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
