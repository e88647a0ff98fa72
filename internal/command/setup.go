package command

// Deps are the collaborators the built-in commands need.
type Deps struct {
	Player   Player
	History  HistoryReader
	Recorder CommandRecorder
	Limiter  *UserLimiter
	Shutdown func()
	Prefix   string
}

// NewMusicDispatcher registers every command behind the standard middleware chain.
func NewMusicDispatcher(deps Deps) *Dispatcher {
	reg := NewRegistry()
	// innermost first
	mws := []Middleware{
		WithCommandLogger(deps.Recorder),
		WithRateLimit(deps.Limiter),
		WithGuildOnly(),
		WithRecovery(),
	}

	reg.RegisterCommand(&HolaCommand{}, mws...)
	reg.RegisterCommand(&PauseCommand{Player: deps.Player}, mws...)
	reg.RegisterCommand(&ResumeCommand{Player: deps.Player}, mws...)
	reg.RegisterCommand(&StopCommand{Player: deps.Player}, mws...)
	reg.RegisterCommand(&NextCommand{Player: deps.Player}, mws...)
	reg.RegisterCommand(&VolumeCommand{Player: deps.Player}, mws...)
	reg.RegisterCommand(&ListCommand{Player: deps.Player}, mws...)
	reg.RegisterCommand(&ShutdownCommand{Shutdown: deps.Shutdown}, mws...)
	reg.RegisterCommand(&HelpCommand{Registry: reg, Prefix: deps.Prefix}, mws...)
	if deps.History != nil {
		reg.RegisterCommand(&HistoryCommand{History: deps.History}, mws...)
	}

	link := ApplyMiddlewares(&LinkCommand{Player: deps.Player}, mws...)
	return NewDispatcher(deps.Prefix, reg, link)
}
