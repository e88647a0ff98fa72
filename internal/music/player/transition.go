package player

// Event is a terminal playback event for the head of the queue.
type Event int

const (
	// EventFinished means the resource drained and the player went idle.
	EventFinished Event = iota
	// EventErrored means the extraction or playback failed.
	EventErrored
)

func (e Event) String() string {
	switch e {
	case EventFinished:
		return "finished"
	case EventErrored:
		return "errored"
	default:
		return "unknown"
	}
}

type Action int

const (
	ActionStartNext Action = iota
	ActionTeardown
)

func (a Action) String() string {
	if a == ActionStartNext {
		return "start-next"
	}
	return "teardown"
}

// Transition drops the head of queue for either terminal event, so a failing track is
// never retried. The remainder plays next; an empty remainder ends the session. queue is
// not modified.
func Transition(queue []string, ev Event) ([]string, Action) {
	if len(queue) == 0 {
		return nil, ActionTeardown
	}
	rest := queue[1:]
	if len(rest) == 0 {
		return nil, ActionTeardown
	}
	return rest, ActionStartNext
}
