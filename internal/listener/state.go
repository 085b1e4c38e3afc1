package listener

type State int

const (
	Idle State = iota
	ListeningForWake
	Awake
	ListeningForCommand
	Dispatching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ListeningForWake:
		return "listening_for_wake"
	case Awake:
		return "awake"
	case ListeningForCommand:
		return "listening_for_command"
	case Dispatching:
		return "dispatching"
	default:
		return "unknown"
	}
}
