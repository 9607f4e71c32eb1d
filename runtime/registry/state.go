package registry

// State is the registry lifecycle state.
type State int

const (
	Uninitialized State = iota
	Loaded
	Mutating
	Closed
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Mutating:
		return "mutating"
	case Closed:
		return "closed"
	default:
		return "uninitialized"
	}
}
