package session

// Playback is the paused/running flag toggled by the operator.
type Playback int

const (
	Paused Playback = iota // session starts paused
	Running
)

func (p Playback) String() string {
	switch p {
	case Paused:
		return "paused"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// TrackingState is the tracker lifecycle as seen by the session.
type TrackingState int

const (
	Uninitialized TrackingState = iota
	Initialized
	Ended // source exhausted, waiting for acknowledgement
)

func (s TrackingState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// State is the pair of session flags reported to listeners.
type State struct {
	Playback Playback
	Tracking TrackingState
}

func (s State) String() string { return s.Playback.String() + "/" + s.Tracking.String() }

// Listener is invoked on every state change.
type Listener func(prev, next State)

// Outcome tells the caller of Tick whether the session should go on.
type Outcome int

const (
	Continue Outcome = iota
	Quit
)

// Keys understood by the session.
const (
	KeyQuit   = "q"
	KeyEscape = "Escape"
	KeyPause  = "p"
)
