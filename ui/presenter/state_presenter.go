package presenter

import (
	"time"

	"github.com/soocke/pixel-track-go/domain/selection"
	"github.com/soocke/pixel-track-go/domain/session"
)

// PhaseSource reports the selection phase for the hint text.
type PhaseSource interface {
	Phase() selection.Phase
}

// StateView sets the state label in the view.
type StateView interface{ SetStateLabel(string) }

// StatePresenter receives session transitions and updates the view.
type StatePresenter struct {
	sel     PhaseSource
	view    StateView
	latest  string // last reflected label
	pending []session.State
	current session.State
}

func NewStatePresenter(sel PhaseSource, view StateView) *StatePresenter {
	return &StatePresenter{sel: sel, view: view}
}

// OnTransition queues a state from the session listener.
//
// The latest queued state will be reflected on the next Tick.
func (p *StatePresenter) OnTransition(_, next session.State) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, next)
}

// Tick processes queued states and updates the view when the label changes.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	if len(p.pending) > 0 {
		p.current = p.pending[len(p.pending)-1]
		p.pending = p.pending[:0]
	}
	label := "State: " + p.current.String()
	if hint := p.hint(); hint != "" {
		label += " (" + hint + ")"
	}
	if label != p.latest {
		p.latest = label
		p.view.SetStateLabel(label)
	}
}

func (p *StatePresenter) hint() string {
	switch p.current.Tracking {
	case session.Ended:
		return "press any key"
	case session.Initialized:
		return ""
	}
	if p.sel == nil {
		return ""
	}
	switch p.sel.Phase() {
	case selection.PhaseIdle:
		if p.current.Playback == session.Paused {
			return "drag to select target"
		}
		return "press p to pause and select"
	case selection.PhaseDragging:
		return "release to commit"
	}
	return ""
}
