package presenter

import (
	"time"

	"github.com/soocke/pixel-track-go/domain/session"
)

// Ticker is the session step driven by the loop.
type Ticker interface {
	Tick() (session.Outcome, error)
}

// Loop drives one session tick per scheduled callback, then refreshes the
// presenters and reschedules itself.
//
// Finish is called once when the session quits or fails; the loop does not
// reschedule after that. The zero value is usable (methods are nil-safe).
type Loop struct {
	Session  Ticker
	State    *StatePresenter
	Stats    *SessionPresenter
	Schedule func()
	Finish   func(err error)

	done bool
	now  func() time.Time
}

func NewLoop(sess Ticker, state *StatePresenter, stats *SessionPresenter, schedule func(), finish func(error)) *Loop {
	return &Loop{Session: sess, State: state, Stats: stats, Schedule: schedule, Finish: finish, now: time.Now}
}

// Done reports whether the session has finished.
func (l *Loop) Done() bool { return l != nil && l.done }

func (l *Loop) Tick() {
	if l == nil || l.done {
		return
	}
	if l.Session != nil {
		out, err := l.Session.Tick()
		if err != nil || out == session.Quit {
			l.done = true
			if l.Finish != nil {
				l.Finish(err)
			}
			return
		}
	}
	now := time.Now()
	if l.now != nil {
		now = l.now()
	}
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Stats != nil {
		l.Stats.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
