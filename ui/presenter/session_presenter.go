package presenter

import (
	"time"

	"github.com/soocke/pixel-track-go/domain/session"
	"github.com/soocke/pixel-track-go/ui/model"
)

// SnapshotSource provides the session values shown in the stats row.
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// SessionView displays frame count, running time, frame rate and confidence.
type SessionView interface {
	SetStats(frames int, running time.Duration, fps, confidence float64)
}

// SessionPresenter formats session statistics from the controller to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	src  SnapshotSource
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, src SnapshotSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, src: src, view: view}
}

// Tick advances the model from a fresh snapshot and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.src == nil || p.view == nil {
		return
	}
	snap := p.src.Snapshot()
	running := snap.State.Playback == session.Running && snap.State.Tracking == session.Initialized
	p.sess.OnTick(running, snap.Frames, now)
	run, fps := p.sess.Values()
	p.view.SetStats(snap.Frames, run, fps, snap.Confidence)
}
