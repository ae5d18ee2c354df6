package model

import (
	"time"
)

// SessionModel tracks how long playback has been running and the frame rate
// observed while running. Paused intervals are excluded from both.
// It is decoupled from the UI; presenters should poll Values() and update views.
// The zero value is ready to use.
type SessionModel struct {
	active      bool
	runStart    time.Time
	runFrames   int // frame counter at runStart
	accumulated time.Duration
	accFrames   int
	current     time.Duration
	curFrames   int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model from the playback flag, the session frame counter
// and the current timestamp. Call periodically (for example, from a presenter tick).
func (m *SessionModel) OnTick(running bool, frames int, now time.Time) {
	if m == nil {
		return
	}
	if running {
		if !m.active { // paused -> running
			m.active = true
			m.runStart = now
			m.runFrames = frames
		}
		m.current = now.Sub(m.runStart)
		m.curFrames = frames - m.runFrames
	} else if m.active { // running -> paused
		m.current = now.Sub(m.runStart)
		m.curFrames = frames - m.runFrames
		m.accumulated += m.current
		m.accFrames += m.curFrames
		m.current, m.curFrames = 0, 0
		m.active = false
	}
}

// Values returns the total running time and the average frames per second
// over it.
func (m *SessionModel) Values() (running time.Duration, fps float64) {
	if m == nil {
		return 0, 0
	}
	running = m.accumulated + m.current
	frames := m.accFrames + m.curFrames
	if running > 0 {
		fps = float64(frames) / running.Seconds()
	}
	return running, fps
}
