package selection

import (
	"log/slog"

	"github.com/soocke/pixel-track-go/domain/geom"
)

// Phase enumerates the states of the region selector.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseCommitted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// Gate is the session-side handle the selector consults and notifies.
// Paused gates new drags; Resume is requested once a box is committed.
type Gate interface {
	Paused() bool
	Resume()
}

// Selector turns pointer press/move/release events into a committed
// BoundingBox. It is not safe for concurrent use; pointer callbacks are
// delivered on the same thread that drives the session tick.
type Selector struct {
	gate      Gate
	logger    *slog.Logger
	phase     Phase
	anchor    geom.Point
	preview   geom.BoundingBox
	committed geom.BoundingBox
}

// NewSelector returns a selector in PhaseIdle bound to gate.
func NewSelector(gate Gate, logger *slog.Logger) *Selector {
	return &Selector{gate: gate, logger: logger}
}

// Phase returns the current phase.
func (s *Selector) Phase() Phase { return s.phase }

// Committed returns the committed box, ok is false until a release commits one.
func (s *Selector) Committed() (geom.BoundingBox, bool) {
	if s.phase != PhaseCommitted {
		return geom.BoundingBox{}, false
	}
	return s.committed, true
}

// Preview returns the transient drag rectangle while dragging.
func (s *Selector) Preview() (geom.BoundingBox, bool) {
	if s.phase != PhaseDragging {
		return geom.BoundingBox{}, false
	}
	return s.preview, true
}

// Press records the anchor. Accepted only while idle and paused.
func (s *Selector) Press(p geom.Point) {
	if s.phase != PhaseIdle || s.gate == nil || !s.gate.Paused() {
		return
	}
	s.anchor = p
	s.preview = geom.FromPoints(p, p)
	s.setPhase(PhaseDragging)
}

// Move updates the preview rectangle while dragging.
func (s *Selector) Move(p geom.Point) {
	if s.phase != PhaseDragging {
		return
	}
	s.preview = geom.FromPoints(s.anchor, p)
}

// Release commits the box spanned by the anchor and p, then asks the gate to
// resume playback. A release on the anchor's row or column commits a box of
// zero width or height.
func (s *Selector) Release(p geom.Point) {
	if s.phase != PhaseDragging {
		return
	}
	box := geom.FromPoints(s.anchor, p)
	s.preview = geom.BoundingBox{}
	s.committed = box
	s.setPhase(PhaseCommitted)
	if s.logger != nil {
		s.logger.Info("target selected",
			"x", s.committed.XMin, "y", s.committed.YMin,
			"w", s.committed.Width, "h", s.committed.Height)
	}
	s.gate.Resume()
}

func (s *Selector) setPhase(next Phase) {
	prev := s.phase
	s.phase = next
	if s.logger != nil {
		s.logger.Debug("selection transition", "from", prev.String(), "to", next.String())
	}
}
