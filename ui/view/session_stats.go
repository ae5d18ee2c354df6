package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows frame count, running time, frame rate and tracker confidence.
type SessionStats interface {
	SetStats(frames int, running time.Duration, fps, confidence float64)
}

type sessionStats struct {
	framesLbl     *LabelWidget
	runningLbl    *LabelWidget
	confidenceLbl *LabelWidget
}

// NewSessionStats creates the stat labels in a grid layout starting at (row, startCol).
// If parent is nil, labels are positioned relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{
		framesLbl:     Label(Width(14)),
		runningLbl:    Label(Width(22)),
		confidenceLbl: Label(Width(18)),
	}
	for i, lbl := range []*LabelWidget{s.framesLbl, s.runningLbl, s.confidenceLbl} {
		if parent != nil {
			Grid(lbl, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(lbl, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.SetStats(0, 0, 0, 0)
	return s
}

// SetStats updates every label.
func (s *sessionStats) SetStats(frames int, running time.Duration, fps, confidence float64) {
	if s == nil || s.framesLbl == nil {
		return
	}
	seconds := int(running.Seconds())
	min, sec := seconds/60, seconds%60
	s.framesLbl.Configure(Txt(fmt.Sprintf("Frames: %d", frames)))
	s.runningLbl.Configure(Txt(fmt.Sprintf("Running: %02d:%02d (%.1f fps)", min, sec, fps)))
	s.confidenceLbl.Configure(Txt(fmt.Sprintf("Confidence: %.3f", confidence)))
}
