package selection

import (
	"log/slog"
	"testing"

	"github.com/soocke/pixel-track-go/domain/geom"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type fakeGate struct {
	paused  bool
	resumed int
}

func (g *fakeGate) Paused() bool { return g.paused }
func (g *fakeGate) Resume()      { g.resumed++; g.paused = false }

func TestSelector_DragCommitsMinAbsBox(t *testing.T) {
	g := &fakeGate{paused: true}
	s := NewSelector(g, discardLogger)

	s.Press(geom.Point{X: 10, Y: 10})
	if s.Phase() != PhaseDragging {
		t.Fatalf("expected dragging after press, got %v", s.Phase())
	}
	s.Move(geom.Point{X: 5, Y: 40})
	prev, ok := s.Preview()
	if !ok || prev != geom.New(5, 10, 5, 30) {
		t.Fatalf("unexpected preview %v ok=%v", prev, ok)
	}
	if _, ok := s.Committed(); ok {
		t.Fatalf("preview must not be committed")
	}
	s.Release(geom.Point{X: 5, Y: 40})

	box, ok := s.Committed()
	if !ok {
		t.Fatalf("expected committed box")
	}
	if box != geom.New(5, 10, 5, 30) {
		t.Fatalf("unexpected committed box %v", box)
	}
	if g.resumed != 1 || g.paused {
		t.Fatalf("expected single resume request, got resumed=%d paused=%v", g.resumed, g.paused)
	}
	if _, ok := s.Preview(); ok {
		t.Fatalf("preview should be cleared after commit")
	}
}

func TestSelector_PressIgnoredWhileRunning(t *testing.T) {
	g := &fakeGate{paused: false}
	s := NewSelector(g, discardLogger)
	s.Press(geom.Point{X: 1, Y: 1})
	if s.Phase() != PhaseIdle {
		t.Fatalf("press while running should be ignored, got %v", s.Phase())
	}
	s.Release(geom.Point{X: 20, Y: 20})
	if _, ok := s.Committed(); ok || g.resumed != 0 {
		t.Fatalf("release without press must not commit")
	}
}

func TestSelector_MoveBeforePressIgnored(t *testing.T) {
	s := NewSelector(&fakeGate{paused: true}, discardLogger)
	s.Move(geom.Point{X: 3, Y: 3})
	if _, ok := s.Preview(); ok {
		t.Fatalf("no preview expected while idle")
	}
}

func TestSelector_CommittedIsTerminal(t *testing.T) {
	g := &fakeGate{paused: true}
	s := NewSelector(g, discardLogger)
	s.Press(geom.Point{X: 0, Y: 0})
	s.Release(geom.Point{X: 10, Y: 10})
	want, _ := s.Committed()

	// Pause again and try a second gesture.
	g.paused = true
	s.Press(geom.Point{X: 50, Y: 50})
	s.Move(geom.Point{X: 60, Y: 70})
	s.Release(geom.Point{X: 60, Y: 70})

	got, ok := s.Committed()
	if !ok || got != want {
		t.Fatalf("committed box changed: want %v got %v", want, got)
	}
	if s.Phase() != PhaseCommitted {
		t.Fatalf("expected committed phase, got %v", s.Phase())
	}
	if g.resumed != 1 {
		t.Fatalf("resume requested %d times, want 1", g.resumed)
	}
}

func TestSelector_ZeroAreaReleaseCommits(t *testing.T) {
	cases := []struct {
		name    string
		release geom.Point
		want    geom.BoundingBox
	}{
		{"same column", geom.Point{X: 7, Y: 30}, geom.New(7, 7, 0, 23)},
		{"same row", geom.Point{X: 2, Y: 7}, geom.New(2, 7, 5, 0)},
		{"same point", geom.Point{X: 7, Y: 7}, geom.New(7, 7, 0, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := &fakeGate{paused: true}
			s := NewSelector(g, discardLogger)
			s.Press(geom.Point{X: 7, Y: 7})
			s.Release(tc.release)
			box, ok := s.Committed()
			if !ok || box != tc.want {
				t.Fatalf("expected commit of %v, got %v ok=%v", tc.want, box, ok)
			}
			if s.Phase() != PhaseCommitted || g.resumed != 1 {
				t.Fatalf("expected committed and resumed once: phase=%v resumed=%d", s.Phase(), g.resumed)
			}
		})
	}
}

func TestPhase_String(t *testing.T) {
	if PhaseIdle.String() != "idle" || PhaseDragging.String() != "dragging" || PhaseCommitted.String() != "committed" {
		t.Fatalf("unexpected phase names")
	}
	if Phase(42).String() != "unknown" {
		t.Fatalf("unexpected name for invalid phase")
	}
}
