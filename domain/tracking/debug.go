package tracking

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	debugFlushEvery = 25
	debugMaxSamples = 2000
)

// debugPlotter keeps the confidence history and renders it as a PNG line
// plot. Errors are logged once and otherwise ignored.
type debugPlotter struct {
	dir       string
	logger    *slog.Logger
	samples   plotter.XYs
	lastFlush int
	errLogged bool
}

func newDebugPlotter(dir string, logger *slog.Logger) *debugPlotter {
	return &debugPlotter{dir: dir, logger: logger}
}

func (d *debugPlotter) reset() {
	d.samples = d.samples[:0]
	d.lastFlush = 0
}

func (d *debugPlotter) record(frame int, confidence float64) {
	d.samples = append(d.samples, plotter.XY{X: float64(frame), Y: confidence})
	if len(d.samples) > debugMaxSamples {
		d.samples = d.samples[1:]
	}
}

// flush writes the plot at most once every debugFlushEvery frames.
func (d *debugPlotter) flush(frame int) {
	if d.dir == "" || len(d.samples) < 2 {
		return
	}
	if d.lastFlush != 0 && frame-d.lastFlush < debugFlushEvery {
		return
	}
	d.lastFlush = frame
	if err := d.save(); err != nil && !d.errLogged {
		d.errLogged = true
		if d.logger != nil {
			d.logger.Warn("debug plot failed", "dir", d.dir, "error", err)
		}
	}
}

func (d *debugPlotter) save() error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return errors.Wrap(err, "create debug dir")
	}
	p := plot.New()
	p.Title.Text = "Tracker confidence"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "score"
	line, err := plotter.NewLine(d.samples)
	if err != nil {
		return errors.Wrap(err, "confidence line")
	}
	line.Width = vg.Points(1)
	p.Add(line)
	file := filepath.Join(d.dir, "confidence.png")
	return p.Save(8*vg.Inch, 3*vg.Inch, file)
}
