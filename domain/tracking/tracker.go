package tracking

import (
	"image"
	"log/slog"
	"math"

	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"

	"github.com/soocke/pixel-track-go/config"
	"github.com/soocke/pixel-track-go/domain/geom"
)

// ErrNotInitialised is returned by Track before Initialise succeeded.
var ErrNotInitialised = errors.New("tracker not initialised")

// Tracker is the contract the session requires from a tracking algorithm.
// Initialise is called exactly once, before any Track call. GetBB is a pure
// read of the latest estimate. Debug is a fire-and-forget diagnostic hook.
type Tracker interface {
	Initialise(frame *image.RGBA, box geom.BoundingBox) error
	Track(frame *image.RGBA) error
	GetBB() geom.BoundingBox
	Debug()
}

// ConfidenceReporter is implemented by trackers that score their estimate.
type ConfidenceReporter interface {
	Confidence() float64
}

// FeatureTracker follows a single target by scoring candidate boxes around a
// Kalman-predicted centre against an appearance template built from the
// configured features. The template adapts with the configured learning rate.
type FeatureTracker struct {
	logger       *slog.Logger
	models       []featureModel
	searchRadius int
	searchStride int
	learningRate float64

	kf          *kalman_filter.KalmanBBox
	bb          geom.BoundingBox
	predicted   geom.BoundingBox
	initialised bool
	frames      int
	confidence  float64

	debug *debugPlotter
}

// New builds a tracker from cfg. The config must list at least one feature.
func New(cfg *config.Config, logger *slog.Logger) (*FeatureTracker, error) {
	if cfg == nil || len(cfg.Features) == 0 {
		return nil, config.ErrNoFeatures
	}
	t := &FeatureTracker{
		logger:       logger,
		searchRadius: cfg.SearchRadius,
		searchStride: cfg.SearchStride,
		learningRate: cfg.LearningRate,
		debug:        newDebugPlotter(cfg.DebugDir, logger),
	}
	for _, f := range cfg.Features {
		t.models = append(t.models, newFeatureModel(f))
	}
	return t, nil
}

// Initialise seeds the appearance template and motion model. Boxes of zero
// width or height are widened to one pixel.
func (t *FeatureTracker) Initialise(frame *image.RGBA, box geom.BoundingBox) error {
	if frame == nil || frame.Bounds().Empty() {
		return errors.New("initialise: empty frame")
	}
	if !box.Valid() {
		return errors.Errorf("initialise: invalid box %+v", box)
	}
	// A zero-size selection is sampled as a 1px patch.
	box.Width = math.Max(box.Width, 1)
	box.Height = math.Max(box.Height, 1)
	box = box.Clamp(frame.Bounds())
	plane := newGrayPlane(frame, box.Rect().Inset(-1))
	for i := range t.models {
		t.models[i].template = t.models[i].extract(plane, box)
	}
	c := box.Center()
	// Motion model props: constant velocity, no control input.
	t.kf = kalman_filter.NewKalmanBBox(
		1.0, 0.0, 0.0, 0.0, 0.0,
		2.0, 0.1, 0.1, 0.1, 0.1,
		kalman_filter.WithStateBBox(c.X, c.Y, box.Width, box.Height),
	)
	t.bb = box
	t.predicted = box
	t.confidence = 1
	t.frames = 1
	t.initialised = true
	t.debug.reset()
	t.debug.record(t.frames, t.confidence)
	if t.logger != nil {
		t.logger.Info("tracker initialised", "features", len(t.models),
			"x", box.XMin, "y", box.YMin, "w", box.Width, "h", box.Height)
	}
	return nil
}

// Track locates the target in frame and updates the estimate.
func (t *FeatureTracker) Track(frame *image.RGBA) error {
	if !t.initialised {
		return ErrNotInitialised
	}
	if frame == nil || frame.Bounds().Empty() {
		return errors.New("track: empty frame")
	}
	bounds := frame.Bounds()

	t.kf.Predict()
	cx, cy, _, _ := t.kf.GetState()
	predicted := t.bb.CenteredAt(geom.Point{X: cx, Y: cy}).Clamp(bounds)
	if math.IsNaN(cx) || math.IsNaN(cy) {
		predicted = t.bb.Clamp(bounds)
	}

	centre := predicted.Center()
	region := searchRegion(t.bb, centre, t.searchRadius, bounds).Union(t.bb.Rect().Inset(-1))
	plane := newGrayPlane(frame, region)
	cands := candidates(t.bb, centre, t.searchRadius, t.searchStride, bounds)
	// The previous location is always a candidate.
	cands = append(cands, t.bb.Clamp(bounds))

	best := -math.MaxFloat64
	bestIdx := 0
	var bestFeatures [][]float64
	for i, cand := range cands {
		score, feats := t.score(plane, cand)
		if score > best {
			best, bestIdx, bestFeatures = score, i, feats
		}
	}

	found := cands[bestIdx]
	fc := found.Center()
	if err := t.kf.Update(fc.X, fc.Y, found.Width, found.Height); err != nil {
		return errors.Wrap(err, "can't update motion model")
	}
	for i := range t.models {
		t.models[i].blend(bestFeatures[i], t.learningRate)
	}
	t.predicted = predicted
	t.bb = found
	t.confidence = best
	t.frames++
	t.debug.record(t.frames, best)
	return nil
}

// score returns the weighted mean kernel response of cand and its features.
func (t *FeatureTracker) score(plane *grayPlane, cand geom.BoundingBox) (float64, [][]float64) {
	var total, weights float64
	feats := make([][]float64, len(t.models))
	for i := range t.models {
		m := &t.models[i]
		v := m.extract(plane, cand)
		feats[i] = v
		total += m.weight * m.kernel(m.template, v)
		weights += m.weight
	}
	if weights == 0 {
		return 0, feats
	}
	return total / weights, feats
}

// GetBB returns the current best estimate.
func (t *FeatureTracker) GetBB() geom.BoundingBox { return t.bb }

// Confidence returns the score of the latest estimate.
func (t *FeatureTracker) Confidence() float64 { return t.confidence }

// Debug logs the latest estimate and refreshes the confidence plot.
func (t *FeatureTracker) Debug() {
	if !t.initialised {
		return
	}
	if t.logger != nil {
		t.logger.Debug("tracker state", "frame", t.frames, "confidence", t.confidence,
			"iou_predicted", geom.IoU(t.predicted, t.bb),
			"x", t.bb.XMin, "y", t.bb.YMin, "w", t.bb.Width, "h", t.bb.Height)
	}
	t.debug.flush(t.frames)
}

var (
	_ Tracker            = (*FeatureTracker)(nil)
	_ ConfidenceReporter = (*FeatureTracker)(nil)
)
