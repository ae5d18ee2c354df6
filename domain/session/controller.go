package session

import (
	"context"
	"image"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/soocke/pixel-track-go/config"
	"github.com/soocke/pixel-track-go/domain/geom"
	"github.com/soocke/pixel-track-go/domain/selection"
	"github.com/soocke/pixel-track-go/domain/tracking"
)

// ErrNoFirstFrame is returned by Start when the source yields nothing.
var ErrNoFirstFrame = errors.New("frame source yielded no first frame")

// EndMessage is shown once the source is exhausted.
const EndMessage = "End of sequence, press any key to exit."

// DefaultPollTimeout bounds the key poll of every tick.
const DefaultPollTimeout = 2 * time.Millisecond

// Display is the surface the session renders to and reads keys from.
type Display interface {
	Show(frame image.Image)
	// PollKey waits at most timeout for a key press.
	PollKey(timeout time.Duration) (string, bool)
	Message(text string)
}

// FrameSource yields frames in order until io.EOF.
type FrameSource interface {
	Next() (*image.RGBA, error)
}

// Recycler is implemented by sources that reuse frame buffers.
type Recycler interface {
	RecycleFrame(img *image.RGBA)
}

// Snapshot is a read-only view of the session for status displays.
type Snapshot struct {
	ID         string
	State      State
	Selection  selection.Phase
	Frames     int
	Elapsed    time.Duration
	Confidence float64
	Box        geom.BoundingBox
	HasBox     bool
}

// Controller drives the interactive loop one tick at a time. It owns the
// playback and tracking flags and the region selector. It is not safe for
// concurrent use: pointer callbacks and ticks must come from one goroutine,
// normally the display's event loop.
type Controller struct {
	id       string
	cfg      *config.Config
	src      FrameSource
	tracker  tracking.Tracker
	display  Display
	selector *selection.Selector
	logger   *slog.Logger

	state     State
	listeners []Listener

	current *image.RGBA
	box     geom.BoundingBox
	hasBox  bool

	shown      *image.RGBA
	shownBoxes []geom.BoundingBox

	started     time.Time
	frames      int
	pollTimeout time.Duration
	now         func() time.Time
}

// New wires a controller. The session starts Paused and Uninitialized.
func New(cfg *config.Config, src FrameSource, tracker tracking.Tracker, display Display, logger *slog.Logger) *Controller {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.NewString()
	c := &Controller{
		id:          id,
		cfg:         cfg,
		src:         src,
		tracker:     tracker,
		display:     display,
		logger:      logger.With("session", id),
		pollTimeout: DefaultPollTimeout,
		now:         time.Now,
	}
	c.selector = selection.NewSelector(c, c.logger)
	return c
}

// SetPollTimeout overrides the per-tick key poll bound.
func (c *Controller) SetPollTimeout(d time.Duration) {
	if d > 0 {
		c.pollTimeout = d
	}
}

// ID returns the session identifier used in log lines.
func (c *Controller) ID() string { return c.id }

// Selector returns the region selector fed by pointer events.
func (c *Controller) Selector() *selection.Selector { return c.selector }

// State returns the current flags.
func (c *Controller) State() State { return c.state }

// AddListener registers a listener for state changes.
func (c *Controller) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Paused implements selection.Gate.
func (c *Controller) Paused() bool { return c.state.Playback == Paused }

// Resume implements selection.Gate. A committed selection resumes playback
// on the same tick.
func (c *Controller) Resume() { c.setPlayback(Running) }

// Start pulls and shows the first frame.
func (c *Controller) Start() error {
	if c.src == nil {
		return errors.Wrap(ErrNoFirstFrame, "no frame source")
	}
	frame, err := c.src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrNoFirstFrame
		}
		return errors.Wrap(err, "read first frame")
	}
	c.current = frame
	c.frames = 1
	c.started = c.now()
	c.logger.Info("session started", "state", c.state.String(),
		"width", frame.Bounds().Dx(), "height", frame.Bounds().Dy())
	c.render()
	return nil
}

// Tick runs one iteration of the loop. A non-nil error always comes with Quit.
func (c *Controller) Tick() (Outcome, error) {
	if c.current == nil {
		return Quit, errors.New("tick before start")
	}
	if c.state.Tracking == Ended {
		c.render()
		if _, ok := c.display.PollKey(c.pollTimeout); ok {
			c.logger.Info("session finished", "frames", c.frames)
			return Quit, nil
		}
		return Continue, nil
	}

	if c.state.Playback == Running {
		switch {
		case c.state.Tracking == Uninitialized:
			box, ok := c.selector.Committed()
			if !ok {
				break
			}
			if err := c.tracker.Initialise(c.current, box); err != nil {
				return Quit, errors.Wrap(err, "initialise tracker")
			}
			c.box, c.hasBox = box, true
			c.setTracking(Initialized)
		case c.state.Tracking == Initialized:
			frame, err := c.src.Next()
			if errors.Is(err, io.EOF) {
				c.setTracking(Ended)
				c.render()
				c.drainKeys()
				c.display.Message(EndMessage)
				return Continue, nil
			}
			if err != nil {
				return Quit, errors.Wrap(err, "read frame")
			}
			c.advance(frame)
			if err := c.tracker.Track(frame); err != nil {
				return Quit, errors.Wrapf(err, "track frame %d", c.frames)
			}
			if c.cfg.DebugEnabled() {
				c.tracker.Debug()
			}
			c.box, c.hasBox = c.tracker.GetBB(), true
		}
	}

	c.render()
	return c.pollKeys(), nil
}

// Run ticks until the session quits or ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	if c.current == nil {
		if err := c.Start(); err != nil {
			return err
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := c.Tick()
		if err != nil {
			return err
		}
		if out == Quit {
			return nil
		}
	}
}

// Snapshot returns the values shown by status displays.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		ID:        c.id,
		State:     c.state,
		Selection: c.selector.Phase(),
		Frames:    c.frames,
		Box:       c.box,
		HasBox:    c.hasBox,
	}
	if !c.started.IsZero() {
		s.Elapsed = c.now().Sub(c.started)
	}
	if cr, ok := c.tracker.(tracking.ConfidenceReporter); ok && c.state.Tracking != Uninitialized {
		s.Confidence = cr.Confidence()
	}
	return s
}

func (c *Controller) pollKeys() Outcome {
	key, ok := c.display.PollKey(c.pollTimeout)
	if !ok {
		return Continue
	}
	switch key {
	case KeyQuit, KeyEscape:
		c.logger.Info("quit requested", "key", key, "frames", c.frames)
		return Quit
	case KeyPause:
		if c.state.Playback == Paused {
			c.setPlayback(Running)
		} else {
			c.setPlayback(Paused)
		}
	}
	return Continue
}

// drainKeys drops keys pressed before the end message, so only a later
// press acknowledges it.
func (c *Controller) drainKeys() {
	for {
		if _, ok := c.display.PollKey(0); !ok {
			return
		}
	}
}

// advance replaces the displayed frame, returning the old one to its pool.
func (c *Controller) advance(frame *image.RGBA) {
	prev := c.current
	c.current = frame
	c.shown = nil
	c.frames++
	if prev == nil || prev == frame {
		return
	}
	if r, ok := c.src.(Recycler); ok {
		r.RecycleFrame(prev)
	}
}

// render shows the current frame with its overlays. The display is left
// alone when neither the frame nor the boxes changed since the last call.
func (c *Controller) render() {
	if c.display == nil || c.current == nil {
		return
	}
	var boxes []geom.BoundingBox
	if c.hasBox {
		boxes = append(boxes, c.box)
	}
	if p, ok := c.selector.Preview(); ok {
		boxes = append(boxes, p)
	}
	if c.current == c.shown && slices.Equal(boxes, c.shownBoxes) {
		return
	}
	c.shown, c.shownBoxes = c.current, boxes
	if len(boxes) == 0 {
		c.display.Show(c.current)
		return
	}
	c.display.Show(overlay(c.current, boxes...))
}

func (c *Controller) setPlayback(p Playback) {
	next := c.state
	next.Playback = p
	c.transition(next)
}

func (c *Controller) setTracking(t TrackingState) {
	next := c.state
	next.Tracking = t
	c.transition(next)
}

func (c *Controller) transition(next State) {
	prev := c.state
	if prev == next {
		return
	}
	c.state = next
	c.logger.Debug("session transition", "from", prev.String(), "to", next.String())
	for _, l := range c.listeners {
		l(prev, next)
	}
}

var _ selection.Gate = (*Controller)(nil)
