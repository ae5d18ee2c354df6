package app

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/soocke/pixel-track-go/config"
	"github.com/soocke/pixel-track-go/domain/session"
	"github.com/soocke/pixel-track-go/domain/source"
	"github.com/soocke/pixel-track-go/domain/tracking"
	"github.com/soocke/pixel-track-go/ui/model"
	"github.com/soocke/pixel-track-go/ui/presenter"
	"github.com/soocke/pixel-track-go/ui/view"
)

// Options tunes the window and the tick schedule.
type Options struct {
	Title string
	// Poll is the delay between session ticks.
	Poll time.Duration
	// Max preview size; zero keeps the view defaults.
	MaxPreviewW int
	MaxPreviewH int
	Dark        bool
}

// AppContainer assembles the tracker, the session, the view and presenters.
type AppContainer struct {
	Config  *config.Config
	Logger  *slog.Logger
	Source  source.FrameSource
	Tracker *tracking.FeatureTracker
	Session *session.Controller
	View    *view.TrackingView
	Model   *model.SessionModel

	// Presenters
	StatePresenter   *presenter.StatePresenter
	SessionPresenter *presenter.SessionPresenter
	Loop             *presenter.Loop
}

// BuildContainer constructs all components. No Tk widgets are created here;
// the view is built by the app once the event loop is about to start.
func BuildContainer(cfg *config.Config, logger *slog.Logger, src source.FrameSource, opts Options) (*AppContainer, error) {
	if src == nil {
		return nil, errors.New("nil frame source")
	}
	tr, err := tracking.New(cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "create tracker")
	}
	c := &AppContainer{Config: cfg, Logger: logger, Source: src, Tracker: tr}
	c.View = view.NewTrackingView(logger, opts.MaxPreviewW, opts.MaxPreviewH)
	c.Session = session.New(cfg, src, tr, c.View, logger)
	if opts.Poll > 0 {
		c.Session.SetPollTimeout(opts.Poll)
	}
	c.Model = model.NewSessionModel()
	c.StatePresenter = presenter.NewStatePresenter(c.Session.Selector(), c.View)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Model, c.Session, c.View)
	c.Session.AddListener(c.StatePresenter.OnTransition)
	// Schedule and Finish are bound by the app wrapper.
	c.Loop = presenter.NewLoop(c.Session, c.StatePresenter, c.SessionPresenter, nil, nil)
	return c, nil
}
