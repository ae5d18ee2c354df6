package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/pixel-track-go/config"
	"github.com/soocke/pixel-track-go/debug"
	"github.com/soocke/pixel-track-go/domain/source"
	"github.com/soocke/pixel-track-go/ui/theme"
)

const defaultTick = 10 * time.Millisecond

type app struct {
	c       *AppContainer
	logger  *slog.Logger
	opts    Options
	afterID string
	err     error
	done    bool
}

// Run builds the window, drives the session from the Tk event loop and
// blocks until the session quits. A nil error means the operator quit or
// acknowledged the end of the sequence.
func Run(cfg *config.Config, src source.FrameSource, logger *slog.Logger, opts Options) error {
	c, err := BuildContainer(cfg, logger, src, opts)
	if err != nil {
		return err
	}
	if opts.Poll <= 0 {
		opts.Poll = defaultTick
	}
	if opts.Title == "" {
		opts.Title = "Pixel Track"
	}
	a := &app{c: c, logger: logger, opts: opts}
	return a.run()
}

func (a *app) run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if a.c.Config.DebugEnabled() {
		debug.Start(ctx, time.Second, a.logger)
	}

	a.c.Loop.Schedule = a.scheduleUpdate
	a.c.Loop.Finish = a.finish

	a.c.View.Build(a.opts.Title, a.c.Session.Selector(), a.exitHandler)
	if a.opts.Dark {
		theme.SetDark(true)
	}
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)

	if err := a.c.Session.Start(); err != nil {
		Destroy(App)
		return errors.Wrap(err, "start session")
	}
	a.logger.Info("session ready", "session", a.c.Session.ID(), "poll", a.opts.Poll.String())
	a.scheduleUpdate()
	App.Wait()

	a.logSummary()
	return a.err
}

func (a *app) update() {
	defer a.recoverLog("update")
	a.c.Loop.Tick()
}

func (a *app) scheduleUpdate() {
	// TclAfter keeps every tick on Tk's event loop thread, interleaved with
	// pointer and key callbacks.
	a.afterID = TclAfter(a.opts.Poll, func() { a.update() })
}

// exitHandler closes the window as if the quit key had been pressed.
func (a *app) exitHandler() {
	a.logger.Info("window closed", "session", a.c.Session.ID())
	a.finish(nil)
}

func (a *app) finish(err error) {
	if a.done {
		return
	}
	a.done = true
	a.err = err
	if err != nil {
		a.logger.Error("session failed", "session", a.c.Session.ID(), "error", err)
	}
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	func() { defer func() { _ = recover() }(); Destroy(App) }()
}

// recoverLog turns a panic inside a Tk callback into a session error.
func (a *app) recoverLog(where string) {
	if r := recover(); r != nil {
		a.logger.Error("panic recovered", "where", where, "panic", r)
		a.finish(errors.Errorf("panic in %s: %v", where, r))
	}
}

func (a *app) logSummary() {
	snap := a.c.Session.Snapshot()
	attrs := []any{
		"session", snap.ID,
		"state", snap.State.String(),
		"frames", snap.Frames,
		"elapsed", snap.Elapsed.String(),
		"confidence", snap.Confidence,
		"loop_finished", a.c.Loop.Done(),
	}
	if sp, ok := a.c.Source.(source.StatsProvider); ok {
		st := sp.Stats()
		attrs = append(attrs, "source_frames", st.Frames, "source_errors", st.Errors,
			"avg_acquire", st.AvgAcquire.String(), "source_exhausted", st.Exhausted)
		if !st.LastFrame.IsZero() {
			attrs = append(attrs, "last_frame", st.LastFrame.Format(time.RFC3339Nano))
		}
	}
	a.logger.Info("session summary", attrs...)
}
