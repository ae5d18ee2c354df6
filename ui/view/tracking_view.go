package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/pixel-track-go/domain/geom"
	"github.com/soocke/pixel-track-go/ui/images"
	"github.com/soocke/pixel-track-go/ui/model"
	"github.com/soocke/pixel-track-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PointerHandler receives pointer events in frame coordinates.
type PointerHandler interface {
	Press(p geom.Point)
	Move(p geom.Point)
	Release(p geom.Point)
}

const (
	// Max preview dimensions; larger frames are scaled down for display only.
	maxPreviewW = 1280
	maxPreviewH = 720
	frameBorder = 0
)

// TrackingView is the single window of the tracker: a state row, the frame
// preview and a message line. It implements the session display surface:
// frames are shown in the preview label and key presses are queued until
// the session polls them.
type TrackingView struct {
	logger *slog.Logger

	// Widgets
	StateLabel   *TLabelWidget
	MessageLabel *LabelWidget
	Stats        SessionStats
	frameLabel   *LabelWidget
	prevPhoto    *Img // last Tk photo image instance, deleted on replace

	keys    *model.KeyQueue
	mapper  *model.PointerMapper
	pointer PointerHandler
	maxW    int
	maxH    int
}

// NewTrackingView returns an unbuilt view. Zero max sizes use the defaults.
func NewTrackingView(logger *slog.Logger, maxW, maxH int) *TrackingView {
	if maxW <= 0 {
		maxW = maxPreviewW
	}
	if maxH <= 0 {
		maxH = maxPreviewH
	}
	return &TrackingView{
		logger: logger,
		keys:   model.NewKeyQueue(0),
		mapper: model.NewPointerMapper(frameBorder),
		maxW:   maxW,
		maxH:   maxH,
	}
}

// Build constructs the layout and binds pointer and keyboard input.
func (v *TrackingView) Build(title string, pointer PointerHandler, onExit func()) {
	if v == nil {
		return
	}
	theme.InitStyles()
	App.WmTitle(title)
	v.pointer = pointer

	// Row 0: state label, stats, exit button
	v.StateLabel = TLabel(Txt("State: <none>"), Style(theme.StyleStateLabel))
	Grid(v.StateLabel, Row(0), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	statsFrame := Frame()
	Grid(statsFrame, Row(0), Column(1), Columnspan(3), Sticky("w"), Padx("0.3m"), Pady("0.3m"))
	v.Stats = NewSessionStats(statsFrame, 0, 0)
	exitBtn := TButton(Txt("Exit [q]"), Style(theme.StyleDangerButton), Command(onExit))
	Grid(exitBtn, Row(0), Column(4), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))

	// Row 1: frame preview
	placeholder := image.NewRGBA(image.Rect(0, 0, 320, 240))
	v.prevPhoto = NewPhoto(Data(images.EncodePNG(placeholder)))
	v.frameLabel = Label(Image(v.prevPhoto), Borderwidth(frameBorder), Cursor("crosshair"))
	Grid(v.frameLabel, Row(1), Column(0), Columnspan(5), Padx("0.4m"), Pady("0.4m"))

	// Row 2: message line
	v.MessageLabel = Label(Txt(""), Anchor("w"))
	Grid(v.MessageLabel, Row(2), Column(0), Columnspan(5), Sticky("we"), Padx("0.4m"))

	Bind(v.frameLabel, "<ButtonPress-1>", Command(func(e *Event) {
		if v.pointer != nil {
			v.pointer.Press(v.mapper.ToFrame(e.X, e.Y))
		}
	}))
	Bind(v.frameLabel, "<B1-Motion>", Command(func(e *Event) {
		if v.pointer != nil {
			v.pointer.Move(v.mapper.ToFrame(e.X, e.Y))
		}
	}))
	Bind(v.frameLabel, "<ButtonRelease-1>", Command(func(e *Event) {
		if v.pointer != nil {
			v.pointer.Release(v.mapper.ToFrame(e.X, e.Y))
		}
	}))
	Bind(App, "<KeyPress>", Command(func(e *Event) { v.keys.Push(e.Keysym) }))
}

// Show scales frame for display and replaces the preview photo. The session
// only calls it when the frame or its overlays changed.
func (v *TrackingView) Show(frame image.Image) {
	if v == nil || v.frameLabel == nil || frame == nil {
		return
	}
	scaled, ratio := images.ScaleToFit(frame, v.maxW, v.maxH)
	v.mapper.SetRatio(ratio)
	pngBytes := images.EncodePNG(scaled)
	// guard against panic if widget destroyed
	func() {
		defer func() { _ = recover() }()
		if v.prevPhoto != nil {
			v.prevPhoto.Delete()
		}
		v.prevPhoto = NewPhoto(Data(pngBytes))
		v.frameLabel.Configure(Image(v.prevPhoto))
	}()
}

// PollKey returns the oldest queued key. Tk delivers input between
// scheduled callbacks, so there is nothing to wait for here.
func (v *TrackingView) PollKey(time.Duration) (string, bool) {
	if v == nil {
		return "", false
	}
	return v.keys.Pop()
}

// Message shows text on the message line.
func (v *TrackingView) Message(text string) {
	if v == nil {
		return
	}
	if v.logger != nil {
		v.logger.Info("session message", "text", text)
	}
	if v.MessageLabel != nil {
		func() { defer func() { _ = recover() }(); v.MessageLabel.Configure(Txt(text)) }()
	}
}

// SetStateLabel updates the state label text.
func (v *TrackingView) SetStateLabel(text string) {
	if v != nil && v.StateLabel != nil {
		v.StateLabel.Configure(Txt(text))
	}
}

// SetStats proxies to the stats row.
func (v *TrackingView) SetStats(frames int, running time.Duration, fps, confidence float64) {
	if v != nil && v.Stats != nil {
		v.Stats.SetStats(frames, running, fps, confidence)
	}
}
