package session

import (
	"context"
	"image"
	"image/color"
	"io"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pixel-track-go/config"
	"github.com/soocke/pixel-track-go/domain/geom"
	"github.com/soocke/pixel-track-go/domain/selection"
)

type fakeSource struct {
	frames   []*image.RGBA
	next     int
	recycled []*image.RGBA
}

func newFakeSource(n int) *fakeSource {
	s := &fakeSource{}
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 60, 60))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p] = uint8(10 * (i + 1))
			img.Pix[p+3] = 255
		}
		s.frames = append(s.frames, img)
	}
	return s
}

func (s *fakeSource) IsOpened() bool { return true }
func (s *fakeSource) Close() error   { return nil }
func (s *fakeSource) Next() (*image.RGBA, error) {
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}
func (s *fakeSource) RecycleFrame(img *image.RGBA) { s.recycled = append(s.recycled, img) }

type fakeTracker struct {
	initFrames []*image.RGBA
	initBoxes  []geom.BoundingBox
	tracked    []*image.RGBA
	debugs     int
	trackErr   error
	bb         geom.BoundingBox
}

func (t *fakeTracker) Initialise(frame *image.RGBA, box geom.BoundingBox) error {
	t.initFrames = append(t.initFrames, frame)
	t.initBoxes = append(t.initBoxes, box)
	t.bb = box
	return nil
}
func (t *fakeTracker) Track(frame *image.RGBA) error {
	if t.trackErr != nil {
		return t.trackErr
	}
	t.tracked = append(t.tracked, frame)
	t.bb = t.bb.Translate(1, 0)
	return nil
}
func (t *fakeTracker) GetBB() geom.BoundingBox { return t.bb }
func (t *fakeTracker) Debug()                  { t.debugs++ }
func (t *fakeTracker) Confidence() float64     { return 0.75 }

type fakeDisplay struct {
	keys      []string
	shown     []image.Image
	messages  []string
	onMessage func(d *fakeDisplay)
}

func (d *fakeDisplay) Show(frame image.Image) { d.shown = append(d.shown, frame) }
func (d *fakeDisplay) PollKey(time.Duration) (string, bool) {
	if len(d.keys) == 0 {
		return "", false
	}
	k := d.keys[0]
	d.keys = d.keys[1:]
	return k, true
}
func (d *fakeDisplay) Message(text string) {
	d.messages = append(d.messages, text)
	if d.onMessage != nil {
		d.onMessage(d)
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Features = []config.Feature{{Type: config.FeatureRaw, Kernel: config.KernelLinear}}
	return cfg
}

func started(t *testing.T, cfg *config.Config, frames int) (*Controller, *fakeSource, *fakeTracker, *fakeDisplay) {
	t.Helper()
	src := newFakeSource(frames)
	tr := &fakeTracker{}
	disp := &fakeDisplay{}
	c := New(cfg, src, tr, disp, nil)
	require.NoError(t, c.Start())
	return c, src, tr, disp
}

func selectBox(c *Controller) {
	s := c.Selector()
	s.Press(geom.Point{X: 10, Y: 10})
	s.Move(geom.Point{X: 5, Y: 40})
	s.Release(geom.Point{X: 5, Y: 40})
}

func TestScenario_SelectInitialiseTrackEnd(t *testing.T) {
	c, src, tr, disp := started(t, testConfig(), 2)
	assert.Equal(t, State{Paused, Uninitialized}, c.State())
	require.Len(t, disp.shown, 1)

	selectBox(c)
	box, ok := c.Selector().Committed()
	require.True(t, ok)
	assert.Equal(t, geom.New(5, 10, 5, 30), box)
	assert.Equal(t, Running, c.State().Playback, "commit resumes playback")

	out, err := c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Continue, out)
	require.Len(t, tr.initFrames, 1)
	assert.Same(t, src.frames[0], tr.initFrames[0])
	assert.Equal(t, box, tr.initBoxes[0])
	assert.Empty(t, tr.tracked)
	assert.Equal(t, Initialized, c.State().Tracking)

	out, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Continue, out)
	require.Len(t, tr.tracked, 1)
	assert.Same(t, src.frames[1], tr.tracked[0])
	assert.Equal(t, []*image.RGBA{src.frames[0]}, src.recycled)

	out, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Continue, out)
	assert.Equal(t, Ended, c.State().Tracking)
	assert.Equal(t, []string{EndMessage}, disp.messages)

	// Waits for acknowledgement without tracking again.
	out, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Continue, out)

	disp.keys = []string{"x"}
	out, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Quit, out)

	assert.Len(t, tr.initFrames, 1)
	assert.Len(t, tr.tracked, 1)
}

func TestQuitWhilePausedBeforeSelection(t *testing.T) {
	for _, key := range []string{KeyQuit, KeyEscape} {
		c, _, tr, disp := started(t, testConfig(), 3)
		disp.keys = []string{key}
		out, err := c.Tick()
		require.NoError(t, err)
		assert.Equal(t, Quit, out, "key %q", key)
		assert.Empty(t, tr.initFrames)
		assert.Empty(t, tr.tracked)
	}
}

func TestPauseToggle(t *testing.T) {
	c, _, _, disp := started(t, testConfig(), 3)
	disp.keys = []string{KeyPause}
	_, err := c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Running, c.State().Playback)

	disp.keys = []string{KeyPause}
	_, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Paused, c.State().Playback)
}

func TestRunningWithoutSelectionIsNoop(t *testing.T) {
	c, src, tr, disp := started(t, testConfig(), 3)
	disp.keys = []string{KeyPause}
	_, err := c.Tick()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := c.Tick()
		require.NoError(t, err)
	}
	assert.Equal(t, 1, src.next, "no frame pulled before a selection")
	assert.Empty(t, tr.initFrames)
	assert.Len(t, disp.shown, 1, "unchanged frame is not shown again")
}

func TestRender_OnlyWhenFrameOrBoxesChange(t *testing.T) {
	c, src, _, disp := started(t, testConfig(), 3)
	require.Len(t, disp.shown, 1)

	c.Selector().Press(geom.Point{X: 20, Y: 20})
	c.Selector().Move(geom.Point{X: 40, Y: 30})
	for i := 0; i < 3; i++ {
		_, err := c.Tick()
		require.NoError(t, err)
	}
	require.Len(t, disp.shown, 2, "preview drawn once while it stays put")

	c.Selector().Move(geom.Point{X: 45, Y: 30})
	_, err := c.Tick()
	require.NoError(t, err)
	require.Len(t, disp.shown, 3)

	c.Selector().Release(geom.Point{X: 45, Y: 30})
	for i := 0; i < 3; i++ {
		_, err := c.Tick()
		require.NoError(t, err)
	}
	// initialise, then two tracked frames.
	require.Len(t, disp.shown, 6)
	assert.Equal(t, 3, src.next)
}

func TestZeroAreaSelectionInitialisesTracker(t *testing.T) {
	c, _, tr, _ := started(t, testConfig(), 3)
	s := c.Selector()
	s.Press(geom.Point{X: 10, Y: 10})
	s.Release(geom.Point{X: 10, Y: 40})

	box, ok := s.Committed()
	require.True(t, ok)
	assert.Equal(t, geom.New(10, 10, 0, 30), box)
	assert.Equal(t, Running, c.State().Playback)

	_, err := c.Tick()
	require.NoError(t, err)
	require.Len(t, tr.initBoxes, 1)
	assert.Equal(t, box, tr.initBoxes[0])
	assert.Equal(t, Initialized, c.State().Tracking)
}

func TestEnded_EarlierKeyIsNotAcknowledgement(t *testing.T) {
	c, _, _, disp := started(t, testConfig(), 2)
	selectBox(c)
	for i := 0; i < 2; i++ {
		_, err := c.Tick()
		require.NoError(t, err)
	}
	require.Equal(t, Initialized, c.State().Tracking)

	// Pressed before the source runs out.
	disp.keys = []string{KeyPause}
	out, err := c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Continue, out)
	require.Equal(t, Ended, c.State().Tracking)

	out, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Continue, out, "key queued before the end message must not quit")

	disp.keys = []string{"x"}
	out, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Quit, out)
}

func TestPressIgnoredWhileRunning(t *testing.T) {
	c, _, _, disp := started(t, testConfig(), 3)
	disp.keys = []string{KeyPause}
	_, err := c.Tick()
	require.NoError(t, err)

	c.Selector().Press(geom.Point{X: 1, Y: 1})
	assert.Equal(t, selection.PhaseIdle, c.Selector().Phase())
}

func TestInitialiseCalledOnce(t *testing.T) {
	c, _, tr, _ := started(t, testConfig(), 5)
	selectBox(c)
	for i := 0; i < 10; i++ {
		_, err := c.Tick()
		require.NoError(t, err)
	}
	assert.Len(t, tr.initFrames, 1)
	assert.Len(t, tr.tracked, 4)
	assert.Equal(t, Ended, c.State().Tracking)
}

func TestDebugGatedByConfig(t *testing.T) {
	cases := []struct {
		name         string
		quiet, debug bool
		want         int
	}{
		{"debug", false, true, 2},
		{"quiet wins", true, true, 0},
		{"off", false, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.QuietMode, cfg.DebugMode = tc.quiet, tc.debug
			c, _, tr, _ := started(t, cfg, 3)
			selectBox(c)
			for i := 0; i < 3; i++ {
				_, err := c.Tick()
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, tr.debugs)
		})
	}
}

func TestTrackErrorEndsSession(t *testing.T) {
	c, _, tr, _ := started(t, testConfig(), 3)
	tr.trackErr = errors.New("boom")
	selectBox(c)
	_, err := c.Tick()
	require.NoError(t, err)
	out, err := c.Tick()
	assert.Equal(t, Quit, out)
	assert.ErrorIs(t, err, tr.trackErr)
}

func TestStart_EmptySource(t *testing.T) {
	c := New(testConfig(), newFakeSource(0), &fakeTracker{}, &fakeDisplay{}, nil)
	assert.ErrorIs(t, c.Start(), ErrNoFirstFrame)
}

func TestOverlayDrawnOnCopy(t *testing.T) {
	c, src, _, disp := started(t, testConfig(), 2)
	selectBox(c)
	_, err := c.Tick()
	require.NoError(t, err)

	shown, ok := disp.shown[len(disp.shown)-1].(*image.RGBA)
	require.True(t, ok)
	assert.NotSame(t, src.frames[0], shown)
	assert.Equal(t, overlayColor, shown.RGBAAt(5, 10))
	assert.Equal(t, color.RGBA{10, 0, 0, 255}, src.frames[0].RGBAAt(5, 10))
}

func TestDragPreviewRenderedWhilePaused(t *testing.T) {
	c, _, _, disp := started(t, testConfig(), 2)
	c.Selector().Press(geom.Point{X: 20, Y: 20})
	c.Selector().Move(geom.Point{X: 40, Y: 30})
	_, err := c.Tick()
	require.NoError(t, err)

	shown := disp.shown[len(disp.shown)-1].(*image.RGBA)
	assert.Equal(t, overlayColor, shown.RGBAAt(20, 20))
	assert.Equal(t, Paused, c.State().Playback)
}

func TestListenersSeeTransitions(t *testing.T) {
	c, _, _, _ := started(t, testConfig(), 1)
	var seen []string
	c.AddListener(func(prev, next State) { seen = append(seen, prev.String()+">"+next.String()) })
	selectBox(c)
	for i := 0; i < 2; i++ {
		_, err := c.Tick()
		require.NoError(t, err)
	}
	assert.Equal(t, []string{
		"paused/uninitialized>running/uninitialized",
		"running/uninitialized>running/initialized",
		"running/initialized>running/ended",
	}, seen)
}

func TestRun_UntilAcknowledged(t *testing.T) {
	c, _, tr, disp := started(t, testConfig(), 4)
	disp.onMessage = func(d *fakeDisplay) { d.keys = append(d.keys, "space") }
	selectBox(c)
	require.NoError(t, c.Run(context.Background()))
	assert.Len(t, tr.tracked, 3)
}

func TestRun_ContextCancelled(t *testing.T) {
	c, _, _, _ := started(t, testConfig(), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}

func TestSnapshot(t *testing.T) {
	c, _, _, _ := started(t, testConfig(), 3)
	base := time.Unix(100, 0)
	c.started = base
	c.now = func() time.Time { return base.Add(3 * time.Second) }

	s := c.Snapshot()
	assert.Equal(t, 1, s.Frames)
	assert.Zero(t, s.Confidence)
	assert.Equal(t, 3*time.Second, s.Elapsed)
	assert.NotEmpty(t, s.ID)

	selectBox(c)
	for i := 0; i < 2; i++ {
		_, err := c.Tick()
		require.NoError(t, err)
	}
	s = c.Snapshot()
	assert.Equal(t, 2, s.Frames)
	assert.True(t, s.HasBox)
	assert.Equal(t, 0.75, s.Confidence)
	assert.Equal(t, geom.New(6, 10, 5, 30), s.Box)
}
