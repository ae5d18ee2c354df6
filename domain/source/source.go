package source

import (
	"image"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotOpened is returned when a source reference cannot be opened.
var ErrNotOpened = errors.New("could not initialize capturing")

// FrameSource yields frames in display order. Next returns io.EOF once the
// stream is exhausted.
type FrameSource interface {
	IsOpened() bool
	Next() (*image.RGBA, error)
	Close() error
}

// Recycler is implemented by sources that pool frame buffers. Callers hand
// back frames they no longer reference.
type Recycler interface {
	RecycleFrame(*image.RGBA)
}

// StatsProvider is implemented by sources returned from Open.
type StatsProvider interface {
	Stats() Stats
}

// Options tunes how frames are delivered.
type Options struct {
	// Width and Height resize every frame when both are positive.
	Width  int
	Height int
	// StatsEvery logs acquisition statistics every n frames (0 disables).
	StatsEvery int
}

// Open resolves ref to a frame source:
//
//	screen            full primary screen
//	screen:x,y,w,h    screen region
//	<integer>         camera device index
//	<directory>       image sequence (sorted by file name)
//	<glob pattern>    image sequence matching the pattern
//	<file>            video file
func Open(ref string, opts Options, logger *slog.Logger) (FrameSource, error) {
	src, err := open(ref)
	if err != nil {
		return nil, err
	}
	if !src.IsOpened() {
		_ = src.Close()
		return nil, errors.Wrapf(ErrNotOpened, "source %q", ref)
	}
	if opts.Width > 0 && opts.Height > 0 {
		src = newResized(src, opts.Width, opts.Height)
	}
	if logger != nil {
		logger.Info("frame source opened", "ref", ref, "width", opts.Width, "height", opts.Height)
	}
	return newInstrumented(src, logger, opts.StatsEvery), nil
}

func open(ref string) (FrameSource, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.Wrap(ErrNotOpened, "empty source reference")
	}
	if ref == "screen" || strings.HasPrefix(ref, "screen:") {
		return newScreenSource(strings.TrimPrefix(strings.TrimPrefix(ref, "screen"), ":"))
	}
	if id, err := strconv.Atoi(ref); err == nil {
		return newDeviceSource(id)
	}
	if fi, err := os.Stat(ref); err == nil {
		if fi.IsDir() {
			return newDirSequence(ref)
		}
		return newVideoSource(ref)
	}
	if strings.ContainsAny(ref, "*?[") {
		return newGlobSequence(ref)
	}
	return nil, errors.Wrapf(ErrNotOpened, "source %q does not exist", ref)
}
