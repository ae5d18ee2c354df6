package source

import (
	"image"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vova616/screenshot"
)

// screenSource grabs the primary screen (or a region of it) on every Next.
// It never reaches end-of-stream.
type screenSource struct {
	region *image.Rectangle
	opened bool
}

// newScreenSource parses an optional "x,y,w,h" region.
func newScreenSource(region string) (*screenSource, error) {
	s := &screenSource{opened: true}
	if region == "" {
		return s, nil
	}
	parts := strings.Split(region, ",")
	if len(parts) != 4 {
		return nil, errors.Errorf("screen region %q: want x,y,w,h", region)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrapf(err, "screen region %q", region)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return nil, errors.Errorf("screen region %q: empty size", region)
	}
	r := image.Rect(vals[0], vals[1], vals[0]+vals[2], vals[1]+vals[3])
	s.region = &r
	return s, nil
}

func (s *screenSource) IsOpened() bool { return s.opened }

// Next captures the configured region, or the whole screen.
func (s *screenSource) Next() (*image.RGBA, error) {
	var (
		img *image.RGBA
		err error
	)
	if s.region != nil {
		img, err = screenshot.CaptureRect(*s.region)
	} else {
		img, err = screenshot.CaptureScreen()
	}
	if err != nil {
		return nil, errors.Wrap(err, "screen capture")
	}
	if img.Rect.Min != (image.Point{}) {
		return toPooledRGBA(img), nil
	}
	return img, nil
}

func (s *screenSource) RecycleFrame(img *image.RGBA) { RecycleFrame(img) }

func (s *screenSource) Close() error {
	s.opened = false
	return nil
}
