package source

import (
	"image"

	"golang.org/x/image/draw"
)

// resized scales every frame of the wrapped source to a fixed size.
type resized struct {
	FrameSource
	width, height int
}

func newResized(src FrameSource, width, height int) *resized {
	return &resized{FrameSource: src, width: width, height: height}
}

func (s *resized) Next() (*image.RGBA, error) {
	img, err := s.FrameSource.Next()
	if err != nil {
		return nil, err
	}
	if img.Rect.Dx() == s.width && img.Rect.Dy() == s.height {
		return img, nil
	}
	dst := acquireFrame(image.Rect(0, 0, s.width, s.height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	if r, ok := s.FrameSource.(Recycler); ok {
		r.RecycleFrame(img)
	}
	return dst, nil
}

func (s *resized) RecycleFrame(img *image.RGBA) { RecycleFrame(img) }
