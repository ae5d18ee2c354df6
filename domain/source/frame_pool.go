package source

import (
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// Reusable frame buffers. Decoders and capture back ends allocate a fresh
// image per frame; we copy those pixels into a pooled *image.RGBA so that a
// long session does not retain one backing slice per frame. Frames handed to
// RecycleFrame must no longer be referenced by the caller.

var framePool sync.Pool // stores *image.RGBA

// acquireFrame returns a reusable RGBA image sized to rect with origin (0,0).
func acquireFrame(rect image.Rectangle) *image.RGBA {
	w, h := rect.Dx(), rect.Dy()
	bounds := image.Rect(0, 0, w, h)
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: image.Rectangle{}}
	}
	needed := w * h * 4
	var img *image.RGBA
	if v := framePool.Get(); v != nil {
		img = v.(*image.RGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		img = &image.RGBA{Pix: make([]byte, needed), Stride: w * 4, Rect: bounds}
	} else {
		img.Stride = w * 4
		img.Rect = bounds
		img.Pix = img.Pix[:needed]
	}
	return img
}

// toPooledRGBA copies src into a pooled frame whose origin is (0,0).
func toPooledRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := acquireFrame(b)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// RecycleFrame returns the frame to the pool for potential reuse.
func RecycleFrame(img *image.RGBA) {
	if img == nil || img.Pix == nil {
		return
	}
	framePool.Put(img)
}
