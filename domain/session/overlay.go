package session

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/soocke/pixel-track-go/domain/geom"
)

var overlayColor = color.RGBA{0, 0, 255, 255}

const overlayThickness = 2

// overlay returns a copy of frame with every box outlined. The source frame
// is left untouched.
func overlay(frame *image.RGBA, boxes ...geom.BoundingBox) *image.RGBA {
	out := image.NewRGBA(frame.Bounds())
	draw.Draw(out, out.Bounds(), frame, frame.Bounds().Min, draw.Src)
	for _, b := range boxes {
		outline(out, b.Rect(), overlayThickness, overlayColor)
	}
	return out
}

func outline(img *image.RGBA, r image.Rectangle, t int, c color.RGBA) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(img.Bounds()), src, image.Point{}, draw.Src)
	}
}
