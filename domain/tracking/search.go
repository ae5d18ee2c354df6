package tracking

import (
	"image"
	"math"

	"github.com/soocke/pixel-track-go/domain/geom"
)

// searchWindow returns the frame rectangle of size w x h centred at (cx, cy),
// shifted and clamped to bounds. The result is at least 1x1.
func searchWindow(bounds image.Rectangle, cx, cy, w, h int) image.Rectangle {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	x0 := cx - w/2
	y0 := cy - h/2
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	if x0+w > bounds.Max.X {
		w = bounds.Max.X - x0
	}
	if y0+h > bounds.Max.Y {
		h = bounds.Max.Y - y0
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Rect(x0, y0, x0+w, y0+h)
}

// candidates samples boxes whose centres lie on a grid of the given stride
// inside a disc of radius around centre. The box at centre is always first.
func candidates(box geom.BoundingBox, centre geom.Point, radius, stride int, bounds image.Rectangle) []geom.BoundingBox {
	if stride < 1 {
		stride = 1
	}
	origin := box.CenteredAt(centre).Clamp(bounds)
	out := []geom.BoundingBox{origin}
	r2 := float64(radius * radius)
	for dy := -radius; dy <= radius; dy += stride {
		for dx := -radius; dx <= radius; dx += stride {
			if dx == 0 && dy == 0 {
				continue
			}
			if float64(dx*dx+dy*dy) > r2 {
				continue
			}
			out = append(out, origin.Translate(float64(dx), float64(dy)).Clamp(bounds))
		}
	}
	return out
}

// searchRegion returns the rectangle that covers every candidate around centre.
func searchRegion(box geom.BoundingBox, centre geom.Point, radius int, bounds image.Rectangle) image.Rectangle {
	w := int(math.Ceil(box.Width)) + 2*radius + 2
	h := int(math.Ceil(box.Height)) + 2*radius + 2
	return searchWindow(bounds, int(math.Round(centre.X)), int(math.Round(centre.Y)), w, h)
}
