package geom

import (
	"image"
	"math"
)

// Point is a real-valued position in frame coordinates.
type Point struct {
	X float64
	Y float64
}

// BoundingBox is an axis-aligned region given by its top-left corner and size.
// It is a value type: every operation returns a new box and never mutates the receiver.
type BoundingBox struct {
	XMin   float64
	YMin   float64
	Width  float64
	Height float64
}

// New returns a box with the given top-left corner and size.
func New(xMin, yMin, width, height float64) BoundingBox {
	return BoundingBox{XMin: xMin, YMin: yMin, Width: width, Height: height}
}

// FromPoints builds the box spanned by an anchor and a second point. The
// min/abs form keeps width and height non-negative whichever quadrant the
// second point lies in relative to the anchor.
func FromPoints(anchor, current Point) BoundingBox {
	return BoundingBox{
		XMin:   math.Min(anchor.X, current.X),
		YMin:   math.Min(anchor.Y, current.Y),
		Width:  math.Abs(current.X - anchor.X),
		Height: math.Abs(current.Y - anchor.Y),
	}
}

// Valid reports whether width and height are both non-negative.
func (b BoundingBox) Valid() bool {
	return b.Width >= 0 && b.Height >= 0
}

// Empty reports whether the box covers no area.
func (b BoundingBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// TopLeft returns (XMin, YMin).
func (b BoundingBox) TopLeft() Point {
	return Point{X: b.XMin, Y: b.YMin}
}

// BottomRight returns (XMin+Width, YMin+Height).
func (b BoundingBox) BottomRight() Point {
	return Point{X: b.XMin + b.Width, Y: b.YMin + b.Height}
}

// Center returns the box centre.
func (b BoundingBox) Center() Point {
	return Point{X: b.XMin + b.Width/2.0, Y: b.YMin + b.Height/2.0}
}

// CenteredAt returns a box of the same size whose centre is c.
func (b BoundingBox) CenteredAt(c Point) BoundingBox {
	return BoundingBox{XMin: c.X - b.Width/2.0, YMin: c.Y - b.Height/2.0, Width: b.Width, Height: b.Height}
}

// Translate returns the box shifted by (dx, dy).
func (b BoundingBox) Translate(dx, dy float64) BoundingBox {
	return BoundingBox{XMin: b.XMin + dx, YMin: b.YMin + dy, Width: b.Width, Height: b.Height}
}

// Rect rounds the box to an integer rectangle for rendering.
func (b BoundingBox) Rect() image.Rectangle {
	tl, br := b.TopLeft(), b.BottomRight()
	return image.Rect(
		int(math.Round(tl.X)), int(math.Round(tl.Y)),
		int(math.Round(br.X)), int(math.Round(br.Y)),
	)
}

// Clamp shifts the box so it lies inside bounds, shrinking it only when it
// is larger than bounds.
func (b BoundingBox) Clamp(bounds image.Rectangle) BoundingBox {
	minX, minY := float64(bounds.Min.X), float64(bounds.Min.Y)
	maxX, maxY := float64(bounds.Max.X), float64(bounds.Max.Y)
	out := b
	if out.Width > maxX-minX {
		out.Width = maxX - minX
	}
	if out.Height > maxY-minY {
		out.Height = maxY - minY
	}
	if out.XMin < minX {
		out.XMin = minX
	}
	if out.YMin < minY {
		out.YMin = minY
	}
	if out.XMin+out.Width > maxX {
		out.XMin = maxX - out.Width
	}
	if out.YMin+out.Height > maxY {
		out.YMin = maxY - out.Height
	}
	return out
}

// IoU returns the intersection over union of two boxes.
func IoU(b1, b2 BoundingBox) float64 {
	xA := math.Max(b1.XMin, b2.XMin)
	yA := math.Max(b1.YMin, b2.YMin)
	xB := math.Min(b1.XMin+b1.Width, b2.XMin+b2.Width)
	yB := math.Min(b1.YMin+b1.Height, b2.YMin+b2.Height)

	interArea := math.Max(0, xB-xA) * math.Max(0, yB-yA)
	if interArea == 0 {
		return 0.0
	}
	union := b1.Width*b1.Height + b2.Width*b2.Height - interArea
	if union <= 0 {
		return 0.0
	}
	return interArea / union
}
