package model

import (
	"github.com/soocke/pixel-track-go/domain/geom"
)

// KeyQueue buffers key presses delivered by the UI between session ticks.
// Oldest keys are dropped once the queue holds max entries.
type KeyQueue struct {
	keys []string
	max  int
}

// NewKeyQueue returns a queue holding at most max keys (16 if max <= 0).
func NewKeyQueue(max int) *KeyQueue {
	if max <= 0 {
		max = 16
	}
	return &KeyQueue{max: max}
}

// Push appends a key symbol. Empty symbols are ignored.
func (q *KeyQueue) Push(key string) {
	if q == nil || key == "" {
		return
	}
	if len(q.keys) >= q.max {
		q.keys = q.keys[1:]
	}
	q.keys = append(q.keys, key)
}

// Pop removes and returns the oldest key.
func (q *KeyQueue) Pop() (string, bool) {
	if q == nil || len(q.keys) == 0 {
		return "", false
	}
	k := q.keys[0]
	q.keys = q.keys[1:]
	return k, true
}

// PointerMapper converts widget coordinates of the scaled preview back to
// frame coordinates.
type PointerMapper struct {
	ratio  float64 // displayed / native
	border int
}

// NewPointerMapper returns a mapper for a preview drawn inside a border of
// the given width.
func NewPointerMapper(border int) *PointerMapper {
	return &PointerMapper{ratio: 1, border: border}
}

// SetRatio records the scale of the last shown frame.
func (m *PointerMapper) SetRatio(r float64) {
	if r > 0 {
		m.ratio = r
	}
}

// ToFrame maps a widget point to the frame.
func (m *PointerMapper) ToFrame(x, y int) geom.Point {
	return geom.Point{
		X: float64(x-m.border) / m.ratio,
		Y: float64(y-m.border) / m.ratio,
	}
}
