package source

import (
	"image"
	"io"
	"log/slog"
	"time"
)

// Stats summarises frame acquisition for instrumentation.
type Stats struct {
	Frames     uint64
	Errors     uint64
	AvgAcquire time.Duration
	LastFrame  time.Time
	Exhausted  bool
}

// instrumented wraps a source, counting frames and acquisition time.
// All access happens on the session thread so no atomics are needed.
type instrumented struct {
	FrameSource
	logger    *slog.Logger
	every     int
	frames    uint64
	errs      uint64
	nanos     uint64
	lastFrame time.Time
	exhausted bool
}

func newInstrumented(src FrameSource, logger *slog.Logger, every int) *instrumented {
	return &instrumented{FrameSource: src, logger: logger, every: every}
}

func (s *instrumented) Next() (*image.RGBA, error) {
	start := time.Now()
	img, err := s.FrameSource.Next()
	switch {
	case err == io.EOF:
		s.exhausted = true
		if s.logger != nil {
			s.logger.Info("frame source exhausted", "frames", s.frames)
		}
		return nil, err
	case err != nil:
		s.errs++
		if s.logger != nil {
			s.logger.Error("frame source", "error", err)
		}
		return nil, err
	}
	s.nanos += uint64(time.Since(start).Nanoseconds())
	s.frames++
	s.lastFrame = time.Now()
	if s.every > 0 && s.frames%uint64(s.every) == 0 {
		s.logStats()
	}
	return img, nil
}

func (s *instrumented) RecycleFrame(img *image.RGBA) {
	if r, ok := s.FrameSource.(Recycler); ok {
		r.RecycleFrame(img)
	}
}

// Stats returns a snapshot of acquisition counters.
func (s *instrumented) Stats() Stats {
	var avg time.Duration
	if s.frames > 0 {
		avg = time.Duration(s.nanos / s.frames)
	}
	return Stats{
		Frames:     s.frames,
		Errors:     s.errs,
		AvgAcquire: avg,
		LastFrame:  s.lastFrame,
		Exhausted:  s.exhausted,
	}
}

func (s *instrumented) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("source.stats",
		"frames", stats.Frames,
		"errors", stats.Errors,
		"avg_acquire", stats.AvgAcquire,
	)
}
