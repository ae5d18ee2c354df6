package debug

// Periodic memory logger enabled together with the goroutine logger.
// Logs resident set size along with Go heap stats so frame buffer growth
// can be told apart from native growth.

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/pkg/errors"
)

var errRSSUnsupported = errors.New("resident set size not available on this platform")

// StartMemLogger launches a goroutine that logs memory stats every interval
// until ctx is cancelled. RSS query failures are logged once and suppressed.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			rss, err := residentSetSize()
			if err != nil && !rssErrLogged {
				logger.Warn("memlog: rss query failed", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			logger.Debug("memstats",
				slog.Int("goroutines", runtime.NumGoroutine()),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.Uint64("heap_inuse", ms.HeapInuse),
				slog.Uint64("heap_idle", ms.HeapIdle),
				slog.Uint64("heap_sys", ms.HeapSys),
				slog.Uint64("next_gc", ms.NextGC),
				slog.Uint64("rss", rss),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			)
		}
	}()
}

// Start runs both loggers.
func Start(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	StartGoroutineLogger(ctx, interval, logger)
	StartMemLogger(ctx, 2*interval, logger)
}
