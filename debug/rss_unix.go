//go:build unix

package debug

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// residentSetSize returns the peak resident set size of the process in bytes.
func residentSetSize() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, errors.Wrap(err, "getrusage")
	}
	rss := uint64(ru.Maxrss)
	if runtime.GOOS != "darwin" && runtime.GOOS != "ios" {
		rss *= 1024 // kilobytes elsewhere
	}
	return rss, nil
}
