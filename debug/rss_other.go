//go:build !unix && !windows

package debug

func residentSetSize() (uint64, error) { return 0, errRSSUnsupported }
