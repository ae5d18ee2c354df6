package assets

import (
	_ "embed"
	"flag"
	"fmt"
	"io"
	"strings"
)

// UsageText is the help shown on argument errors.
//
//go:embed usage.txt
var UsageText string

// PrintUsage writes the help text followed by the flag defaults of fs.
func PrintUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, strings.TrimRight(UsageText, "\n"))
	if fs == nil {
		return
	}
	fmt.Fprintln(w, "\nFlags:")
	out := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(out)
}
