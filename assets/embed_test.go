package assets

import (
	"bytes"
	"flag"
	"strings"
	"testing"
)

func TestPrintUsage_IncludesHotKeysAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("pixeltrack", flag.ContinueOnError)
	fs.String("log-level", "info", "log level")
	var buf bytes.Buffer
	PrintUsage(&buf, fs)
	out := buf.String()
	for _, want := range []string{"<config_path> <video_source>", "Hot keys", "q, Esc", "-log-level"} {
		if !strings.Contains(out, want) {
			t.Fatalf("usage missing %q:\n%s", want, out)
		}
	}
}
