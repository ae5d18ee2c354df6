package source

import (
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var sequenceExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// sequenceSource decodes a sorted list of still images, one per frame.
type sequenceSource struct {
	files []string
	pos   int
}

func newDirSequence(dir string) (*sequenceSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read sequence dir %s", dir)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !sequenceExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return &sequenceSource{files: files}, nil
}

func newGlobSequence(pattern string) (*sequenceSource, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "glob %s", pattern)
	}
	sort.Strings(files)
	return &sequenceSource{files: files}, nil
}

// IsOpened reports whether at least one frame is available.
func (s *sequenceSource) IsOpened() bool { return len(s.files) > 0 }

func (s *sequenceSource) Next() (*image.RGBA, error) {
	if s.pos >= len(s.files) {
		return nil, io.EOF
	}
	path := s.files[s.pos]
	s.pos++
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open frame %s", path)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode frame %s", path)
	}
	return toPooledRGBA(img), nil
}

func (s *sequenceSource) RecycleFrame(img *image.RGBA) { RecycleFrame(img) }

func (s *sequenceSource) Close() error {
	s.pos = len(s.files)
	return nil
}
