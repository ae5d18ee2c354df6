package source

import (
	"image"
	"io"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// videoSource reads a video file or camera through OpenCV.
type videoSource struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

func newVideoSource(path string) (*videoSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrNotOpened, "video %s: %v", path, err)
	}
	return &videoSource{capture: capture, mat: gocv.NewMat()}, nil
}

func newDeviceSource(id int) (*videoSource, error) {
	capture, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, errors.Wrapf(ErrNotOpened, "device %d: %v", id, err)
	}
	return &videoSource{capture: capture, mat: gocv.NewMat()}, nil
}

func (s *videoSource) IsOpened() bool {
	return s.capture != nil && s.capture.IsOpened()
}

// Next decodes the next frame. An empty read marks the end of the stream.
func (s *videoSource) Next() (*image.RGBA, error) {
	if s.capture == nil {
		return nil, io.EOF
	}
	if ok := s.capture.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, io.EOF
	}
	img, err := s.mat.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "convert video frame")
	}
	return toPooledRGBA(img), nil
}

func (s *videoSource) RecycleFrame(img *image.RGBA) { RecycleFrame(img) }

func (s *videoSource) Close() error {
	if s.capture == nil {
		return nil
	}
	_ = s.mat.Close()
	err := s.capture.Close()
	s.capture = nil
	return err
}
