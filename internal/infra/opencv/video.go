// Package opencv adapts gocv video decoding and slide persistence to the
// sampler's FrameSource and SlideWriter contracts.
package opencv

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
)

// VideoFile wraps a gocv capture over a local video file. Implements
// slides.FrameSource. Not safe for concurrent use; one capture per job.
type VideoFile struct {
	capture    *gocv.VideoCapture
	frameCount int
	fps        float64
}

func OpenVideoFile(path string) (*VideoFile, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, entity.ErrVideoOpen)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("open %s: %w", path, entity.ErrVideoOpen)
	}

	return &VideoFile{
		capture:    capture,
		frameCount: int(capture.Get(gocv.VideoCaptureFrameCount)),
		fps:        capture.Get(gocv.VideoCaptureFPS),
	}, nil
}

func (v *VideoFile) FrameCount() int { return v.frameCount }

func (v *VideoFile) FPS() float64 { return v.fps }

// ReadFrameAt seeks to the absolute frame index and decodes it. The
// returned Mat is owned by the caller.
func (v *VideoFile) ReadFrameAt(index int) (gocv.Mat, error) {
	v.capture.Set(gocv.VideoCapturePosFrames, float64(index))

	frame := gocv.NewMat()
	if ok := v.capture.Read(&frame); !ok || frame.Empty() {
		frame.Close()
		return gocv.Mat{}, fmt.Errorf("decode frame %d", index)
	}
	return frame, nil
}

func (v *VideoFile) Close() error {
	return v.capture.Close()
}
