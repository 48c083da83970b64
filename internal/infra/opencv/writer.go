package opencv

import (
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// SlideFileWriter persists accepted slide frames as zero-padded JPEGs under
// one directory. Implements slides.SlideWriter. A write only counts once
// the file reads back as a decodable image, so a reported path always has a
// verified file behind it.
type SlideFileWriter struct {
	dir string
}

func NewSlideFileWriter(dir string) (*SlideFileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create slides dir: %w", err)
	}
	return &SlideFileWriter{dir: dir}, nil
}

func (w *SlideFileWriter) WriteSlide(sequence int, frame gocv.Mat) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("slide_%03d.jpg", sequence))

	if ok := gocv.IMWrite(path, frame); !ok {
		return "", fmt.Errorf("write slide %d to %s", sequence, path)
	}

	check := gocv.IMRead(path, gocv.IMReadColor)
	defer check.Close()
	if check.Empty() {
		os.Remove(path)
		return "", fmt.Errorf("verify slide %d: written file unreadable", sequence)
	}

	return path, nil
}
