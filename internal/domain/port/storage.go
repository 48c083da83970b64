package port

import (
	"context"
	"io"
)

// LectureStorage is the object store holding uploaded videos, optional
// transcripts, and finished result bundles.
type LectureStorage interface {
	DownloadVideo(ctx context.Context, objectKey string, destPath string) error
	FetchTranscript(ctx context.Context, objectKey string) ([]byte, error)
	UploadResults(ctx context.Context, objectKey string, reader io.Reader, size int64) error
}
