package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// LectureJob tracks one lecture video through the processing pipeline.
type LectureJob struct {
	ID            uuid.UUID
	UserID        string
	VideoKey      string
	TranscriptKey string
	ResultKey     string
	Status        JobStatus
	SlideCount    int
	SegmentCount  int
	FileSize      int64
	VideoDuration float64
	Attempt       int
	MaxAttempts   int
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

func NewLectureJob(userID, videoKey, transcriptKey string, fileSize int64, maxAttempts int) *LectureJob {
	now := time.Now().UTC()
	return &LectureJob{
		ID:            uuid.New(),
		UserID:        userID,
		VideoKey:      videoKey,
		TranscriptKey: transcriptKey,
		FileSize:      fileSize,
		Status:        JobStatusPending,
		Attempt:       0,
		MaxAttempts:   maxAttempts,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (j *LectureJob) MarkProcessing() {
	j.Status = JobStatusProcessing
	j.Attempt++
	j.UpdatedAt = time.Now().UTC()
}

func (j *LectureJob) MarkCompleted(resultKey string, slideCount, segmentCount int, duration float64) {
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.ResultKey = resultKey
	j.SlideCount = slideCount
	j.SegmentCount = segmentCount
	j.VideoDuration = duration
	j.UpdatedAt = now
	j.CompletedAt = &now
}

func (j *LectureJob) MarkFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now().UTC()
}

func (j *LectureJob) CanRetry() bool {
	return j.Attempt < j.MaxAttempts
}
