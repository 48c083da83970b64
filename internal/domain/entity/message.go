package entity

import "github.com/google/uuid"

// LectureProcessingMessage is the inbound message from the lecture.processing
// queue. Chapters are optional; when absent the sampler falls back to the
// description timestamps and then to the intro-skip heuristic.
type LectureProcessingMessage struct {
	JobID         uuid.UUID `json:"job_id"`
	UserID        string    `json:"user_id"`
	VideoKey      string    `json:"video_key"`
	TranscriptKey string    `json:"transcript_key,omitempty"`
	Title         string    `json:"title,omitempty"`
	Description   string    `json:"description,omitempty"`
	Chapters      []Chapter `json:"chapters,omitempty"`
	ExtractSlides bool      `json:"extract_slides"`
	DurationLimit float64   `json:"duration_limit,omitempty"`
	FileSize      int64     `json:"file_size"`
	UserEmail     string    `json:"user_email"`
}

// LectureStatusMessage is the outbound message published to the
// lecture.status queue.
type LectureStatusMessage struct {
	JobID        uuid.UUID `json:"job_id"`
	UserID       string    `json:"user_id"`
	Status       JobStatus `json:"status"`
	VideoKey     string    `json:"video_key"`
	ResultKey    string    `json:"result_key,omitempty"`
	SlideCount   int       `json:"slide_count,omitempty"`
	SegmentCount int       `json:"segment_count,omitempty"`
	Duration     float64   `json:"duration_seconds,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Attempt      int       `json:"attempt"`
	MaxAttempts  int       `json:"max_attempts"`
}
