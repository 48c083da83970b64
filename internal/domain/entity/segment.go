package entity

import "time"

// ContentSegment fuses one transcript utterance with the slide on screen
// when it was spoken. Created by the aligner, filled in once by the
// enricher, never mutated afterwards.
//
// SlideIndex is an index into the accepted-slide sequence, not a pointer;
// callers must bounds-check before dereferencing. Invariants: EndTime >=
// StartTime, and SlideIndex is non-decreasing across an ordered segment
// list.
type ContentSegment struct {
	StartTime      float64  `json:"start_time"`
	EndTime        float64  `json:"end_time"`
	SlideIndex     int      `json:"slide_index"`
	TranscriptText string   `json:"transcript_text"`
	ExtractedText  string   `json:"extracted_text"`
	Keywords       []string `json:"keywords"`
	TechnicalTerms []string `json:"technical_terms"`
	ContentType    string   `json:"content_type"`
	Confidence     float64  `json:"confidence"`
}

// Duration returns the segment length.
func (s ContentSegment) Duration() time.Duration {
	return time.Duration((s.EndTime - s.StartTime) * float64(time.Second))
}

// LectureSummary is the video-level rollup over all content segments.
type LectureSummary struct {
	Title          string         `json:"title,omitempty"`
	SlideCount     int            `json:"slide_count"`
	MainTopics     []TopicCount   `json:"main_topics"`
	ContentTypes   map[string]int `json:"content_types"`
	Keywords       []string       `json:"keywords"`
	TechnicalTerms []string       `json:"technical_terms"`
	Statistics     SummaryStats   `json:"statistics"`
}

// TopicCount is a keyword with its frequency across segments.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type SummaryStats struct {
	TotalSegments       int `json:"total_segments"`
	TotalKeywords       int `json:"total_keywords"`
	TotalTechnicalTerms int `json:"total_technical_terms"`
}
