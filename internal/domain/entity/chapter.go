package entity

// Chapter is a named, time-bounded sub-interval of a video, either supplied
// by the source platform or parsed out of the free-text description.
type Chapter struct {
	Title     string  `json:"title"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Duration returns the chapter length in seconds.
func (c Chapter) Duration() float64 {
	return c.EndTime - c.StartTime
}

// TranscriptEntry is one utterance of the spoken transcript.
type TranscriptEntry struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}
