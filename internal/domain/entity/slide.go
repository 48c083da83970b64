package entity

// RegionType classifies a detected content region by shape.
type RegionType string

const (
	RegionText    RegionType = "text"
	RegionDiagram RegionType = "diagram"
)

// BoundingBox is a pixel-space rectangle within a frame.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ContentRegion is a text or diagram area detected on a slide frame.
// Regions are summarized for classification, never persisted on their own.
type ContentRegion struct {
	Bounds BoundingBox `json:"bounds"`
	Area   float64     `json:"area"`
	Type   RegionType  `json:"type"`
}

// Slide is a frame that passed slide-likelihood, text-sufficiency and
// duplicate checks. Immutable once created; the image file referenced by
// Path persists on disk even after the slide leaves the comparison window.
type Slide struct {
	SequenceNumber int             `json:"sequence_number"`
	Timestamp      float64         `json:"timestamp"`
	Path           string          `json:"path"`
	ExtractedText  string          `json:"extracted_text"`
	ChapterTitle   string          `json:"chapter_title,omitempty"`
	ChapterIndex   int             `json:"chapter_index"`
	Regions        []ContentRegion `json:"regions,omitempty"`
}

// SlideAnalysis carries the per-slide results of OCR and NLP analysis.
type SlideAnalysis struct {
	ExtractedText  string   `json:"extracted_text"`
	ContentType    string   `json:"content_type"`
	Confidence     float64  `json:"confidence"`
	Keywords       []string `json:"keywords"`
	TechnicalTerms []string `json:"technical_terms"`
}
