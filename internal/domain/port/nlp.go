package port

import "context"

// KeywordExtractor pulls keywords and technical terms out of free text.
type KeywordExtractor interface {
	ExtractKeywords(text string) []string
	DetectTechnicalTerms(text string) []string
}

// ContentClassifier assigns a content-type label with a confidence score.
// Confidence is model output, not a calibrated probability.
type ContentClassifier interface {
	Classify(ctx context.Context, text string) (label string, confidence float64, err error)
}
