package segment

import (
	"strings"

	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/port"
)

// Enricher attaches slide-level analysis to aligned content segments.
type Enricher struct {
	keywords port.KeywordExtractor
}

func NewEnricher(keywords port.KeywordExtractor) *Enricher {
	return &Enricher{keywords: keywords}
}

// Enrich fills in the slide-derived fields of each segment in place.
// Segments whose slide index falls outside the analysis list (no slide on
// screen yet, or a shorter-than-expected slide list) get neutral defaults.
func (e *Enricher) Enrich(segments []entity.ContentSegment, analyses []entity.SlideAnalysis) []entity.ContentSegment {
	for i := range segments {
		seg := &segments[i]

		if seg.SlideIndex < 0 || seg.SlideIndex >= len(analyses) {
			seg.ExtractedText = ""
			seg.ContentType = "unknown"
			seg.Confidence = 0.0
			seg.Keywords = nil
			seg.TechnicalTerms = nil
			continue
		}

		analysis := analyses[seg.SlideIndex]
		seg.ExtractedText = analysis.ExtractedText
		seg.ContentType = analysis.ContentType
		seg.Confidence = analysis.Confidence

		transcriptKeywords := e.keywords.ExtractKeywords(seg.TranscriptText)
		seg.Keywords = mergeKeywords(analysis.Keywords, transcriptKeywords)
		seg.TechnicalTerms = spokenTerms(analysis.TechnicalTerms, seg.TranscriptText)
	}
	return segments
}

// mergeKeywords unions slide and transcript keywords, listing the
// cross-modal intersection first (a keyword both shown and spoken is the
// strongest signal), then the slide-only remainder, then transcript-only,
// each in first-seen order.
func mergeKeywords(slideKeywords, transcriptKeywords []string) []string {
	slideSet := keywordSet(slideKeywords)
	transcriptSet := keywordSet(transcriptKeywords)

	var merged []string
	seen := make(map[string]struct{})
	add := func(kw string) {
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		merged = append(merged, kw)
	}

	for _, kw := range slideKeywords {
		if _, ok := transcriptSet[strings.ToLower(kw)]; ok {
			add(kw)
		}
	}
	for _, kw := range slideKeywords {
		if _, ok := transcriptSet[strings.ToLower(kw)]; !ok {
			add(kw)
		}
	}
	for _, kw := range transcriptKeywords {
		if _, ok := slideSet[strings.ToLower(kw)]; !ok {
			add(kw)
		}
	}
	return merged
}

// spokenTerms keeps only the slide's technical terms that actually occur in
// the spoken text. A term shown but never said is dropped: precision over
// recall.
func spokenTerms(terms []string, transcriptText string) []string {
	lowered := strings.ToLower(transcriptText)
	var spoken []string
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(term)) {
			spoken = append(spoken, term)
		}
	}
	return spoken
}

func keywordSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		set[strings.ToLower(kw)] = struct{}{}
	}
	return set
}
