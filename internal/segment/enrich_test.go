package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
)

// stubExtractor returns canned keywords regardless of input.
type stubExtractor struct {
	keywords []string
}

func (s *stubExtractor) ExtractKeywords(string) []string      { return s.keywords }
func (s *stubExtractor) DetectTechnicalTerms(string) []string { return nil }

func TestEnrichFillsSlideFields(t *testing.T) {
	enricher := NewEnricher(&stubExtractor{keywords: []string{"kubernetes", "spoken-only"}})

	segments := []entity.ContentSegment{
		{SlideIndex: 0, TranscriptText: "we deploy kubernetes pods here"},
	}
	analyses := []entity.SlideAnalysis{
		{
			ExtractedText:  "Kubernetes Pod Lifecycle",
			ContentType:    "system_architecture",
			Confidence:     0.9,
			Keywords:       []string{"kubernetes", "slide-only"},
			TechnicalTerms: []string{"kubernetes", "etcd"},
		},
	}

	out := enricher.Enrich(segments, analyses)

	require.Len(t, out, 1)
	assert.Equal(t, "Kubernetes Pod Lifecycle", out[0].ExtractedText)
	assert.Equal(t, "system_architecture", out[0].ContentType)
	assert.Equal(t, 0.9, out[0].Confidence)
	// Cross-modal keywords first, then slide-only, then transcript-only.
	assert.Equal(t, []string{"kubernetes", "slide-only", "spoken-only"}, out[0].Keywords)
	// Terms never spoken are dropped.
	assert.Equal(t, []string{"kubernetes"}, out[0].TechnicalTerms)
}

func TestEnrichOutOfRangeIndexGetsDefaults(t *testing.T) {
	enricher := NewEnricher(&stubExtractor{})

	segments := []entity.ContentSegment{
		{SlideIndex: 3, TranscriptText: "talking before any slide"},
	}

	out := enricher.Enrich(segments, nil)

	require.Len(t, out, 1)
	assert.Equal(t, "", out[0].ExtractedText)
	assert.Equal(t, "unknown", out[0].ContentType)
	assert.Equal(t, 0.0, out[0].Confidence)
	assert.Nil(t, out[0].Keywords)
	assert.Nil(t, out[0].TechnicalTerms)
}

func TestMergeKeywordsDeduplicatesCaseInsensitively(t *testing.T) {
	merged := mergeKeywords(
		[]string{"Docker", "registry"},
		[]string{"docker", "compose"},
	)

	assert.Equal(t, []string{"Docker", "registry", "compose"}, merged)
}

func TestSpokenTermsMatchesSubstrings(t *testing.T) {
	spoken := spokenTerms(
		[]string{"TCP", "BGP", ""},
		"today we cover tcp handshakes in detail",
	)

	assert.Equal(t, []string{"TCP"}, spoken)
}
