package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T) *KeywordExtractor {
	t.Helper()
	lex, err := LoadLexicon(writeTestLexicon(t))
	require.NoError(t, err)
	return NewKeywordExtractor(lex, NewCleaner())
}

func TestExtractKeywordsEmptyInput(t *testing.T) {
	e := newTestExtractor(t)
	assert.Nil(t, e.ExtractKeywords(""))
	assert.Nil(t, e.ExtractKeywords("   \n\t  "))
}

func TestExtractKeywordsFindsKnownPhrases(t *testing.T) {
	e := newTestExtractor(t)

	keywords := e.ExtractKeywords(
		"This talk covers machine learning pipelines and how a load balancer distributes inference traffic.",
	)

	require.NotEmpty(t, keywords)
	assert.Contains(t, keywords, "machine learning")
	assert.Contains(t, keywords, "load balancer")
	// Known phrases outrank plain nouns.
	assert.Contains(t, []string{"machine learning", "load balancer"}, keywords[0])
}

func TestExtractKeywordsExcludesCommonWords(t *testing.T) {
	e := newTestExtractor(t)

	keywords := e.ExtractKeywords("the thing about the thing is the thing")

	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "thing")
}

func TestExtractKeywordsAreLowercase(t *testing.T) {
	e := newTestExtractor(t)

	for _, kw := range e.ExtractKeywords("Kubernetes Clusters run Containers across Nodes") {
		assert.Equal(t, strings.ToLower(kw), kw)
	}
}

func TestRelevanceScoring(t *testing.T) {
	e := newTestExtractor(t)

	phraseScore := e.relevance("machine learning", nil)
	nounScore := e.relevance("pipeline", nil)

	assert.Greater(t, phraseScore, nounScore)
	assert.LessOrEqual(t, phraseScore, 1.0)
	assert.GreaterOrEqual(t, nounScore, 0.3)
}
