package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLexiconYAML = `
technical_indicators:
  - kubernetes
  - latency
technical_phrases:
  - machine learning
  - load balancer
organizations:
  - google
common_words:
  - the
  - thing
`

func writeTestLexicon(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testLexiconYAML), 0o644))
	return path
}

func TestLoadLexicon(t *testing.T) {
	lex, err := LoadLexicon(writeTestLexicon(t))
	require.NoError(t, err)

	assert.True(t, lex.IsTechnicalIndicator("Kubernetes"))
	assert.False(t, lex.IsTechnicalIndicator("banana"))
	assert.True(t, lex.IsTechnicalPhrase("Machine Learning"))
	assert.True(t, lex.IsOrganization("GOOGLE"))
	assert.True(t, lex.IsCommonWord("THE"))
	assert.Len(t, lex.Phrases(), 2)
}

func TestLoadLexiconMissingFileIsEmpty(t *testing.T) {
	lex, err := LoadLexicon(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.False(t, lex.IsTechnicalIndicator("kubernetes"))
	assert.Empty(t, lex.Phrases())
}

func TestLoadLexiconMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("technical_indicators: {not: [a list"), 0o644))

	_, err := LoadLexicon(path)
	assert.Error(t, err)
}
