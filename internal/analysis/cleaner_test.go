package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStripsURLsAndEmails(t *testing.T) {
	c := NewCleaner()

	out := c.Clean("Visit https://example.com/docs or mail admin@example.com for Help!")
	assert.Equal(t, "visit or mail for help", out)
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	c := NewCleaner()
	assert.Equal(t, "one two three", c.Clean("  one \t two\n\nthree  "))
}

func TestCleanKeepCasePreservesCase(t *testing.T) {
	c := NewCleaner()
	assert.Equal(t, "Kubernetes API Server", c.CleanKeepCase("Kubernetes API Server!!!"))
}

func TestCleanKeepsCompoundHyphens(t *testing.T) {
	c := NewCleaner()
	assert.Equal(t, "zero-downtime deploys", c.Clean("zero-downtime deploys."))
}

func TestCleanFilename(t *testing.T) {
	assert.Equal(t, "My_Lecture_Part_1", CleanFilename("My Lecture: Part 1?", 0))
	assert.Equal(t, "abcde", CleanFilename("abcdefghij", 5))
	assert.Equal(t, "", CleanFilename("///:::", 10))
}
