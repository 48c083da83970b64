// Package analysis provides the in-process NLP used for slide and
// transcript text: cleaning, keyword extraction, technical-term detection,
// and heuristic domain classification backed by a YAML lexicon.
package analysis

import (
	"regexp"
	"strings"
)

// Cleaner normalizes free text before extraction: URLs and emails are
// stripped, whitespace collapsed, special characters removed except
// hyphens inside compound words.
type Cleaner struct {
	space       *regexp.Regexp
	specialChar *regexp.Regexp
	url         *regexp.Regexp
	email       *regexp.Regexp
}

func NewCleaner() *Cleaner {
	return &Cleaner{
		space:       regexp.MustCompile(`\s+`),
		specialChar: regexp.MustCompile(`[^\w\s-]`),
		url:         regexp.MustCompile(`https?://\S+|www\.\S+`),
		email:       regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`),
	}
}

// Clean lowercases; CleanKeepCase preserves case for pattern matching.
func (c *Cleaner) Clean(text string) string {
	return strings.ToLower(c.CleanKeepCase(text))
}

func (c *Cleaner) CleanKeepCase(text string) string {
	text = c.url.ReplaceAllString(text, "")
	text = c.email.ReplaceAllString(text, "")
	text = c.specialChar.ReplaceAllString(text, "")
	text = c.space.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

var invalidFilename = regexp.MustCompile(`[^\w-]`)

// CleanFilename renders text safe for use as a file or folder name.
func CleanFilename(text string, maxLength int) string {
	text = strings.ReplaceAll(strings.TrimSpace(text), " ", "_")
	text = invalidFilename.ReplaceAllString(text, "")
	if maxLength > 0 && len(text) > maxLength {
		text = text[:maxLength]
	}
	return text
}
