package analysis

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon is the curated vocabulary backing keyword scoring and
// technical-term detection. It ships as a YAML file so new terms land
// without a rebuild.
type Lexicon struct {
	indicators    map[string]struct{}
	phrases       map[string]struct{}
	organizations map[string]struct{}
	commonWords   map[string]struct{}
}

type lexiconFile struct {
	TechnicalIndicators []string `yaml:"technical_indicators"`
	TechnicalPhrases    []string `yaml:"technical_phrases"`
	Organizations       []string `yaml:"organizations"`
	CommonWords         []string `yaml:"common_words"`
}

// LoadLexicon reads the lexicon YAML at path. A missing file yields an
// empty lexicon and no error: detection degrades to patterns only.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyLexicon(), nil
		}
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	var file lexiconFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	lex := emptyLexicon()
	fillSet(lex.indicators, file.TechnicalIndicators)
	fillSet(lex.phrases, file.TechnicalPhrases)
	fillSet(lex.organizations, file.Organizations)
	fillSet(lex.commonWords, file.CommonWords)
	return lex, nil
}

func emptyLexicon() *Lexicon {
	return &Lexicon{
		indicators:    make(map[string]struct{}),
		phrases:       make(map[string]struct{}),
		organizations: make(map[string]struct{}),
		commonWords:   make(map[string]struct{}),
	}
}

func fillSet(set map[string]struct{}, terms []string) {
	for _, t := range terms {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
}

func (l *Lexicon) IsTechnicalIndicator(term string) bool {
	_, ok := l.indicators[strings.ToLower(term)]
	return ok
}

func (l *Lexicon) IsTechnicalPhrase(phrase string) bool {
	_, ok := l.phrases[strings.ToLower(phrase)]
	return ok
}

func (l *Lexicon) IsOrganization(term string) bool {
	_, ok := l.organizations[strings.ToLower(term)]
	return ok
}

func (l *Lexicon) IsCommonWord(word string) bool {
	_, ok := l.commonWords[strings.ToLower(word)]
	return ok
}

// Phrases returns all known technical phrases for substring scanning.
func (l *Lexicon) Phrases() []string {
	phrases := make([]string, 0, len(l.phrases))
	for p := range l.phrases {
		phrases = append(phrases, p)
	}
	return phrases
}
