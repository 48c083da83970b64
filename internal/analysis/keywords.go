package analysis

import (
	"sort"
	"strings"

	prose "github.com/jdkato/prose/v2"
)

const (
	minKeywordLength = 3
	maxPhraseWords   = 5
)

// scoredKeyword carries a candidate with its relevance and frequency.
type scoredKeyword struct {
	keyword   string
	relevance float64
	frequency int
}

// KeywordExtractor pulls weighted keywords from free text using POS tags
// and named entities plus the lexicon. Implements port.KeywordExtractor.
type KeywordExtractor struct {
	lexicon      *Lexicon
	cleaner      *Cleaner
	minFrequency int
	minRelevance float64
}

func NewKeywordExtractor(lexicon *Lexicon, cleaner *Cleaner) *KeywordExtractor {
	return &KeywordExtractor{
		lexicon:      lexicon,
		cleaner:      cleaner,
		minFrequency: 1,
		minRelevance: 0.3,
	}
}

// ExtractKeywords returns keywords ordered by descending relevance.
func (e *KeywordExtractor) ExtractKeywords(text string) []string {
	cleaned := e.cleaner.Clean(text)
	if cleaned == "" {
		return nil
	}

	candidates, entities := e.collectCandidates(cleaned)

	freq := make(map[string]int)
	for _, c := range candidates {
		freq[c]++
	}

	scored := make([]scoredKeyword, 0, len(freq))
	for candidate, count := range freq {
		if count < e.minFrequency {
			continue
		}
		relevance := e.relevance(candidate, entities)
		if relevance < e.minRelevance {
			continue
		}
		scored = append(scored, scoredKeyword{keyword: candidate, relevance: relevance, frequency: count})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].relevance != scored[j].relevance {
			return scored[i].relevance > scored[j].relevance
		}
		if scored[i].frequency != scored[j].frequency {
			return scored[i].frequency > scored[j].frequency
		}
		return scored[i].keyword < scored[j].keyword
	})

	keywords := make([]string, len(scored))
	for i, s := range scored {
		keywords[i] = s.keyword
	}
	return keywords
}

// collectCandidates gathers noun tokens, named entities, and known
// technical phrases. Returns the candidate list and the entity set for
// relevance scoring.
func (e *KeywordExtractor) collectCandidates(text string) ([]string, map[string]struct{}) {
	var candidates []string
	entities := make(map[string]struct{})

	doc, err := prose.NewDocument(text)
	if err == nil {
		for _, tok := range doc.Tokens() {
			if !strings.HasPrefix(tok.Tag, "NN") {
				continue
			}
			word := strings.ToLower(tok.Text)
			if len(word) < minKeywordLength || e.lexicon.IsCommonWord(word) {
				continue
			}
			candidates = append(candidates, word)
		}
		for _, ent := range doc.Entities() {
			name := strings.ToLower(strings.TrimSpace(ent.Text))
			if len(name) < minKeywordLength || e.lexicon.IsCommonWord(name) {
				continue
			}
			if len(strings.Fields(name)) > maxPhraseWords {
				continue
			}
			candidates = append(candidates, name)
			entities[name] = struct{}{}
		}
	} else {
		// Tokenizer failure degrades to whitespace tokens.
		for _, word := range strings.Fields(text) {
			if len(word) >= minKeywordLength && !e.lexicon.IsCommonWord(word) {
				candidates = append(candidates, word)
			}
		}
	}

	for _, phrase := range e.lexicon.Phrases() {
		if strings.Contains(text, phrase) {
			candidates = append(candidates, phrase)
		}
	}

	for _, word := range strings.Fields(text) {
		if len(word) >= minKeywordLength && e.lexicon.IsTechnicalIndicator(word) {
			candidates = append(candidates, word)
		}
	}

	return candidates, entities
}

// relevance scores a candidate: known technical phrases weigh most, then
// indicator words, organizations, multi-word phrases, and named entities.
// Capped at 1.0.
func (e *KeywordExtractor) relevance(term string, entities map[string]struct{}) float64 {
	score := 0.0
	lowered := strings.ToLower(term)

	if e.lexicon.IsTechnicalPhrase(lowered) {
		score += 0.5
	}
	for _, word := range strings.Fields(lowered) {
		if e.lexicon.IsTechnicalIndicator(word) {
			score += 0.3
			break
		}
	}
	if e.lexicon.IsOrganization(lowered) {
		score += 0.2
	}
	if len(strings.Fields(lowered)) > 1 {
		score += 0.2
	}
	if _, ok := entities[lowered]; ok {
		score += 0.2
	}
	// Plain nouns still clear the default cutoff.
	if score < 0.3 {
		score = 0.3
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
