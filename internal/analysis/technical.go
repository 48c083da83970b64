package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// Pattern matching for technical terms that the lexicon cannot enumerate:
// versioned identifiers, acronyms, camelCase symbols, and source filenames.
var technicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z][A-Za-z0-9]+(\.js|\.py|\.java|\.go|\.ts|\.rb)\b`),
	regexp.MustCompile(`\b[A-Z][A-Z0-9]{2,}\b`),
	regexp.MustCompile(`\b\d+\.\d+\.\d+\b`),
	regexp.MustCompile(`\b[a-z]+[A-Z][a-zA-Z]*\b`),
}

const minTermLength = 3

// TermDetector finds technical terms in text by combining the lexicon's
// known vocabulary with regex patterns. Implements the term-detection half
// of port.KeywordExtractor.
type TermDetector struct {
	lexicon *Lexicon
	cleaner *Cleaner
}

func NewTermDetector(lexicon *Lexicon, cleaner *Cleaner) *TermDetector {
	return &TermDetector{lexicon: lexicon, cleaner: cleaner}
}

// DetectTechnicalTerms returns the distinct technical terms found in text,
// sorted alphabetically. Case is preserved from the first occurrence.
// Patterns run against the raw text: cleaning strips the dots that
// versions and filenames depend on.
func (d *TermDetector) DetectTechnicalTerms(text string) []string {
	cleaned := d.cleaner.CleanKeepCase(text)
	if cleaned == "" {
		return nil
	}

	found := make(map[string]string)
	add := func(term string) {
		term = strings.TrimSpace(term)
		if !d.isValidTerm(term) {
			return
		}
		key := strings.ToLower(term)
		if _, ok := found[key]; !ok {
			found[key] = term
		}
	}

	lowered := strings.ToLower(cleaned)
	for _, phrase := range d.lexicon.Phrases() {
		if strings.Contains(lowered, phrase) {
			add(phrase)
		}
	}
	for _, word := range strings.Fields(cleaned) {
		if d.lexicon.IsTechnicalIndicator(word) {
			add(word)
		}
	}
	for _, pattern := range technicalPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			add(match)
		}
	}

	terms := make([]string, 0, len(found))
	for _, term := range found {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

func (d *TermDetector) isValidTerm(term string) bool {
	if len(term) < minTermLength {
		return false
	}
	return !d.lexicon.IsCommonWord(term)
}

// Domain indicator vocabularies for the heuristic classifier fallback.
// The domain with the most keyword hits wins.
var domainIndicators = map[string][]string{
	"networking": {
		"network", "router", "switch", "packet", "protocol", "tcp", "udp",
		"dns", "firewall", "subnet", "vpn", "latency", "bandwidth",
	},
	"security": {
		"security", "encryption", "authentication", "authorization",
		"vulnerability", "exploit", "certificate", "token", "threat",
	},
	"databases": {
		"database", "query", "index", "transaction", "schema", "table",
		"sql", "replication", "shard",
	},
	"cloud": {
		"cloud", "container", "kubernetes", "docker", "serverless",
		"deployment", "scaling", "cluster", "orchestration",
	},
	"programming": {
		"function", "variable", "class", "method", "algorithm", "compiler",
		"runtime", "debugging", "refactoring", "interface",
	},
	"machine_learning": {
		"model", "training", "neural", "dataset", "inference", "gradient",
		"classification", "regression", "embedding",
	},
}

// ClassifyDomain is the offline fallback when the zero-shot classifier is
// unreachable: counts domain keyword hits and returns the winner with a
// confidence proportional to hit share. Returns ("general", 0) when
// nothing matches.
func ClassifyDomain(text string) (string, float64) {
	lowered := strings.ToLower(text)
	words := strings.Fields(lowered)
	if len(words) == 0 {
		return "general", 0
	}

	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[strings.Trim(w, ".,;:!?")] = struct{}{}
	}

	bestDomain := "general"
	bestHits := 0
	for domain, indicators := range domainIndicators {
		hits := 0
		for _, ind := range indicators {
			if _, ok := wordSet[ind]; ok {
				hits++
			}
		}
		if hits > bestHits || (hits == bestHits && hits > 0 && domain < bestDomain) {
			bestDomain = domain
			bestHits = hits
		}
	}
	if bestHits == 0 {
		return "general", 0
	}

	confidence := float64(bestHits) / 5.0
	if confidence > 1.0 {
		confidence = 1.0
	}
	return bestDomain, confidence
}
