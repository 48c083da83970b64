package analysis

// Analyzer bundles keyword extraction and technical-term detection over a
// shared lexicon. Implements port.KeywordExtractor.
type Analyzer struct {
	*KeywordExtractor
	*TermDetector
}

func NewAnalyzer(lexiconPath string) (*Analyzer, error) {
	lexicon, err := LoadLexicon(lexiconPath)
	if err != nil {
		return nil, err
	}
	cleaner := NewCleaner()
	return &Analyzer{
		KeywordExtractor: NewKeywordExtractor(lexicon, cleaner),
		TermDetector:     NewTermDetector(lexicon, cleaner),
	}, nil
}
