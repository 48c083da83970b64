package segment

import (
	"sort"
	"strings"

	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
)

const topTopicCount = 10

// Summarize rolls up the enriched segments into a video-level summary:
// keyword and technical-term unions, content-type distribution, and the
// most frequent topics.
func Summarize(title string, segments []entity.ContentSegment, slideCount int) entity.LectureSummary {
	keywordFreq := make(map[string]int)
	keywordDisplay := make(map[string]string)
	termSet := make(map[string]string)
	contentTypes := make(map[string]int)

	for _, seg := range segments {
		for _, kw := range seg.Keywords {
			key := strings.ToLower(kw)
			keywordFreq[key]++
			if _, ok := keywordDisplay[key]; !ok {
				keywordDisplay[key] = kw
			}
		}
		for _, term := range seg.TechnicalTerms {
			key := strings.ToLower(term)
			if _, ok := termSet[key]; !ok {
				termSet[key] = term
			}
		}
		if seg.ContentType != "" {
			contentTypes[seg.ContentType]++
		}
	}

	keywords := make([]string, 0, len(keywordDisplay))
	for _, kw := range keywordDisplay {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	terms := make([]string, 0, len(termSet))
	for _, term := range termSet {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	return entity.LectureSummary{
		Title:          title,
		SlideCount:     slideCount,
		MainTopics:     topTopics(keywordFreq, keywordDisplay),
		ContentTypes:   contentTypes,
		Keywords:       keywords,
		TechnicalTerms: terms,
		Statistics: entity.SummaryStats{
			TotalSegments:       len(segments),
			TotalKeywords:       len(keywords),
			TotalTechnicalTerms: len(terms),
		},
	}
}

func topTopics(freq map[string]int, display map[string]string) []entity.TopicCount {
	topics := make([]entity.TopicCount, 0, len(freq))
	for key, count := range freq {
		topics = append(topics, entity.TopicCount{Topic: display[key], Count: count})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Topic < topics[j].Topic
	})
	if len(topics) > topTopicCount {
		topics = topics[:topTopicCount]
	}
	return topics
}
