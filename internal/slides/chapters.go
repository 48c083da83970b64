package slides

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
)

// skipPatterns mark chapters that hold no slide content: greetings,
// housekeeping, and wrap-up sections. Matching is a case-insensitive
// substring test against the chapter title.
var skipPatterns = []string{
	"intro", "introduction", "about", "agenda", "overview",
	"welcome", "opening", "preface", "disclaimer", "background",
	"outro", "conclusion", "closing", "credits", "thank you",
	"questions", "q&a",
}

// ShouldSkipChapter reports whether a chapter is excluded from sampling.
func ShouldSkipChapter(title string) bool {
	lowered := strings.ToLower(title)
	for _, pattern := range skipPatterns {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

// chapterLine matches "12:34 Title" and "1:02:34 - Title" description lines.
var chapterLine = regexp.MustCompile(`(?m)^\s*(?:(\d{1,2}):)?(\d{1,2}):(\d{2})\s*[-–:]?\s*(\S.*)$`)

// ParseChaptersFromDescription recovers chapter markers from free-text
// video descriptions. Each matched timestamp opens a chapter that runs
// until the next marker, the last one until videoDuration. Returns nil
// when fewer than two markers are found, since a single marker carries no
// segmentation information.
func ParseChaptersFromDescription(description string, videoDuration float64) []entity.Chapter {
	matches := chapterLine.FindAllStringSubmatch(description, -1)
	if len(matches) < 2 {
		return nil
	}

	chapters := make([]entity.Chapter, 0, len(matches))
	for _, m := range matches {
		hours := 0
		if m[1] != "" {
			hours, _ = strconv.Atoi(m[1])
		}
		minutes, _ := strconv.Atoi(m[2])
		seconds, _ := strconv.Atoi(m[3])
		start := float64(hours*3600 + minutes*60 + seconds)
		if start > videoDuration && videoDuration > 0 {
			continue
		}
		chapters = append(chapters, entity.Chapter{
			Title:     strings.TrimSpace(m[4]),
			StartTime: start,
		})
	}
	if len(chapters) < 2 {
		return nil
	}

	for i := range chapters {
		if i+1 < len(chapters) {
			chapters[i].EndTime = chapters[i+1].StartTime
		} else {
			chapters[i].EndTime = videoDuration
		}
	}
	return chapters
}

// chapterAllotments splits a total sample budget across the non-skipped
// chapters in proportion to their duration, with at least one sample per
// chapter. Skipped chapters get zero.
func chapterAllotments(chapters []entity.Chapter, totalSamples int) []int {
	allotments := make([]int, len(chapters))

	activeDuration := 0.0
	for i, ch := range chapters {
		if ShouldSkipChapter(ch.Title) {
			continue
		}
		if d := ch.Duration(); d > 0 {
			activeDuration += d
		}
		allotments[i] = 1
	}
	if activeDuration <= 0 || totalSamples <= 0 {
		return allotments
	}

	for i, ch := range chapters {
		if allotments[i] == 0 {
			continue
		}
		share := int(float64(totalSamples) * ch.Duration() / activeDuration)
		if share > 1 {
			allotments[i] = share
		}
	}
	return allotments
}
