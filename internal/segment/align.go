// Package segment aligns transcript utterances with the slide timeline and
// enriches the resulting content segments with slide-level analysis.
package segment

import (
	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
)

// Align maps each transcript entry to the slide on screen when it starts,
// producing one content segment per entry in input order. The cursor into
// slideTimestamps only ever moves forward, so slide indexes are
// non-decreasing across the output. Callers must supply chronological
// input; entries are not re-sorted.
//
// With no slides (or before the first slide transition) the index stays 0.
func Align(entries []entity.TranscriptEntry, slideTimestamps []float64) []entity.ContentSegment {
	segments := make([]entity.ContentSegment, 0, len(entries))
	cursor := 0

	for _, entry := range entries {
		for cursor < len(slideTimestamps)-1 && entry.Start >= slideTimestamps[cursor+1] {
			cursor++
		}

		segments = append(segments, entity.ContentSegment{
			StartTime:      entry.Start,
			EndTime:        entry.Start + entry.Duration,
			SlideIndex:     cursor,
			TranscriptText: entry.Text,
		})
	}
	return segments
}
