package slides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
)

func TestShouldSkipChapter(t *testing.T) {
	cases := []struct {
		title string
		skip  bool
	}{
		{"Introduction", true},
		{"Q&A Session", true},
		{"Thank You and Closing Remarks", true},
		{"AGENDA", true},
		{"Deep Dive: Kubernetes Networking", false},
		{"Scaling Postgres", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.skip, ShouldSkipChapter(tc.title), "title %q", tc.title)
	}
}

func TestParseChaptersFromDescription(t *testing.T) {
	description := `Great talk from the conference.

00:00 Welcome
02:30 - Architecture Overview
15:45: Scaling the Data Layer
1:02:10 Closing Remarks

Recorded live.`

	chapters := ParseChaptersFromDescription(description, 4000)

	require.Len(t, chapters, 4)
	assert.Equal(t, "Welcome", chapters[0].Title)
	assert.Equal(t, 0.0, chapters[0].StartTime)
	assert.Equal(t, 150.0, chapters[0].EndTime)

	assert.Equal(t, "Architecture Overview", chapters[1].Title)
	assert.Equal(t, 150.0, chapters[1].StartTime)

	assert.Equal(t, "Scaling the Data Layer", chapters[2].Title)
	assert.Equal(t, 945.0, chapters[2].StartTime)

	assert.Equal(t, "Closing Remarks", chapters[3].Title)
	assert.Equal(t, 3730.0, chapters[3].StartTime)
	// Last chapter runs to the end of the video.
	assert.Equal(t, 4000.0, chapters[3].EndTime)
}

func TestParseChaptersRequiresTwoMarkers(t *testing.T) {
	assert.Nil(t, ParseChaptersFromDescription("00:00 Only one marker", 600))
	assert.Nil(t, ParseChaptersFromDescription("no markers here at all", 600))
}

func TestParseChaptersDropsMarkersPastDuration(t *testing.T) {
	description := `00:00 Start
05:00 Middle
45:00 Beyond the end`

	chapters := ParseChaptersFromDescription(description, 600)

	require.Len(t, chapters, 2)
	assert.Equal(t, "Middle", chapters[1].Title)
	assert.Equal(t, 600.0, chapters[1].EndTime)
}

func TestChapterAllotmentsProportionalWithFloor(t *testing.T) {
	chapters := []entity.Chapter{
		{Title: "Intro", StartTime: 0, EndTime: 60},
		{Title: "Main Topic", StartTime: 60, EndTime: 960},
		{Title: "Short Aside", StartTime: 960, EndTime: 1020},
	}

	allotments := chapterAllotments(chapters, 32)

	// Skipped chapters get nothing.
	assert.Equal(t, 0, allotments[0])
	// Long chapter takes the bulk of the budget.
	assert.Greater(t, allotments[1], allotments[2])
	// Every active chapter samples at least once.
	assert.GreaterOrEqual(t, allotments[2], 1)
}

func TestChapterAllotmentsZeroBudget(t *testing.T) {
	chapters := []entity.Chapter{
		{Title: "Main", StartTime: 0, EndTime: 100},
	}

	allotments := chapterAllotments(chapters, 0)
	assert.Equal(t, []int{1}, allotments)
}
