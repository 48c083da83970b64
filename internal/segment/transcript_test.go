package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTranscriptJSON(t *testing.T) {
	payload := []byte(`[
		{"start": 0.5, "duration": 3.2, "text": "welcome everyone"},
		{"start": "4.0", "duration": "2.5", "text": "numeric strings are fine"},
		{"start": "oops", "duration": 1, "text": "dropped"},
		{"duration": 2, "text": "missing start, dropped"}
	]`)

	entries, err := ParseTranscript(payload)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, 0.5, entries[0].Start)
	assert.Equal(t, 3.2, entries[0].Duration)
	assert.Equal(t, "welcome everyone", entries[0].Text)
	assert.Equal(t, 4.0, entries[1].Start)
	assert.Equal(t, 2.5, entries[1].Duration)
}

func TestParseTranscriptInvalidJSON(t *testing.T) {
	_, err := ParseTranscript([]byte(`[{"start": }`))
	assert.Error(t, err)
}

func TestParseTranscriptSRT(t *testing.T) {
	payload := []byte(`1
00:00:01,000 --> 00:00:04,500
First cue line one
line two

2
00:00:05,000 --> 00:00:08,000
Second cue
`)

	entries, err := ParseTranscript(payload)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, 1.0, entries[0].Start)
	assert.Equal(t, 3.5, entries[0].Duration)
	assert.Equal(t, "First cue line one line two", entries[0].Text)
	assert.Equal(t, 5.0, entries[1].Start)
	assert.Equal(t, "Second cue", entries[1].Text)
}

func TestParseSRTSkipsMalformedCues(t *testing.T) {
	entries := ParseSRT(`1
00:00:10,000 --> 00:00:05,000
end before start, dropped

2
not a timestamp
stray text without a cue

3
00:01:00,000 --> 00:01:02,000
kept
`)

	require.Len(t, entries, 1)
	assert.Equal(t, 60.0, entries[0].Start)
	assert.Equal(t, "kept", entries[0].Text)
}

func TestParseSRTTimeWithHours(t *testing.T) {
	entries := ParseSRT(`1
01:02:03,250 --> 01:02:04,000
deep into the video
`)

	require.Len(t, entries, 1)
	assert.InDelta(t, 3723.25, entries[0].Start, 1e-9)
}
