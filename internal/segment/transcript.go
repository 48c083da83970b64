package segment

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
)

// ParseTranscript decodes a transcript payload into ordered entries.
// JSON arrays of {start, duration, text} objects and SRT text are both
// accepted; the payload's leading character decides which.
func ParseTranscript(payload []byte) ([]entity.TranscriptEntry, error) {
	trimmed := strings.TrimSpace(string(payload))
	if strings.HasPrefix(trimmed, "[") {
		return parseJSONTranscript(payload)
	}
	return ParseSRT(trimmed), nil
}

// parseJSONTranscript coerces loosely-typed entries: numeric strings are
// accepted for start/duration, anything non-coercible drops the entry
// silently. No further schema validation happens here.
func parseJSONTranscript(payload []byte) ([]entity.TranscriptEntry, error) {
	var raw []map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}

	entries := make([]entity.TranscriptEntry, 0, len(raw))
	for _, item := range raw {
		start, ok := coerceFloat(item["start"])
		if !ok {
			continue
		}
		duration, ok := coerceFloat(item["duration"])
		if !ok {
			continue
		}
		text, _ := item["text"].(string)
		entries = append(entries, entity.TranscriptEntry{
			Start:    start,
			Duration: duration,
			Text:     text,
		})
	}
	return entries, nil
}

func coerceFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ParseSRT reads SubRip transcript text. Sequence-number lines are
// skipped, timestamp lines open a cue, and consecutive text lines within a
// cue merge into one entry.
func ParseSRT(text string) []entity.TranscriptEntry {
	var entries []entity.TranscriptEntry
	var current *entity.TranscriptEntry

	flush := func() {
		if current != nil && current.Text != "" {
			entries = append(entries, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if isDigitsOnly(line) {
			continue
		}
		if strings.Contains(line, "-->") {
			flush()
			parts := strings.SplitN(line, "-->", 2)
			start, okStart := parseSRTTime(strings.TrimSpace(parts[0]))
			end, okEnd := parseSRTTime(strings.TrimSpace(parts[1]))
			if !okStart || !okEnd || end < start {
				continue
			}
			current = &entity.TranscriptEntry{Start: start, Duration: end - start}
			continue
		}
		if current != nil {
			if current.Text != "" {
				current.Text += " "
			}
			current.Text += line
		}
	}
	flush()
	return entries
}

// parseSRTTime parses "HH:MM:SS,mmm" (or with a dot) into seconds.
func parseSRTTime(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	return float64(hours*3600+minutes*60) + seconds, true
}

func isDigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
