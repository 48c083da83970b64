package slides

import "gocv.io/x/gocv"

// HistoryEntry pairs the OCR text of an accepted slide with an owned copy
// of its frame, kept only for duplicate comparison.
type HistoryEntry struct {
	Text  string
	Image gocv.Mat
}

// History is a fixed-capacity window over the most recently accepted
// slides. Pushing beyond capacity evicts (and releases) the oldest entry,
// bounding both memory and per-candidate comparison cost regardless of
// video length.
type History struct {
	entries  []HistoryEntry
	capacity int
}

const DefaultHistorySize = 10

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{
		entries:  make([]HistoryEntry, 0, capacity),
		capacity: capacity,
	}
}

// Push takes ownership of img (callers must pass a clone they no longer
// use) and evicts the oldest entry once the window is full.
func (h *History) Push(text string, img gocv.Mat) {
	if len(h.entries) == h.capacity {
		oldest := h.entries[0]
		if !oldest.Image.Empty() {
			oldest.Image.Close()
		}
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, HistoryEntry{Text: text, Image: img})
}

// Entries exposes the window contents, oldest first.
func (h *History) Entries() []HistoryEntry {
	return h.entries
}

func (h *History) Len() int {
	return len(h.entries)
}

// Close releases every retained frame copy.
func (h *History) Close() {
	for i := range h.entries {
		if !h.entries[i].Image.Empty() {
			h.entries[i].Image.Close()
		}
	}
	h.entries = h.entries[:0]
}
