package usecase

import "sync"

const (
	MinHistorySize     = 5
	MaxHistorySize     = 10
	DefaultHistorySize = 8
)

type historyKey struct {
	storeID string
	userID  string
}

// History keeps the most recently resolved part ids per store and operator.
// It lives in process memory only and is lost on restart.
type History struct {
	mu       sync.Mutex
	capacity int
	entries  map[historyKey][]string
}

// NewHistory clamps capacity into [MinHistorySize, MaxHistorySize]; zero or
// negative selects the default.
func NewHistory(capacity int) *History {
	switch {
	case capacity <= 0:
		capacity = DefaultHistorySize
	case capacity < MinHistorySize:
		capacity = MinHistorySize
	case capacity > MaxHistorySize:
		capacity = MaxHistorySize
	}
	return &History{
		capacity: capacity,
		entries:  make(map[historyKey][]string),
	}
}

func (h *History) Capacity() int {
	return h.capacity
}

// Touch moves partID to the front, evicting the oldest entry when full.
func (h *History) Touch(storeID, userID, partID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := historyKey{storeID, userID}
	ids := h.entries[key]

	next := make([]string, 0, h.capacity)
	next = append(next, partID)
	for _, id := range ids {
		if id == partID {
			continue
		}
		if len(next) == h.capacity {
			break
		}
		next = append(next, id)
	}
	h.entries[key] = next
}

// IDs returns a copy of the list, most recent first.
func (h *History) IDs(storeID, userID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := h.entries[historyKey{storeID, userID}]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Retain drops every id not in keep.
func (h *History) Retain(storeID, userID string, keep map[string]struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := historyKey{storeID, userID}
	ids := h.entries[key]
	kept := ids[:0]
	for _, id := range ids {
		if _, ok := keep[id]; ok {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		delete(h.entries, key)
		return
	}
	h.entries[key] = kept
}
