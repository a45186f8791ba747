package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// historyStore keeps per-session download history in memory. Sessions live as
// long as the process, like the cookies that name them.
type historyStore struct {
	mu       sync.Mutex
	sessions map[string][]HistoryEntry
}

func newHistoryStore() *historyStore {
	return &historyStore{sessions: make(map[string][]HistoryEntry)}
}

// Add records an entry at the front of the session history. An entry with the
// same normalized URL is replaced in place of a duplicate, keeping its id.
func (h *historyStore) Add(sessionID string, entry HistoryEntry) HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry.AddedAt = time.Now()
	history := h.sessions[sessionID]

	if entry.NormalizedURL != "" {
		for i, existing := range history {
			if existing.NormalizedURL == entry.NormalizedURL {
				entry.ID = existing.ID
				history = append(history[:i], history[i+1:]...)
				break
			}
		}
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	h.sessions[sessionID] = append([]HistoryEntry{entry}, history...)
	return entry
}

// List returns the session history, newest first.
func (h *historyStore) List(sessionID string) []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	history := h.sessions[sessionID]
	out := make([]HistoryEntry, len(history))
	copy(out, history)
	return out
}

// Get returns the entry with the given id.
func (h *historyStore) Get(sessionID, id string) (HistoryEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, entry := range h.sessions[sessionID] {
		if entry.ID == id {
			return entry, true
		}
	}
	return HistoryEntry{}, false
}

// Update applies fn to the entry with the given id.
func (h *historyStore) Update(sessionID, id string, fn func(*HistoryEntry)) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	history := h.sessions[sessionID]
	for i := range history {
		if history[i].ID == id {
			fn(&history[i])
			return true
		}
	}
	return false
}

// Remove deletes the entry and returns it.
func (h *historyStore) Remove(sessionID, id string) (HistoryEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	history := h.sessions[sessionID]
	for i, entry := range history {
		if entry.ID == id {
			h.sessions[sessionID] = append(history[:i], history[i+1:]...)
			return entry, true
		}
	}
	return HistoryEntry{}, false
}

// Clear drops the whole session history.
func (h *historyStore) Clear(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, sessionID)
}

// PathInUse reports whether any session still references the file path.
func (h *historyStore) PathInUse(path string) bool {
	if path == "" {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, history := range h.sessions {
		for _, entry := range history {
			if entry.Path == path {
				return true
			}
			for _, f := range entry.CarouselFiles {
				if f.Path == path {
					return true
				}
			}
		}
	}
	return false
}
