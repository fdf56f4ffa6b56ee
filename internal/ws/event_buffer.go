package ws

import (
	"sync"
	"time"
)

// Snapshots are large, so only the most recent few are kept per session.
const (
	defaultBufferMaxLen = 8
	defaultBufferMaxAge = 30 * time.Minute
)

// EventBuffer stores recent events per session for replay on reconnect.
type EventBuffer struct {
	mu     sync.RWMutex
	events map[string][]Event
	maxAge time.Duration
	maxLen int
}

// NewEventBuffer creates an EventBuffer with the given limits.
func NewEventBuffer(maxLen int, maxAge time.Duration) *EventBuffer {
	return &EventBuffer{
		events: make(map[string][]Event),
		maxAge: maxAge,
		maxLen: maxLen,
	}
}

// Append stores an event for potential replay, evicting old entries.
func (eb *EventBuffer) Append(sessionID string, event *Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	buf := eb.events[sessionID]

	cutoff := time.Now().Add(-eb.maxAge)
	start := 0
	for start < len(buf) && buf[start].Time.Before(cutoff) {
		start++
	}
	if start > 0 {
		buf = buf[start:]
	}

	buf = append(buf, *event)
	if len(buf) > eb.maxLen {
		buf = buf[len(buf)-eb.maxLen:]
	}

	eb.events[sessionID] = buf
}

// Since returns all events for a session with ID > lastEventID.
// Returns nil if the session has no buffered events.
func (eb *EventBuffer) Since(sessionID string, lastEventID uint64) []Event {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	buf := eb.events[sessionID]
	if len(buf) == 0 {
		return nil
	}

	lo, hi := 0, len(buf)
	for lo < hi {
		mid := (lo + hi) / 2
		if buf[mid].ID <= lastEventID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo >= len(buf) {
		return nil
	}

	result := make([]Event, len(buf)-lo)
	copy(result, buf[lo:])
	return result
}

// OldestID returns the oldest buffered event ID for a session, or 0 if empty.
func (eb *EventBuffer) OldestID(sessionID string) uint64 {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	buf := eb.events[sessionID]
	if len(buf) == 0 {
		return 0
	}
	return buf[0].ID
}

// Forget drops every buffered event of a session.
func (eb *EventBuffer) Forget(sessionID string) {
	eb.mu.Lock()
	delete(eb.events, sessionID)
	eb.mu.Unlock()
}
