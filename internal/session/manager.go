package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/metrics"
)

const (
	maxSessions     = 10000
	cleanupInterval = time.Minute
)

// Manager is the in-memory registry of console sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	log      *logrus.Logger
	now      func() time.Time

	// OnEvict, when set, is called with the id of every evicted session.
	OnEvict func(id string)
}

// NewManager creates a Manager that drops sessions idle for longer than ttl.
func NewManager(ttl time.Duration, log *logrus.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Get returns the session with the given id and marks it as seen.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if ok {
		m.touch(s)
	}

	return s, ok
}

// GetOrCreate returns the session with the given id, creating it when
// missing. A blank id gets a fresh one.
func (m *Manager) GetOrCreate(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	if s, ok := m.Get(id); ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}

	if len(m.sessions) >= maxSessions {
		m.evictOldestLocked()
	}

	s := newSession(id, m.now())
	m.sessions[id] = s
	metrics.SessionsActive.Set(float64(len(m.sessions)))

	m.log.WithField("session_id", id).Debug("session created")

	return s
}

// Reset drops a session. It reports whether the session existed.
func (m *Manager) Reset(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	if ok && m.OnEvict != nil {
		m.OnEvict(id)
	}

	return ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// Run evicts idle sessions until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle()
		}
	}
}

// EvictIdle removes sessions not seen within the TTL and returns how many
// were dropped.
func (m *Manager) EvictIdle() int {
	cutoff := m.now().Add(-m.ttl)

	var evicted []string

	m.mu.Lock()
	for id, s := range m.sessions {
		if m.lastSeen(s).Before(cutoff) {
			delete(m.sessions, id)
			evicted = append(evicted, id)
		}
	}
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	for _, id := range evicted {
		if m.OnEvict != nil {
			m.OnEvict(id)
		}
	}

	if len(evicted) > 0 {
		m.log.WithField("count", len(evicted)).Debug("evicted idle sessions")
	}

	return len(evicted)
}

// evictOldestLocked drops the least recently seen session. Caller holds mu.
func (m *Manager) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)

	for id, s := range m.sessions {
		seen := m.lastSeen(s)
		if oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}

	delete(m.sessions, oldestID)

	if m.OnEvict != nil {
		go m.OnEvict(oldestID)
	}
}

func (m *Manager) touch(s *Session) {
	now := m.now()

	s.seenMu.Lock()
	s.lastSeen = now
	s.seenMu.Unlock()
}

func (m *Manager) lastSeen(s *Session) time.Time {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()

	return s.lastSeen
}
