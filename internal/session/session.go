// Package session keeps per-browser console state in memory.
package session

import (
	"strings"
	"sync"
	"time"
)

// maxQueries caps the query history of a session.
const maxQueries = 100

// Session is the console state of one browser. Queries that belong to the
// same session are serialised through Lock so each one builds its own model
// against a consistent history.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	init    string
	queries []string
	version int
	noRoot  bool

	seenMu   sync.Mutex
	lastSeen time.Time
}

// State is a point-in-time copy of a session.
type State struct {
	ID       string    `json:"id"`
	Init     string    `json:"init"`
	Queries  []string  `json:"queries"`
	Version  int       `json:"version"`
	NoRoot   bool      `json:"no_root"`
	LastSeen time.Time `json:"last_seen"`
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, lastSeen: now}
}

// Lock serialises work on the session. The returned func releases it.
func (s *Session) Lock() func() {
	s.mu.Lock()

	return s.mu.Unlock
}

// RecordQuery appends a successful query to the history. Must be called
// with the session locked.
func (s *Session) RecordQuery(query string) {
	s.queries = append(s.queries, query)
	if len(s.queries) > maxQueries {
		s.queries = s.queries[len(s.queries)-maxQueries:]
	}

	s.version++
}

// SetInit replaces the setup script and clears the query history. Must be
// called with the session locked.
func (s *Session) SetInit(script string) {
	s.init = script
	s.queries = nil
	s.version++
}

// SetNoRoot toggles the reference node for later projections. Must be
// called with the session locked.
func (s *Session) SetNoRoot(noRoot bool) {
	s.noRoot = noRoot
}

// NoRoot reports whether projections hide the reference node. Must be
// called with the session locked.
func (s *Session) NoRoot() bool {
	return s.noRoot
}

// State copies the session. Must be called with the session locked.
func (s *Session) State() State {
	s.seenMu.Lock()
	seen := s.lastSeen
	s.seenMu.Unlock()

	return State{
		ID:       s.ID,
		Init:     s.init,
		Queries:  append([]string(nil), s.queries...),
		Version:  s.version,
		NoRoot:   s.noRoot,
		LastSeen: seen,
	}
}

// Script joins the query history into a replayable script, one statement
// per line terminated with ';'.
func (st State) Script() string {
	var b strings.Builder
	for _, q := range st.Queries {
		b.WriteString(strings.TrimSuffix(strings.TrimSpace(q), ";"))
		b.WriteString(";\n")
	}

	return b.String()
}
