// Package models defines the request, response and persistence types of the
// graph console.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxGraphIDLen = 64
	maxScriptLen  = 1 << 20
	maxMessageLen = 10000
	maxVersionLen = 32
	graphIDLength = 10
)

// GraphInfo is a saved console state: the setup script, the last query and
// a free-text message, replayable by id.
type GraphInfo struct {
	ID        string    `json:"id"`
	Init      string    `json:"init"`
	Query     string    `json:"query"`
	Message   string    `json:"message"`
	Version   string    `json:"version,omitempty"`
	NoRoot    bool      `json:"no_root"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasRoot reports whether replaying the graph shows the reference node.
func (g *GraphInfo) HasRoot() bool {
	return !g.NoRoot
}

// NewQuery returns a copy of g with a different query.
func (g *GraphInfo) NewQuery(query string) GraphInfo {
	c := *g
	c.Query = query

	return c
}

// NewGraphID returns a short random identifier for a shared graph.
func NewGraphID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:graphIDLength]
}

// Normalize fills a blank id with a generated one and validates lengths.
func (g *GraphInfo) Normalize() error {
	g.ID = strings.TrimSpace(g.ID)
	if g.ID == "" {
		g.ID = NewGraphID()
	}

	if len(g.ID) > maxGraphIDLen {
		return ErrFieldTooLong("id", maxGraphIDLen)
	}

	if strings.ContainsAny(g.ID, "/?#% \t\n") {
		return ErrInvalidGraphID
	}

	if len(g.Init) > maxScriptLen {
		return ErrFieldTooLong("init", maxScriptLen)
	}

	if len(g.Query) > maxScriptLen {
		return ErrFieldTooLong("query", maxScriptLen)
	}

	if len(g.Message) > maxMessageLen {
		return ErrFieldTooLong("message", maxMessageLen)
	}

	if len(g.Version) > maxVersionLen {
		return ErrFieldTooLong("version", maxVersionLen)
	}

	return nil
}
