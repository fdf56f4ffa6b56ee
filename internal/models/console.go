package models

import (
	"strings"

	"github.com/persistorai/graphconsole/internal/graph"
)

const maxQueryLen = 100000

// QueryRequest is the payload for running Cypher in a console session.
// Select, when set, runs after Query and marks the matching entities.
type QueryRequest struct {
	Query  string         `json:"query"`
	Select string         `json:"select,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// Validate checks that the query is present and within limits.
func (r *QueryRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return ErrEmptyQuery
	}

	if len(r.Query) > maxQueryLen {
		return ErrFieldTooLong("query", maxQueryLen)
	}

	if len(r.Select) > maxQueryLen {
		return ErrFieldTooLong("select", maxQueryLen)
	}

	return nil
}

// QueryStats reports the updates a statement applied to the database.
type QueryStats struct {
	ContainsUpdates      bool `json:"contains_updates"`
	NodesCreated         int  `json:"nodes_created"`
	NodesDeleted         int  `json:"nodes_deleted"`
	RelationshipsCreated int  `json:"relationships_created"`
	RelationshipsDeleted int  `json:"relationships_deleted"`
	PropertiesSet        int  `json:"properties_set"`
	LabelsAdded          int  `json:"labels_added"`
	LabelsRemoved        int  `json:"labels_removed"`
}

// QueryResponse carries the tabular result and the visualization payload.
type QueryResponse struct {
	Columns  []string        `json:"columns"`
	Rows     [][]any         `json:"rows"`
	Graph    *graph.Snapshot `json:"graph"`
	Stats    graph.Stats     `json:"projection"`
	Selected int             `json:"selected"`
	Updates  *QueryStats     `json:"updates,omitempty"`
	TimeMS   int64           `json:"time_ms"`
}

// InitRequest sets up a session graph. Statements in Init are separated by
// lines ending in ';'.
type InitRequest struct {
	Init  string `json:"init"`
	Reset bool   `json:"reset"`
}

// Validate checks that the request does something and is within limits.
func (r *InitRequest) Validate() error {
	if !r.Reset && strings.TrimSpace(r.Init) == "" {
		return ErrMissingStatement
	}

	if len(r.Init) > maxScriptLen {
		return ErrFieldTooLong("init", maxScriptLen)
	}

	return nil
}

// InitResponse reports how many setup statements ran.
type InitResponse struct {
	Statements int             `json:"statements"`
	Graph      *graph.Snapshot `json:"graph"`
}

// RestResponse is the visualization of a projected REST payload.
type RestResponse struct {
	Graph *graph.Snapshot `json:"graph"`
	Stats graph.Stats     `json:"projection"`
}

// ShareRequest saves the current session state under an optional id.
type ShareRequest struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	NoRoot  bool   `json:"no_root,omitempty"`
}

// UpdateGraphRequest replaces the mutable fields of a saved graph.
// Nil fields are left unchanged.
type UpdateGraphRequest struct {
	Init    *string `json:"init,omitempty"`
	Query   *string `json:"query,omitempty"`
	Message *string `json:"message,omitempty"`
	NoRoot  *bool   `json:"no_root,omitempty"`
}

// Apply copies the set fields of r onto g.
func (r *UpdateGraphRequest) Apply(g *GraphInfo) {
	if r.Init != nil {
		g.Init = *r.Init
	}

	if r.Query != nil {
		g.Query = *r.Query
	}

	if r.Message != nil {
		g.Message = *r.Message
	}

	if r.NoRoot != nil {
		g.NoRoot = *r.NoRoot
	}
}

// SplitStatements splits a setup script into statements. A statement ends
// at a line whose trimmed text ends with ';'. Blank statements are dropped.
func SplitStatements(script string) []string {
	var (
		out []string
		cur strings.Builder
	)

	flush := func() {
		stmt := strings.TrimSpace(cur.String())
		stmt = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))

		if stmt != "" {
			out = append(out, stmt)
		}

		cur.Reset()
	}

	for line := range strings.SplitSeq(script, "\n") {
		cur.WriteString(line)
		cur.WriteByte('\n')

		if strings.HasSuffix(strings.TrimSpace(line), ";") {
			flush()
		}
	}

	flush()

	return out
}

// GraphResponse is the visualization of the whole database.
type GraphResponse struct {
	Graph    *graph.Snapshot `json:"graph"`
	Stats    graph.Stats     `json:"projection"`
	Selected int             `json:"selected"`
}
