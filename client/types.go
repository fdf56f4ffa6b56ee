package client

import "time"

// Snapshot is the visualization payload: flattened nodes and relationships
// keyed by their decimal id.
type Snapshot struct {
	Nodes         map[string]map[string]any `json:"nodes"`
	Relationships map[string]map[string]any `json:"relationships"`
}

// Projection counts what a projection applied.
type Projection struct {
	Nodes         int `json:"nodes"`
	Relationships int `json:"relationships"`
	Skipped       int `json:"skipped"`
}

// QueryRequest is the input for running Cypher.
type QueryRequest struct {
	Query  string         `json:"query"`
	Select string         `json:"select,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// QueryStats reports the updates a statement applied.
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

// QueryResponse is the table and visualization of a query.
type QueryResponse struct {
	Columns    []string    `json:"columns"`
	Rows       [][]any     `json:"rows"`
	Graph      *Snapshot   `json:"graph"`
	Projection Projection  `json:"projection"`
	Selected   int         `json:"selected"`
	Updates    *QueryStats `json:"updates,omitempty"`
	TimeMS     int64       `json:"time_ms"`
}

// GraphResponse is the visualization of the whole database.
type GraphResponse struct {
	Graph      *Snapshot  `json:"graph"`
	Projection Projection `json:"projection"`
	Selected   int        `json:"selected"`
}

// InitRequest is the input for setting up a session graph.
type InitRequest struct {
	Init  string `json:"init"`
	Reset bool   `json:"reset"`
}

// InitResponse reports how many setup statements ran.
type InitResponse struct {
	Statements int       `json:"statements"`
	Graph      *Snapshot `json:"graph"`
}

// RestResponse is the visualization of a REST-style result payload.
type RestResponse struct {
	Graph      *Snapshot  `json:"graph"`
	Projection Projection `json:"projection"`
}

// ImportResult summarises an import.
type ImportResult struct {
	NodesCreated         int              `json:"nodes_created"`
	RelationshipsCreated int              `json:"relationships_created"`
	IDMap                map[string]int64 `json:"id_map"`
}

// GraphInfo is a shared console graph.
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

// ShareRequest is the input for sharing the current session.
type ShareRequest struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	NoRoot  bool   `json:"no_root,omitempty"`
}

// UpdateGraphRequest changes the set fields of a shared graph.
type UpdateGraphRequest struct {
	Init    *string `json:"init,omitempty"`
	Query   *string `json:"query,omitempty"`
	Message *string `json:"message,omitempty"`
	NoRoot  *bool   `json:"no_root,omitempty"`
}

// HealthResponse is the response from the liveness endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	SchemaVersion int     `json:"schema_version"`
	Database      string  `json:"database"`
	Neo4j         string  `json:"neo4j"`
	Sessions      int     `json:"sessions"`
	Clients       int     `json:"clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadinessResponse is the response from the readiness endpoint.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
