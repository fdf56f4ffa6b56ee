// Package service implements the console operations between the API
// handlers and the graph database.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/graph"
	"github.com/persistorai/graphconsole/internal/metrics"
	"github.com/persistorai/graphconsole/internal/models"
	"github.com/persistorai/graphconsole/internal/session"
	"github.com/persistorai/graphconsole/internal/ws"
)

// wholeGraphQuery returns every node and its outgoing relationships.
const wholeGraphQuery = "MATCH (n) OPTIONAL MATCH (n)-[r]->() RETURN n, r"

// queryRunner runs Cypher against the console database.
type queryRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (*graph.Result, *models.QueryStats, error)
	Reset(ctx context.Context) error
}

// sessionStore hands out console sessions by id.
type sessionStore interface {
	GetOrCreate(id string) *session.Session
}

// broadcaster pushes session events to live clients.
type broadcaster interface {
	BroadcastEvent(eventType, sessionID string, data json.RawMessage)
}

// Options configures a ConsoleService.
type Options struct {
	// RootNodeID is shown for empty results. Negative disables it.
	RootNodeID int64
	Version    string
}

// ConsoleService runs console queries and projects their results.
type ConsoleService struct {
	db       queryRunner
	importDB graph.Database
	graphs   graphStore
	sessions sessionStore
	hub      broadcaster
	opts     Options
	log      *logrus.Logger
}

// NewConsoleService creates a ConsoleService. hub may be nil.
func NewConsoleService(
	db queryRunner, importDB graph.Database, graphs graphStore, sessions sessionStore,
	hub broadcaster, opts Options, log *logrus.Logger,
) *ConsoleService {
	return &ConsoleService{
		db:       db,
		importDB: importDB,
		graphs:   graphs,
		sessions: sessions,
		hub:      hub,
		opts:     opts,
		log:      log,
	}
}

func (s *ConsoleService) adapter(noRoot bool) *graph.ResultAdapter {
	if noRoot || s.opts.RootNodeID < 0 {
		return graph.NewResultAdapter()
	}

	return graph.NewResultAdapter(graph.WithRootNode(s.opts.RootNodeID))
}

// Query runs req in the session and returns the table and visualization.
// The visualization is the query result extended with the whole database.
// A select query, when present, runs last and marks the entities it
// returns without adding new ones.
func (s *ConsoleService) Query(ctx context.Context, sessionID string, req models.QueryRequest) (*models.QueryResponse, error) {
	sess := s.sessions.GetOrCreate(sessionID)
	unlock := sess.Lock()
	defer unlock()

	start := time.Now()

	res, updates, err := s.run(ctx, "query", req.Query, req.Params)
	if err != nil {
		return nil, err
	}

	// The query's own entities come first so they keep the leading viz
	// indices. The root fallback applies only when the database is empty.
	m := graph.NewModel()
	st := graph.NewResultAdapter().Extend(m, res)

	all, _, err := s.run(ctx, "graph", wholeGraphQuery, nil)
	if err != nil {
		return nil, err
	}

	st = st.Add(s.adapter(sess.NoRoot()).Extend(m, all))

	selected, err := s.markSelection(ctx, m, req.Select, req.Params)
	if err != nil {
		return nil, err
	}

	sess.RecordQuery(req.Query)

	snap := m.Snapshot()
	observeProjection(m, st)
	s.publish(sessionID, snap)

	s.log.WithFields(logrus.Fields{
		"session_id":    sessionID,
		"columns":       len(res.Columns),
		"rows":          len(res.Rows),
		"nodes":         m.NodeCount(),
		"relationships": m.RelationshipCount(),
		"duration":      time.Since(start),
	}).Debug("query projected")

	return &models.QueryResponse{
		Columns:  res.Columns,
		Rows:     res.Table(),
		Graph:    snap,
		Stats:    st,
		Selected: selected,
		Updates:  updates,
		TimeMS:   time.Since(start).Milliseconds(),
	}, nil
}

// Graph projects the whole database, optionally marking the result of
// selectQuery.
func (s *ConsoleService) Graph(ctx context.Context, sessionID, selectQuery string) (*models.GraphResponse, error) {
	sess := s.sessions.GetOrCreate(sessionID)
	unlock := sess.Lock()
	defer unlock()

	m, st, err := s.wholeGraph(ctx, sess.NoRoot())
	if err != nil {
		return nil, err
	}

	selected, err := s.markSelection(ctx, m, selectQuery, nil)
	if err != nil {
		return nil, err
	}

	snap := m.Snapshot()
	observeProjection(m, st)

	return &models.GraphResponse{Graph: snap, Stats: st, Selected: selected}, nil
}

// Init optionally clears the database, then runs the setup statements of
// req and returns the resulting graph.
func (s *ConsoleService) Init(ctx context.Context, sessionID string, req models.InitRequest) (*models.InitResponse, error) {
	sess := s.sessions.GetOrCreate(sessionID)
	unlock := sess.Lock()
	defer unlock()

	n, err := s.runScript(ctx, req.Init, req.Reset)
	if err != nil {
		return nil, err
	}

	sess.SetInit(req.Init)

	m, _, err := s.wholeGraph(ctx, sess.NoRoot())
	if err != nil {
		return nil, err
	}

	snap := m.Snapshot()
	s.publish(sessionID, snap)

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"statements": n,
		"reset":      req.Reset,
	}).Debug("session initialised")

	return &models.InitResponse{Statements: n, Graph: snap}, nil
}

// ProjectRest turns a REST-style result payload into a visualization.
// Only the first column is projected unless fullRow is set.
func (s *ConsoleService) ProjectRest(payload *graph.RestResult, fullRow bool) *models.RestResponse {
	m, st := graph.RestAdapter{FullRow: fullRow}.Build(payload)
	observeProjection(m, st)

	if st.Skipped > 0 {
		s.log.WithField("skipped", st.Skipped).Debug("rest payload had unrecognised cells")
	}

	return &models.RestResponse{Graph: m.Snapshot(), Stats: st}
}

// Import creates the entities of snap in the database as new nodes and
// relationships.
func (s *ConsoleService) Import(ctx context.Context, snap *graph.Snapshot) (*graph.ImportResult, error) {
	m, err := graph.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidPayload, err)
	}

	res, err := graph.Import(ctx, s.importDB, m)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("import", "error").Inc()

		return nil, fmt.Errorf("importing snapshot: %w", err)
	}

	metrics.QueriesTotal.WithLabelValues("import", "ok").Inc()
	metrics.ImportedTotal.WithLabelValues("node").Add(float64(res.NodesCreated))
	metrics.ImportedTotal.WithLabelValues("relationship").Add(float64(res.RelationshipsCreated))

	s.log.WithFields(logrus.Fields{
		"nodes":         res.NodesCreated,
		"relationships": res.RelationshipsCreated,
	}).Info("snapshot imported")

	return res, nil
}

func (s *ConsoleService) run(ctx context.Context, kind, cypher string, params map[string]any) (*graph.Result, *models.QueryStats, error) {
	res, stats, err := s.db.Run(ctx, cypher, params)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(kind, "error").Inc()

		return nil, nil, fmt.Errorf("running %s: %w", kind, err)
	}

	metrics.QueriesTotal.WithLabelValues(kind, "ok").Inc()

	return res, stats, nil
}

// runScript clears the database when reset is set, then runs every
// statement of script in order. It returns the number of statements run.
func (s *ConsoleService) runScript(ctx context.Context, script string, reset bool) (int, error) {
	if reset {
		if err := s.db.Reset(ctx); err != nil {
			return 0, fmt.Errorf("resetting database: %w", err)
		}
	}

	stmts := models.SplitStatements(script)
	for i, stmt := range stmts {
		if _, _, err := s.run(ctx, "init", stmt, nil); err != nil {
			return i, fmt.Errorf("statement %d: %w", i+1, err)
		}
	}

	return len(stmts), nil
}

func (s *ConsoleService) wholeGraph(ctx context.Context, noRoot bool) (*graph.Model, graph.Stats, error) {
	res, _, err := s.run(ctx, "graph", wholeGraphQuery, nil)
	if err != nil {
		return nil, graph.Stats{}, err
	}

	m := graph.NewModel()
	st := s.adapter(noRoot).Extend(m, res)

	return m, st, nil
}

func (s *ConsoleService) markSelection(ctx context.Context, m *graph.Model, selectQuery string, params map[string]any) (int, error) {
	if selectQuery == "" {
		return 0, nil
	}

	res, _, err := s.run(ctx, "select", selectQuery, params)
	if err != nil {
		return 0, err
	}

	return graph.MarkSelection(m, res), nil
}

// publish pushes the snapshot to the session's live clients.
func (s *ConsoleService) publish(sessionID string, snap *graph.Snapshot) {
	if s.hub == nil || sessionID == "" {
		return
	}

	data, err := json.Marshal(snap)
	if err != nil {
		s.log.WithError(err).Warn("marshalling snapshot event")

		return
	}

	s.hub.BroadcastEvent(ws.EventGraph, sessionID, data)
}

func observeProjection(m *graph.Model, st graph.Stats) {
	metrics.ProjectionSize.WithLabelValues("node").Observe(float64(m.NodeCount()))
	metrics.ProjectionSize.WithLabelValues("relationship").Observe(float64(m.RelationshipCount()))

	if st.Skipped > 0 {
		metrics.ErrorsTotal.WithLabelValues("projection_skipped").Add(float64(st.Skipped))
	}
}
