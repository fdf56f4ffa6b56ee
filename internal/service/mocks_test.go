package service

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/graph"
	"github.com/persistorai/graphconsole/internal/models"
	"github.com/persistorai/graphconsole/internal/session"
)

// mockRunner records statements and returns configured responses.
type mockRunner struct {
	mu     sync.Mutex
	calls  []string
	resets int

	runFn   func(ctx context.Context, cypher string, params map[string]any) (*graph.Result, *models.QueryStats, error)
	resetFn func(ctx context.Context) error
}

func (m *mockRunner) Run(ctx context.Context, cypher string, params map[string]any) (*graph.Result, *models.QueryStats, error) {
	m.mu.Lock()
	m.calls = append(m.calls, cypher)
	m.mu.Unlock()

	if m.runFn == nil {
		return &graph.Result{}, nil, nil
	}

	return m.runFn(ctx, cypher, params)
}

func (m *mockRunner) Reset(ctx context.Context) error {
	m.mu.Lock()
	m.resets++
	m.mu.Unlock()

	if m.resetFn == nil {
		return nil
	}

	return m.resetFn(ctx)
}

// mockGraphStore keeps shared graphs in a map.
type mockGraphStore struct {
	graphs    map[string]models.GraphInfo
	createErr error
}

func newMockGraphStore() *mockGraphStore {
	return &mockGraphStore{graphs: make(map[string]models.GraphInfo)}
}

func (m *mockGraphStore) Create(_ context.Context, info models.GraphInfo) (*models.GraphInfo, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}

	if err := info.Normalize(); err != nil {
		return nil, err
	}

	if _, ok := m.graphs[info.ID]; ok {
		return nil, models.ErrDuplicateKey
	}

	m.graphs[info.ID] = info

	return &info, nil
}

func (m *mockGraphStore) Update(_ context.Context, info models.GraphInfo) (*models.GraphInfo, error) {
	if _, ok := m.graphs[info.ID]; !ok {
		return nil, models.ErrGraphNotFound
	}

	m.graphs[info.ID] = info

	return &info, nil
}

func (m *mockGraphStore) Delete(_ context.Context, id string) error {
	if _, ok := m.graphs[id]; !ok {
		return models.ErrGraphNotFound
	}

	delete(m.graphs, id)

	return nil
}

func (m *mockGraphStore) Find(_ context.Context, id string) (*models.GraphInfo, error) {
	info, ok := m.graphs[id]
	if !ok {
		return nil, models.ErrGraphNotFound
	}

	return &info, nil
}

// mockBroadcaster captures published events.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []string
	last   json.RawMessage
}

func (m *mockBroadcaster) BroadcastEvent(eventType, sessionID string, data json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, eventType+":"+sessionID)
	m.last = data
}

// mockImportDB accepts writes and hands out sequential ids.
type mockImportDB struct {
	nextID int64
	nodes  int
	rels   int
	err    error
}

func (m *mockImportDB) WriteTx(ctx context.Context, fn func(w graph.Writer) error) error {
	if m.err != nil {
		return m.err
	}

	return fn(m)
}

func (m *mockImportDB) CreateNode(context.Context, []string, map[string]any) (int64, error) {
	m.nextID++
	m.nodes++

	return m.nextID, nil
}

func (m *mockImportDB) CreateRelationship(context.Context, int64, int64, string, map[string]any) (int64, error) {
	m.nextID++
	m.rels++

	return m.nextID, nil
}

type testDeps struct {
	runner   *mockRunner
	graphs   *mockGraphStore
	hub      *mockBroadcaster
	importDB *mockImportDB
	sessions *session.Manager
}

func newTestService(opts Options) (*ConsoleService, *testDeps) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	d := &testDeps{
		runner:   &mockRunner{},
		graphs:   newMockGraphStore(),
		hub:      &mockBroadcaster{},
		importDB: &mockImportDB{},
		sessions: session.NewManager(time.Hour, log),
	}

	svc := NewConsoleService(d.runner, d.importDB, d.graphs, d.sessions, d.hub, opts, log)

	return svc, d
}
