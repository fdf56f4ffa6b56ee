package api_test

import (
	"context"
	"errors"

	"github.com/persistorai/graphconsole/internal/graph"
	"github.com/persistorai/graphconsole/internal/models"
)

var errNotImplemented = errors.New("not implemented")

// mockConsole implements api.ConsoleService with configurable funcs.
type mockConsole struct {
	queryFn  func(ctx context.Context, sessionID string, req models.QueryRequest) (*models.QueryResponse, error)
	graphFn  func(ctx context.Context, sessionID, selectQuery string) (*models.GraphResponse, error)
	initFn   func(ctx context.Context, sessionID string, req models.InitRequest) (*models.InitResponse, error)
	importFn func(ctx context.Context, snap *graph.Snapshot) (*graph.ImportResult, error)

	lastFullRow bool
}

func (m *mockConsole) Query(ctx context.Context, sessionID string, req models.QueryRequest) (*models.QueryResponse, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sessionID, req)
	}

	return nil, errNotImplemented
}

func (m *mockConsole) Graph(ctx context.Context, sessionID, selectQuery string) (*models.GraphResponse, error) {
	if m.graphFn != nil {
		return m.graphFn(ctx, sessionID, selectQuery)
	}

	return nil, errNotImplemented
}

func (m *mockConsole) Init(ctx context.Context, sessionID string, req models.InitRequest) (*models.InitResponse, error) {
	if m.initFn != nil {
		return m.initFn(ctx, sessionID, req)
	}

	return nil, errNotImplemented
}

func (m *mockConsole) ProjectRest(payload *graph.RestResult, fullRow bool) *models.RestResponse {
	m.lastFullRow = fullRow
	model, st := graph.RestAdapter{FullRow: fullRow}.Build(payload)

	return &models.RestResponse{Graph: model.Snapshot(), Stats: st}
}

func (m *mockConsole) Import(ctx context.Context, snap *graph.Snapshot) (*graph.ImportResult, error) {
	if m.importFn != nil {
		return m.importFn(ctx, snap)
	}

	return nil, errNotImplemented
}

// mockShares implements api.ShareService with configurable funcs.
type mockShares struct {
	shareFn  func(ctx context.Context, sessionID string, req models.ShareRequest) (*models.GraphInfo, error)
	loadFn   func(ctx context.Context, id string) (*models.GraphInfo, error)
	replayFn func(ctx context.Context, sessionID, id string) (*models.QueryResponse, error)
	updateFn func(ctx context.Context, id string, req models.UpdateGraphRequest) (*models.GraphInfo, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockShares) Share(ctx context.Context, sessionID string, req models.ShareRequest) (*models.GraphInfo, error) {
	if m.shareFn != nil {
		return m.shareFn(ctx, sessionID, req)
	}

	return nil, errNotImplemented
}

func (m *mockShares) Load(ctx context.Context, id string) (*models.GraphInfo, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx, id)
	}

	return nil, errNotImplemented
}

func (m *mockShares) Replay(ctx context.Context, sessionID, id string) (*models.QueryResponse, error) {
	if m.replayFn != nil {
		return m.replayFn(ctx, sessionID, id)
	}

	return nil, errNotImplemented
}

func (m *mockShares) UpdateShared(ctx context.Context, id string, req models.UpdateGraphRequest) (*models.GraphInfo, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, req)
	}

	return nil, errNotImplemented
}

func (m *mockShares) DeleteShared(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}

	return errNotImplemented
}

// mockChecker is a HealthChecker returning err.
type mockChecker struct{ err error }

func (m mockChecker) HealthCheck(context.Context) error { return m.err }

// mockGraphCounter implements api.GraphCounter.
type mockGraphCounter struct {
	n   int
	err error
}

func (m mockGraphCounter) Count(context.Context) (int, error) { return m.n, m.err }

type fixedCount int

func (f fixedCount) Count() int       { return int(f) }
func (f fixedCount) ClientCount() int { return int(f) }
