package api

import (
	"context"

	"github.com/persistorai/graphconsole/internal/graph"
	"github.com/persistorai/graphconsole/internal/models"
)

// ConsoleService defines the console operations used by ConsoleHandler.
type ConsoleService interface {
	Query(ctx context.Context, sessionID string, req models.QueryRequest) (*models.QueryResponse, error)
	Graph(ctx context.Context, sessionID, selectQuery string) (*models.GraphResponse, error)
	Init(ctx context.Context, sessionID string, req models.InitRequest) (*models.InitResponse, error)
	ProjectRest(payload *graph.RestResult, fullRow bool) *models.RestResponse
	Import(ctx context.Context, snap *graph.Snapshot) (*graph.ImportResult, error)
}

// ShareService defines the shared-graph operations used by ShareHandler.
type ShareService interface {
	Share(ctx context.Context, sessionID string, req models.ShareRequest) (*models.GraphInfo, error)
	Load(ctx context.Context, id string) (*models.GraphInfo, error)
	Replay(ctx context.Context, sessionID, id string) (*models.QueryResponse, error)
	UpdateShared(ctx context.Context, id string, req models.UpdateGraphRequest) (*models.GraphInfo, error)
	DeleteShared(ctx context.Context, id string) error
}

// HealthChecker is a dependency that can report whether it is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// GraphCounter counts saved graphs; used to verify the schema is migrated.
type GraphCounter interface {
	Count(ctx context.Context) (int, error)
}
