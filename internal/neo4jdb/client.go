// Package neo4jdb runs console queries against a Neo4j database and exposes
// the write transactions used to import graph snapshots.
package neo4jdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/graph"
	"github.com/persistorai/graphconsole/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	URI          string
	User         string
	Password     string
	Database     string
	QueryTimeout time.Duration
}

// Client wraps a Neo4j driver bound to one database.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	timeout  time.Duration
	log      *logrus.Logger
}

// Open creates a driver and verifies connectivity.
func Open(ctx context.Context, opts Options, log *logrus.Logger) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(opts.URI, neo4j.BasicAuth(opts.User, opts.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx) //nolint:errcheck // best-effort close on setup failure.

		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	timeout := opts.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return &Client{driver: driver, database: opts.Database, timeout: timeout, log: log}, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// Run executes a Cypher statement and converts its records into a graph.Result.
func (c *Client) Run(ctx context.Context, cypher string, params map[string]any) (*graph.Result, *models.QueryStats, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()

	res, err := neo4j.ExecuteQuery(ctx, c.driver, cypher, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
	)
	if err != nil {
		return nil, nil, classify(err)
	}

	out := &graph.Result{Columns: res.Keys, Rows: make([]graph.Row, 0, len(res.Records))}
	for _, rec := range res.Records {
		out.Rows = append(out.Rows, recordRow(rec.Keys, rec.Values))
	}

	var stats *models.QueryStats
	if res.Summary != nil {
		stats = countersStats(res.Summary.Counters())
	}

	c.log.WithFields(logrus.Fields{
		"columns":  len(out.Columns),
		"rows":     len(out.Rows),
		"duration": time.Since(start),
	}).Debug("cypher executed")

	return out, stats, nil
}

// Reset deletes every node and relationship in the database.
func (c *Client) Reset(ctx context.Context) error {
	if _, _, err := c.Run(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
		return fmt.Errorf("resetting database: %w", err)
	}

	return nil
}

// HealthCheck verifies the database answers a trivial query.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, _, err := c.Run(ctx, "RETURN 1", nil); err != nil {
		return fmt.Errorf("neo4j health check: %w", err)
	}

	return nil
}

// Close releases the driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// classify marks client-side statement errors with models.ErrQueryRejected
// so callers can tell them from connectivity failures.
func classify(err error) error {
	var nerr *neo4j.Neo4jError
	if errors.As(err, &nerr) && strings.HasPrefix(nerr.Code, "Neo.ClientError.") {
		return fmt.Errorf("%w: %w", models.ErrQueryRejected, err)
	}

	return fmt.Errorf("executing cypher: %w", err)
}

func countersStats(cn neo4j.Counters) *models.QueryStats {
	if cn == nil {
		return nil
	}

	return &models.QueryStats{
		ContainsUpdates:      cn.ContainsUpdates(),
		NodesCreated:         cn.NodesCreated(),
		NodesDeleted:         cn.NodesDeleted(),
		RelationshipsCreated: cn.RelationshipsCreated(),
		RelationshipsDeleted: cn.RelationshipsDeleted(),
		PropertiesSet:        cn.PropertiesSet(),
		LabelsAdded:          cn.LabelsAdded(),
		LabelsRemoved:        cn.LabelsRemoved(),
	}
}
