// Package store persists saved console graphs in PostgreSQL.
//
// Each store embeds Base for the shared pool and logger. Changes are
// announced post-commit on the console_graph_changes channel so other
// instances can push them to connected clients.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/db"
	"github.com/persistorai/graphconsole/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return tx, nil
}

// notify announces a committed change (best-effort).
func (b *Base) notify(changeType, graphID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PublishChange(ctx, b.Pool, db.GraphChange{Type: changeType, ID: graphID}); err != nil {
		b.Log.WithError(err).WithField("graph_id", graphID).Warn("failed to announce graph change")
	}
}
