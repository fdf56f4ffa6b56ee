package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/persistorai/graphconsole/internal/db"
	"github.com/persistorai/graphconsole/internal/models"
)

// GraphStore handles saved console graphs.
type GraphStore struct {
	Base
}

// NewGraphStore creates a GraphStore with the given shared base.
func NewGraphStore(base Base) *GraphStore {
	return &GraphStore{Base: base}
}

// Create inserts a saved graph. A blank id is replaced by a generated one.
func (s *GraphStore) Create(ctx context.Context, info models.GraphInfo) (*models.GraphInfo, error) {
	if err := info.Normalize(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating graph: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := `INSERT INTO console_graphs (id, init, query, message, version, no_root)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + graphColumns

	row := tx.QueryRow(ctx, query, info.ID, info.Init, info.Query, info.Message, info.Version, info.NoRoot)

	g, err := scanGraph(row.Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created graph: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create graph: %w", err)
	}

	s.notify(db.GraphCreated, g.ID)

	return g, nil
}

// Update replaces the stored fields of an existing graph.
func (s *GraphStore) Update(ctx context.Context, info models.GraphInfo) (*models.GraphInfo, error) {
	if err := info.Normalize(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("updating graph: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := `UPDATE console_graphs
		SET init = $2, query = $3, message = $4, version = $5, no_root = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + graphColumns

	row := tx.QueryRow(ctx, query, info.ID, info.Init, info.Query, info.Message, info.Version, info.NoRoot)

	g, err := scanGraph(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrGraphNotFound
		}

		return nil, fmt.Errorf("scanning updated graph: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing update graph: %w", err)
	}

	s.notify(db.GraphUpdated, g.ID)

	return g, nil
}

// Delete removes a saved graph.
func (s *GraphStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `DELETE FROM console_graphs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting graph: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrGraphNotFound
	}

	s.notify(db.GraphDeleted, id)

	return nil
}

// Find returns the saved graph with the given id.
func (s *GraphStore) Find(ctx context.Context, id string) (*models.GraphInfo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, `SELECT `+graphColumns+` FROM console_graphs WHERE id = $1`, id)

	g, err := scanGraph(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrGraphNotFound
		}

		return nil, fmt.Errorf("finding graph: %w", err)
	}

	return g, nil
}

// Count returns the number of saved graphs.
func (s *GraphStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int
	if err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM console_graphs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting graphs: %w", err)
	}

	return n, nil
}
