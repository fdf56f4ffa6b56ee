package store

import (
	"github.com/persistorai/graphconsole/internal/models"
)

// graphColumns lists the columns selected for saved graph queries.
const graphColumns = `id, init, query, message, version, no_root, created_at, updated_at`

// scanGraph scans a single row into a models.GraphInfo.
func scanGraph(scan func(dest ...any) error) (*models.GraphInfo, error) {
	var g models.GraphInfo

	err := scan(
		&g.ID,
		&g.Init,
		&g.Query,
		&g.Message,
		&g.Version,
		&g.NoRoot,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &g, nil
}
