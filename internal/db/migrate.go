// Package db runs schema migrations and relays saved-graph change
// notifications from PostgreSQL.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/dbpool"
)

// RunMigrations brings the saved-graph schema up to the newest migration in
// fsys. Console instances starting together serialize on a Postgres advisory
// lock. A database already past the newest known migration is reported.
func RunMigrations(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger, fsys fs.FS) error {
	sqlDB, err := sql.Open("pgx", pool.ConnString())
	if err != nil {
		return fmt.Errorf("opening sql.DB for migrations: %w", err)
	}
	defer sqlDB.Close()

	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("creating migration lock: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys, goose.WithSessionLocker(locker))
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}

		log.WithFields(logrus.Fields{
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	fields := logrus.Fields{"version": version, "applied": len(results)}
	if sources := provider.ListSources(); len(sources) > 0 && version > sources[len(sources)-1].Version {
		fields["known_version"] = sources[len(sources)-1].Version
		log.WithFields(fields).Warn("saved-graph schema is newer than this build")

		return nil
	}

	log.WithFields(fields).Debug("saved-graph schema ready")

	return nil
}
