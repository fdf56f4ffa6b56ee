package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/db"
	"github.com/persistorai/graphconsole/internal/db/migrations"
	"github.com/persistorai/graphconsole/internal/dbpool"
	"github.com/persistorai/graphconsole/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbpool.Options{URL: dbURL, MaxConns: 4})
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	// A second run finds nothing to apply.
	for range 2 {
		if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
			t.Fatalf("migrating test DB: %v", err)
		}
	}

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// setupTestBase returns a Base and removes the given graph ids after the test.
func setupTestBase(t *testing.T, ids *[]string) store.Base {
	t.Helper()

	env := getTestEnv(t)

	t.Cleanup(func() {
		for _, id := range *ids {
			env.pool.Exec(context.Background(), "DELETE FROM console_graphs WHERE id = $1", id) //nolint:errcheck // best-effort cleanup
		}
	})

	return store.Base{Pool: env.pool, Log: env.log}
}
