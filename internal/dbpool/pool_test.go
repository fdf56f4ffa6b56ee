package dbpool_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/persistorai/graphconsole/internal/dbpool"
)

func TestNewPool_SessionSettings(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbpool.Options{
		URL:              dbURL,
		MaxConns:         1,
		StatementTimeout: 1500 * time.Millisecond,
		ApplicationName:  "graphconsole-test",
	})
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}
	defer pool.Close()

	var timeout, app string
	if err := pool.QueryRow(ctx, "SELECT current_setting('statement_timeout'), current_setting('application_name')").Scan(&timeout, &app); err != nil {
		t.Fatalf("reading settings: %v", err)
	}

	if timeout != "1500ms" {
		t.Errorf("expected statement_timeout 1500ms, got %q", timeout)
	}

	if app != "graphconsole-test" {
		t.Errorf("expected application_name graphconsole-test, got %q", app)
	}

	if err := pool.HealthCheck(ctx); err != nil {
		t.Errorf("health check: %v", err)
	}
}

func TestNewPool_BadURL(t *testing.T) {
	if _, err := dbpool.NewPool(context.Background(), dbpool.Options{URL: "postgres://%zz"}); err == nil {
		t.Fatal("expected an error for an unparseable URL")
	}
}
