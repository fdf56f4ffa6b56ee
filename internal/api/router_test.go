package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/persistorai/graphconsole/internal/api"
	"github.com/persistorai/graphconsole/internal/middleware"
	"github.com/persistorai/graphconsole/internal/models"
)

func TestRouter_SessionAndRoutes(t *testing.T) {
	var gotSession string
	console := &mockConsole{
		queryFn: func(_ context.Context, sessionID string, _ models.QueryRequest) (*models.QueryResponse, error) {
			gotSession = sessionID

			return &models.QueryResponse{}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := api.NewRouter(ctx, &api.RouterDeps{
		Log:         testLogger(),
		Console:     console,
		Shares:      &mockShares{},
		CORSOrigins: []string{"http://localhost:3000"},
		Version:     "test",
	})

	w := doRequest(r, http.MethodPost, "/console/cypher", `{"query":"RETURN 1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	issued := w.Header().Get(middleware.SessionHeader)
	if _, err := uuid.Parse(issued); err != nil {
		t.Fatalf("expected a session id header, got %q", issued)
	}

	if gotSession != issued {
		t.Errorf("handler saw session %q, header carried %q", gotSession, issued)
	}

	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}

	health := doRequest(r, http.MethodGet, "/console/health", "")
	if health.Code != http.StatusOK {
		t.Errorf("expected health 200, got %d", health.Code)
	}

	if health.Header().Get(middleware.SessionHeader) != "" {
		t.Error("health must not issue a session")
	}

	if w := doRequest(r, http.MethodGet, "/console/ws", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected no ws route without a hub, got %d", w.Code)
	}
}

func TestRouter_ConfiguredLimits(t *testing.T) {
	const (
		sessionA = "6f1c1d8e-3c3b-4f43-9a55-8a1c2a3b4c5d"
		sessionB = "0b7e4d2a-91c4-4d0e-8f55-2a7c9e1b3d4f"
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := api.NewRouter(ctx, &api.RouterDeps{
		Log:         testLogger(),
		Console: &mockConsole{
			graphFn: func(context.Context, string, string) (*models.GraphResponse, error) {
				return &models.GraphResponse{}, nil
			},
		},
		Shares:      &mockShares{},
		CORSOrigins: []string{"http://localhost:3000"},
		Version:     "test",
		Limits: api.Limits{
			MaxBodyBytes: 64,
			Session:      middleware.Limit{PerSecond: 0.01, Burst: 1},
		},
	})

	graphAs := func(session string) int {
		req := httptest.NewRequest(http.MethodGet, "/console/graph", http.NoBody)
		req.Header.Set(middleware.SessionHeader, session)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		return w.Code
	}

	if code := graphAs(sessionA); code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", code)
	}

	if code := graphAs(sessionA); code != http.StatusTooManyRequests {
		t.Fatalf("second request in the same session: expected 429, got %d", code)
	}

	if code := graphAs(sessionB); code != http.StatusOK {
		t.Fatalf("other session: expected 200, got %d", code)
	}

	big := `{"nodes":{},"relationships":{},"pad":"` + strings.Repeat("x", 64) + `"}`
	if w := doRequest(r, http.MethodPost, "/console/import", big); w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 for an oversized body, got %d", w.Code)
	}
}
