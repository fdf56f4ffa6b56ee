package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/persistorai/graphconsole/internal/models"
	"github.com/persistorai/graphconsole/internal/store"
)

func newTestGraphStore(t *testing.T) (*store.GraphStore, *[]string) {
	t.Helper()

	ids := &[]string{}

	return store.NewGraphStore(setupTestBase(t, ids)), ids
}

func TestGraphStore_CreateAndFind(t *testing.T) {
	s, ids := newTestGraphStore(t)
	ctx := context.Background()

	id := "t" + models.NewGraphID()
	*ids = append(*ids, id)

	created, err := s.Create(ctx, models.GraphInfo{ID: id, Init: "init", Query: "query", Message: "message", Version: "5", NoRoot: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Find(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	if got.Query != "query" || got.Init != "init" || got.Message != "message" || got.Version != "5" || got.HasRoot() {
		t.Errorf("unexpected graph %+v", got)
	}
}

func TestGraphStore_CreateGeneratesID(t *testing.T) {
	s, ids := newTestGraphStore(t)

	for _, blank := range []string{"", " "} {
		g, err := s.Create(context.Background(), models.GraphInfo{ID: blank, Init: "init"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		*ids = append(*ids, g.ID)

		if strings.TrimSpace(g.ID) == "" || g.ID == blank {
			t.Errorf("expected generated id for %q, got %q", blank, g.ID)
		}
	}
}

func TestGraphStore_CreateDuplicate(t *testing.T) {
	s, ids := newTestGraphStore(t)
	ctx := context.Background()

	id := "t" + models.NewGraphID()
	*ids = append(*ids, id)

	if _, err := s.Create(ctx, models.GraphInfo{ID: id}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.Create(ctx, models.GraphInfo{ID: id}); !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestGraphStore_UpdateThenDelete(t *testing.T) {
	s, ids := newTestGraphStore(t)
	ctx := context.Background()

	info, err := s.Create(ctx, models.GraphInfo{Init: "init", Query: "query", Message: "message"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	*ids = append(*ids, info.ID)

	updated, err := s.Update(ctx, info.NewQuery("query2"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Query != "query2" || updated.Init != "init" || updated.Message != "message" {
		t.Errorf("unexpected updated graph %+v", updated)
	}

	if err := s.Delete(ctx, info.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.Find(ctx, info.ID); !errors.Is(err, models.ErrGraphNotFound) {
		t.Errorf("expected ErrGraphNotFound after delete, got %v", err)
	}
}

func TestGraphStore_MissingGraph(t *testing.T) {
	s, _ := newTestGraphStore(t)
	ctx := context.Background()

	if _, err := s.Update(ctx, models.GraphInfo{ID: "missing-graph"}); !errors.Is(err, models.ErrGraphNotFound) {
		t.Errorf("update: expected ErrGraphNotFound, got %v", err)
	}

	if err := s.Delete(ctx, "missing-graph"); !errors.Is(err, models.ErrGraphNotFound) {
		t.Errorf("delete: expected ErrGraphNotFound, got %v", err)
	}
}
