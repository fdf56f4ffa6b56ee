package neo4jdb

import (
	"errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/persistorai/graphconsole/internal/graph"
	"github.com/persistorai/graphconsole/internal/models"
)

func TestToCell(t *testing.T) {
	alice := neo4j.Node{Id: 1, Labels: []string{"Person"}, Props: map[string]any{"name": "alice"}}
	bob := neo4j.Node{Id: 2, Labels: []string{"Person"}, Props: map[string]any{"name": "bob"}}
	knows := neo4j.Relationship{Id: 9, StartId: 1, EndId: 2, Type: "KNOWS", Props: map[string]any{}}

	t.Run("node", func(t *testing.T) {
		c, ok := toCell(alice).(graph.NodeCell)
		if !ok {
			t.Fatalf("expected NodeCell, got %T", toCell(alice))
		}

		if c.ID != 1 || c.Properties["name"] != "alice" || c.Labels[0] != "Person" {
			t.Errorf("unexpected node cell %+v", c)
		}
	})

	t.Run("relationship", func(t *testing.T) {
		c, ok := toCell(knows).(graph.RelationshipCell)
		if !ok {
			t.Fatalf("expected RelationshipCell, got %T", toCell(knows))
		}

		if c.ID != 9 || c.StartID != 1 || c.EndID != 2 || c.Type != "KNOWS" {
			t.Errorf("unexpected relationship cell %+v", c)
		}
	})

	t.Run("path", func(t *testing.T) {
		p, ok := toCell(neo4j.Path{Nodes: []neo4j.Node{alice, bob}, Relationships: []neo4j.Relationship{knows}}).(graph.PathCell)
		if !ok {
			t.Fatal("expected PathCell")
		}

		if len(p.Nodes) != 2 || len(p.Relationships) != 1 {
			t.Errorf("unexpected path %+v", p)
		}
	})

	t.Run("nested collections", func(t *testing.T) {
		c := toCell([]any{alice, map[string]any{"r": knows}, int64(3)})

		list, ok := c.(graph.ListCell)
		if !ok || len(list) != 3 {
			t.Fatalf("expected 3-element ListCell, got %#v", c)
		}

		if _, ok := list[1].(graph.MapCell)["r"].(graph.RelationshipCell); !ok {
			t.Errorf("expected relationship inside map, got %#v", list[1])
		}

		if s, ok := list[2].(graph.Scalar); !ok || s.Value != int64(3) {
			t.Errorf("expected scalar 3, got %#v", list[2])
		}
	})

	t.Run("temporal scalar", func(t *testing.T) {
		d := neo4j.Duration{Days: 1}

		s, ok := toCell(d).(graph.Scalar)
		if !ok {
			t.Fatal("expected Scalar")
		}

		if _, ok := s.Value.(string); !ok {
			t.Errorf("expected string form, got %T", s.Value)
		}

		now := time.Now()
		if toCell(now).(graph.Scalar).Value != now {
			t.Error("expected time.Time to pass through")
		}
	})
}

func TestRecordRow(t *testing.T) {
	row := recordRow([]string{"a", "b"}, []any{int64(1)})

	if _, ok := row["b"]; ok {
		t.Error("expected missing value to be absent")
	}

	if row["a"].(graph.Scalar).Value != int64(1) {
		t.Errorf("unexpected cell %#v", row["a"])
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := map[string]string{
		"Person":    "`Person`",
		"has space": "`has space`",
		"bad`label": "`bad``label`",
		"":          "``",
	}

	for in, want := range tests {
		if got := quoteIdent(in); got != want {
			t.Errorf("quoteIdent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	rejected := classify(&neo4j.Neo4jError{Code: "Neo.ClientError.Statement.SyntaxError", Msg: "Invalid input 'X'"})
	if !errors.Is(rejected, models.ErrQueryRejected) {
		t.Errorf("expected syntax error to be rejected, got %v", rejected)
	}

	var nerr *neo4j.Neo4jError
	if !errors.As(rejected, &nerr) || nerr.Code != "Neo.ClientError.Statement.SyntaxError" {
		t.Errorf("expected server error to stay in the chain, got %v", rejected)
	}

	transient := classify(&neo4j.Neo4jError{Code: "Neo.TransientError.General.DatabaseUnavailable", Msg: "down"})
	if errors.Is(transient, models.ErrQueryRejected) {
		t.Errorf("transient error must not be rejected: %v", transient)
	}

	other := classify(errors.New("connection refused"))
	if errors.Is(other, models.ErrQueryRejected) {
		t.Errorf("connectivity error must not be rejected: %v", other)
	}
}
