package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
)

// ErrUnmappedEndpoint is returned when a relationship endpoint has no
// destination node after the node pass.
var ErrUnmappedEndpoint = errors.New("relationship endpoint was not imported")

// Writer creates entities inside an open write transaction and returns the
// identifiers the destination assigned to them.
type Writer interface {
	CreateNode(ctx context.Context, labels []string, props map[string]any) (int64, error)
	CreateRelationship(ctx context.Context, start, end int64, relType string, props map[string]any) (int64, error)
}

// Database runs fn inside a single write transaction. If fn returns an
// error nothing written through the Writer may become visible.
type Database interface {
	WriteTx(ctx context.Context, fn func(w Writer) error) error
}

// ImportResult summarises an import.
type ImportResult struct {
	NodesCreated         int             `json:"nodes_created"`
	RelationshipsCreated int             `json:"relationships_created"`
	IDMap                map[int64]int64 `json:"id_map"`
}

// Import replays m into db as new entities. Nodes are created in insertion
// order, then relationships in id order with endpoints remapped through the
// ids assigned during the node pass. Existing database content is never
// matched, so importing the same model twice doubles the graph.
func Import(ctx context.Context, db Database, m *Model) (*ImportResult, error) {
	var result *ImportResult

	err := db.WriteTx(ctx, func(w Writer) error {
		// The transaction function may be retried, so all state is local.
		res := &ImportResult{IDMap: make(map[int64]int64, m.NodeCount())}

		for _, n := range m.Nodes() {
			newID, err := w.CreateNode(ctx, slices.Clone(n.Labels), n.Properties)
			if err != nil {
				return fmt.Errorf("creating node %d: %w", n.ID, err)
			}

			res.IDMap[n.ID] = newID
			res.NodesCreated++
		}

		for _, r := range m.Relationships() {
			start, okStart := res.IDMap[r.Start]
			end, okEnd := res.IDMap[r.End]

			if !okStart || !okEnd {
				return fmt.Errorf("relationship %d: %w", r.ID, ErrUnmappedEndpoint)
			}

			if _, err := w.CreateRelationship(ctx, start, end, r.Type, r.Properties); err != nil {
				return fmt.Errorf("creating relationship %d: %w", r.ID, err)
			}

			res.RelationshipsCreated++
		}

		result = res

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importing graph: %w", err)
	}

	return result, nil
}

// reservedNodeKeys and reservedRelationshipKeys are the keys a Snapshot adds
// on top of the entity properties.
var (
	reservedNodeKeys         = []string{"id", "labels", "selected"}
	reservedRelationshipKeys = []string{"id", "type", "start", "end", "source", "target", "selected"}
)

// ParseSnapshot decodes a visualization payload, keeping integral numbers
// as int64 so they survive a round trip into the database.
func ParseSnapshot(r io.Reader) (*Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	for id, flat := range s.Nodes {
		s.Nodes[id] = normalizeNumbers(flat).(map[string]any) //nolint:forcetypeassert // maps normalize to maps.
	}

	for id, flat := range s.Relationships {
		s.Relationships[id] = normalizeNumbers(flat).(map[string]any) //nolint:forcetypeassert // maps normalize to maps.
	}

	return &s, nil
}

// FromSnapshot rebuilds a model from a visualization payload. Relationship
// endpoints come from start/end. Nodes take back the viz indices the
// payload's source/target name; nodes no relationship places fill the
// remaining positions in ascending id order.
func FromSnapshot(s *Snapshot) (*Model, error) {
	m := NewModel()
	if s == nil {
		return m, nil
	}

	for _, id := range snapshotNodeOrder(s) {
		flat := s.Nodes[id]
		m.AddNode(id, stripKeys(flat, reservedNodeKeys), snapshotLabels(flat["labels"]))

		if sel, _ := flat["selected"].(bool); sel {
			m.nodes[id].Selected = true
		}
	}

	for _, id := range sortedKeys(s.Relationships) {
		flat := s.Relationships[id]

		start, ok := asInt64(flat["start"])
		if !ok {
			return nil, fmt.Errorf("relationship %d: missing start", id)
		}

		end, ok := asInt64(flat["end"])
		if !ok {
			return nil, fmt.Errorf("relationship %d: missing end", id)
		}

		relType, _ := flat["type"].(string)
		if relType == "" {
			return nil, fmt.Errorf("relationship %d: missing type", id)
		}

		r := m.AddRelationship(id, start, end, relType, stripKeys(flat, reservedRelationshipKeys))
		if sel, _ := flat["selected"].(bool); sel {
			r.Selected = true
		}
	}

	return m, nil
}

// snapshotNodeOrder recovers node insertion order from the source/target
// indices of the payload's relationships. Indices that are out of range,
// taken, or contradict an earlier placement are ignored.
func snapshotNodeOrder(s *Snapshot) []int64 {
	ids := sortedKeys(s.Nodes)
	order := make([]int64, len(ids))
	filled := make([]bool, len(ids))
	placed := make(map[int64]bool, len(ids))

	place := func(idVal, idxVal any) {
		id, ok := asInt64(idVal)
		if !ok || placed[id] {
			return
		}

		if _, ok := s.Nodes[id]; !ok {
			return
		}

		idx, ok := asInt64(idxVal)
		if !ok || idx < 0 || idx >= int64(len(order)) || filled[idx] {
			return
		}

		order[idx] = id
		filled[idx] = true
		placed[id] = true
	}

	for _, rid := range sortedKeys(s.Relationships) {
		flat := s.Relationships[rid]
		place(flat["start"], flat["source"])
		place(flat["end"], flat["target"])
	}

	next := 0
	for _, id := range ids {
		if placed[id] {
			continue
		}

		for filled[next] {
			next++
		}

		order[next] = id
		filled[next] = true
	}

	return order
}

func sortedKeys(m map[int64]map[string]any) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

func stripKeys(flat map[string]any, reserved []string) map[string]any {
	out := make(map[string]any, len(flat))
	for k, v := range flat {
		if !slices.Contains(reserved, k) {
			out[k] = v
		}
	}

	return out
}

func snapshotLabels(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
	}

	return 0, false
}
