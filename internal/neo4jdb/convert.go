package neo4jdb

import (
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/persistorai/graphconsole/internal/graph"
)

func recordRow(keys []string, values []any) graph.Row {
	row := make(graph.Row, len(keys))
	for i, k := range keys {
		if i < len(values) {
			row[k] = toCell(values[i])
		}
	}

	return row
}

// toCell converts a driver value into a graph.Cell. Temporal and spatial
// values become their string form so they survive JSON encoding.
func toCell(v any) graph.Cell {
	switch t := v.(type) {
	case nil:
		return graph.Scalar{}
	case neo4j.Node:
		return nodeCell(t)
	case neo4j.Relationship:
		return relationshipCell(t)
	case neo4j.Path:
		p := graph.PathCell{
			Nodes:         make([]graph.NodeCell, len(t.Nodes)),
			Relationships: make([]graph.RelationshipCell, len(t.Relationships)),
		}
		for i, n := range t.Nodes {
			p.Nodes[i] = nodeCell(n)
		}
		for i, r := range t.Relationships {
			p.Relationships[i] = relationshipCell(r)
		}

		return p
	case []any:
		list := make(graph.ListCell, len(t))
		for i, e := range t {
			list[i] = toCell(e)
		}

		return list
	case map[string]any:
		m := make(graph.MapCell, len(t))
		for k, e := range t {
			m[k] = toCell(e)
		}

		return m
	default:
		return graph.Scalar{Value: scalarValue(v)}
	}
}

func scalarValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return v
	}
}

func nodeCell(n neo4j.Node) graph.NodeCell {
	return graph.NodeCell{
		ID:         n.Id, //nolint:staticcheck // the console addresses entities by numeric id.
		Labels:     n.Labels,
		Properties: propertyValues(n.Props),
	}
}

func relationshipCell(r neo4j.Relationship) graph.RelationshipCell {
	return graph.RelationshipCell{
		ID:         r.Id,      //nolint:staticcheck // the console addresses entities by numeric id.
		StartID:    r.StartId, //nolint:staticcheck // see above.
		EndID:      r.EndId,   //nolint:staticcheck // see above.
		Type:       r.Type,
		Properties: propertyValues(r.Props),
	}
}

func propertyValues(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		switch t := v.(type) {
		case []any:
			list := make([]any, len(t))
			for i, e := range t {
				list[i] = scalarValue(e)
			}
			out[k] = list
		default:
			out[k] = scalarValue(v)
		}
	}

	return out
}
