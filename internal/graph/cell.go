package graph

// Cell is a single value in a tabular query result. The concrete type is one
// of Scalar, NodeCell, RelationshipCell, PathCell, ListCell or MapCell.
type Cell interface {
	isCell()
}

// Scalar is any value that is not part of the graph projection.
type Scalar struct {
	Value any
}

// NodeCell is a node handle: identifier, property snapshot and labels.
type NodeCell struct {
	ID         int64
	Labels     []string
	Properties map[string]any
}

// RelationshipCell is a relationship handle. StartNode and EndNode are set
// when the source exposes the endpoint snapshots; Bolt results do not.
type RelationshipCell struct {
	ID         int64
	StartID    int64
	EndID      int64
	Type       string
	Properties map[string]any
	StartNode  *NodeCell
	EndNode    *NodeCell
}

// PathCell is an alternating node/relationship sequence. len(Nodes) is
// len(Relationships)+1 for well-formed paths.
type PathCell struct {
	Nodes         []NodeCell
	Relationships []RelationshipCell
}

// ListCell is a nested collection of cells.
type ListCell []Cell

// MapCell is a nested map of cells.
type MapCell map[string]Cell

func (Scalar) isCell()           {}
func (NodeCell) isCell()         {}
func (RelationshipCell) isCell() {}
func (PathCell) isCell()         {}
func (ListCell) isCell()         {}
func (MapCell) isCell()          {}

// Row maps column names to cells.
type Row map[string]Cell

// Result is a tabular query result with ordered columns and rows.
type Result struct {
	Columns []string
	Rows    []Row
}

// Table flattens every row to plain JSON-friendly values in column order.
func (r *Result) Table() [][]any {
	if r == nil {
		return [][]any{}
	}

	out := make([][]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		vals := make([]any, len(r.Columns))
		for i, col := range r.Columns {
			vals[i] = plain(row[col])
		}

		out = append(out, vals)
	}

	return out
}

func plain(c Cell) any {
	switch v := c.(type) {
	case nil:
		return nil
	case Scalar:
		return v.Value
	case NodeCell:
		return plainNode(v)
	case RelationshipCell:
		return plainRelationship(v)
	case PathCell:
		seq := make([]any, 0, len(v.Nodes)+len(v.Relationships))
		for i, n := range v.Nodes {
			seq = append(seq, plainNode(n))
			if i < len(v.Relationships) {
				seq = append(seq, plainRelationship(v.Relationships[i]))
			}
		}

		return seq
	case ListCell:
		list := make([]any, len(v))
		for i, e := range v {
			list[i] = plain(e)
		}

		return list
	case MapCell:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = plain(e)
		}

		return m
	default:
		return nil
	}
}

func plainNode(n NodeCell) map[string]any {
	m := make(map[string]any, len(n.Properties)+2)
	for k, v := range n.Properties {
		m[k] = v
	}

	m["id"] = n.ID

	if len(n.Labels) > 0 {
		m["labels"] = append([]string(nil), n.Labels...)
	}

	return m
}

func plainRelationship(r RelationshipCell) map[string]any {
	m := make(map[string]any, len(r.Properties)+4)
	for k, v := range r.Properties {
		m[k] = v
	}

	m["id"] = r.ID
	m["type"] = r.Type
	m["start"] = r.StartID
	m["end"] = r.EndID

	return m
}
