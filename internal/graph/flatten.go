package graph

// Snapshot is the visualization payload. Relationship source/target are
// positions in the node insertion order at the time the snapshot was taken.
type Snapshot struct {
	Nodes         map[int64]map[string]any `json:"nodes"`
	Relationships map[int64]map[string]any `json:"relationships"`
}

// VizIndex returns the 0-based position of id in order, or -1.
func VizIndex(order []int64, id int64) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}

	return -1
}

// positions maps each node id to its index in order.
func positions(order []int64) map[int64]int {
	pos := make(map[int64]int, len(order))
	for i, id := range order {
		pos[id] = i
	}

	return pos
}

// FlatNode returns {id} ∪ properties ∪ {labels}. Labels are omitted when
// empty; selected is present only when true.
func (m *Model) FlatNode(id int64) (map[string]any, bool) {
	n, ok := m.nodes[id]
	if !ok {
		return nil, false
	}

	return flattenNode(n), true
}

// FlatRelationship returns {id, type, start, end, source, target} ∪ properties.
func (m *Model) FlatRelationship(id int64) (map[string]any, bool) {
	r, ok := m.rels[id]
	if !ok {
		return nil, false
	}

	return flattenRelationship(r, positions(m.nodeOrder)), true
}

// Snapshot flattens the whole model. Indices are recomputed on every call
// because the node order may have grown since the previous one.
func (m *Model) Snapshot() *Snapshot {
	pos := positions(m.nodeOrder)

	s := &Snapshot{
		Nodes:         make(map[int64]map[string]any, len(m.nodes)),
		Relationships: make(map[int64]map[string]any, len(m.rels)),
	}

	for _, id := range m.nodeOrder {
		s.Nodes[id] = flattenNode(m.nodes[id])
	}

	for id, r := range m.rels {
		s.Relationships[id] = flattenRelationship(r, pos)
	}

	return s
}

func flattenNode(n *NodeRecord) map[string]any {
	out := make(map[string]any, len(n.Properties)+3)
	for k, v := range n.Properties {
		out[k] = v
	}

	out["id"] = n.ID

	if len(n.Labels) > 0 {
		out["labels"] = append([]string(nil), n.Labels...)
	}

	if n.Selected {
		out["selected"] = true
	}

	return out
}

func flattenRelationship(r *RelationshipRecord, pos map[int64]int) map[string]any {
	out := make(map[string]any, len(r.Properties)+7)
	for k, v := range r.Properties {
		out[k] = v
	}

	out["id"] = r.ID
	out["type"] = r.Type
	out["start"] = r.Start
	out["end"] = r.End
	out["source"] = indexOr(pos, r.Start)
	out["target"] = indexOr(pos, r.End)

	if r.Selected {
		out["selected"] = true
	}

	return out
}

func indexOr(pos map[int64]int, id int64) int {
	if i, ok := pos[id]; ok {
		return i
	}

	return -1
}
