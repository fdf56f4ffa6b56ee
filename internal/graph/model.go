// Package graph normalizes heterogeneous query results into a single
// in-memory graph model used for visualization, selection marking and
// re-import into a live database.
//
// A Model is owned by exactly one unit of work at a time and is not safe
// for concurrent use. Nothing in this package performs I/O except Import,
// which writes through a caller-supplied Database.
package graph

import (
	"maps"
	"slices"
)

// NodeRecord is the normalized representation of a node.
type NodeRecord struct {
	ID         int64
	Properties map[string]any
	Labels     []string
	Selected   bool
}

// RelationshipRecord is the normalized representation of a relationship.
type RelationshipRecord struct {
	ID         int64
	Start      int64
	End        int64
	Type       string
	Properties map[string]any
	Selected   bool
}

// Model holds nodes in insertion order and relationships keyed by id.
// Relationship order for presentation is ascending id, independent of
// insertion order.
type Model struct {
	nodes     map[int64]*NodeRecord
	nodeOrder []int64
	rels      map[int64]*RelationshipRecord
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		nodes: make(map[int64]*NodeRecord),
		rels:  make(map[int64]*RelationshipRecord),
	}
}

// AddNode inserts a node or merges into an existing one. Properties merge
// key by key with the new value winning; labels are unioned.
func (m *Model) AddNode(id int64, props map[string]any, labels []string) *NodeRecord {
	n, ok := m.nodes[id]
	if !ok {
		n = &NodeRecord{ID: id, Properties: make(map[string]any, len(props))}
		m.nodes[id] = n
		m.nodeOrder = append(m.nodeOrder, id)
	}

	maps.Copy(n.Properties, props)

	for _, l := range labels {
		if !slices.Contains(n.Labels, l) {
			n.Labels = append(n.Labels, l)
		}
	}

	return n
}

// ensureNode returns the node with id, creating an empty stub if needed.
func (m *Model) ensureNode(id int64) {
	if _, ok := m.nodes[id]; !ok {
		m.AddNode(id, nil, nil)
	}
}

// AddRelationship inserts or replaces a relationship. Endpoint nodes that
// are not yet present are created with empty attributes. A repeated id
// keeps its selection flag but otherwise takes the latest values.
func (m *Model) AddRelationship(id, start, end int64, relType string, props map[string]any) *RelationshipRecord {
	m.ensureNode(start)
	m.ensureNode(end)

	r, ok := m.rels[id]
	if !ok {
		r = &RelationshipRecord{ID: id}
		m.rels[id] = r
	}

	r.Start = start
	r.End = end
	r.Type = relType
	r.Properties = maps.Clone(props)

	if r.Properties == nil {
		r.Properties = map[string]any{}
	}

	return r
}

// Node returns the node with the given id.
func (m *Model) Node(id int64) (*NodeRecord, bool) {
	n, ok := m.nodes[id]

	return n, ok
}

// Relationship returns the relationship with the given id.
func (m *Model) Relationship(id int64) (*RelationshipRecord, bool) {
	r, ok := m.rels[id]

	return r, ok
}

// Nodes returns all nodes in insertion order.
func (m *Model) Nodes() []*NodeRecord {
	out := make([]*NodeRecord, 0, len(m.nodeOrder))
	for _, id := range m.nodeOrder {
		out = append(out, m.nodes[id])
	}

	return out
}

// NodeOrder returns a copy of the current node insertion order.
func (m *Model) NodeOrder() []int64 {
	return slices.Clone(m.nodeOrder)
}

// Relationships returns all relationships sorted by id.
func (m *Model) Relationships() []*RelationshipRecord {
	ids := slices.Sorted(maps.Keys(m.rels))

	out := make([]*RelationshipRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.rels[id])
	}

	return out
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return len(m.nodeOrder) }

// RelationshipCount returns the number of relationships.
func (m *Model) RelationshipCount() int { return len(m.rels) }
