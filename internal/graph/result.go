package graph

import (
	"maps"
	"slices"
)

// Stats counts what a projection applied to a model.
type Stats struct {
	Nodes         int `json:"nodes"`
	Relationships int `json:"relationships"`
	Skipped       int `json:"skipped"`
}

// Add returns the sum of st and o.
func (st Stats) Add(o Stats) Stats {
	return Stats{
		Nodes:         st.Nodes + o.Nodes,
		Relationships: st.Relationships + o.Relationships,
		Skipped:       st.Skipped + o.Skipped,
	}
}

// sink receives the graph entities discovered while walking result cells.
type sink interface {
	node(n NodeCell)
	relationship(r RelationshipCell)
}

// ResultAdapter projects tabular query results onto a Model.
type ResultAdapter struct {
	rootID  int64
	hasRoot bool
}

// AdapterOption configures a ResultAdapter.
type AdapterOption func(*ResultAdapter)

// WithRootNode sets the reference node shown when a result has no rows.
func WithRootNode(id int64) AdapterOption {
	return func(a *ResultAdapter) {
		a.rootID = id
		a.hasRoot = true
	}
}

// NewResultAdapter creates a ResultAdapter.
func NewResultAdapter(opts ...AdapterOption) *ResultAdapter {
	a := &ResultAdapter{}
	for _, o := range opts {
		o(a)
	}

	return a
}

// Build returns a new model projected from res.
func (a *ResultAdapter) Build(res *Result) *Model {
	m := NewModel()
	a.Extend(m, res)

	return m
}

// Extend projects res onto m. A result without rows yields the root node
// when one is configured.
func (a *ResultAdapter) Extend(m *Model, res *Result) Stats {
	var st Stats

	if res == nil || len(res.Rows) == 0 {
		if a.hasRoot {
			m.AddNode(a.rootID, nil, nil)
			st.Nodes++
		}

		return st
	}

	walkResult(res, &modelSink{m: m, st: &st})

	return st
}

// modelSink inserts discovered entities into a model.
type modelSink struct {
	m  *Model
	st *Stats
}

func (s *modelSink) node(n NodeCell) {
	s.m.AddNode(n.ID, n.Properties, n.Labels)
	s.st.Nodes++
}

func (s *modelSink) relationship(r RelationshipCell) {
	if r.StartNode != nil {
		s.node(*r.StartNode)
	}

	if r.EndNode != nil {
		s.node(*r.EndNode)
	}

	s.m.AddRelationship(r.ID, r.StartID, r.EndID, r.Type, r.Properties)
	s.st.Relationships++
}

func walkResult(res *Result, s sink) {
	for _, row := range res.Rows {
		for _, col := range res.Columns {
			walkCell(row[col], s)
		}
	}
}

func walkCell(c Cell, s sink) {
	switch v := c.(type) {
	case NodeCell:
		s.node(v)
	case RelationshipCell:
		s.relationship(v)
	case PathCell:
		for i, n := range v.Nodes {
			s.node(n)
			if i < len(v.Relationships) {
				s.relationship(v.Relationships[i])
			}
		}

		for i := len(v.Nodes); i < len(v.Relationships); i++ {
			s.relationship(v.Relationships[i])
		}
	case ListCell:
		for _, e := range v {
			walkCell(e, s)
		}
	case MapCell:
		// Sorted keys keep node insertion order deterministic.
		for _, k := range slices.Sorted(maps.Keys(v)) {
			walkCell(v[k], s)
		}
	case Scalar, nil:
	}
}
