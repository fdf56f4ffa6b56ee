package graph

// MarkSelection flags the nodes and relationships of m that also appear in
// res. Identifiers absent from m are ignored, so the model never grows.
// It returns the number of records whose flag changed.
func MarkSelection(m *Model, res *Result) int {
	if res == nil {
		return 0
	}

	s := &selectionSink{m: m}
	walkResult(res, s)

	return s.marked
}

// ClearSelection resets every selection flag in m.
func ClearSelection(m *Model) {
	for _, n := range m.nodes {
		n.Selected = false
	}

	for _, r := range m.rels {
		r.Selected = false
	}
}

type selectionSink struct {
	m      *Model
	marked int
}

func (s *selectionSink) node(n NodeCell) {
	s.markNode(n.ID)
}

func (s *selectionSink) relationship(r RelationshipCell) {
	if rec, ok := s.m.rels[r.ID]; ok && !rec.Selected {
		rec.Selected = true
		s.marked++
	}

	if r.StartNode != nil {
		s.markNode(r.StartNode.ID)
	}

	if r.EndNode != nil {
		s.markNode(r.EndNode.ID)
	}
}

func (s *selectionSink) markNode(id int64) {
	if rec, ok := s.m.nodes[id]; ok && !rec.Selected {
		rec.Selected = true
		s.marked++
	}
}
