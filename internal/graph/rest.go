package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// RestResult is the JSON tabular shape returned by a remote REST endpoint:
// {"columns": [...], "data": [{column: cell, ...}, ...]}.
type RestResult struct {
	Columns []string         `json:"columns"`
	Data    []map[string]any `json:"data"`
}

var (
	nodeURIPattern = regexp.MustCompile(`/node/(\d+)/?$`)
	relURIPattern  = regexp.MustCompile(`/relationships?/(\d+)/?$`)
)

type entityKind int

const (
	kindUnknown entityKind = iota
	kindNode
	kindRelationship
)

// ParseRestResult decodes a REST payload. Integral numbers decode to int64
// and all other numbers to float64.
func ParseRestResult(r io.Reader) (*RestResult, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw struct {
		Columns []string         `json:"columns"`
		Data    []map[string]any `json:"data"`
	}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding rest result: %w", err)
	}

	res := &RestResult{Columns: raw.Columns, Data: make([]map[string]any, len(raw.Data))}
	for i, row := range raw.Data {
		res.Data[i] = normalizeNumbers(row).(map[string]any) //nolint:forcetypeassert // maps normalize to maps.
	}

	return res, nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}

		f, _ := t.Float64() //nolint:errcheck // json.Number is always a valid float literal.

		return f
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeNumbers(e)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeNumbers(e)
		}

		return out
	default:
		return v
	}
}

// parseEntityURI extracts the numeric id and the entity kind from a self URI.
func parseEntityURI(uri string) (int64, entityKind) {
	if m := relURIPattern.FindStringSubmatch(uri); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return id, kindRelationship
		}
	}

	if m := nodeURIPattern.FindStringSubmatch(uri); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return id, kindNode
		}
	}

	return 0, kindUnknown
}

// RestAdapter projects REST payloads onto a Model. With FullRow unset only
// the first column of each row is projected.
type RestAdapter struct {
	FullRow bool
}

// Build returns a new model projected from res.
func (a RestAdapter) Build(res *RestResult) (*Model, Stats) {
	m := NewModel()
	st := a.Extend(m, res)

	return m, st
}

// Extend projects res onto m. Cells with an unrecognized self URI and
// relationships with an unresolvable endpoint are skipped and counted.
func (a RestAdapter) Extend(m *Model, res *RestResult) Stats {
	var st Stats

	if res == nil || len(res.Columns) == 0 {
		return st
	}

	cols := res.Columns
	if !a.FullRow {
		cols = cols[:1]
	}

	for _, row := range res.Data {
		for _, col := range cols {
			v, ok := row[col]
			if !ok {
				continue
			}

			projectRestValue(m, v, &st)
		}
	}

	return st
}

func projectRestValue(m *Model, v any, st *Stats) {
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			projectRestValue(m, e, st)
		}
	case map[string]any:
		projectRestCell(m, t, st)
	}
}

func projectRestCell(m *Model, cell map[string]any, st *Stats) {
	self, _ := cell["self"].(string)

	id, kind := parseEntityURI(self)
	props, _ := cell["data"].(map[string]any)

	switch kind {
	case kindNode:
		m.AddNode(id, props, restLabels(cell))
		st.Nodes++
	case kindRelationship:
		start, okStart := restEndpoint(cell, "start")
		end, okEnd := restEndpoint(cell, "end")

		if !okStart || !okEnd {
			st.Skipped++

			return
		}

		relType, _ := cell["type"].(string)
		m.AddRelationship(id, start, end, relType, props)
		st.Relationships++
	default:
		st.Skipped++
	}
}

func restEndpoint(cell map[string]any, key string) (int64, bool) {
	uri, ok := cell[key].(string)
	if !ok {
		return 0, false
	}

	id, kind := parseEntityURI(uri)

	return id, kind == kindNode
}

func restLabels(cell map[string]any) []string {
	meta, ok := cell["metadata"].(map[string]any)
	if !ok {
		return nil
	}

	raw, ok := meta["labels"].([]any)
	if !ok {
		return nil
	}

	labels := make([]string, 0, len(raw))
	for _, l := range raw {
		if s, ok := l.(string); ok {
			labels = append(labels, s)
		}
	}

	return labels
}
