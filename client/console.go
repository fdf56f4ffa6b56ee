package client

import (
	"context"
	"encoding/json"
	"net/url"
)

// ConsoleService runs queries and projections.
type ConsoleService struct {
	c *Client
}

// Query runs Cypher in the client's session.
func (s *ConsoleService) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	if err := s.c.post(ctx, "/console/cypher", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Graph returns the whole database, marking the result of selectQuery when set.
func (s *ConsoleService) Graph(ctx context.Context, selectQuery string) (*GraphResponse, error) {
	params := url.Values{}
	if selectQuery != "" {
		params.Set("select", selectQuery)
	}
	var resp GraphResponse
	if err := s.c.get(ctx, "/console/graph", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Init runs a setup script, optionally clearing the database first.
func (s *ConsoleService) Init(ctx context.Context, req *InitRequest) (*InitResponse, error) {
	var resp InitResponse
	if err := s.c.post(ctx, "/console/init", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Rest projects a REST-style result payload. fullRow projects every column.
func (s *ConsoleService) Rest(ctx context.Context, payload json.RawMessage, fullRow bool) (*RestResponse, error) {
	path := "/console/rest"
	if fullRow {
		path += "?full_row=true"
	}
	var resp RestResponse
	if err := s.c.post(ctx, path, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Import creates the entities of a visualization payload as new nodes and
// relationships.
func (s *ConsoleService) Import(ctx context.Context, snapshot json.RawMessage) (*ImportResult, error) {
	var resp ImportResult
	if err := s.c.post(ctx, "/console/import", snapshot, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
