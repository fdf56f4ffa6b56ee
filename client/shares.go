package client

import (
	"context"
	"net/url"
)

// ShareService handles shared console graphs.
type ShareService struct {
	c *Client
}

// Create shares the client's session.
func (s *ShareService) Create(ctx context.Context, req *ShareRequest) (*GraphInfo, error) {
	var info GraphInfo
	if err := s.c.post(ctx, "/console/share", req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Get returns a shared graph by id.
func (s *ShareService) Get(ctx context.Context, id string) (*GraphInfo, error) {
	var info GraphInfo
	if err := s.c.get(ctx, "/console/share/"+url.PathEscape(id), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Update changes the set fields of a shared graph.
func (s *ShareService) Update(ctx context.Context, id string, req *UpdateGraphRequest) (*GraphInfo, error) {
	var info GraphInfo
	if err := s.c.put(ctx, "/console/share/"+url.PathEscape(id), req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Delete removes a shared graph.
func (s *ShareService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/console/share/"+url.PathEscape(id))
}

// Replay resets the database and replays a shared graph in the client's session.
func (s *ShareService) Replay(ctx context.Context, id string) (*QueryResponse, error) {
	var resp QueryResponse
	if err := s.c.post(ctx, "/console/share/"+url.PathEscape(id)+"/replay", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
