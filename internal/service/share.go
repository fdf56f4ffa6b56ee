package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/models"
)

// graphStore persists shared console graphs.
type graphStore interface {
	Create(ctx context.Context, info models.GraphInfo) (*models.GraphInfo, error)
	Update(ctx context.Context, info models.GraphInfo) (*models.GraphInfo, error)
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, id string) (*models.GraphInfo, error)
}

// Share saves the setup script and query history of the session so it can
// be replayed by id.
func (s *ConsoleService) Share(ctx context.Context, sessionID string, req models.ShareRequest) (*models.GraphInfo, error) {
	sess := s.sessions.GetOrCreate(sessionID)
	unlock := sess.Lock()
	st := sess.State()
	unlock()

	info, err := s.graphs.Create(ctx, models.GraphInfo{
		ID:      req.ID,
		Init:    st.Init,
		Query:   st.Script(),
		Message: req.Message,
		Version: s.opts.Version,
		NoRoot:  req.NoRoot || st.NoRoot,
	})
	if err != nil {
		return nil, fmt.Errorf("sharing session: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"graph_id":   info.ID,
	}).Info("session shared")

	return info, nil
}

// Load returns a shared graph.
func (s *ConsoleService) Load(ctx context.Context, id string) (*models.GraphInfo, error) {
	return s.graphs.Find(ctx, id)
}

// Replay resets the database, runs the setup script of a shared graph and
// then its queries in the session. The response is that of the last query,
// or the whole graph when the shared graph has no queries.
func (s *ConsoleService) Replay(ctx context.Context, sessionID, id string) (*models.QueryResponse, error) {
	info, err := s.graphs.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	sess := s.sessions.GetOrCreate(sessionID)
	unlock := sess.Lock()

	sess.SetNoRoot(info.NoRoot)

	_, err = s.runScript(ctx, info.Init, true)
	if err == nil {
		sess.SetInit(info.Init)
	}

	unlock()

	if err != nil {
		return nil, fmt.Errorf("replaying %s: %w", id, err)
	}

	queries := models.SplitStatements(info.Query)
	if len(queries) == 0 {
		g, err := s.Graph(ctx, sessionID, "")
		if err != nil {
			return nil, err
		}

		return &models.QueryResponse{Graph: g.Graph, Stats: g.Stats}, nil
	}

	var resp *models.QueryResponse
	for _, q := range queries {
		resp, err = s.Query(ctx, sessionID, models.QueryRequest{Query: q})
		if err != nil {
			return nil, fmt.Errorf("replaying %s: %w", id, err)
		}
	}

	return resp, nil
}

// UpdateShared changes the set fields of a shared graph.
func (s *ConsoleService) UpdateShared(ctx context.Context, id string, req models.UpdateGraphRequest) (*models.GraphInfo, error) {
	info, err := s.graphs.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(info)

	return s.graphs.Update(ctx, *info)
}

// DeleteShared removes a shared graph.
func (s *ConsoleService) DeleteShared(ctx context.Context, id string) error {
	return s.graphs.Delete(ctx, id)
}
