package supabase

import (
	"context"
	"net/http"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

const (
	rpcIncrementReaction = "/rest/v1/rpc/increment_reaction"
	rpcIncrementView     = "/rest/v1/rpc/increment_view"
)

// counterService implements app.CounterService with the project's atomic
// increment functions.
type counterService struct {
	client *Client
}

// NewCounterService creates a CounterService backed by the project.
func NewCounterService(client *Client) *counterService {
	return &counterService{client: client}
}

func (s *counterService) IncrementReaction(ctx context.Context, postID string, kind domain.ReactionKind, delta int) error {
	resp, err := s.client.r(ctx).
		SetBody(map[string]any{"pid": postID, "kind": string(kind), "delta": delta}).
		Post(rpcIncrementReaction)
	return check(resp, err, http.MethodPost, rpcIncrementReaction)
}

func (s *counterService) IncrementView(ctx context.Context, postID string, delta int) error {
	resp, err := s.client.r(ctx).
		SetBody(map[string]any{"pid": postID, "delta": delta}).
		Post(rpcIncrementView)
	return check(resp, err, http.MethodPost, rpcIncrementView)
}
