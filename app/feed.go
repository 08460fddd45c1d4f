package app

import (
	"context"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

// OrderBy selects the server-side ordering of a posts query.
type OrderBy int

const (
	// OrderRecent orders by creation time, newest first.
	OrderRecent OrderBy = iota
	// OrderScore orders by score descending, then creation time descending.
	OrderScore
)

// PostQuery is the composed feed query. A zero Since means no time window;
// an empty Tag means no tag filter.
type PostQuery struct {
	Since   time.Time
	Tag     string
	OrderBy OrderBy
	Offset  int
	Limit   int
}

// FeedService lists, fetches and publishes posts on the remote store.
type FeedService interface {
	// QueryPosts returns at most q.Limit posts starting at q.Offset.
	QueryPosts(ctx context.Context, q PostQuery) ([]domain.Post, error)

	// GetPost fetches one post by ID. Returns domain.ErrNotFound when missing.
	GetPost(ctx context.Context, id string) (domain.Post, error)

	// InsertPost publishes a new post and returns the stored record.
	InsertPost(ctx context.Context, p domain.NewPost) (domain.Post, error)
}
