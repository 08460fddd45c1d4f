package app

import (
	"context"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

// CommentService reads and writes post comments.
type CommentService interface {
	InsertComment(ctx context.Context, postID, content, displayName string) (domain.Comment, error)

	// QueryComments returns one page, newest first, with the server total.
	QueryComments(ctx context.Context, postID string, offset, limit int) (domain.CommentPage, error)

	// CountComments returns the comment total per post for a batch of IDs.
	// Posts without comments may be absent from the map.
	CountComments(ctx context.Context, postIDs []string) (map[string]int, error)
}

// ReportService writes reports and reads back recent report timestamps.
type ReportService interface {
	InsertReport(ctx context.Context, r domain.Report) error
	QueryReports(ctx context.Context, postIDs []string, since time.Time) ([]domain.ReportStamp, error)
}

// CounterService increments shared counters atomically on the server.
type CounterService interface {
	IncrementReaction(ctx context.Context, postID string, kind domain.ReactionKind, delta int) error
	IncrementView(ctx context.Context, postID string, delta int) error
}

// Store is the full remote data store.
type Store interface {
	FeedService
	CommentService
	ReportService
	CounterService
}
