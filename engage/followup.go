package engage

import (
	"context"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
	"github.com/mathfra-rgb/cancelme-mvp/infra/logging"
)

// CommentsPageSize is the number of comments per page.
const CommentsPageSize = 20

// FollowUp carries the batch queries issued for a freshly loaded page.
type FollowUp struct {
	PostIDs       []string
	CommentCounts map[string]int // nil when the count query failed
	ReportCounts  map[string]int
}

// FetchFollowUp queries comment counts and recent report counts for exactly
// postIDs. Read failures degrade: counts stay as cached, reports read as zero.
func (e *Engine) FetchFollowUp(ctx context.Context, postIDs []string) FollowUp {
	f := FollowUp{PostIDs: postIDs}
	if len(postIDs) == 0 {
		return f
	}
	counts, err := e.comments.CountComments(ctx, postIDs)
	if err != nil {
		logging.Warn("comment counts unavailable", "posts", len(postIDs), "err", err)
	} else {
		f.CommentCounts = counts
	}
	f.ReportCounts = e.evaluator.Counts(ctx, postIDs)
	return f
}

// ApplyFollowUp merges f and re-evaluates auto-hide for its posts.
func (e *Engine) ApplyFollowUp(s feedstate.State, f FollowUp) feedstate.State {
	if f.CommentCounts != nil {
		s = feedstate.Reduce(s, feedstate.CommentCountsMerged{PostIDs: f.PostIDs, Counts: f.CommentCounts})
	}
	s = feedstate.Reduce(s, feedstate.ReportCountsMerged{PostIDs: f.PostIDs, Counts: f.ReportCounts})
	policy := e.evaluator.Policy()
	return feedstate.Reduce(s, feedstate.VisibilityEvaluated{Hidden: policy.Decide(f.PostIDs, s.ReportCounts)})
}

// FetchComments loads one page of a post's comments. Offset counts
// server-backed comments only.
func (e *Engine) FetchComments(ctx context.Context, postID string, offset int) feedstate.Action {
	page, err := e.comments.QueryComments(ctx, postID, offset, CommentsPageSize)
	if err != nil {
		logging.Warn("comments unavailable", "post", postID, "err", err)
		return feedstate.CommentsFailed{PostID: postID, Err: &domain.RemoteReadError{Op: "load comments", Err: err}}
	}
	return feedstate.CommentsLoaded{
		PostID:  postID,
		Offset:  offset,
		Append:  offset > 0,
		Page:    page,
		HasMore: len(page.Comments) == CommentsPageSize,
	}
}
