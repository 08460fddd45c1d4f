package ranking

import (
	"slices"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

// Match reports whether p passes the window and tag filters of q.
func Match(p domain.Post, q app.PostQuery) bool {
	if !q.Since.IsZero() && p.CreatedAt.Before(q.Since) {
		return false
	}
	if q.Tag != "" && !p.HasTag(q.Tag) {
		return false
	}
	return true
}

// Less orders posts for q: score desc with recency tie-break when ordering
// by score, otherwise recency alone. Equal timestamps fall back to ID so the
// order is total.
func Less(a, b domain.Post, by app.OrderBy) bool {
	if by == app.OrderScore && a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// Apply filters, orders and paginates posts as the remote store would.
// The input slice is not modified.
func Apply(posts []domain.Post, q app.PostQuery) []domain.Post {
	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if Match(p, q) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Post) int {
		switch {
		case Less(a, b, q.OrderBy):
			return -1
		case Less(b, a, q.OrderBy):
			return 1
		}
		return 0
	})
	if q.Offset >= len(out) {
		return []domain.Post{}
	}
	out = out[q.Offset:]
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}
