// Package ranking composes feed queries from the selected sort mode and tag,
// and ranks posts locally for stores without a query engine.
package ranking

import (
	"context"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/infra/logging"
)

// DefaultPageSize is the fixed feed page size.
const DefaultPageSize = 20

// Page is one page of the feed. HasMore is true iff the page came back full.
type Page struct {
	Items   []domain.Post
	HasMore bool
}

// Composer turns (offset, sort, tag) into remote queries.
type Composer struct {
	feed     app.FeedService
	pageSize int
	now      func() time.Time
}

// NewComposer creates a composer. A non-positive pageSize uses
// DefaultPageSize; a nil clock uses time.Now.
func NewComposer(feed app.FeedService, pageSize int, now func() time.Time) *Composer {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if now == nil {
		now = time.Now
	}
	return &Composer{feed: feed, pageSize: pageSize, now: now}
}

// PageSize is the number of posts requested per page.
func (c *Composer) PageSize() int { return c.pageSize }

// Query builds the remote query for a page. Windowed modes filter on
// CreatedAt >= now - window; every mode except recent orders by score.
func (c *Composer) Query(sort domain.SortMode, tag string, offset, limit int) app.PostQuery {
	if limit <= 0 {
		limit = c.pageSize
	}
	if offset < 0 {
		offset = 0
	}
	q := app.PostQuery{
		Tag:     domain.NormalizeTag(tag),
		OrderBy: app.OrderRecent,
		Offset:  offset,
		Limit:   limit,
	}
	if sort.ByScore() {
		q.OrderBy = app.OrderScore
	}
	if w := sort.Window(); w > 0 {
		q.Since = c.now().Add(-w)
	}
	return q
}

// FetchPage loads one page. A failed read yields an empty page and a
// *domain.RemoteReadError; callers show the empty page and keep going.
func (c *Composer) FetchPage(ctx context.Context, offset, limit int, sort domain.SortMode, tag string) (Page, error) {
	q := c.Query(sort, tag, offset, limit)
	posts, err := c.feed.QueryPosts(ctx, q)
	if err != nil {
		logging.Warn("feed page unavailable", "sort", sort, "tag", q.Tag, "offset", q.Offset, "err", err)
		return Page{}, &domain.RemoteReadError{Op: "load feed", Err: err}
	}
	if len(posts) > q.Limit {
		posts = posts[:q.Limit]
	}
	return Page{Items: posts, HasMore: len(posts) == q.Limit}, nil
}
