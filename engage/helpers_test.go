package engage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
	"github.com/mathfra-rgb/cancelme-mvp/infra/localstore"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// stubRemote implements the comment, report and counter services.
type stubRemote struct {
	mu sync.Mutex

	writeErr  error
	readErr   error
	stamps    []domain.ReportStamp
	counts    map[string]int
	page      domain.CommentPage
	inserted  []domain.Comment
	reports   []domain.Report
	reactions []string
	views     []string
}

func (s *stubRemote) InsertComment(_ context.Context, postID, content, name string) (domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return domain.Comment{}, s.writeErr
	}
	c := domain.Comment{
		ID:          fmt.Sprintf("srv-%d", len(s.inserted)+1),
		PostID:      postID,
		Content:     content,
		DisplayName: name,
		CreatedAt:   time.Now(),
	}
	s.inserted = append(s.inserted, c)
	return c, nil
}

func (s *stubRemote) QueryComments(context.Context, string, int, int) (domain.CommentPage, error) {
	if s.readErr != nil {
		return domain.CommentPage{}, s.readErr
	}
	return s.page, nil
}

func (s *stubRemote) CountComments(context.Context, []string) (map[string]int, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.counts, nil
}

func (s *stubRemote) InsertReport(_ context.Context, r domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *stubRemote) QueryReports(_ context.Context, ids []string, since time.Time) ([]domain.ReportStamp, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.stamps, nil
}

func (s *stubRemote) IncrementReaction(_ context.Context, postID string, kind domain.ReactionKind, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.reactions = append(s.reactions, fmt.Sprintf("%s:%s:%d", postID, kind, delta))
	return nil
}

func (s *stubRemote) IncrementView(_ context.Context, postID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.views = append(s.views, postID)
	return nil
}

func newTestEngine(remote *stubRemote, clock *fakeClock) (*Engine, *localstore.Memory) {
	kv := localstore.NewMemory()
	e := NewEngine(Deps{
		Comments: remote,
		Reports:  remote,
		Counters: remote,
		KV:       kv,
		Limits:   DefaultLimits(),
		Policy:   DefaultPolicy(),
		Now:      clock.Now,
	})
	return e, kv
}

func feedWith(ids ...string) feedstate.State {
	s := feedstate.New(feedstate.NewFilter(domain.SortRecent, ""))
	posts := make([]domain.Post, len(ids))
	for i, id := range ids {
		posts[i] = domain.Post{ID: id, Caption: "caption " + id}
	}
	return feedstate.Reduce(s, feedstate.PageLoaded{Request: s.Request(false), Posts: posts})
}
