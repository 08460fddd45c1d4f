// Package memstore is an in-process remote store used by demo mode and
// tests. Queries are answered with the same ranking rules the server uses.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/ranking"
)

// Store holds posts, comments and reports in memory.
type Store struct {
	mu       sync.Mutex
	posts    []domain.Post
	comments map[string][]domain.Comment
	reports  []domain.Report
	now      func() time.Time

	// Fail makes every call return this error when non-nil.
	Fail error
}

// New creates an empty store. A nil clock uses time.Now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{comments: make(map[string][]domain.Comment), now: now}
}

// Seed adds posts as they are.
func (s *Store) Seed(posts ...domain.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, posts...)
}

// SeedReports adds reports as they are.
func (s *Store) SeedReports(reports ...domain.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, reports...)
}

// Reports returns a copy of every stored report, oldest first.
func (s *Store) Reports() []domain.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.reports)
}

func (s *Store) QueryPosts(_ context.Context, q app.PostQuery) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	return ranking.Apply(s.posts, q), nil
}

func (s *Store) GetPost(_ context.Context, id string) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return domain.Post{}, s.Fail
	}
	if i := s.index(id); i >= 0 {
		return s.posts[i], nil
	}
	return domain.Post{}, domain.ErrNotFound
}

func (s *Store) InsertPost(_ context.Context, np domain.NewPost) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return domain.Post{}, s.Fail
	}
	p := domain.Post{
		ID:          uuid.NewString(),
		Caption:     np.Caption,
		MediaURL:    np.MediaURL,
		MediaKind:   np.MediaKind,
		DisplayName: np.DisplayName,
		Anonymous:   np.Anonymous,
		Tags:        slices.Clone(np.Tags),
		CreatedAt:   s.now(),
	}
	s.posts = append(s.posts, p)
	return p, nil
}

func (s *Store) InsertComment(_ context.Context, postID, content, displayName string) (domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return domain.Comment{}, s.Fail
	}
	if s.index(postID) < 0 {
		return domain.Comment{}, domain.ErrNotFound
	}
	c := domain.Comment{
		ID:          uuid.NewString(),
		PostID:      postID,
		Content:     content,
		DisplayName: displayName,
		CreatedAt:   s.now(),
	}
	// newest first
	s.comments[postID] = append([]domain.Comment{c}, s.comments[postID]...)
	return c, nil
}

func (s *Store) QueryComments(_ context.Context, postID string, offset, limit int) (domain.CommentPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return domain.CommentPage{}, s.Fail
	}
	all := s.comments[postID]
	page := domain.CommentPage{Total: len(all), Comments: []domain.Comment{}}
	if offset >= len(all) {
		return page, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	page.Comments = slices.Clone(all[offset:end])
	return page, nil
}

func (s *Store) CountComments(_ context.Context, postIDs []string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	out := make(map[string]int, len(postIDs))
	for _, id := range postIDs {
		if n := len(s.comments[id]); n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (s *Store) InsertReport(_ context.Context, r domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *Store) QueryReports(_ context.Context, postIDs []string, since time.Time) ([]domain.ReportStamp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	var out []domain.ReportStamp
	for _, r := range s.reports {
		if r.CreatedAt.Before(since) || !slices.Contains(postIDs, r.PostID) {
			continue
		}
		out = append(out, domain.ReportStamp{PostID: r.PostID, CreatedAt: r.CreatedAt})
	}
	return out, nil
}

func (s *Store) IncrementReaction(_ context.Context, postID string, kind domain.ReactionKind, delta int) error {
	return s.update(postID, func(p domain.Post) domain.Post { return p.WithReaction(kind, delta) })
}

func (s *Store) IncrementView(_ context.Context, postID string, delta int) error {
	return s.update(postID, func(p domain.Post) domain.Post { return p.WithView(delta) })
}

// UploadMedia pretends to store the file and returns a fake public URL.
func (s *Store) UploadMedia(_ context.Context, u app.Upload) (string, error) {
	if s.Fail != nil {
		return "", s.Fail
	}
	ext := ""
	if i := strings.LastIndexByte(u.Name, '.'); i >= 0 {
		ext = strings.ToLower(u.Name[i:])
	}
	return fmt.Sprintf("memory://media/public/%s%s", uuid.NewString(), ext), nil
}

func (s *Store) update(postID string, fn func(domain.Post) domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	i := s.index(postID)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.posts[i] = fn(s.posts[i])
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.posts, func(p domain.Post) bool { return p.ID == id })
}
