package supabase

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

const (
	postsView  = "/rest/v1/posts_with_profiles"
	postsTable = "/rest/v1/posts"
)

// postRow is a row of posts_with_profiles. Every counter is nullable.
type postRow struct {
	ID          string    `json:"id"`
	Username    *string   `json:"username"`
	DisplayName *string   `json:"display_name"`
	Caption     *string   `json:"caption"`
	MediaURL    *string   `json:"media_url"`
	MediaType   *string   `json:"media_type"`
	IsAnonymous *bool     `json:"is_anonymous"`
	Score       *int      `json:"score"`
	LOL         *int      `json:"lol"`
	Cringe      *int      `json:"cringe"`
	WTF         *int      `json:"wtf"`
	Genius      *int      `json:"genius"`
	Views       *int      `json:"views"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r postRow) toDomain() domain.Post {
	return domain.Post{
		ID:          r.ID,
		Caption:     deref(r.Caption),
		MediaURL:    deref(r.MediaURL),
		MediaKind:   domain.MediaKind(deref(r.MediaType)),
		DisplayName: deref(r.DisplayName),
		Username:    deref(r.Username),
		Anonymous:   deref(r.IsAnonymous),
		Tags:        r.Tags,
		Reactions: domain.Reactions{
			LOL:    deref(r.LOL),
			Cringe: deref(r.Cringe),
			WTF:    deref(r.WTF),
			Genius: deref(r.Genius),
		},
		Score:     deref(r.Score),
		Views:     deref(r.Views),
		CreatedAt: r.CreatedAt,
	}
}

type newPostRow struct {
	Caption     *string  `json:"caption"`
	MediaURL    *string  `json:"media_url"`
	MediaType   *string  `json:"media_type"`
	IsAnonymous bool     `json:"is_anonymous"`
	DisplayName *string  `json:"display_name"`
	Tags        []string `json:"tags"`
}

// postService implements app.FeedService.
type postService struct {
	client *Client
}

// NewPostService creates a FeedService backed by the project.
func NewPostService(client *Client) *postService {
	return &postService{client: client}
}

func (s *postService) QueryPosts(ctx context.Context, q app.PostQuery) ([]domain.Post, error) {
	req := s.client.r(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("offset", strconv.Itoa(q.Offset)).
		SetQueryParam("limit", strconv.Itoa(q.Limit))
	if !q.Since.IsZero() {
		req.SetQueryParam("created_at", "gte."+timestamp(q.Since))
	}
	if tag := domain.NormalizeTag(q.Tag); tag != "" {
		req.SetQueryParam("tags", "cs.{"+strconv.Quote(tag)+"}")
	}
	if q.OrderBy == app.OrderScore {
		req.SetQueryParam("order", "score.desc,created_at.desc")
	} else {
		req.SetQueryParam("order", "created_at.desc")
	}

	var rows []postRow
	resp, err := req.SetResult(&rows).Get(postsView)
	if err := check(resp, err, http.MethodGet, postsView); err != nil {
		return nil, err
	}
	return mapPosts(rows), nil
}

func (s *postService) GetPost(ctx context.Context, id string) (domain.Post, error) {
	var rows []postRow
	resp, err := s.client.r(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("id", "eq."+id).
		SetQueryParam("limit", "1").
		SetResult(&rows).
		Get(postsView)
	if err := check(resp, err, http.MethodGet, postsView); err != nil {
		return domain.Post{}, err
	}
	if len(rows) == 0 {
		return domain.Post{}, domain.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

func (s *postService) InsertPost(ctx context.Context, p domain.NewPost) (domain.Post, error) {
	row := newPostRow{
		Caption:     nullable(p.Caption),
		MediaURL:    nullable(p.MediaURL),
		MediaType:   nullable(string(p.MediaKind)),
		IsAnonymous: p.Anonymous,
		DisplayName: nullable(p.DisplayName),
		Tags:        p.Tags,
	}
	if row.Tags == nil {
		row.Tags = []string{}
	}

	var rows []postRow
	resp, err := s.client.r(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody([]newPostRow{row}).
		SetResult(&rows).
		Post(postsTable)
	if err := check(resp, err, http.MethodPost, postsTable); err != nil {
		return domain.Post{}, err
	}
	if len(rows) == 0 {
		return domain.Post{}, domain.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

func mapPosts(rows []postRow) []domain.Post {
	posts := make([]domain.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.toDomain())
	}
	return posts
}
