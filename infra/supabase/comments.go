package supabase

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

const commentsTable = "/rest/v1/comments"

type commentRow struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	Content     string    `json:"content"`
	DisplayName *string   `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r commentRow) toDomain() domain.Comment {
	return domain.Comment{
		ID:          r.ID,
		PostID:      r.PostID,
		Content:     r.Content,
		DisplayName: deref(r.DisplayName),
		CreatedAt:   r.CreatedAt,
	}
}

type newCommentRow struct {
	PostID      string  `json:"post_id"`
	Content     string  `json:"content"`
	DisplayName *string `json:"display_name"`
}

// commentService implements app.CommentService.
type commentService struct {
	client *Client
}

// NewCommentService creates a CommentService backed by the project.
func NewCommentService(client *Client) *commentService {
	return &commentService{client: client}
}

func (s *commentService) InsertComment(ctx context.Context, postID, content, displayName string) (domain.Comment, error) {
	var rows []commentRow
	resp, err := s.client.r(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody([]newCommentRow{{PostID: postID, Content: content, DisplayName: nullable(displayName)}}).
		SetResult(&rows).
		Post(commentsTable)
	if err := check(resp, err, http.MethodPost, commentsTable); err != nil {
		return domain.Comment{}, err
	}
	if len(rows) == 0 {
		return domain.Comment{}, domain.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

func (s *commentService) QueryComments(ctx context.Context, postID string, offset, limit int) (domain.CommentPage, error) {
	var rows []commentRow
	resp, err := s.client.r(ctx).
		SetHeader("Prefer", "count=exact").
		SetQueryParam("select", "*").
		SetQueryParam("post_id", "eq."+postID).
		SetQueryParam("order", "created_at.desc").
		SetQueryParam("offset", strconv.Itoa(offset)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&rows).
		Get(commentsTable)
	if err := check(resp, err, http.MethodGet, commentsTable); err != nil {
		return domain.CommentPage{}, err
	}

	page := domain.CommentPage{Comments: make([]domain.Comment, 0, len(rows))}
	for _, r := range rows {
		page.Comments = append(page.Comments, r.toDomain())
	}
	page.Total = contentRangeTotal(resp.Header().Get("Content-Range"))
	if page.Total < offset+len(rows) {
		page.Total = offset + len(rows)
	}
	return page, nil
}

func (s *commentService) CountComments(ctx context.Context, postIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID string `json:"post_id"`
	}
	resp, err := s.client.r(ctx).
		SetQueryParam("select", "post_id").
		SetQueryParam("post_id", inList(postIDs)).
		SetResult(&rows).
		Get(commentsTable)
	if err := check(resp, err, http.MethodGet, commentsTable); err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.PostID]++
	}
	return counts, nil
}
