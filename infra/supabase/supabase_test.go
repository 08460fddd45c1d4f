package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/infra/auth"
)

type captured struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   string
}

func newTestServer(t *testing.T, status int, respHeader map[string]string, respBody string) (*Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.Query()
		got.header = r.Header.Clone()
		got.body = string(b)
		w.Header().Set("Content-Type", "application/json")
		for k, v := range respHeader {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, auth.StaticKey("anon-key"), 5*time.Second), got
}

const postJSON = `[{
	"id": "p1", "username": null, "display_name": "neo", "caption": "hi",
	"media_url": null, "media_type": null, "is_anonymous": false,
	"score": 4, "lol": 3, "cringe": null, "wtf": 1, "genius": null,
	"views": 12, "tags": ["lol"], "created_at": "2026-03-01T10:00:00.123456+00:00"
}]`

func TestQueryPosts_RequestShapeAndMapping(t *testing.T) {
	client, got := newTestServer(t, http.StatusOK, nil, postJSON)
	svc := NewPostService(client)
	since := time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC)

	posts, err := svc.QueryPosts(context.Background(), app.PostQuery{
		Since: since, Tag: "#LOL", OrderBy: app.OrderScore, Offset: 20, Limit: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/rest/v1/posts_with_profiles", got.path)
	assert.Equal(t, "gte.2026-02-28T10:00:00Z", got.query.Get("created_at"))
	assert.Equal(t, `cs.{"lol"}`, got.query.Get("tags"))
	assert.Equal(t, "score.desc,created_at.desc", got.query.Get("order"))
	assert.Equal(t, "20", got.query.Get("offset"))
	assert.Equal(t, "20", got.query.Get("limit"))
	assert.Equal(t, "anon-key", got.header.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", got.header.Get("Authorization"))

	require.Len(t, posts, 1)
	p := posts[0]
	assert.Equal(t, "neo", p.Author())
	assert.Equal(t, domain.Reactions{LOL: 3, WTF: 1}, p.Reactions)
	assert.Equal(t, 4, p.Score)
	assert.Equal(t, 12, p.Views)
	assert.Equal(t, domain.MediaNone, p.MediaKind)
	assert.Equal(t, 2026, p.CreatedAt.Year())
}

func TestQueryPosts_RecentHasNoWindow(t *testing.T) {
	client, got := newTestServer(t, http.StatusOK, nil, `[]`)
	posts, err := NewPostService(client).QueryPosts(context.Background(), app.PostQuery{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, "created_at.desc", got.query.Get("order"))
	assert.False(t, got.query.Has("created_at"))
	assert.False(t, got.query.Has("tags"))
}

func TestGetPost_NotFound(t *testing.T) {
	client, got := newTestServer(t, http.StatusOK, nil, `[]`)
	_, err := NewPostService(client).GetPost(context.Background(), "p9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "eq.p9", got.query.Get("id"))
}

func TestInsertPost_SendsRow(t *testing.T) {
	client, got := newTestServer(t, http.StatusCreated, nil, postJSON)
	post, err := NewPostService(client).InsertPost(context.Background(), domain.NewPost{
		Caption: "hi", Anonymous: true, MediaURL: "https://youtu.be/x", MediaKind: domain.MediaYouTube,
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/rest/v1/posts", got.path)
	assert.Equal(t, "return=representation", got.header.Get("Prefer"))
	assert.JSONEq(t, `[{"caption":"hi","media_url":"https://youtu.be/x","media_type":"youtube",
		"is_anonymous":true,"display_name":null,"tags":[]}]`, got.body)
}

func TestQueryComments_TotalFromContentRange(t *testing.T) {
	body := `[{"id":"c1","post_id":"p1","content":"yo","display_name":null,"created_at":"2026-03-01T10:00:00Z"}]`
	client, got := newTestServer(t, http.StatusOK, map[string]string{"Content-Range": "20-20/21"}, body)

	page, err := NewCommentService(client).QueryComments(context.Background(), "p1", 20, 20)
	require.NoError(t, err)
	assert.Equal(t, 21, page.Total)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "Anonymous", page.Comments[0].Author())
	assert.Equal(t, "count=exact", got.header.Get("Prefer"))
	assert.Equal(t, "eq.p1", got.query.Get("post_id"))
	assert.Equal(t, "created_at.desc", got.query.Get("order"))
}

func TestCountComments_Batch(t *testing.T) {
	client, got := newTestServer(t, http.StatusOK, nil, `[{"post_id":"a"},{"post_id":"a"},{"post_id":"b"}]`)
	counts, err := NewCommentService(client).CountComments(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, counts)
	assert.Equal(t, `in.("a","b","c")`, got.query.Get("post_id"))
}

func TestInsertComment_NullDisplayName(t *testing.T) {
	body := `[{"id":"c7","post_id":"p1","content":"yo","created_at":"2026-03-01T10:00:00Z"}]`
	client, got := newTestServer(t, http.StatusCreated, nil, body)
	c, err := NewCommentService(client).InsertComment(context.Background(), "p1", "yo", " ")
	require.NoError(t, err)
	assert.Equal(t, "c7", c.ID)
	assert.JSONEq(t, `[{"post_id":"p1","content":"yo","display_name":null}]`, got.body)
}

func TestReports(t *testing.T) {
	client, got := newTestServer(t, http.StatusCreated, nil, ``)
	svc := NewReportService(client)
	err := svc.InsertReport(context.Background(), domain.Report{PostID: "p1", ReporterFingerprint: "fp"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"post_id":"p1","reason":null,"reporter_fingerprint":"fp","reporter_name":null}]`, got.body)

	client, got = newTestServer(t, http.StatusOK, nil, `[{"post_id":"p1","created_at":"2026-03-01T09:00:00Z"}]`)
	since := time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC)
	stamps, err := NewReportService(client).QueryReports(context.Background(), []string{"p1"}, since)
	require.NoError(t, err)
	require.Len(t, stamps, 1)
	assert.Equal(t, "post_id,created_at", got.query.Get("select"))
	assert.Equal(t, "gte.2026-02-28T10:00:00Z", got.query.Get("created_at"))
}

func TestCounters_RPCBodies(t *testing.T) {
	client, got := newTestServer(t, http.StatusNoContent, nil, ``)
	svc := NewCounterService(client)

	require.NoError(t, svc.IncrementReaction(context.Background(), "p1", domain.ReactionGenius, 1))
	assert.Equal(t, "/rest/v1/rpc/increment_reaction", got.path)
	assert.JSONEq(t, `{"pid":"p1","kind":"genius","delta":1}`, got.body)

	require.NoError(t, svc.IncrementView(context.Background(), "p1", 1))
	assert.Equal(t, "/rest/v1/rpc/increment_view", got.path)
	assert.JSONEq(t, `{"pid":"p1","delta":1}`, got.body)
}

func TestStorageUpload(t *testing.T) {
	client, got := newTestServer(t, http.StatusOK, nil, `{"Key":"media/public/x.png"}`)
	svc := NewStorageService(client, "media")

	u, err := svc.UploadMedia(context.Background(), app.Upload{
		Name: "Cat.PNG", ContentType: "image/png", Kind: domain.MediaImage, Data: []byte("png-bytes"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.path, "/storage/v1/object/media/public/"))
	assert.True(t, strings.HasSuffix(got.path, ".png"))
	assert.Equal(t, "image/png", got.header.Get("Content-Type"))
	assert.Equal(t, "png-bytes", got.body)
	assert.Equal(t, client.BaseURL()+"/storage/v1/object/public/media/"+strings.TrimPrefix(got.path, "/storage/v1/object/media/"), u)
}

func TestAPIErrorPropagation(t *testing.T) {
	client, _ := newTestServer(t, http.StatusServiceUnavailable, nil, `{"message":"down"}`)
	_, err := NewPostService(client).QueryPosts(context.Background(), app.PostQuery{Limit: 20})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))
	assert.Contains(t, err.Error(), "/rest/v1/posts_with_profiles")
}

func TestMissingKeyFailsBeforeSending(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hit = true }))
	defer srv.Close()

	client := NewClient(srv.URL, auth.StaticKey(""), time.Second)
	err := NewCounterService(client).IncrementView(context.Background(), "p1", 1)
	assert.True(t, errors.Is(err, auth.ErrNoKey))
	assert.False(t, hit)
}

func TestContentRangeTotal(t *testing.T) {
	assert.Equal(t, 57, contentRangeTotal("0-19/57"))
	assert.Equal(t, 0, contentRangeTotal("*/0"))
	assert.Equal(t, -1, contentRangeTotal("0-19/*"))
	assert.Equal(t, -1, contentRangeTotal(""))
}
