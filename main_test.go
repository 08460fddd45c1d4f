package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/engage"
	"github.com/mathfra-rgb/cancelme-mvp/infra/config"
	"github.com/mathfra-rgb/cancelme-mvp/infra/localstore"
	"github.com/mathfra-rgb/cancelme-mvp/infra/memstore"
	"github.com/mathfra-rgb/cancelme-mvp/ranking"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func TestResolveVersionInfo(t *testing.T) {
	tests := []struct {
		name          string
		v, c, d       string
		moduleVersion string
		settings      map[string]string
		wantV         string
		wantC         string
		wantD         string
	}{
		{
			name: "ldflags win", v: "1.2.0", c: "abc", d: "yesterday",
			moduleVersion: "v9.9.9", settings: map[string]string{"vcs.revision": "zzz"},
			wantV: "1.2.0", wantC: "abc", wantD: "yesterday",
		},
		{
			name: "module and vcs fill defaults", v: "dev", c: "none", d: "unknown",
			moduleVersion: "v0.3.1",
			settings:      map[string]string{"vcs.revision": "0123456789abcdef", "vcs.time": "2026-05-01T10:00:00Z"},
			wantV:         "v0.3.1", wantC: "0123456789ab", wantD: "2026-05-01T10:00:00Z",
		},
		{
			name: "devel build keeps dev", v: "dev", c: "none", d: "unknown",
			moduleVersion: "(devel)",
			wantV:         "dev", wantC: "none", wantD: "unknown",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, c, d := resolveVersionInfo(tc.v, tc.c, tc.d, tc.moduleVersion, tc.settings)
			if v != tc.wantV || c != tc.wantC || d != tc.wantD {
				t.Fatalf("got (%q, %q, %q), want (%q, %q, %q)", v, c, d, tc.wantV, tc.wantC, tc.wantD)
			}
		})
	}
}

// testEnv builds an env over one shared in-memory store so state persists
// across commands run in the same test.
func testEnv(t *testing.T, posts ...domain.Post) (envOpener, *memstore.Store) {
	t.Helper()
	now := func() time.Time { return testNow }
	store := memstore.New(now)
	store.Seed(posts...)
	kv := localstore.NewMemory()
	cfg := config.Config{SiteURL: "https://cancelme.app", PageSize: 20}

	open := func(context.Context, rootOptions) (*env, error) {
		engine := engage.NewEngine(engage.Deps{
			Comments: store,
			Reports:  store,
			Counters: store,
			KV:       kv,
			Limits:   engage.DefaultLimits(),
			Policy:   engage.DefaultPolicy(),
			Now:      now,
		})
		return &env{
			cfg:       cfg,
			kv:        kv,
			store:     store,
			media:     store,
			engine:    engine,
			composer:  ranking.NewComposer(store, cfg.PageSize, now),
			publisher: engage.NewPublisher(store, store, engine.Identity()),
			now:       now,
			close:     func() {},
		}, nil
	}
	return open, store
}

func run(t *testing.T, open envOpener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(open)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func samplePosts() []domain.Post {
	return []domain.Post{
		{ID: "a", Caption: "standup ran 90 minutes", DisplayName: "neo", Tags: []string{"travail"}, Score: 5, CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "b", Caption: "pineapple pizza again", Anonymous: true, Tags: []string{"food"}, Score: 9, CreatedAt: testNow.Add(-30 * time.Hour)},
	}
}

func TestFeedCmd_TextAndJSON(t *testing.T) {
	open, _ := testEnv(t, samplePosts()...)

	out, err := run(t, open, "feed")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if strings.Index(out, "standup") > strings.Index(out, "pineapple") {
		t.Fatalf("recent sort should list newest first:\n%s", out)
	}

	out, err = run(t, open, "feed", "--sort", "top_day", "--output", "json")
	if err != nil {
		t.Fatalf("feed json: %v", err)
	}
	var got struct {
		Sort  string `json:"sort"`
		Posts []struct {
			ID        string `json:"id"`
			Permalink string `json:"permalink"`
		} `json:"posts"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Sort != "top_day" || len(got.Posts) != 1 || got.Posts[0].ID != "a" {
		t.Fatalf("top_day should keep only the last 24h, got %+v", got)
	}
	if got.Posts[0].Permalink != "https://cancelme.app/post/a" {
		t.Fatalf("unexpected permalink %q", got.Posts[0].Permalink)
	}
}

func TestFeedCmd_RejectsBadFlags(t *testing.T) {
	open, _ := testEnv(t)
	if _, err := run(t, open, "feed", "--sort", "hot"); err == nil {
		t.Fatalf("unknown sort should fail")
	}
	if _, err := run(t, open, "feed", "--output", "yaml"); err == nil {
		t.Fatalf("unknown output should fail")
	}
	if _, err := run(t, open, "feed", "--page", "0"); err == nil {
		t.Fatalf("page 0 should fail")
	}
}

func TestFeedCmd_MasksHiddenPosts(t *testing.T) {
	open, store := testEnv(t, samplePosts()...)
	for _, fp := range []string{"x", "y", "z"} {
		store.SeedReports(domain.Report{PostID: "a", ReporterFingerprint: fp, CreatedAt: testNow})
	}
	out, err := run(t, open, "feed")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if strings.Contains(out, "standup") || !strings.Contains(out, "hidden by the community (3 reports)") {
		t.Fatalf("hidden post should be masked:\n%s", out)
	}
}

func TestPostReactCommentReport(t *testing.T) {
	open, store := testEnv(t, samplePosts()...)

	out, err := run(t, open, "post", "--caption", "hot take #lol", "--tags", "cringe")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if !strings.Contains(out, "https://cancelme.app/post/") {
		t.Fatalf("post should print its permalink: %q", out)
	}

	if _, err := run(t, open, "react", "a", "genius"); err != nil {
		t.Fatalf("react: %v", err)
	}
	p, _ := store.GetPost(t.Context(), "a")
	if p.Reactions.Genius != 1 || p.Score != 6 {
		t.Fatalf("reaction should be stored, got %+v score=%d", p.Reactions, p.Score)
	}
	if _, err := run(t, open, "react", "a", "genius"); err == nil {
		t.Fatalf("second reaction from the same device should fail")
	}
	if _, err := run(t, open, "react", "a", "meh"); err == nil {
		t.Fatalf("unknown reaction should fail")
	}

	if _, err := run(t, open, "comment", "a", "so", "cringe"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	out, err = run(t, open, "comments", "a")
	if err != nil || !strings.Contains(out, "so cringe") {
		t.Fatalf("comments should list the new comment, got %q %v", out, err)
	}

	store.SeedReports(
		domain.Report{PostID: "a", ReporterFingerprint: "x", CreatedAt: testNow},
		domain.Report{PostID: "a", ReporterFingerprint: "y", CreatedAt: testNow},
	)
	out, err = run(t, open, "report", "a", "spam")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "community hid this post (3 recent reports)") {
		t.Fatalf("third report should hide the post: %q", out)
	}
}

func TestNameAndWhoami(t *testing.T) {
	open, _ := testEnv(t)

	if _, err := run(t, open, "name", "set", "Captain", "Obvious"); err != nil {
		t.Fatalf("name set: %v", err)
	}
	out, err := run(t, open, "whoami")
	if err != nil || !strings.Contains(out, "Captain Obvious") {
		t.Fatalf("whoami should show the name, got %q %v", out, err)
	}
	if _, err := run(t, open, "name", "set", strings.Repeat("x", domain.MaxDisplayNameLength+1)); err == nil {
		t.Fatalf("too long name should fail")
	}
	if _, err := run(t, open, "name", "clear"); err != nil {
		t.Fatalf("name clear: %v", err)
	}
	out, _ = run(t, open, "whoami")
	if !strings.Contains(out, "(anonymous)") {
		t.Fatalf("cleared name should read anonymous: %q", out)
	}
}

func TestOpenFailureSurfaces(t *testing.T) {
	boom := errors.New("config: invalid api.timeout")
	open := func(context.Context, rootOptions) (*env, error) { return nil, boom }
	if _, err := run(t, open, "feed"); !errors.Is(err, boom) {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestPrintError_ShowsUserMessage(t *testing.T) {
	var b bytes.Buffer
	printError(&b, &domain.ValidationError{Field: "comment", Err: domain.ErrEmptyComment})
	if strings.TrimSpace(b.String()) != "Error: Comment is empty." {
		t.Fatalf("unexpected output %q", b.String())
	}
}
