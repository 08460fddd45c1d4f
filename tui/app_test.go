package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/engage"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
	"github.com/mathfra-rgb/cancelme-mvp/infra/config"
	"github.com/mathfra-rgb/cancelme-mvp/infra/localstore"
	"github.com/mathfra-rgb/cancelme-mvp/infra/memstore"
	"github.com/mathfra-rgb/cancelme-mvp/ranking"
	"github.com/mathfra-rgb/cancelme-mvp/tui/common"
	"github.com/mathfra-rgb/cancelme-mvp/tui/compose"
	"github.com/mathfra-rgb/cancelme-mvp/tui/feed"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (App, *memstore.Store, *localstore.Memory) {
	t.Helper()
	now := func() time.Time { return testNow }
	store := memstore.New(now)
	store.Seed(domain.Post{ID: "p1", Caption: "first", CreatedAt: testNow.Add(-time.Hour)})
	kv := localstore.NewMemory()
	engine := engage.NewEngine(engage.Deps{
		Comments: store,
		Reports:  store,
		Counters: store,
		KV:       kv,
		Limits:   engage.DefaultLimits(),
		Policy:   engage.DefaultPolicy(),
		Now:      now,
	})
	a := NewApp(Deps{
		Feed: feed.Deps{
			Engine:   engine,
			Composer: ranking.NewComposer(store, 0, now),
			Feed:     store,
			SiteURL:  "https://cancelme.app",
			Now:      now,
		},
		Publisher: engage.NewPublisher(store, store, engine.Identity()),
		KV:        kv,
		UI:        config.UIState{Sort: domain.SortRecent, Theme: config.ThemeDark},
	})
	t.Cleanup(func() { common.ApplyTheme(config.ThemeDark) })
	return a, store, kv
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func TestApp_ComposerCancelReturnsToFeed(t *testing.T) {
	a, _, _ := newTestApp(t)

	a, cmd := update(t, a, feed.OpenComposerMsg{})
	if a.active != composeView || cmd == nil {
		t.Fatalf("expected inline composer")
	}
	a, _ = update(t, a, compose.DoneMsg{Cancelled: true})
	if a.active != feedView || a.status != "Cancelled." {
		t.Fatalf("cancel should return to the feed, status=%q", a.status)
	}
}

func TestApp_PublishSuccessReloadsFeed(t *testing.T) {
	a, store, _ := newTestApp(t)
	a, _ = update(t, a, feed.OpenComposerMsg{})

	a, cmd := update(t, a, compose.DoneMsg{Draft: engage.Draft{Caption: "hot take #lol"}})
	if cmd == nil {
		t.Fatalf("expected publish command")
	}
	if a.active != composeView {
		t.Fatalf("composer stays open until the post is stored")
	}
	res := cmd()
	pm, ok := res.(publishedMsg)
	if !ok || pm.err != nil {
		t.Fatalf("unexpected publish result %#v", res)
	}
	if !pm.post.HasTag("lol") {
		t.Fatalf("caption hashtags should be stored, got %v", pm.post.Tags)
	}

	a, cmd = update(t, a, pm)
	if a.active != feedView || cmd == nil {
		t.Fatalf("success should return to the feed and reload")
	}
	if _, err := store.GetPost(t.Context(), pm.post.ID); err != nil {
		t.Fatalf("post should be stored: %v", err)
	}
}

func TestApp_PublishFailureKeepsComposer(t *testing.T) {
	a, store, _ := newTestApp(t)
	a, _ = update(t, a, feed.OpenComposerMsg{})
	a, cmd := update(t, a, compose.DoneMsg{Draft: engage.Draft{Caption: "doomed"}})

	store.Fail = errors.New("offline")
	a, _ = update(t, a, cmd())
	if a.active != composeView {
		t.Fatalf("failure should keep the composer open")
	}
	if a.compose.Submitting() {
		t.Fatalf("composer should accept another try")
	}
	if !strings.Contains(a.View(), domain.UserMessage(&domain.RemoteWriteError{Op: "publish"})) {
		t.Fatalf("error should be shown inline")
	}
}

func TestApp_CommentFromEditorGoesToFeed(t *testing.T) {
	a, _, _ := newTestApp(t)
	a, cmd := update(t, a, compose.DoneMsg{PostID: "p1", Comment: "wow"})
	if a.active != feedView || cmd == nil {
		t.Fatalf("comment should be handed to the feed")
	}
	if a.feed.State().CommentCounts["p1"] != 1 {
		t.Fatalf("placeholder should be counted")
	}
}

func TestApp_CommentEditorNeedsEditor(t *testing.T) {
	a, _, _ := newTestApp(t)
	a, cmd := update(t, a, feed.OpenCommentEditorMsg{PostID: "p1"})
	if cmd != nil || a.active != feedView || !a.statusErr {
		t.Fatalf("missing editor should be reported, status=%q", a.status)
	}
}

func TestApp_PrefsAndThemePersist(t *testing.T) {
	a, _, kv := newTestApp(t)

	a, _ = update(t, a, feed.PrefsChangedMsg{Filter: feedstate.Filter{Sort: domain.SortTopWeek, Tag: "travail"}})
	_, _ = update(t, a, feed.ToggleThemeMsg{})

	st, err := config.LoadUIState(kv)
	if err != nil {
		t.Fatalf("load ui state: %v", err)
	}
	if st.Sort != domain.SortTopWeek || st.Tag != "travail" || st.Theme != config.ThemeLight {
		t.Fatalf("unexpected saved state %+v", st)
	}
	if common.CurrentPalette() != common.LightPalette {
		t.Fatalf("light palette should be active")
	}
}

func TestApp_NamePrompt(t *testing.T) {
	a, _, kv := newTestApp(t)

	a, _ = update(t, a, feed.EditNameMsg{})
	if !a.naming {
		t.Fatalf("expected name prompt")
	}
	a.nameInput.SetValue("  Kev  ")
	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if a.naming {
		t.Fatalf("prompt should close on success")
	}
	if got := engage.NewIdentity(kv).DisplayName(); got != "Kev" {
		t.Fatalf("expected stored name Kev, got %q", got)
	}

	a, _ = update(t, a, feed.EditNameMsg{})
	if a.nameInput.Value() != "Kev" {
		t.Fatalf("prompt should start from the current name, got %q", a.nameInput.Value())
	}
	a.nameInput.SetValue("")
	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.naming || engage.NewIdentity(kv).DisplayName() != "Kev" {
		t.Fatalf("esc should close the prompt without changes")
	}
}
