package feed

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/engage"
	"github.com/mathfra-rgb/cancelme-mvp/infra/localstore"
	"github.com/mathfra-rgb/cancelme-mvp/infra/memstore"
	"github.com/mathfra-rgb/cancelme-mvp/ranking"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// makePosts builds n posts an hour apart, newest first; older posts score
// higher.
func makePosts(n int) []domain.Post {
	posts := make([]domain.Post, n)
	for i := range posts {
		tag := "lol"
		if i%2 == 1 {
			tag = "travail"
		}
		posts[i] = domain.Post{
			ID:          fmt.Sprintf("p%02d", i),
			Caption:     fmt.Sprintf("post number %d", i),
			DisplayName: "user" + fmt.Sprint(i%3),
			Tags:        []string{tag},
			Score:       i,
			CreatedAt:   testNow.Add(-time.Duration(i+1) * time.Hour),
		}
	}
	return posts
}

func newTestModel(t *testing.T, posts ...domain.Post) (Model, *memstore.Store) {
	t.Helper()
	store := memstore.New(fixedNow)
	store.Seed(posts...)
	engine := engage.NewEngine(engage.Deps{
		Comments: store,
		Reports:  store,
		Counters: store,
		KV:       localstore.NewMemory(),
		Limits:   engage.DefaultLimits(),
		Policy:   engage.DefaultPolicy(),
		Now:      fixedNow,
	})
	m := New(Deps{
		Engine:   engine,
		Composer: ranking.NewComposer(store, 0, fixedNow),
		Feed:     store,
		SiteURL:  "https://cancelme.app",
		Now:      fixedNow,
	})
	m.width = 120
	m.height = 40
	return m, store
}

// loaded returns m with its first page and follow-ups applied.
func loaded(t *testing.T, m Model) Model {
	t.Helper()
	return drain(t, m, m.fetchPage(m.state.Request(false)))
}

// drain runs cmd and every command it produces, feeding the feed's own
// messages back into Update. Other messages are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatalf("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case PageLoadedMsg, FollowUpLoadedMsg, CommentsMsg, PostLoadedMsg, SettledMsg:
			var next tea.Cmd
			m, next = m.Update(msg)
			queue = append(queue, next)
		}
	}
	return m
}

func press(m Model, k string) (Model, tea.Cmd) {
	switch k {
	case "enter":
		return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		return m.Update(tea.KeyMsg{Type: tea.KeyTab})
	case "down":
		return m.Update(tea.KeyMsg{Type: tea.KeyDown})
	case "up":
		return m.Update(tea.KeyMsg{Type: tea.KeyUp})
	case "backspace":
		return m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func storedPost(t *testing.T, store *memstore.Store, id string) domain.Post {
	t.Helper()
	p, err := store.GetPost(t.Context(), id)
	if err != nil {
		t.Fatalf("stored post %s: %v", id, err)
	}
	return p
}
