package feed

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
	"github.com/mathfra-rgb/cancelme-mvp/infra/logging"
)

func (m Model) handleFeedLoadingMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PageLoadedMsg:
		if !m.state.Matches(msg.Request) {
			logging.Debug("dropping stale page", "key", msg.Request.Key, "generation", msg.Request.Generation)
			return m, nil
		}
		if msg.Err != nil {
			m.state = feedstate.Reduce(m.state, feedstate.PageFailed{Request: msg.Request, Err: msg.Err})
			m.setError(msg.Err)
			return m, nil
		}

		before := len(m.state.Posts)
		m.state = feedstate.Reduce(m.state, feedstate.PageLoaded{
			Request: msg.Request,
			Posts:   msg.Page.Items,
			HasMore: msg.Page.HasMore,
		})
		if !msg.Request.Append {
			m.cursor = 0
			m.startIndex = 0
			m.notice = ""
		} else if len(m.state.Posts) == before && !m.state.HasMore {
			m.notice = "You reached the bottom. Nobody else to cancel."
			m.noticeErr = false
		}
		m.clampCursor()
		m.ensureCursorVisible()

		ids := make([]string, 0, len(msg.Page.Items))
		for _, p := range msg.Page.Items {
			ids = append(ids, p.ID)
		}
		viewCmd := m.viewSelected()
		return m, tea.Batch(m.fetchFollowUp(ids), viewCmd)

	case FollowUpLoadedMsg:
		if msg.Generation != m.state.Generation {
			return m, nil
		}
		m.state = m.engine.ApplyFollowUp(m.state, msg.FollowUp)
		return m, nil

	case PostPublishedMsg:
		m.notice = "Posted. Brace for impact."
		m.noticeErr = false
		if m.state.Filter.Tag != "" && !msg.Post.HasTag(m.state.Filter.Tag) {
			return m, nil
		}
		return m.Reload()
	}
	return m, nil
}

// loadMore requests the next page when the cursor nears the end.
func (m Model) loadMore() (Model, tea.Cmd) {
	if !m.state.HasMore || m.state.LoadingMore || m.state.Loading {
		return m, nil
	}
	m.state = feedstate.Reduce(m.state, feedstate.MoreRequested{})
	return m, m.fetchPage(m.state.Request(true))
}

// setFilter switches sort or tag, dropping accumulated pages.
func (m Model) setFilter(f feedstate.Filter) (Model, tea.Cmd) {
	f = feedstate.NewFilter(f.Sort, f.Tag)
	if f == m.state.Filter {
		return m, nil
	}
	m.state = feedstate.Reduce(m.state, feedstate.FilterChanged{Filter: f})
	m.cursor = 0
	m.startIndex = 0
	m.notice = ""
	return m, tea.Batch(m.fetchPage(m.state.Request(false)), emitPrefs(m.state.Filter))
}

func emitPrefs(f feedstate.Filter) tea.Cmd {
	return func() tea.Msg { return PrefsChangedMsg{Filter: f} }
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Posts) {
		m.cursor = len(m.state.Posts) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// cardHeight is the rendered height of one feed card including borders.
const cardHeight = 6

func (m Model) visibleCount() int {
	// header, tabs, footer and help
	reserved := 10
	n := (m.height - reserved) / cardHeight
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) ensureCursorVisible() {
	n := m.visibleCount()
	if m.cursor < m.startIndex {
		m.startIndex = m.cursor
	}
	if m.cursor >= m.startIndex+n {
		m.startIndex = m.cursor - n + 1
	}
	if m.startIndex < 0 {
		m.startIndex = 0
	}
}

// viewSelected counts the selected post as seen, once per session.
func (m *Model) viewSelected() tea.Cmd {
	p, ok := m.SelectedPost()
	if !ok || !m.state.IsVisible(p.ID) {
		return nil
	}
	return m.countView(p.ID)
}

func (m *Model) countView(postID string) tea.Cmd {
	s, pending := m.engine.PrepareView(m.state, postID)
	m.state = s
	return runPending(m.viewCtx, pending)
}
