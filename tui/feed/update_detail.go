package feed

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
	"github.com/mathfra-rgb/cancelme-mvp/infra/logging"
)

func (m Model) handleDetailMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CommentsMsg:
		m.state = feedstate.Reduce(m.state, msg.Action)
		if failed, ok := msg.Action.(feedstate.CommentsFailed); ok && failed.PostID == m.detailID {
			m.setError(failed.Err)
		}
		return m, nil

	case PostLoadedMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, domain.ErrNotFound) && m.showDetail {
				m.notice = "This post is gone."
				m.noticeErr = true
			}
			logging.Warn("refreshing post", "err", msg.Err)
			return m, nil
		}
		m.state = feedstate.Reduce(m.state, feedstate.PostReplaced{Post: msg.Post})
		return m, nil

	case ShareCopiedMsg:
		if msg.Err != nil {
			m.notice = "Link: " + msg.URL
		} else {
			m.notice = "Link copied: " + msg.URL
		}
		m.noticeErr = false
		return m, nil
	}
	return m, nil
}

// openDetail shows the selected post with its comments. Opening counts as
// a view.
func (m Model) openDetail() (Model, tea.Cmd) {
	p, ok := m.SelectedPost()
	if !ok {
		return m, nil
	}
	m.showDetail = true
	m.detailID = p.ID
	m.detailScroll = 0
	m.notice = ""

	cmds := []tea.Cmd{m.countView(p.ID), m.fetchPost(p.ID)}
	if t := m.state.Thread(p.ID); !t.Loaded && !t.Loading {
		m.state = feedstate.Reduce(m.state, feedstate.CommentsRequested{PostID: p.ID})
		cmds = append(cmds, m.fetchComments(p.ID, 0))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) closeDetail() Model {
	m.showDetail = false
	m.detailID = ""
	m.detailScroll = 0
	m.commenting = false
	m.commentInput.Blur()
	m.commentInput.Reset()
	m.resetViewContext()
	return m
}

func (m Model) moreComments() (Model, tea.Cmd) {
	t := m.state.Thread(m.detailID)
	if t.Loading || !t.HasMore {
		return m, nil
	}
	m.state = feedstate.Reduce(m.state, feedstate.CommentsRequested{PostID: m.detailID})
	return m, m.fetchComments(m.detailID, t.Confirmed())
}

// openViewer shows the selected post full screen.
func (m Model) openViewer() (Model, tea.Cmd) {
	if _, ok := m.SelectedPost(); !ok {
		return m, nil
	}
	m.showViewer = true
	m.viewerIndex = m.cursor
	cmd := m.countView(m.state.Posts[m.cursor].ID)
	return m, cmd
}

func (m Model) closeViewer() Model {
	m.showViewer = false
	m.cursor = m.viewerIndex
	m.clampCursor()
	m.ensureCursorVisible()
	m.resetViewContext()
	return m
}

// stepViewer moves to the next or previous visible post. Stepping past the
// last loaded post asks for the next page.
func (m Model) stepViewer(delta int) (Model, tea.Cmd) {
	i := m.viewerIndex + delta
	for i >= 0 && i < len(m.state.Posts) && !m.state.IsVisible(m.state.Posts[i].ID) {
		i += delta
	}
	if i < 0 {
		return m, nil
	}
	if i >= len(m.state.Posts) {
		if m.state.HasMore {
			m.notice = "Loading more..."
			m.noticeErr = false
			return m.loadMore()
		}
		m.notice = "That's all of them."
		m.noticeErr = false
		return m, nil
	}
	m.viewerIndex = i
	m.notice = ""
	cmd := m.countView(m.state.Posts[i].ID)
	return m, cmd
}

// currentPostID is the post the keyboard acts on in the active view.
func (m Model) currentPostID() (string, bool) {
	switch {
	case m.showViewer:
		if m.viewerIndex >= 0 && m.viewerIndex < len(m.state.Posts) {
			return m.state.Posts[m.viewerIndex].ID, true
		}
		return "", false
	case m.showDetail:
		return m.detailID, m.detailID != ""
	}
	p, ok := m.SelectedPost()
	return p.ID, ok
}
