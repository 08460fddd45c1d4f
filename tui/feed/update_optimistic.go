package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/engage"
)

func (m Model) handleOptimisticMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SettledMsg:
		s, err := m.engine.Settle(m.state, msg.Outcome)
		m.state = s
		if err != nil {
			m.setError(err)
			return m, nil
		}
		switch msg.Outcome.Kind {
		case engage.MutationReaction:
			if m.state.Unsynced[msg.Outcome.PostID] {
				return m, m.fetchPost(msg.Outcome.PostID)
			}
		case engage.MutationReport:
			m.notice = "Reported. Thanks for keeping it clean."
			m.noticeErr = false
			if m.state.Hidden[msg.Outcome.PostID] && !m.state.ShowAnyway[msg.Outcome.PostID] {
				m.notice = "Reported. The community hid this post."
			}
		case engage.MutationComment:
			if m.notice == "Sending comment..." {
				m.notice = ""
			}
		}
		return m, nil

	case SubmitCommentMsg:
		return m.comment(msg.PostID, msg.Content)
	}
	return m, nil
}

func (m Model) react(postID string, kind domain.ReactionKind) (Model, tea.Cmd) {
	s, pending, err := m.engine.PrepareReaction(m.state, postID, kind)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.state = s
	m.notice = ""
	return m, runPending(context.Background(), pending)
}

func (m Model) comment(postID, content string) (Model, tea.Cmd) {
	s, pending, err := m.engine.PrepareComment(m.state, postID, content)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.state = s
	m.notice = "Sending comment..."
	m.noticeErr = false
	return m, runPending(context.Background(), pending)
}

func (m Model) report(postID, reason string) (Model, tea.Cmd) {
	s, pending, err := m.engine.PrepareReport(m.state, postID, reason)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.state = s
	m.notice = "Sending report..."
	m.noticeErr = false
	return m, runPending(context.Background(), pending)
}
