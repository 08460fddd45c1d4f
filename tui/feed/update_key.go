package feed

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
)

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	switch {
	case m.showAllHints:
		if key.Matches(msg, m.keys.ToggleHints, m.keys.Back, m.keys.Quit, m.keys.Open) {
			m.showAllHints = false
		}
		return m, nil
	case m.reportReasoning:
		return m.handleReportReasonKey(msg)
	case m.confirmReport:
		return m.handleReportConfirmKey(msg)
	case m.tagging:
		return m.handleTagInputKey(msg)
	case m.commenting:
		return m.handleCommentInputKey(msg)
	case m.showViewer:
		return m.handleViewerKey(msg)
	case m.showDetail:
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

// handlePostKey covers the actions shared by list, detail and viewer.
func (m Model) handlePostKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	id, ok := m.currentPostID()
	if !ok {
		return m, nil, false
	}
	for i, b := range m.keys.ReactionKeys() {
		if key.Matches(msg, b) {
			if !m.state.IsVisible(id) {
				return m, nil, true
			}
			m, cmd := m.react(id, domain.ReactionKinds[i])
			return m, cmd, true
		}
	}
	switch {
	case key.Matches(msg, m.keys.Report):
		if !m.state.IsVisible(id) {
			return m, nil, true
		}
		m.confirmReport = true
		m.reportTarget = id
		return m, nil, true
	case key.Matches(msg, m.keys.ShowAnyway):
		if m.state.Hidden[id] {
			m.state = feedstate.Reduce(m.state, feedstate.ShowAnywayToggled{PostID: id})
		}
		return m, nil, true
	case key.Matches(msg, m.keys.Share):
		p, ok := m.state.Post(id)
		if !ok {
			return m, nil, true
		}
		return m, copyToClipboard(p.Permalink(m.siteURL)), true
	case key.Matches(msg, m.keys.OpenURL):
		p, ok := m.state.Post(id)
		if !ok || !p.HasMedia() || !m.state.IsVisible(id) {
			return m, nil, true
		}
		return m, openURL(p.MediaURL), true
	case key.Matches(msg, m.keys.ToggleHints):
		m.showAllHints = true
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m, cmd, ok := m.handlePostKey(msg); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Posts)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
		viewCmd := m.viewSelected()
		if m.cursor >= len(m.state.Posts)-prefetchTrigger {
			m, moreCmd := m.loadMore()
			return m, tea.Batch(viewCmd, moreCmd)
		}
		return m, viewCmd

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
		cmd := m.viewSelected()
		return m, cmd

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.startIndex = 0
		cmd := m.viewSelected()
		return m, cmd

	case key.Matches(msg, m.keys.Open):
		if p, ok := m.SelectedPost(); !ok || !m.state.IsVisible(p.ID) {
			return m, nil
		}
		return m.openDetail()

	case key.Matches(msg, m.keys.Media):
		if p, ok := m.SelectedPost(); !ok || !m.state.IsVisible(p.ID) {
			return m, nil
		}
		return m.openViewer()

	case key.Matches(msg, m.keys.Refresh):
		m.notice = ""
		return m.Reload()

	case key.Matches(msg, m.keys.SortNext):
		return m.setFilter(feedstate.Filter{Sort: m.state.Filter.Sort.Next(), Tag: m.state.Filter.Tag})

	case key.Matches(msg, m.keys.SortPrev):
		return m.setFilter(feedstate.Filter{Sort: m.state.Filter.Sort.Prev(), Tag: m.state.Filter.Tag})

	case key.Matches(msg, m.keys.Tag):
		m.tagging = true
		m.tagInput.SetValue(m.state.Filter.Tag)
		m.tagInput.CursorEnd()
		cmd := m.tagInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.TagNext):
		m.popularIdx = (m.popularIdx + 1) % len(domain.PopularTags)
		return m.setFilter(feedstate.Filter{Sort: m.state.Filter.Sort, Tag: domain.PopularTags[m.popularIdx]})

	case key.Matches(msg, m.keys.ClearTag):
		m.popularIdx = -1
		return m.setFilter(feedstate.Filter{Sort: m.state.Filter.Sort})

	case key.Matches(msg, m.keys.Comment):
		if p, ok := m.SelectedPost(); ok && m.state.IsVisible(p.ID) {
			m, cmd := m.openDetail()
			m.commenting = true
			focus := m.commentInput.Focus()
			return m, tea.Batch(cmd, focus)
		}
		return m, nil

	case key.Matches(msg, m.keys.CommentEditor):
		if p, ok := m.SelectedPost(); ok && m.state.IsVisible(p.ID) {
			return m, func() tea.Msg { return OpenCommentEditorMsg{PostID: p.ID} }
		}
		return m, nil

	case key.Matches(msg, m.keys.NewEditor):
		return m, func() tea.Msg { return OpenComposerMsg{UseEditor: true} }

	case key.Matches(msg, m.keys.NewInline):
		return m, func() tea.Msg { return OpenComposerMsg{} }

	case key.Matches(msg, m.keys.Theme):
		return m, func() tea.Msg { return ToggleThemeMsg{} }

	case key.Matches(msg, m.keys.Name):
		return m, func() tea.Msg { return EditNameMsg{} }
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m, cmd, ok := m.handlePostKey(msg); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back, m.keys.Quit):
		return m.closeDetail(), nil

	case key.Matches(msg, m.keys.Down):
		m.detailScroll++
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.detailScroll > 0 {
			m.detailScroll--
		}
		return m, nil

	case key.Matches(msg, m.keys.Comment):
		if !m.state.IsVisible(m.detailID) {
			return m, nil
		}
		m.commenting = true
		cmd := m.commentInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.CommentEditor):
		if !m.state.IsVisible(m.detailID) {
			return m, nil
		}
		id := m.detailID
		return m, func() tea.Msg { return OpenCommentEditorMsg{PostID: id} }

	case key.Matches(msg, m.keys.MoreComments):
		return m.moreComments()

	case key.Matches(msg, m.keys.Media):
		if !m.state.IsVisible(m.detailID) {
			return m, nil
		}
		for i, p := range m.state.Posts {
			if p.ID == m.detailID {
				m.cursor = i
			}
		}
		m = m.closeDetail()
		return m.openViewer()
	}
	return m, nil
}

func (m Model) handleViewerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "right", "l", "n", " ":
		return m.stepViewer(1)
	case "left", "h", "b":
		return m.stepViewer(-1)
	}
	if m, cmd, ok := m.handlePostKey(msg); ok {
		return m, cmd
	}
	if key.Matches(msg, m.keys.Back, m.keys.Quit, m.keys.Media) {
		return m.closeViewer(), nil
	}
	return m, nil
}

func (m Model) handleReportConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.confirmReport = false
	if strings.ToLower(msg.String()) != "y" {
		m.reportTarget = ""
		m.notice = "Report cancelled."
		m.noticeErr = false
		return m, nil
	}
	m.reportReasoning = true
	m.reasonInput.Reset()
	cmd := m.reasonInput.Focus()
	return m, cmd
}

func (m Model) handleReportReasonKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.reportReasoning = false
		m.reportTarget = ""
		m.reasonInput.Blur()
		m.notice = "Report cancelled."
		m.noticeErr = false
		return m, nil
	case tea.KeyEnter:
		target, reason := m.reportTarget, m.reasonInput.Value()
		m.reportReasoning = false
		m.reportTarget = ""
		m.reasonInput.Blur()
		m.reasonInput.Reset()
		return m.report(target, reason)
	}
	var cmd tea.Cmd
	m.reasonInput, cmd = m.reasonInput.Update(msg)
	return m, cmd
}

func (m Model) handleTagInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.tagging = false
		m.tagInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.tagging = false
		m.tagInput.Blur()
		tag := domain.NormalizeTag(m.tagInput.Value())
		m.popularIdx = -1
		return m.setFilter(feedstate.Filter{Sort: m.state.Filter.Sort, Tag: tag})
	}
	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	return m, cmd
}

func (m Model) handleCommentInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commenting = false
		m.commentInput.Blur()
		return m, nil
	case tea.KeyEnter:
		content := m.commentInput.Value()
		m, cmd := m.comment(m.detailID, content)
		if !m.noticeErr {
			m.commenting = false
			m.commentInput.Blur()
			m.commentInput.Reset()
		}
		return m, cmd
	}
	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}
