package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	switch msg.(type) {
	case PageLoadedMsg, FollowUpLoadedMsg, PostPublishedMsg:
		return m.handleFeedLoadingMsg(msg)
	case CommentsMsg, PostLoadedMsg, ShareCopiedMsg:
		return m.handleDetailMsg(msg)
	case SettledMsg, SubmitCommentMsg:
		return m.handleOptimisticMsg(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg.(tea.KeyMsg))
	}

	// Blink and other input ticks.
	switch {
	case m.commenting:
		m.commentInput, cmd = m.commentInput.Update(msg)
	case m.tagging:
		m.tagInput, cmd = m.tagInput.Update(msg)
	}
	return m, cmd
}
