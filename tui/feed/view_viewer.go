package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/tui/common"
)

// renderViewer shows one post full screen, media first.
func (m Model) renderViewer() string {
	if m.viewerIndex < 0 || m.viewerIndex >= len(m.state.Posts) {
		return m.helpView()
	}
	p := m.state.Posts[m.viewerIndex]
	width := max(m.width-8, 30)
	height := max(m.height-6, 10)

	var body strings.Builder
	if p.HasMedia() {
		frame := lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(common.CurrentPalette().Accent).
			Width(min(width-4, 60)).
			Align(lipgloss.Center).
			Padding(1, 2).
			Render(mediaLabel(p) + "\n\n" + common.TimestampStyle.Render(p.MediaURL) + "\n\n" +
				common.TimestampStyle.Render("o: open in browser"))
		body.WriteString(frame + "\n\n")
	}
	if c := strings.TrimSpace(p.Caption); c != "" {
		body.WriteString(common.ContentStyle.Width(min(width-4, 80)).Render(c) + "\n\n")
	}
	body.WriteString(renderAuthor(p) + "  " + common.TimestampStyle.Render(common.TimeAgo(p.CreatedAt, m.now())) + "\n")
	body.WriteString(renderReactions(p, func(k domain.ReactionKind) bool { return m.engine.Reacted(p.ID, k) }) + "\n")
	body.WriteString(renderStats(p, m.state.CommentCounts[p.ID]) + "\n\n")

	pos := fmt.Sprintf("%d / %d", m.viewerIndex+1, len(m.state.Posts))
	if m.state.HasMore {
		pos += "+"
	}
	body.WriteString(common.TimestampStyle.Render(pos))

	view := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body.String())
	return view + "\n" + m.renderReportPrompt() + m.renderNotice() + m.helpView()
}
