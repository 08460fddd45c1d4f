package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/tui/common"
)

func (m Model) renderDetailView() string {
	p, ok := m.state.Post(m.detailID)
	if !ok {
		return common.ErrorStyle.Render("  Post not found.") + "\n\n" + m.helpView()
	}
	width := max(min(m.width-6, 90), 30)

	var body strings.Builder
	body.WriteString(renderAuthor(p) + "  " + common.TimestampStyle.Render(p.CreatedAt.Local().Format("Jan 02 2006 15:04")))
	body.WriteString("\n\n")
	if domain.MatchesAny(p.Caption, m.engine.Patterns()) {
		body.WriteString(common.WarningStyle.Render("⚑ This caption contains flagged wording.") + "\n")
	}
	if c := strings.TrimSpace(p.Caption); c != "" {
		body.WriteString(common.ContentStyle.Width(width).Render(c))
		body.WriteString("\n")
	}
	if p.HasMedia() {
		body.WriteString("\n" + common.HashtagStyle.Render(mediaLabel(p)) + "  " +
			common.TimestampStyle.Render(p.MediaURL) + "\n")
	}
	if tags := renderAllTags(p.Tags); tags != "" {
		body.WriteString("\n" + tags + "\n")
	}

	body.WriteString("\n" + renderReactions(p, func(k domain.ReactionKind) bool { return m.engine.Reacted(p.ID, k) }))
	body.WriteString("\n" + renderStats(p, m.state.CommentCounts[p.ID]))
	if n := m.state.ReportCounts[p.ID]; n > 0 {
		body.WriteString(common.WarningStyle.Render(fmt.Sprintf("  ⚑ %d recent reports", n)))
	}
	body.WriteString("\n" + common.TimestampStyle.Render("share: "+p.Permalink(m.siteURL)) + "\n")

	body.WriteString("\n" + common.AuthorStyle.Render(fmt.Sprintf("Comments (%d)", m.state.CommentCounts[p.ID])) + "\n")
	if m.commenting {
		body.WriteString(m.commentInput.View() + "\n")
	}
	body.WriteString(m.renderComments(p.ID, width))

	content := clampLinesToWidth(body.String(), width+2)
	lines := strings.Split(content, "\n")
	scroll := min(m.detailScroll, max(len(lines)-1, 0))
	avail := max(m.height-8, 5)
	content = clipLines(strings.Join(lines[scroll:], "\n"), avail)

	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("cancelme") + common.TaglineStyle.Render("post") + "\n\n")
	b.WriteString(common.SelectedStyle.Width(width + 4).Render(content))
	b.WriteString("\n")
	b.WriteString(m.renderReportPrompt())
	b.WriteString(m.renderNotice())
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) renderComments(postID string, width int) string {
	t := m.state.Thread(postID)
	var b strings.Builder
	switch {
	case t.Loading && len(t.Comments) == 0:
		b.WriteString(m.spinner.View() + " Loading comments...\n")
	case t.Err != nil && len(t.Comments) == 0:
		b.WriteString(common.ErrorStyle.Render("Comments unavailable.") + "\n")
	case len(t.Comments) == 0:
		b.WriteString(common.TimestampStyle.Render("No comments yet. c to start the pile-on.") + "\n")
	}

	textStyle := common.ContentStyle.Width(width - 2)
	for _, c := range t.Comments {
		anon := strings.TrimSpace(c.DisplayName) == ""
		line := authorStyleFor(c.Author(), anon).Render(c.Author()) + "  " +
			common.TimestampStyle.Render(common.TimeAgo(c.CreatedAt, m.now()))
		if c.IsPlaceholder() {
			line += common.TimestampStyle.Render("  (sending...)")
		}
		b.WriteString(line + "\n")
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(textStyle.Render(c.Content)) + "\n")
	}

	switch {
	case t.Loading && len(t.Comments) > 0:
		b.WriteString(m.spinner.View() + " Loading more...\n")
	case t.HasMore:
		b.WriteString(common.TimestampStyle.Render("m: load more comments") + "\n")
	}
	return b.String()
}
