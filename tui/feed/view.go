package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/tui/common"
)

// View renders the feed as a string.
func (m Model) View() string {
	if m.showAllHints {
		return m.renderKeyDialog()
	}
	if m.showViewer {
		return m.renderViewer()
	}
	if m.showDetail {
		return m.renderDetailView()
	}

	var b strings.Builder
	title := common.AppTitleStyle.Render("cancelme")
	tagline := common.TaglineStyle.Render("<the internet's court of public opinion>")
	b.WriteString(title + tagline + "\n")
	b.WriteString(m.renderTabs() + "\n")
	if m.state.Filter.Tag == "" && m.width >= 60 {
		b.WriteString(m.renderPopularTags() + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.state.Loading && len(m.state.Posts) == 0:
		b.WriteString(fmt.Sprintf("  %s Loading posts...\n", m.spinner.View()))
	case len(m.state.Posts) == 0:
		if m.state.Err != nil {
			b.WriteString(common.ErrorStyle.Render("  Could not load the feed."))
			b.WriteString("\n\n  Press r to retry.\n")
		} else if m.state.Filter.Tag != "" {
			b.WriteString(fmt.Sprintf("  Nothing tagged #%s here yet.\n", m.state.Filter.Tag))
		} else {
			b.WriteString("  No posts yet. Be the first to get cancelled!\n")
		}
	default:
		b.WriteString(m.renderList())
		b.WriteString("\n")
	}

	b.WriteString(m.renderHiddenNote())
	if m.state.Loading && len(m.state.Posts) > 0 {
		b.WriteString(fmt.Sprintf("  %s Refreshing...\n", m.spinner.View()))
	}
	if m.state.LoadingMore {
		b.WriteString(fmt.Sprintf("  %s Loading more...\n", m.spinner.View()))
	}
	b.WriteString(m.renderReportPrompt())
	b.WriteString(m.renderNotice())
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) renderList() string {
	posts := m.state.Posts
	visible := m.visibleCount()
	start := min(max(m.startIndex, 0), len(posts)-1)
	end := min(start+visible, len(posts))

	cardWidth := max(min(m.width-8, 90), 30)
	var list strings.Builder
	for i := start; i < end; i++ {
		list.WriteString(m.renderCard(posts[i], i == m.cursor, cardWidth))
		list.WriteString("\n")
	}
	listString := strings.TrimSuffix(list.String(), "\n")

	bar := m.renderScrollbar(lipgloss.Height(listString), len(posts), visible)
	if bar == "" {
		return listString
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, listString, lipgloss.NewStyle().MarginLeft(2).Render(bar))
}

func (m Model) renderCard(p domain.Post, selected bool, width int) string {
	style := common.UnselectedStyle
	if selected {
		style = common.SelectedStyle
	}
	style = style.Width(width)

	if !m.state.IsVisible(p.ID) {
		masked := common.WarningStyle.Render("⚠ Hidden by the community") +
			common.TimestampStyle.Render(fmt.Sprintf("  %d reports • x: show anyway", m.state.ReportCounts[p.ID]))
		return style.Render(masked)
	}

	header := renderAuthor(p) + "  " + common.TimestampStyle.Render(common.TimeAgo(p.CreatedAt, m.now()))
	if label := mediaLabel(p); label != "" {
		header += "  " + common.HashtagStyle.Render(label)
	}
	if m.state.Pending(p.ID) {
		header += common.TimestampStyle.Render("  (sending...)")
	}
	if m.state.Hidden[p.ID] {
		header += common.WarningStyle.Render("  (hidden, shown anyway)")
	}

	caption := strings.TrimSpace(p.Caption)
	if caption == "" {
		caption = common.TimestampStyle.Render("(no caption)")
	} else {
		caption = common.ContentStyle.Render(truncateToTwoLines(caption, width-4))
	}
	if domain.MatchesAny(p.Caption, m.engine.Patterns()) {
		caption = common.WarningStyle.Render("⚑ flagged wording") + "\n" + caption
	}

	meta := renderReactions(p, func(k domain.ReactionKind) bool { return m.engine.Reacted(p.ID, k) }) +
		"   " + renderStats(p, m.state.CommentCounts[p.ID])
	if tags := renderCompactTags(p.Tags, 3); tags != "" {
		meta += "  " + tags
	}

	return style.Render(clampLinesToWidth(header+"\n"+caption+"\n"+meta, width))
}
