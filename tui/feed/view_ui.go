package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/tui/common"
)

func (m Model) helpView() string {
	var items []string

	switch {
	case m.commenting:
		items = []string{"enter: send", "esc: cancel"}
	case m.tagging:
		items = []string{"enter: filter", "esc: cancel", "empty: all tags"}
	case m.showViewer:
		items = []string{"←/→: prev/next", "1-4: react", "o: open media", "y: share", "esc: close", "?: all keys"}
	case m.showDetail:
		items = []string{"j/k: scroll", "1-4: react", "c/C: comment", "m: more", "!: report", "y: share", "esc: back", "?: all keys"}
	case len(m.state.Posts) > 0:
		items = []string{"j/k: focus", "enter: detail", "1-4: react", "tab: sort", "#: tag", "p/P: post", "q: quit", "?: all keys"}
	default:
		items = []string{"p/P: post", "tab: sort", "#: tag", "r: refresh", "q: quit", "?: all keys"}
	}

	wrapWidth := max(m.width-2, 16)
	return common.StatusBarStyle.
		Width(wrapWidth).
		Render("  " + strings.Join(items, " • "))
}

func (m Model) renderKeyDialog() string {
	core := []string{
		"j/k or up/down  move focus / scroll",
		"enter           open post detail",
		"v               full-screen viewer",
		"1 2 3 4         react lol / cringe / wtf / genius",
		"c / C           comment inline / via $EDITOR",
		"m               load more comments",
		"!               report post",
		"x               show a hidden post anyway",
		"y               copy share link",
		"o               open media in browser",
		"tab / shift+tab next / previous sort",
		"#               filter by tag",
		"]               cycle popular tags",
		"backspace       clear tag filter",
		"p / P           new post via $EDITOR / inline",
		"n               set display name",
		"t               toggle light / dark theme",
		"r               refresh",
		"esc / q         back / quit",
		"ctrl+c          force quit",
		"?               toggle this dialog",
	}

	body := "Keyboard Shortcuts\n\n" + strings.Join(core, "\n") + "\n\nPress ?, esc, q, or enter to close."
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(common.CurrentPalette().Accent).
		Padding(1, 2).
		Margin(1, 2).
		Render(body)
}

// renderTabs shows the sort modes with the active one highlighted, followed
// by the tag filter.
func (m Model) renderTabs() string {
	rendered := make([]string, 0, len(domain.SortModes)+1)
	for _, mode := range domain.SortModes {
		if mode == m.state.Filter.Sort {
			rendered = append(rendered, common.TabActiveStyle.Render(mode.Label()))
		} else {
			rendered = append(rendered, common.TabInactiveStyle.Render(mode.Label()))
		}
	}
	line := strings.Join(rendered, " ")

	switch {
	case m.tagging:
		line += "  " + m.tagInput.View()
	case m.state.Filter.Tag != "":
		line += "  " + common.HashtagStyle.Render("#"+m.state.Filter.Tag) +
			common.TimestampStyle.Render(" (⌫ clear)")
	}
	return lipgloss.NewStyle().MarginLeft(2).PaddingTop(1).Render(line)
}

// renderPopularTags lists the quick filters, marking the active one.
func (m Model) renderPopularTags() string {
	parts := make([]string, 0, len(domain.PopularTags))
	for _, t := range domain.PopularTags {
		if t == m.state.Filter.Tag {
			parts = append(parts, common.HashtagStyle.Render("#"+t))
			continue
		}
		parts = append(parts, common.TimestampStyle.Render("#"+t))
	}
	width := max(m.width-4, 20)
	return lipgloss.NewStyle().MarginLeft(2).Width(width).Render(strings.Join(parts, " "))
}

func (m Model) renderScrollbar(listHeight, total, visible int) string {
	if total <= visible || listHeight < 1 {
		return ""
	}
	thumbHeight := max(visible*listHeight/total, 1)
	thumbStart := m.startIndex * listHeight / total
	if thumbStart+thumbHeight > listHeight {
		thumbStart = listHeight - thumbHeight
	}

	p := common.CurrentPalette()
	thumb := lipgloss.NewStyle().Foreground(p.Accent).Render("┃")
	track := lipgloss.NewStyle().Foreground(p.Border).Render("┃")
	var sb strings.Builder
	for j := 0; j < listHeight; j++ {
		if j >= thumbStart && j < thumbStart+thumbHeight {
			sb.WriteString(thumb)
		} else {
			sb.WriteString(track)
		}
		if j < listHeight-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderReportPrompt shows the report confirmation, then the reason input.
func (m Model) renderReportPrompt() string {
	switch {
	case m.confirmReport:
		return common.ConfirmStyle.Render("  Report this post? (y/n)") + "\n"
	case m.reportReasoning:
		return "  " + m.reasonInput.View() + "\n" +
			common.TimestampStyle.Render("  enter: send • esc: cancel") + "\n"
	}
	return ""
}

func (m Model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	if m.noticeErr {
		return "  " + common.ErrorStyle.Render(m.notice) + "\n"
	}
	return "  " + common.SuccessStyle.Render(m.notice) + "\n"
}

func (m Model) renderHiddenNote() string {
	n := m.state.HiddenCount()
	if n == 0 {
		return ""
	}
	noun := "posts"
	if n == 1 {
		noun = "post"
	}
	return "  " + common.WarningStyle.Render(fmt.Sprintf("%d %s hidden by the community", n, noun)) + "\n"
}
