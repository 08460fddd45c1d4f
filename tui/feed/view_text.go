package feed

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/tui/common"
)

func truncateToTwoLines(text string, width int) string {
	if width < 12 {
		width = 12
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(text)
	lines := strings.Split(wrapped, "\n")
	if len(lines) <= 2 {
		return wrapped
	}
	return strings.Join(lines[:2], "\n") + "..."
}

func tagCapStyle() lipgloss.Style {
	p := common.CurrentPalette()
	return lipgloss.NewStyle().
		Foreground(p.Tag).
		Background(p.TabIdle).
		Padding(0, 1)
}

func renderCompactTags(tags []string, max int) string {
	if len(tags) == 0 {
		return ""
	}
	if max < 1 {
		max = 1
	}
	show := tags
	if len(show) > max {
		show = show[:max]
	}
	capStyle := tagCapStyle()
	parts := make([]string, 0, len(show)+1)
	for _, t := range show {
		parts = append(parts, capStyle.Render("#"+t))
	}
	if len(tags) > max {
		parts = append(parts, common.TimestampStyle.Faint(true).Render(fmt.Sprintf("+%d more", len(tags)-max)))
	}
	return strings.Join(parts, " ")
}

func renderAllTags(tags []string) string {
	return renderCompactTags(tags, len(tags))
}

var authorPalette = []string{
	"#7DC4E4", "#8BD5CA", "#F5A97F", "#C6A0F6", "#EBA0AC",
	"#A6DA95", "#F9E2AF", "#89B4FA", "#F38BA8", "#94E2D5",
}

// authorStyleFor gives each author a stable color. Anonymous posts stay muted.
func authorStyleFor(name string, anonymous bool) lipgloss.Style {
	if anonymous {
		return common.TimestampStyle.Bold(true).Italic(true)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	idx := int(h.Sum32() % uint32(len(authorPalette)))
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(authorPalette[idx]))
}

func renderAuthor(p domain.Post) string {
	anon := strings.TrimSpace(p.DisplayName) == "" && strings.TrimSpace(p.Username) == ""
	return authorStyleFor(p.Author(), anon).Render(p.Author())
}

var reactionIcons = map[domain.ReactionKind]string{
	domain.ReactionLOL:    "😂",
	domain.ReactionCringe: "😬",
	domain.ReactionWTF:    "🤯",
	domain.ReactionGenius: "🧠",
}

// renderReactions lists the four counters; reactions this device already
// sent are highlighted.
func renderReactions(p domain.Post, reacted func(domain.ReactionKind) bool) string {
	parts := make([]string, 0, len(domain.ReactionKinds))
	for _, k := range domain.ReactionKinds {
		cell := fmt.Sprintf("%s %s", reactionIcons[k], common.CompactCount(p.Reactions.Count(k)))
		if reacted != nil && reacted(k) {
			parts = append(parts, common.ReactionActiveStyle.Render(cell))
			continue
		}
		parts = append(parts, common.TimestampStyle.Render(cell))
	}
	return strings.Join(parts, "  ")
}

func renderStats(p domain.Post, comments int) string {
	return common.TimestampStyle.Render(fmt.Sprintf("▲ %s  👁 %s  💬 %s",
		common.CompactCount(p.Score), common.CompactCount(p.Views), common.CompactCount(comments)))
}

func mediaLabel(p domain.Post) string {
	if !p.HasMedia() {
		return ""
	}
	switch p.MediaKind {
	case domain.MediaVideo:
		return "▶ video"
	case domain.MediaYouTube:
		if id, ok := domain.ParseYouTubeID(p.MediaURL); ok {
			return "▶ youtube " + id
		}
		return "▶ youtube"
	}
	return "▣ image"
}

func clipLines(text string, maxLines int) string {
	if maxLines < 1 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= maxLines {
		return text
	}
	return strings.Join(lines[:maxLines], "\n")
}

func clampLinesToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		if ansi.StringWidth(ln) <= width {
			continue
		}
		lines[i] = ansi.Truncate(ln, width-1, "…")
	}
	return strings.Join(lines, "\n")
}
