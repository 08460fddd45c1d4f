package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/tui/common"
)

var fieldLabels = [fieldCount]string{"Caption", "Hashtags", "Media URL", "File"}

// View renders the compose view based on the active mode.
func (m Model) View() string {
	switch m.mode {
	case editorMode:
		if m.err != nil {
			return common.ErrorStyle.Render("Error: "+domain.UserMessage(m.err)) + "\n"
		}
		return m.status + "\n"

	case inlineMode:
		var b strings.Builder
		b.WriteString(common.AppTitleStyle.Render("cancelme"))
		b.WriteString(common.TaglineStyle.Render("New post") + "\n\n")

		for i := 0; i < fieldCount; i++ {
			label := common.TimestampStyle.Render(fieldLabels[i])
			if i == m.focus {
				label = common.HashtagStyle.Render("› " + fieldLabels[i])
			}
			b.WriteString(label + "\n")
			if i == fieldCaption {
				b.WriteString(m.caption.View())
			} else {
				b.WriteString(m.inputs[i-1].View())
			}
			b.WriteString("\n")
			if i == fieldFile && m.file != nil {
				b.WriteString(common.SuccessStyle.Render(
					fmt.Sprintf("  ✓ %s (%s, %s)", m.file.Name, m.file.Kind, formatBytes(m.file.Size()))))
				b.WriteString("\n")
			}
		}

		if tags := m.Draft().Tags(); len(tags) > 0 {
			b.WriteString(common.HashtagStyle.Render("#" + strings.Join(tags, " #")))
			b.WriteString("\n")
		}

		if m.err != nil {
			b.WriteString("\n" + common.ErrorStyle.Render(domain.UserMessage(m.err)) + "\n")
		}

		if m.status != "" {
			b.WriteString(common.StatusBarStyle.Render(m.status))
		} else {
			hints := "  ctrl+d: post • tab: next field • esc: cancel"
			if m.editor != nil {
				hints += " • ctrl+e: $EDITOR"
			}
			b.WriteString(common.StatusBarStyle.Render(
				fmt.Sprintf("%s • %d chars", hints, utf8.RuneCountInString(m.caption.Value())),
			))
		}
		return b.String()
	}
	return ""
}

func formatBytes(n int64) string {
	const mb = 1 << 20
	if n >= mb {
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
	return fmt.Sprintf("%d KB", (n+1023)/1024)
}
