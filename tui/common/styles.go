package common

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a theme assigns.
type Palette struct {
	Accent    lipgloss.Color
	Tag       lipgloss.Color
	Muted     lipgloss.Color
	Author    lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color
	Danger    lipgloss.Color
	Success   lipgloss.Color
	TabActive lipgloss.Color
	TabIdle   lipgloss.Color
	TabText   lipgloss.Color
}

// DarkPalette is the default theme.
var DarkPalette = Palette{
	Accent:    "#FF6600",
	Tag:       "#A6DA95",
	Muted:     "#6E738D",
	Author:    "#7DC4E4",
	Text:      "#CAD3F5",
	Border:    "#45475A",
	Danger:    "#ED8796",
	Success:   "#A6DA95",
	TabActive: "#FFB454",
	TabIdle:   "#2B2B2B",
	TabText:   "#1E1E1E",
}

// LightPalette targets light terminal backgrounds.
var LightPalette = Palette{
	Accent:    "#D94F00",
	Tag:       "#40A02B",
	Muted:     "#8C8FA1",
	Author:    "#1E66F5",
	Text:      "#4C4F69",
	Border:    "#BCC0CC",
	Danger:    "#D20F39",
	Success:   "#40A02B",
	TabActive: "#DF8E1D",
	TabIdle:   "#DCE0E8",
	TabText:   "#EFF1F5",
}

var (
	// AppTitleStyle styles the application title. Rendered at call site with content.
	AppTitleStyle lipgloss.Style

	// HashtagStyle styles hashtags and the active tag filter.
	HashtagStyle lipgloss.Style

	// TaglineStyle styles the app's tagline.
	TaglineStyle lipgloss.Style

	// AuthorStyle styles post and comment authors.
	AuthorStyle lipgloss.Style

	// TimestampStyle styles timestamps and counters.
	TimestampStyle lipgloss.Style

	// ContentStyle styles captions and comment text.
	ContentStyle lipgloss.Style

	// SelectedStyle highlights the currently selected post.
	SelectedStyle lipgloss.Style

	// UnselectedStyle gives unselected posts a subtle border.
	UnselectedStyle lipgloss.Style

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle lipgloss.Style

	// ReactionActiveStyle marks a reaction this device already sent.
	ReactionActiveStyle lipgloss.Style

	// TabActiveStyle and TabInactiveStyle render the sort tabs.
	TabActiveStyle   lipgloss.Style
	TabInactiveStyle lipgloss.Style

	// ConfirmStyle styles confirmation prompts.
	ConfirmStyle lipgloss.Style

	// WarningStyle flags suspect captions and hidden posts.
	WarningStyle lipgloss.Style

	// ErrorStyle styles error messages.
	ErrorStyle lipgloss.Style

	// SuccessStyle styles success messages.
	SuccessStyle lipgloss.Style

	current = DarkPalette
)

func init() { ApplyPalette(DarkPalette) }

// CurrentPalette returns the palette in use.
func CurrentPalette() Palette { return current }

// ApplyTheme switches the shared styles to the named theme ("light" or
// anything else for dark).
func ApplyTheme(name string) {
	if name == "light" {
		ApplyPalette(LightPalette)
		return
	}
	ApplyPalette(DarkPalette)
}

// ApplyPalette rebuilds every shared style from p.
func ApplyPalette(p Palette) {
	current = p

	AppTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Padding(1, 2, 0, 1)
	HashtagStyle = lipgloss.NewStyle().
		Foreground(p.Tag).
		Bold(true)
	TaglineStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true).
		MarginLeft(1)
	AuthorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Author)
	TimestampStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	ContentStyle = lipgloss.NewStyle().
		Foreground(p.Text)
	SelectedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(0, 1)
	UnselectedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(1, 0, 0, 0)
	ReactionActiveStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)
	TabActiveStyle = lipgloss.NewStyle().
		Foreground(p.TabText).
		Background(p.TabActive).
		Bold(true).
		Padding(0, 1)
	TabInactiveStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.TabIdle).
		Padding(0, 1)
	ConfirmStyle = lipgloss.NewStyle().
		Foreground(p.Danger).
		Bold(true).
		Padding(0, 1)
	WarningStyle = lipgloss.NewStyle().
		Foreground(p.TabActive).
		Italic(true)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Danger).
		Bold(true)
	SuccessStyle = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true)
}
