package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Refresh   key.Binding
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Open      key.Binding // enter: post detail
	Back      key.Binding

	ReactLOL    key.Binding
	ReactCringe key.Binding
	ReactWTF    key.Binding
	ReactGenius key.Binding

	Comment       key.Binding // c: inline comment
	CommentEditor key.Binding // C: comment via $EDITOR
	MoreComments  key.Binding
	Report        key.Binding
	ShowAnyway    key.Binding

	SortNext key.Binding
	SortPrev key.Binding
	Tag      key.Binding // #: filter by tag
	ClearTag key.Binding
	TagNext  key.Binding // ]: next popular tag

	NewEditor key.Binding // p: compose via $EDITOR
	NewInline key.Binding // P: compose inline
	Media     key.Binding // v: media viewer
	Share     key.Binding // y: copy permalink to status
	OpenURL   key.Binding // o: open media in browser
	Name      key.Binding // n: display name
	Theme     key.Binding

	ToggleHints key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		ReactLOL: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "lol"),
		),
		ReactCringe: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "cringe"),
		),
		ReactWTF: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "wtf"),
		),
		ReactGenius: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "genius"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		CommentEditor: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "comment ($EDITOR)"),
		),
		MoreComments: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "more comments"),
		),
		Report: key.NewBinding(
			key.WithKeys("!"),
			key.WithHelp("!", "report"),
		),
		ShowAnyway: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "show anyway"),
		),
		SortNext: key.NewBinding(
			key.WithKeys("tab", "s"),
			key.WithHelp("tab", "next sort"),
		),
		SortPrev: key.NewBinding(
			key.WithKeys("shift+tab", "S"),
			key.WithHelp("shift+tab", "prev sort"),
		),
		Tag: key.NewBinding(
			key.WithKeys("#"),
			key.WithHelp("#", "tag filter"),
		),
		ClearTag: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "clear tag"),
		),
		TagNext: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "popular tag"),
		),
		NewEditor: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "post ($EDITOR)"),
		),
		NewInline: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "post (inline)"),
		),
		Media: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "media"),
		),
		Share: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "share link"),
		),
		OpenURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open media"),
		),
		Name: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "set name"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		ToggleHints: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "keys"),
		),
	}
}

// ReactionKeys lists the reaction bindings in domain.ReactionKinds order.
func (k KeyMap) ReactionKeys() []key.Binding {
	return []key.Binding{k.ReactLOL, k.ReactCringe, k.ReactWTF, k.ReactGenius}
}
