package feed

import (
	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/engage"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
	"github.com/mathfra-rgb/cancelme-mvp/ranking"
)

// PageLoadedMsg is sent when a feed page fetch completes. Request is the tag
// the fetch was issued under; responses that no longer match are dropped.
type PageLoadedMsg struct {
	Request feedstate.PageRequest
	Page    ranking.Page
	Err     error
}

// FollowUpLoadedMsg carries comment and report counts for a loaded page.
type FollowUpLoadedMsg struct {
	Generation int
	FollowUp   engage.FollowUp
}

// CommentsMsg carries the result of a comments page fetch.
type CommentsMsg struct {
	Action feedstate.Action
}

// PostLoadedMsg is sent when the detail view refreshes its post.
type PostLoadedMsg struct {
	Post domain.Post
	Err  error
}

// SettledMsg is the server answer for an optimistic mutation.
type SettledMsg struct {
	Outcome engage.Outcome
}

// SubmitCommentMsg posts a comment composed outside the feed (e.g. $EDITOR).
type SubmitCommentMsg struct {
	PostID  string
	Content string
}

// PostPublishedMsg is sent after a new post was stored.
type PostPublishedMsg struct {
	Post domain.Post
}

// ShareCopiedMsg reports the outcome of copying a permalink.
type ShareCopiedMsg struct {
	URL string
	Err error
}

// Messages for the root model.

// OpenComposerMsg asks the root model to open the post composer.
type OpenComposerMsg struct {
	UseEditor bool
}

// OpenCommentEditorMsg asks the root model to open $EDITOR for a comment.
type OpenCommentEditorMsg struct {
	PostID string
}

// PrefsChangedMsg is emitted when the sort mode or tag changes.
type PrefsChangedMsg struct {
	Filter feedstate.Filter
}

// ToggleThemeMsg asks the root model to switch themes.
type ToggleThemeMsg struct{}

// EditNameMsg asks the root model to prompt for the display name.
type EditNameMsg struct{}
