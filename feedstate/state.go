// Package feedstate holds the feed, its per-post side maps and the pure
// reducers that move between states. Every reducer returns a new State;
// slices and maps it changes are copied first, so older states stay valid.
package feedstate

import (
	"strings"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

// Filter is the user-selected feed query.
type Filter struct {
	Sort domain.SortMode
	Tag  string
}

// NewFilter normalizes tag and defaults sort to recent.
func NewFilter(sort domain.SortMode, tag string) Filter {
	if sort == "" {
		sort = domain.SortRecent
	}
	return Filter{Sort: sort, Tag: domain.NormalizeTag(tag)}
}

// Key identifies the query a page response belongs to.
func (f Filter) Key() string {
	return string(f.Sort) + "|tag:" + f.Tag
}

// PageRequest tags an in-flight page fetch so late responses can be
// matched against the state that issued them.
type PageRequest struct {
	Generation int
	Key        string
	Offset     int
	Append     bool
}

// Thread is the cached comment list of one post, newest first. Placeholder
// comments sit at the top until reconciled.
type Thread struct {
	Comments []domain.Comment
	HasMore  bool
	Loading  bool
	Loaded   bool
	Err      error
}

// Placeholders counts optimistic comments still shown in the thread.
func (t Thread) Placeholders() int {
	n := 0
	for _, c := range t.Comments {
		if c.IsPlaceholder() {
			n++
		}
	}
	return n
}

// Confirmed counts server-backed comments in the thread.
func (t Thread) Confirmed() int { return len(t.Comments) - t.Placeholders() }

// State is the whole feed view state.
type State struct {
	Filter      Filter
	Generation  int
	Posts       []domain.Post
	HasMore     bool
	Loading     bool
	LoadingMore bool
	Err         error

	CommentCounts map[string]int
	ReportCounts  map[string]int
	Hidden        map[string]bool
	ShowAnyway    map[string]bool
	Threads       map[string]Thread

	// Unsynced marks posts whose counters may count a confirmed reaction
	// twice. A fresh server copy (PostReplaced) clears the mark.
	Unsynced map[string]bool

	// Optimistic deltas not yet confirmed, re-applied over fresh server data.
	pendingReactions map[reactionKey]int
	pendingReports   map[string]int
	// overlaid counts pending reactions re-applied onto a server read that
	// may already include them.
	overlaid map[reactionKey]int
}

type reactionKey struct {
	postID string
	kind   domain.ReactionKind
}

// New returns the initial state for filter, with a first page pending.
func New(filter Filter) State {
	return State{
		Filter:           NewFilter(filter.Sort, filter.Tag),
		Loading:          true,
		CommentCounts:    map[string]int{},
		ReportCounts:     map[string]int{},
		Hidden:           map[string]bool{},
		ShowAnyway:       map[string]bool{},
		Threads:          map[string]Thread{},
		Unsynced:         map[string]bool{},
		pendingReactions: map[reactionKey]int{},
		pendingReports:   map[string]int{},
		overlaid:         map[reactionKey]int{},
	}
}

// Request builds the tag for the next page fetch.
func (s State) Request(appendPage bool) PageRequest {
	r := PageRequest{Generation: s.Generation, Key: s.Filter.Key(), Append: appendPage}
	if appendPage {
		r.Offset = len(s.Posts)
	}
	return r
}

// Matches reports whether r was issued for the current query and generation.
func (s State) Matches(r PageRequest) bool {
	return r.Generation == s.Generation && r.Key == s.Filter.Key()
}

// Post looks up a post by ID.
func (s State) Post(id string) (domain.Post, bool) {
	for _, p := range s.Posts {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Post{}, false
}

// PostIDs lists the IDs of posts in feed order.
func (s State) PostIDs() []string {
	ids := make([]string, len(s.Posts))
	for i, p := range s.Posts {
		ids[i] = p.ID
	}
	return ids
}

// IsVisible reports whether a post is shown: not community-hidden, or
// explicitly shown anyway.
func (s State) IsVisible(id string) bool {
	return !s.Hidden[id] || s.ShowAnyway[id]
}

// Visible returns the posts to render.
func (s State) Visible() []domain.Post {
	out := make([]domain.Post, 0, len(s.Posts))
	for _, p := range s.Posts {
		if s.IsVisible(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// HiddenCount is the number of loaded posts currently masked.
func (s State) HiddenCount() int {
	n := 0
	for _, p := range s.Posts {
		if !s.IsVisible(p.ID) {
			n++
		}
	}
	return n
}

// Thread returns the cached comments of a post.
func (s State) Thread(postID string) Thread {
	return s.Threads[postID]
}

// Pending reports whether any optimistic change on postID awaits the server.
func (s State) Pending(postID string) bool {
	for k := range s.pendingReactions {
		if k.postID == postID {
			return true
		}
	}
	if s.pendingReports[postID] > 0 {
		return true
	}
	for _, c := range s.Threads[postID].Comments {
		if c.IsPlaceholder() {
			return true
		}
	}
	return false
}

func sameContent(a, b domain.Comment) bool {
	return a.PostID == b.PostID &&
		strings.TrimSpace(a.DisplayName) == strings.TrimSpace(b.DisplayName) &&
		domain.NormalizeText(a.Content) == domain.NormalizeText(b.Content)
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
