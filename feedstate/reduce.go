package feedstate

import (
	"slices"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

// Action is a state transition. Implementations are the types in this file.
type Action interface {
	apply(State) State
}

// Reduce applies actions in order and returns the resulting state.
func Reduce(s State, actions ...Action) State {
	for _, a := range actions {
		s = a.apply(s)
	}
	return s
}

// --- Feed pages ---

// FilterChanged switches sort mode or tag. Accumulated pages are dropped and
// responses for the previous query stop matching.
type FilterChanged struct {
	Filter Filter
}

func (a FilterChanged) apply(s State) State {
	s.Filter = NewFilter(a.Filter.Sort, a.Filter.Tag)
	s.Generation++
	s.Posts = nil
	s.HasMore = false
	s.Loading = true
	s.LoadingMore = false
	s.Err = nil
	s.CommentCounts = map[string]int{}
	s.ReportCounts = map[string]int{}
	s.Hidden = map[string]bool{}
	s.Unsynced = map[string]bool{}
	s.overlaid = map[reactionKey]int{}
	return s
}

// Reloaded restarts the current query from the first page. Loaded posts stay
// on screen until the new page arrives.
type Reloaded struct{}

func (Reloaded) apply(s State) State {
	s.Generation++
	s.Loading = true
	s.LoadingMore = false
	return s
}

// MoreRequested marks the next page as in flight.
type MoreRequested struct{}

func (MoreRequested) apply(s State) State {
	s.LoadingMore = true
	return s
}

// PageLoaded delivers a page. It is ignored unless Request still matches the
// state's generation and query, and, when appending, the current length.
type PageLoaded struct {
	Request PageRequest
	Posts   []domain.Post
	HasMore bool
}

func (a PageLoaded) apply(s State) State {
	if !s.Matches(a.Request) {
		return s
	}
	if a.Request.Append && a.Request.Offset != len(s.Posts) {
		return s
	}

	incoming := make([]domain.Post, 0, len(a.Posts))
	for _, p := range a.Posts {
		incoming = append(incoming, s.overlay(p))
	}

	if a.Request.Append {
		seen := make(map[string]struct{}, len(s.Posts))
		posts := make([]domain.Post, len(s.Posts), len(s.Posts)+len(incoming))
		copy(posts, s.Posts)
		for _, p := range posts {
			seen[p.ID] = struct{}{}
		}
		var fresh []string
		for _, p := range incoming {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			posts = append(posts, p)
			fresh = append(fresh, p.ID)
		}
		s.Posts = posts
		s.LoadingMore = false
		s.markOverlaid(fresh...)
	} else {
		s.Posts = incoming
		s.Loading = false
		s.LoadingMore = false
		s.markOverlaid(s.PostIDs()...)
	}
	s.HasMore = a.HasMore
	s.Err = nil
	return s
}

// overlay re-applies unconfirmed local deltas on top of a server record.
func (s State) overlay(p domain.Post) domain.Post {
	for k, delta := range s.pendingReactions {
		if k.postID == p.ID && delta > 0 {
			p = p.WithReaction(k.kind, delta)
		}
	}
	if prev, ok := s.Post(p.ID); ok && prev.Views > p.Views {
		p.Views = prev.Views
	}
	return p
}

// markOverlaid records that every pending reaction on ids now sits on top of
// a server read. Whether that read already held the write is unknown until
// the write settles.
func (s *State) markOverlaid(ids ...string) {
	s.overlaid = copyMap(s.overlaid)
	for k, n := range s.pendingReactions {
		if n > 0 && slices.Contains(ids, k.postID) {
			s.overlaid[k] = n
		}
	}
}

// PageFailed degrades a failed first page to an empty feed. A failed append
// keeps what is loaded.
type PageFailed struct {
	Request PageRequest
	Err     error
}

func (a PageFailed) apply(s State) State {
	if !s.Matches(a.Request) {
		return s
	}
	if a.Request.Append {
		s.LoadingMore = false
		s.Err = a.Err
		return s
	}
	s.Posts = nil
	s.HasMore = false
	s.Loading = false
	s.LoadingMore = false
	s.Err = a.Err
	return s
}

// --- Reactions ---

// ReactionApplied is the optimistic +1 on a reaction counter and the score.
type ReactionApplied struct {
	PostID string
	Kind   domain.ReactionKind
}

func (a ReactionApplied) apply(s State) State {
	s.Posts = s.mapPost(a.PostID, func(p domain.Post) domain.Post {
		return p.WithReaction(a.Kind, 1)
	})
	k := reactionKey{a.PostID, a.Kind}
	s.pendingReactions = copyMap(s.pendingReactions)
	s.pendingReactions[k]++
	return s
}

// ReactionSettled folds in the server answer. On failure the exact inverse
// of ReactionApplied is applied, clamped at zero. A confirmed reaction that
// was overlaid onto a reloaded copy marks the post Unsynced: the reload may
// have read the committed row, so the displayed count may hold it twice.
type ReactionSettled struct {
	PostID string
	Kind   domain.ReactionKind
	OK     bool
}

func (a ReactionSettled) apply(s State) State {
	k := reactionKey{a.PostID, a.Kind}
	s.pendingReactions = copyMap(s.pendingReactions)
	if s.pendingReactions[k] <= 1 {
		delete(s.pendingReactions, k)
	} else {
		s.pendingReactions[k]--
	}
	wasOverlaid := s.overlaid[k] > 0
	if wasOverlaid {
		s.overlaid = copyMap(s.overlaid)
		if s.overlaid[k] <= 1 {
			delete(s.overlaid, k)
		} else {
			s.overlaid[k]--
		}
	}

	switch {
	case !a.OK:
		s.Posts = s.mapPost(a.PostID, func(p domain.Post) domain.Post {
			return p.WithReaction(a.Kind, -1)
		})
	case wasOverlaid:
		s.Unsynced = copyMap(s.Unsynced)
		s.Unsynced[a.PostID] = true
	}
	return s
}

// --- Views ---

// ViewCounted adds the session's single view of a post.
type ViewCounted struct {
	PostID string
}

func (a ViewCounted) apply(s State) State {
	s.Posts = s.mapPost(a.PostID, func(p domain.Post) domain.Post {
		return p.WithView(1)
	})
	return s
}

// --- Comments ---

// CommentAdded prepends a placeholder comment and bumps the count.
type CommentAdded struct {
	Comment domain.Comment
}

func (a CommentAdded) apply(s State) State {
	id := a.Comment.PostID
	t := s.Threads[id]
	comments := make([]domain.Comment, 0, len(t.Comments)+1)
	comments = append(comments, a.Comment)
	comments = append(comments, t.Comments...)
	t.Comments = comments
	s.Threads = copyMap(s.Threads)
	s.Threads[id] = t
	s.CommentCounts = copyMap(s.CommentCounts)
	s.CommentCounts[id]++
	return s
}

// CommentSettled reconciles a placeholder. On success it is replaced by the
// server record, or dropped when that record already arrived through a page
// fetch. On failure it is removed and the count restored.
type CommentSettled struct {
	TempID  string
	PostID  string
	Comment domain.Comment
	OK      bool
}

func (a CommentSettled) apply(s State) State {
	t := s.Threads[a.PostID]
	tempAt, recordAt := -1, -1
	for i, c := range t.Comments {
		switch {
		case c.ID == a.TempID:
			tempAt = i
		case a.OK && c.ID == a.Comment.ID:
			recordAt = i
		}
	}

	comments := make([]domain.Comment, 0, len(t.Comments)+1)
	switch {
	case !a.OK:
		if tempAt < 0 {
			return s
		}
		comments = append(comments, t.Comments[:tempAt]...)
		comments = append(comments, t.Comments[tempAt+1:]...)
		s.CommentCounts = copyMap(s.CommentCounts)
		s.CommentCounts[a.PostID] = clampZero(s.CommentCounts[a.PostID] - 1)
	case tempAt >= 0 && recordAt >= 0:
		comments = append(comments, t.Comments[:tempAt]...)
		comments = append(comments, t.Comments[tempAt+1:]...)
		s.CommentCounts = copyMap(s.CommentCounts)
		s.CommentCounts[a.PostID] = clampZero(s.CommentCounts[a.PostID] - 1)
	case tempAt >= 0:
		comments = append(comments, t.Comments...)
		comments[tempAt] = a.Comment
	case recordAt >= 0:
		return s
	default:
		// The placeholder was taken for another comment's echo; the record
		// itself is new to the list.
		comments = append(comments, a.Comment)
		comments = append(comments, t.Comments...)
		s.CommentCounts = copyMap(s.CommentCounts)
		s.CommentCounts[a.PostID]++
	}
	t.Comments = comments
	s.Threads = copyMap(s.Threads)
	s.Threads[a.PostID] = t
	return s
}

// CommentsRequested marks a thread fetch as in flight.
type CommentsRequested struct {
	PostID string
}

func (a CommentsRequested) apply(s State) State {
	t := s.Threads[a.PostID]
	t.Loading = true
	s.Threads = copyMap(s.Threads)
	s.Threads[a.PostID] = t
	return s
}

// CommentsLoaded delivers a comments page. A first page replaces the
// confirmed comments; placeholders whose content already came back from the
// server are dropped one for one, the rest stay on top. The post's count becomes the
// server total plus remaining placeholders.
type CommentsLoaded struct {
	PostID  string
	Offset  int
	Append  bool
	Page    domain.CommentPage
	HasMore bool
}

func (a CommentsLoaded) apply(s State) State {
	t := s.Threads[a.PostID]
	if a.Append && a.Offset != t.Confirmed() {
		return s
	}

	var placeholders, confirmed []domain.Comment
	for _, c := range t.Comments {
		if c.IsPlaceholder() {
			placeholders = append(placeholders, c)
		} else if a.Append {
			confirmed = append(confirmed, c)
		}
	}

	seen := make(map[string]struct{}, len(confirmed)+len(a.Page.Comments))
	for _, c := range confirmed {
		seen[c.ID] = struct{}{}
	}
	for _, c := range a.Page.Comments {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		confirmed = append(confirmed, c)
	}

	// Each server comment cancels at most one placeholder, the oldest
	// matching one, since that was sent first.
	echoed := make([]bool, len(placeholders))
	for _, c := range a.Page.Comments {
		for i := len(placeholders) - 1; i >= 0; i-- {
			if !echoed[i] && sameContent(placeholders[i], c) {
				echoed[i] = true
				break
			}
		}
	}
	kept := placeholders[:0:0]
	for i, p := range placeholders {
		if !echoed[i] {
			kept = append(kept, p)
		}
	}

	comments := make([]domain.Comment, 0, len(kept)+len(confirmed))
	comments = append(comments, kept...)
	comments = append(comments, confirmed...)
	t.Comments = comments
	t.HasMore = a.HasMore
	t.Loading = false
	t.Loaded = true
	t.Err = nil

	s.Threads = copyMap(s.Threads)
	s.Threads[a.PostID] = t
	s.CommentCounts = copyMap(s.CommentCounts)
	s.CommentCounts[a.PostID] = a.Page.Total + len(kept)
	return s
}

// CommentsFailed keeps the last known list and records the error.
type CommentsFailed struct {
	PostID string
	Err    error
}

func (a CommentsFailed) apply(s State) State {
	t := s.Threads[a.PostID]
	t.Loading = false
	t.Err = a.Err
	s.Threads = copyMap(s.Threads)
	s.Threads[a.PostID] = t
	return s
}

// CommentCountsMerged folds a batch count query into the cache. Only the IDs
// asked for are touched; missing IDs count as zero.
type CommentCountsMerged struct {
	PostIDs []string
	Counts  map[string]int
}

func (a CommentCountsMerged) apply(s State) State {
	s.CommentCounts = copyMap(s.CommentCounts)
	for _, id := range a.PostIDs {
		s.CommentCounts[id] = a.Counts[id] + s.Threads[id].Placeholders()
	}
	return s
}

// --- Reports and visibility ---

// ReportApplied is the optimistic +1 on a post's recent report count.
type ReportApplied struct {
	PostID string
}

func (a ReportApplied) apply(s State) State {
	s.ReportCounts = copyMap(s.ReportCounts)
	s.ReportCounts[a.PostID]++
	s.pendingReports = copyMap(s.pendingReports)
	s.pendingReports[a.PostID]++
	return s
}

// ReportSettled confirms or reverts a ReportApplied.
type ReportSettled struct {
	PostID string
	OK     bool
}

func (a ReportSettled) apply(s State) State {
	s.pendingReports = copyMap(s.pendingReports)
	if s.pendingReports[a.PostID] <= 1 {
		delete(s.pendingReports, a.PostID)
	} else {
		s.pendingReports[a.PostID]--
	}
	if !a.OK {
		s.ReportCounts = copyMap(s.ReportCounts)
		s.ReportCounts[a.PostID] = clampZero(s.ReportCounts[a.PostID] - 1)
	}
	return s
}

// ReportCountsMerged folds recent report counts for a batch of posts.
// Unconfirmed local reports stay counted.
type ReportCountsMerged struct {
	PostIDs []string
	Counts  map[string]int
}

func (a ReportCountsMerged) apply(s State) State {
	s.ReportCounts = copyMap(s.ReportCounts)
	for _, id := range a.PostIDs {
		s.ReportCounts[id] = a.Counts[id] + s.pendingReports[id]
	}
	return s
}

// VisibilityEvaluated sets the community-hidden flag for the given posts.
type VisibilityEvaluated struct {
	Hidden map[string]bool
}

func (a VisibilityEvaluated) apply(s State) State {
	s.Hidden = copyMap(s.Hidden)
	for id, hidden := range a.Hidden {
		if hidden {
			s.Hidden[id] = true
		} else {
			delete(s.Hidden, id)
		}
	}
	return s
}

// ShowAnywayToggled flips the per-session override for a hidden post.
type ShowAnywayToggled struct {
	PostID string
}

func (a ShowAnywayToggled) apply(s State) State {
	s.ShowAnyway = copyMap(s.ShowAnyway)
	if s.ShowAnyway[a.PostID] {
		delete(s.ShowAnyway, a.PostID)
	} else {
		s.ShowAnyway[a.PostID] = true
	}
	return s
}

// PostReplaced swaps in a fresher copy of one post, keeping local deltas.
// It clears the post's Unsynced mark.
type PostReplaced struct {
	Post domain.Post
}

func (a PostReplaced) apply(s State) State {
	if _, ok := s.Post(a.Post.ID); !ok {
		return s
	}
	fresh := s.overlay(a.Post)
	s.Posts = s.mapPost(a.Post.ID, func(domain.Post) domain.Post { return fresh })
	s.markOverlaid(a.Post.ID)
	if s.Unsynced[a.Post.ID] {
		s.Unsynced = copyMap(s.Unsynced)
		delete(s.Unsynced, a.Post.ID)
	}
	return s
}

func (s State) mapPost(id string, fn func(domain.Post) domain.Post) []domain.Post {
	posts := make([]domain.Post, len(s.Posts))
	copy(posts, s.Posts)
	for i, p := range posts {
		if p.ID == id {
			posts[i] = fn(p)
		}
	}
	return posts
}
