package engage

import (
	"sync"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

// Window is a sliding-window limit: at most Max events per Span.
type Window struct {
	Max  int
	Span time.Duration
}

// Rule binds a window to a named scope.
type Rule struct {
	Scope string
	Window
}

// Limits configures every local limit.
type Limits struct {
	CommentGlobal   Window
	CommentPerPost  Window
	ReactionGlobal  Window
	ReactionPerPost Window
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{
		CommentGlobal:   Window{Max: 5, Span: 60 * time.Second},
		CommentPerPost:  Window{Max: 2, Span: 30 * time.Second},
		ReactionGlobal:  Window{Max: 20, Span: 10 * time.Second},
		ReactionPerPost: Window{Max: 4, Span: 5 * time.Second},
	}
}

// CommentRules are the scopes checked before a comment on postID.
func (l Limits) CommentRules(postID string) []Rule {
	return []Rule{
		{Scope: "comments:global", Window: l.CommentGlobal},
		{Scope: "comments:post:" + postID, Window: l.CommentPerPost},
	}
}

// ReactionRules are the scopes checked before a reaction on postID.
func (l Limits) ReactionRules(postID string) []Rule {
	return []Rule{
		{Scope: "reactions:global", Window: l.ReactionGlobal},
		{Scope: "reactions:post:" + postID, Window: l.ReactionPerPost},
	}
}

// Prune keeps the events strictly younger than span at now.
func Prune(events []time.Time, now time.Time, span time.Duration) []time.Time {
	out := make([]time.Time, 0, len(events)+1)
	for _, t := range events {
		if now.Sub(t) < span {
			out = append(out, t)
		}
	}
	return out
}

// Allowed reports whether one more event fits in the window at now.
func Allowed(events []time.Time, now time.Time, w Window) bool {
	return len(Prune(events, now, w.Span)) < w.Max
}

// retryAfter is how long until the oldest event in the window expires.
func retryAfter(events []time.Time, now time.Time, w Window) time.Duration {
	recent := Prune(events, now, w.Span)
	if len(recent) == 0 {
		return 0
	}
	oldest := recent[0]
	for _, t := range recent[1:] {
		if t.Before(oldest) {
			oldest = t
		}
	}
	d := oldest.Add(w.Span).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Limiter is a device-local sliding-window rate limiter. It is best-effort:
// clearing device storage resets it.
type Limiter struct {
	mu     sync.Mutex
	ledger *Ledger
	now    func() time.Time
}

// NewLimiter creates a limiter persisting through ledger. A nil clock uses
// time.Now.
func NewLimiter(ledger *Ledger, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{ledger: ledger, now: now}
}

// Allow reports whether scope has room for one more event.
func (l *Limiter) Allow(scope string, w Window) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	events, err := l.ledger.Events(scope)
	if err != nil {
		return false, err
	}
	return Allowed(events, l.now(), w), nil
}

// Record prunes scope and appends at.
func (l *Limiter) Record(scope string, w Window, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.record(scope, w, at)
}

func (l *Limiter) record(scope string, w Window, at time.Time) error {
	events, err := l.ledger.Events(scope)
	if err != nil {
		return err
	}
	events = append(Prune(events, at, w.Span), at)
	return l.ledger.Replace(scope, events)
}

// CheckAndRecord checks every rule and, only if all pass, records one event
// in each. The first failing rule is returned as a *domain.RateLimitError.
func (l *Limiter) CheckAndRecord(rules ...Rule) error {
	return l.CheckThenRecord(nil, rules...)
}

// CheckThenRecord is CheckAndRecord with a step in between: once every rule
// passes, commit runs, and events are recorded only if it succeeds. A failed
// commit leaves every window untouched.
func (l *Limiter) CheckThenRecord(commit func() error, rules ...Rule) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for _, r := range rules {
		events, err := l.ledger.Events(r.Scope)
		if err != nil {
			return err
		}
		if !Allowed(events, now, r.Window) {
			return &domain.RateLimitError{Scope: r.Scope, RetryAfter: retryAfter(events, now, r.Window)}
		}
	}
	if commit != nil {
		if err := commit(); err != nil {
			return err
		}
	}
	for _, r := range rules {
		if err := l.record(r.Scope, r.Window, now); err != nil {
			return err
		}
	}
	return nil
}
