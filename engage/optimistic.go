package engage

import (
	"context"
	"fmt"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
	"github.com/mathfra-rgb/cancelme-mvp/infra/logging"
)

// MutationKind names the optimistic operations.
type MutationKind int

const (
	MutationReaction MutationKind = iota
	MutationComment
	MutationReport
	MutationView
)

func (k MutationKind) String() string {
	switch k {
	case MutationReaction:
		return "react"
	case MutationComment:
		return "comment"
	case MutationReport:
		return "report"
	case MutationView:
		return "view"
	}
	return "unknown"
}

// Pending is a remote write whose local effect is already applied.
type Pending struct {
	Kind     MutationKind
	PostID   string
	Reaction domain.ReactionKind
	TempID   string

	run func(ctx context.Context) (domain.Comment, error)
}

// Run performs the remote write. It is safe to call from a tea.Cmd.
func (p *Pending) Run(ctx context.Context) Outcome {
	c, err := p.run(ctx)
	return Outcome{Pending: *p, Comment: c, Err: err}
}

// Outcome is the result of a Pending, to be folded back with Engine.Settle.
type Outcome struct {
	Pending
	Comment domain.Comment
	Err     error
}

// Deps wires an Engine.
type Deps struct {
	Comments app.CommentService
	Reports  app.ReportService
	Counters app.CounterService
	KV       app.KV
	Limits   Limits
	Policy   Policy
	Patterns []*regexp.Regexp
	Now      func() time.Time
}

// Engine applies engagement mutations optimistically: the local delta lands
// synchronously in Prepare*, the remote write runs later through Pending.Run,
// and Settle either reconciles or applies the exact inverse.
type Engine struct {
	comments app.CommentService
	counters app.CounterService

	limiter   *Limiter
	limits    Limits
	markers   *Markers
	identity  *Identity
	views     *ViewSession
	evaluator *Evaluator
	reports   app.ReportService
	patterns  []*regexp.Regexp
	now       func() time.Time
	seq       atomic.Int64
}

// NewEngine builds an engine with a fresh view session.
func NewEngine(d Deps) *Engine {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Patterns == nil {
		d.Patterns = domain.BannedPatterns
	}
	return &Engine{
		comments:  d.Comments,
		counters:  d.Counters,
		reports:   d.Reports,
		limiter:   NewLimiter(NewLedger(d.KV), d.Now),
		limits:    d.Limits,
		markers:   NewMarkers(d.KV),
		identity:  NewIdentity(d.KV),
		views:     NewViewSession(),
		evaluator: NewEvaluator(d.Reports, d.Policy, d.Now),
		patterns:  d.Patterns,
		now:       d.Now,
	}
}

// Identity exposes the device identity.
func (e *Engine) Identity() *Identity { return e.identity }

// Evaluator exposes the auto-moderation evaluator.
func (e *Engine) Evaluator() *Evaluator { return e.evaluator }

// Patterns are the banned patterns in force.
func (e *Engine) Patterns() []*regexp.Regexp { return e.patterns }

// Reacted reports whether this device already sent the reaction.
func (e *Engine) Reacted(postID string, kind domain.ReactionKind) bool {
	ok, err := e.markers.Has(postID, kind)
	return err == nil && ok
}

// PrepareReaction gates and applies a +1 reaction.
func (e *Engine) PrepareReaction(s feedstate.State, postID string, kind domain.ReactionKind) (feedstate.State, *Pending, error) {
	reacted, err := e.markers.Has(postID, kind)
	if err != nil {
		return s, nil, fmt.Errorf("reading reaction marker: %w", err)
	}
	if reacted {
		return s, nil, &domain.ValidationError{Field: "reaction", Err: domain.ErrAlreadyReacted}
	}
	setMarker := func() error {
		if err := e.markers.Set(postID, kind); err != nil {
			return fmt.Errorf("storing reaction marker: %w", err)
		}
		return nil
	}
	if err := e.limiter.CheckThenRecord(setMarker, e.limits.ReactionRules(postID)...); err != nil {
		return s, nil, err
	}

	s = feedstate.Reduce(s, feedstate.ReactionApplied{PostID: postID, Kind: kind})
	counters := e.counters
	return s, &Pending{
		Kind:     MutationReaction,
		PostID:   postID,
		Reaction: kind,
		run: func(ctx context.Context) (domain.Comment, error) {
			return domain.Comment{}, counters.IncrementReaction(ctx, postID, kind, 1)
		},
	}, nil
}

// PrepareComment validates, rate-limits and inserts a placeholder comment.
func (e *Engine) PrepareComment(s feedstate.State, postID, raw string) (feedstate.State, *Pending, error) {
	content, err := domain.ValidateComment(raw, e.patterns)
	if err != nil {
		return s, nil, err
	}
	if err := e.limiter.CheckAndRecord(e.limits.CommentRules(postID)...); err != nil {
		return s, nil, err
	}

	now := e.now()
	name := e.identity.DisplayName()
	temp := domain.Comment{
		ID:          fmt.Sprintf("%s%d-%d", domain.TempCommentPrefix, now.UnixMilli(), e.seq.Add(1)),
		PostID:      postID,
		Content:     content,
		DisplayName: name,
		CreatedAt:   now,
	}
	s = feedstate.Reduce(s, feedstate.CommentAdded{Comment: temp})

	comments := e.comments
	return s, &Pending{
		Kind:   MutationComment,
		PostID: postID,
		TempID: temp.ID,
		run: func(ctx context.Context) (domain.Comment, error) {
			return comments.InsertComment(ctx, postID, content, name)
		},
	}, nil
}

// PrepareReport applies the optimistic +1 report count.
func (e *Engine) PrepareReport(s feedstate.State, postID, reason string) (feedstate.State, *Pending, error) {
	fp, err := e.identity.Fingerprint()
	if err != nil {
		return s, nil, err
	}
	report := domain.Report{
		PostID:              postID,
		Reason:              domain.NormalizeText(reason),
		ReporterFingerprint: fp,
		ReporterName:        e.identity.DisplayName(),
		CreatedAt:           e.now(),
	}
	s = feedstate.Reduce(s, feedstate.ReportApplied{PostID: postID})

	reports := e.reports
	return s, &Pending{
		Kind:   MutationReport,
		PostID: postID,
		run: func(ctx context.Context) (domain.Comment, error) {
			return domain.Comment{}, reports.InsertReport(ctx, report)
		},
	}, nil
}

// PrepareView counts the first view of postID in this session. It returns a
// nil Pending for every later signal.
func (e *Engine) PrepareView(s feedstate.State, postID string) (feedstate.State, *Pending) {
	if !e.views.ShouldCount(postID) {
		return s, nil
	}
	s = feedstate.Reduce(s, feedstate.ViewCounted{PostID: postID})
	counters := e.counters
	return s, &Pending{
		Kind:   MutationView,
		PostID: postID,
		run: func(ctx context.Context) (domain.Comment, error) {
			return domain.Comment{}, counters.IncrementView(ctx, postID, 1)
		},
	}
}

// Settle folds a remote outcome into s. Failed writes are rolled back and
// returned as *domain.RemoteWriteError, except views, which only log.
func (e *Engine) Settle(s feedstate.State, out Outcome) (feedstate.State, error) {
	ok := out.Err == nil
	switch out.Kind {
	case MutationReaction:
		if !ok {
			if err := e.markers.Clear(out.PostID, out.Reaction); err != nil {
				logging.Error("clearing reaction marker", "post", out.PostID, "kind", out.Reaction, "err", err)
			}
		}
		s = feedstate.Reduce(s, feedstate.ReactionSettled{PostID: out.PostID, Kind: out.Reaction, OK: ok})

	case MutationComment:
		s = feedstate.Reduce(s, feedstate.CommentSettled{
			TempID:  out.TempID,
			PostID:  out.PostID,
			Comment: out.Comment,
			OK:      ok,
		})

	case MutationReport:
		s = feedstate.Reduce(s, feedstate.ReportSettled{PostID: out.PostID, OK: ok})
		if ok {
			policy := e.evaluator.Policy()
			s = feedstate.Reduce(s, feedstate.VisibilityEvaluated{
				Hidden: policy.Decide([]string{out.PostID}, s.ReportCounts),
			})
		}

	case MutationView:
		if !ok {
			logging.Warn("view increment failed", "post", out.PostID, "err", out.Err)
		}
		return s, nil
	}

	if !ok {
		logging.Warn("optimistic write rolled back", "op", out.Kind.String(), "post", out.PostID, "err", out.Err)
		return s, &domain.RemoteWriteError{Op: out.Kind.String(), Err: out.Err}
	}
	return s, nil
}
