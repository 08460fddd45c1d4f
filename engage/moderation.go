package engage

import (
	"context"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/infra/logging"
)

// Policy is the community auto-hide rule: a post is hidden once it has
// Threshold or more reports within Window.
type Policy struct {
	Threshold int
	Window    time.Duration
}

// DefaultPolicy hides after 3 reports in 24 hours.
func DefaultPolicy() Policy {
	return Policy{Threshold: 3, Window: 24 * time.Hour}
}

// Hidden reports whether count crosses the threshold.
func (p Policy) Hidden(count int) bool {
	return p.Threshold > 0 && count >= p.Threshold
}

// Decide maps every ID to its hidden flag. IDs missing from counts have no
// recent reports.
func (p Policy) Decide(postIDs []string, counts map[string]int) map[string]bool {
	out := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		out[id] = p.Hidden(counts[id])
	}
	return out
}

// CountRecent counts stamps per post at or after since.
func CountRecent(stamps []domain.ReportStamp, since time.Time) map[string]int {
	out := make(map[string]int)
	for _, s := range stamps {
		if s.CreatedAt.Before(since) {
			continue
		}
		out[s.PostID]++
	}
	return out
}

// Evaluator reads recent reports and applies the policy.
type Evaluator struct {
	reports app.ReportService
	policy  Policy
	now     func() time.Time
}

// NewEvaluator creates an evaluator. A nil clock uses time.Now.
func NewEvaluator(reports app.ReportService, policy Policy, now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{reports: reports, policy: policy, now: now}
}

// Policy returns the rule in force.
func (e *Evaluator) Policy() Policy { return e.policy }

// Counts returns recent report counts for postIDs. A failed read fails open:
// it is logged and every post counts zero reports.
func (e *Evaluator) Counts(ctx context.Context, postIDs []string) map[string]int {
	if len(postIDs) == 0 {
		return map[string]int{}
	}
	since := e.now().Add(-e.policy.Window)
	stamps, err := e.reports.QueryReports(ctx, postIDs, since)
	if err != nil {
		logging.Warn("report counts unavailable, nothing hidden", "posts", len(postIDs), "err", err)
		return map[string]int{}
	}
	return CountRecent(stamps, since)
}

// Evaluate maps each post to its hidden flag.
func (e *Evaluator) Evaluate(ctx context.Context, postIDs []string) map[string]bool {
	return e.policy.Decide(postIDs, e.Counts(ctx, postIDs))
}
