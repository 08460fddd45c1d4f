package engage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

func TestEvaluator_Threshold(t *testing.T) {
	clock := newClock()
	now := clock.Now()
	stamps := []domain.ReportStamp{
		{PostID: "a", CreatedAt: now.Add(-time.Hour)},
		{PostID: "a", CreatedAt: now.Add(-2 * time.Hour)},
		{PostID: "a", CreatedAt: now.Add(-30 * time.Hour)},
		{PostID: "b", CreatedAt: now.Add(-time.Minute)},
		{PostID: "b", CreatedAt: now.Add(-2 * time.Minute)},
		{PostID: "b", CreatedAt: now.Add(-3 * time.Minute)},
	}
	ev := NewEvaluator(&stubRemote{stamps: stamps}, DefaultPolicy(), clock.Now)

	got := ev.Evaluate(context.Background(), []string{"a", "b", "c"})
	assert.Equal(t, map[string]bool{"a": false, "b": true, "c": false}, got)
}

func TestEvaluator_FailsOpen(t *testing.T) {
	ev := NewEvaluator(&stubRemote{readErr: errors.New("timeout")}, DefaultPolicy(), nil)
	got := ev.Evaluate(context.Background(), []string{"a"})
	assert.Equal(t, map[string]bool{"a": false}, got)
}

func TestPolicy_ZeroThresholdNeverHides(t *testing.T) {
	p := Policy{Threshold: 0, Window: time.Hour}
	assert.False(t, p.Hidden(100))
}
