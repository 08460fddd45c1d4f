package feed

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
)

func TestReact_OptimisticThenConfirmed(t *testing.T) {
	m, store := newTestModel(t, makePosts(3)...)
	m = loaded(t, m)

	m, cmd := press(m, "1")
	if cmd == nil {
		t.Fatalf("expected remote write")
	}
	p, _ := m.state.Post("p00")
	if p.Reactions.Count(domain.ReactionLOL) != 1 {
		t.Fatalf("reaction should land before the server answers")
	}
	if !m.state.Pending("p00") {
		t.Fatalf("post should be marked pending")
	}

	m = drain(t, m, cmd)
	if m.state.Pending("p00") {
		t.Fatalf("pending flag should clear once settled")
	}
	if got := storedPost(t, store, "p00").Reactions.Count(domain.ReactionLOL); got != 1 {
		t.Fatalf("expected stored lol=1, got %d", got)
	}
	if !m.engine.Reacted("p00", domain.ReactionLOL) {
		t.Fatalf("device marker should persist")
	}
}

func TestReact_RollbackOnRemoteFailure(t *testing.T) {
	m, store := newTestModel(t, makePosts(3)...)
	m = loaded(t, m)
	before, _ := m.state.Post("p00")

	m, cmd := press(m, "2")
	store.Fail = errors.New("timeout")
	m = drain(t, m, cmd)

	after, _ := m.state.Post("p00")
	if after.Reactions != before.Reactions || after.Score != before.Score {
		t.Fatalf("failed reaction should restore counters exactly, got %+v", after.Reactions)
	}
	if !m.noticeErr {
		t.Fatalf("failure should surface a notice")
	}
	if m.engine.Reacted("p00", domain.ReactionCringe) {
		t.Fatalf("marker should be cleared so the user can retry")
	}
}

func TestReact_ReloadAfterCommitResyncsCounters(t *testing.T) {
	m, store := newTestModel(t, makePosts(3)...)
	m = loaded(t, m)

	m, cmd := press(m, "1")
	settled := cmd() // the write is stored, the answer not yet handled

	m.state = feedstate.Reduce(m.state, feedstate.Reloaded{})
	m = drain(t, m, m.fetchPage(m.state.Request(false)))
	p, _ := m.state.Post("p00")
	if p.Reactions.Count(domain.ReactionLOL) != 2 {
		t.Fatalf("reloaded copy plus pending delta should read 2, got %d", p.Reactions.Count(domain.ReactionLOL))
	}

	m, cmd = m.Update(settled)
	if cmd == nil {
		t.Fatalf("confirmed reaction on a reloaded copy should refetch the post")
	}
	m = drain(t, m, cmd)
	p, _ = m.state.Post("p00")
	want := storedPost(t, store, "p00")
	if p.Reactions != want.Reactions || p.Score != want.Score {
		t.Fatalf("counters should match the server, got %+v score=%d want %+v score=%d",
			p.Reactions, p.Score, want.Reactions, want.Score)
	}
	if m.state.Unsynced["p00"] {
		t.Fatalf("resync should clear the mark")
	}
}

func TestReact_SecondTapRefused(t *testing.T) {
	m, _ := newTestModel(t, makePosts(3)...)
	m = loaded(t, m)

	m, cmd := press(m, "3")
	m = drain(t, m, cmd)
	m, cmd = press(m, "3")
	if cmd != nil {
		t.Fatalf("duplicate reaction should not reach the server")
	}
	p, _ := m.state.Post("p00")
	if p.Reactions.Count(domain.ReactionWTF) != 1 {
		t.Fatalf("duplicate reaction should not count, got %d", p.Reactions.Count(domain.ReactionWTF))
	}
	if !m.noticeErr {
		t.Fatalf("expected an explanation")
	}
}

func TestComment_PlaceholderThenReconciled(t *testing.T) {
	m, store := newTestModel(t, makePosts(3)...)
	m = loaded(t, m)

	m, cmd := m.Update(SubmitCommentMsg{PostID: "p00", Content: "  so   cringe  "})
	th := m.state.Thread("p00")
	if len(th.Comments) != 1 || !th.Comments[0].IsPlaceholder() {
		t.Fatalf("expected one placeholder, got %+v", th.Comments)
	}
	if th.Comments[0].Content != "so cringe" {
		t.Fatalf("content should be normalized, got %q", th.Comments[0].Content)
	}
	if m.state.CommentCounts["p00"] != 1 {
		t.Fatalf("count should move optimistically")
	}

	m = drain(t, m, cmd)
	th = m.state.Thread("p00")
	if len(th.Comments) != 1 || th.Comments[0].IsPlaceholder() {
		t.Fatalf("placeholder should be replaced by the stored record")
	}
	if m.state.CommentCounts["p00"] != 1 {
		t.Fatalf("count should stay at 1, got %d", m.state.CommentCounts["p00"])
	}
	page, err := store.QueryComments(t.Context(), "p00", 0, 10)
	if err != nil || len(page.Comments) != 1 {
		t.Fatalf("expected stored comment, got %v %v", page, err)
	}
	if m.notice != "" {
		t.Fatalf("sending notice should clear, got %q", m.notice)
	}
}

func TestComment_EmptyRejectedLocally(t *testing.T) {
	m, _ := newTestModel(t, makePosts(1)...)
	m = loaded(t, m)

	m, cmd := m.Update(SubmitCommentMsg{PostID: "p00", Content: " \n\t "})
	if cmd != nil {
		t.Fatalf("empty comment should not be sent")
	}
	if len(m.state.Thread("p00").Comments) != 0 || m.state.CommentCounts["p00"] != 0 {
		t.Fatalf("empty comment should not touch state")
	}
	if !m.noticeErr {
		t.Fatalf("expected validation notice")
	}
}

func TestComment_RollbackOnFailure(t *testing.T) {
	m, store := newTestModel(t, makePosts(1)...)
	m = loaded(t, m)

	m, cmd := m.Update(SubmitCommentMsg{PostID: "p00", Content: "ratio"})
	store.Fail = errors.New("503")
	m = drain(t, m, cmd)

	if len(m.state.Thread("p00").Comments) != 0 {
		t.Fatalf("failed comment should be removed")
	}
	if m.state.CommentCounts["p00"] != 0 {
		t.Fatalf("count should be restored, got %d", m.state.CommentCounts["p00"])
	}
	if !m.noticeErr {
		t.Fatalf("expected failure notice")
	}
}

func TestComment_RateLimitedOnSamePost(t *testing.T) {
	m, _ := newTestModel(t, makePosts(1)...)
	m = loaded(t, m)

	for _, text := range []string{"one", "two"} {
		var cmd tea.Cmd
		m, cmd = m.Update(SubmitCommentMsg{PostID: "p00", Content: text})
		if cmd == nil {
			t.Fatalf("comment %q refused: %s", text, m.notice)
		}
		m = drain(t, m, cmd)
	}
	m, cmd := m.Update(SubmitCommentMsg{PostID: "p00", Content: "three"})
	if cmd != nil {
		t.Fatalf("third comment within the window should be refused")
	}
	if !m.noticeErr || !strings.HasPrefix(m.notice, "Slow down") {
		t.Fatalf("expected rate limit notice, got %q", m.notice)
	}
	if m.state.CommentCounts["p00"] != 2 {
		t.Fatalf("expected 2 comments, got %d", m.state.CommentCounts["p00"])
	}
}

func TestReport_HidesPostAtThreshold(t *testing.T) {
	m, store := newTestModel(t, makePosts(3)...)
	for _, fp := range []string{"a", "b"} {
		store.SeedReports(domain.Report{PostID: "p00", ReporterFingerprint: fp, CreatedAt: testNow.Add(-time.Hour)})
	}
	m = loaded(t, m)
	if m.state.ReportCounts["p00"] != 2 || !m.state.IsVisible("p00") {
		t.Fatalf("two reports should not hide the post")
	}

	m, cmd := press(m, "!")
	if cmd != nil || !m.confirmReport {
		t.Fatalf("report should ask for confirmation first")
	}
	m, _ = press(m, "y")
	if !m.reportReasoning || m.state.ReportCounts["p00"] != 2 {
		t.Fatalf("confirming should ask for an optional reason before sending")
	}
	m, cmd = press(m, "enter")
	if m.state.ReportCounts["p00"] != 3 {
		t.Fatalf("report count should move optimistically")
	}
	if !m.state.IsVisible("p00") {
		t.Fatalf("hiding waits for the server to accept the report")
	}

	m = drain(t, m, cmd)
	if m.state.IsVisible("p00") {
		t.Fatalf("third report should hide the post")
	}
	if m.notice != "Reported. The community hid this post." {
		t.Fatalf("unexpected notice %q", m.notice)
	}
	if !strings.Contains(m.View(), "Hidden by the community") {
		t.Fatalf("card should be masked")
	}

	m, _ = press(m, "x")
	if !m.state.IsVisible("p00") {
		t.Fatalf("show anyway should reveal the post")
	}
	if !strings.Contains(m.View(), "hidden, shown anyway") {
		t.Fatalf("revealed card should stay marked")
	}
}

func TestReport_CancelledByOtherKey(t *testing.T) {
	m, _ := newTestModel(t, makePosts(1)...)
	m = loaded(t, m)

	m, _ = press(m, "!")
	m, cmd := press(m, "n")
	if cmd != nil || m.confirmReport {
		t.Fatalf("any key other than y should cancel")
	}
	if m.state.ReportCounts["p00"] != 0 {
		t.Fatalf("cancelled report should not count")
	}
}

func TestReport_SendsTypedReason(t *testing.T) {
	m, store := newTestModel(t, makePosts(1)...)
	m = loaded(t, m)

	m, _ = press(m, "!")
	m, _ = press(m, "y")
	if !m.Capturing() || !strings.Contains(m.View(), "Reason (optional)") {
		t.Fatalf("reason input should own the keyboard")
	}
	m.reasonInput.SetValue("  spam   bot ")
	m, cmd := press(m, "enter")
	if m.reportReasoning || cmd == nil {
		t.Fatalf("enter should send the report")
	}
	m = drain(t, m, cmd)

	reports := store.Reports()
	if len(reports) != 1 || reports[0].PostID != "p00" || reports[0].Reason != "spam bot" {
		t.Fatalf("expected one report with a normalized reason, got %+v", reports)
	}
}

func TestReport_EscOnReasonCancels(t *testing.T) {
	m, store := newTestModel(t, makePosts(1)...)
	m = loaded(t, m)

	m, _ = press(m, "!")
	m, _ = press(m, "y")
	m, cmd := press(m, "esc")
	if cmd != nil || m.reportReasoning || m.Capturing() {
		t.Fatalf("esc should close the reason input without sending")
	}
	if m.notice != "Report cancelled." || m.state.ReportCounts["p00"] != 0 || len(store.Reports()) != 0 {
		t.Fatalf("cancelled report should leave no trace, notice=%q", m.notice)
	}
}

func TestReport_RollbackOnFailure(t *testing.T) {
	m, store := newTestModel(t, makePosts(1)...)
	m = loaded(t, m)

	m, _ = press(m, "!")
	m, _ = press(m, "y")
	m, cmd := press(m, "enter")
	store.Fail = errors.New("down")
	m = drain(t, m, cmd)

	if m.state.ReportCounts["p00"] != 0 {
		t.Fatalf("failed report should be reverted, got %d", m.state.ReportCounts["p00"])
	}
	if !m.noticeErr {
		t.Fatalf("expected failure notice")
	}
}
