package feed

import (
	"context"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mathfra-rgb/cancelme-mvp/engage"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
)

func (m Model) fetchPage(req feedstate.PageRequest) tea.Cmd {
	composer := m.composer
	filter := m.state.Filter
	return func() tea.Msg {
		page, err := composer.FetchPage(context.Background(), req.Offset, 0, filter.Sort, filter.Tag)
		return PageLoadedMsg{Request: req, Page: page, Err: err}
	}
}

func (m Model) fetchFollowUp(ids []string) tea.Cmd {
	if len(ids) == 0 {
		return nil
	}
	engine := m.engine
	gen := m.state.Generation
	return func() tea.Msg {
		return FollowUpLoadedMsg{Generation: gen, FollowUp: engine.FetchFollowUp(context.Background(), ids)}
	}
}

func (m Model) fetchComments(postID string, offset int) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		return CommentsMsg{Action: engine.FetchComments(context.Background(), postID, offset)}
	}
}

func (m Model) fetchPost(id string) tea.Cmd {
	if m.feed == nil {
		return nil
	}
	feed := m.feed
	return func() tea.Msg {
		p, err := feed.GetPost(context.Background(), id)
		return PostLoadedMsg{Post: p, Err: err}
	}
}

// runPending performs the remote half of an optimistic mutation.
func runPending(ctx context.Context, p *engage.Pending) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		return SettledMsg{Outcome: p.Run(ctx)}
	}
}

func copyToClipboard(link string) tea.Cmd {
	return func() tea.Msg {
		return ShareCopiedMsg{URL: link, Err: clipboard.WriteAll(link)}
	}
}

func openURL(rawURL string) tea.Cmd {
	return func() tea.Msg {
		if !isSafeExternalURL(rawURL) {
			return nil
		}
		_ = browserCommand(rawURL).Start()
		return nil
	}
}

func browserCommand(u string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", u)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	}
	return exec.Command("xdg-open", u)
}

func isSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
