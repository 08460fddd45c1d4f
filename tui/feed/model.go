package feed

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/engage"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
	"github.com/mathfra-rgb/cancelme-mvp/ranking"
	"github.com/mathfra-rgb/cancelme-mvp/tui/common"
)

const prefetchTrigger = 3

// Deps wires the feed model.
type Deps struct {
	Engine   *engage.Engine
	Composer *ranking.Composer
	Feed     app.FeedService
	SiteURL  string
	Filter   feedstate.Filter
	Now      func() time.Time
}

// Model holds the state for the feed view.
type Model struct {
	engine   *engage.Engine
	composer *ranking.Composer
	feed     app.FeedService
	siteURL  string
	now      func() time.Time
	keys     common.KeyMap
	spinner  spinner.Model

	state feedstate.State

	cursor     int
	startIndex int
	width      int
	height     int

	showDetail   bool
	detailID     string
	detailScroll int

	showViewer  bool
	viewerIndex int

	showAllHints  bool
	confirmReport bool
	reportTarget  string
	// After confirming, an optional reason is typed before the report is sent.
	reportReasoning bool
	reasonInput     textinput.Model

	commenting   bool
	commentInput textinput.Model
	tagging      bool
	tagInput     textinput.Model
	popularIdx   int

	notice    string
	noticeErr bool

	// View increments run under viewCtx; leaving the detail view or the
	// viewer cancels the ones still in flight.
	viewCtx    context.Context
	viewCancel context.CancelFunc
}

// New creates a feed model. Nothing is fetched until Init.
func New(d Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(common.CurrentPalette().Accent)

	if d.Now == nil {
		d.Now = time.Now
	}

	ci := textinput.New()
	ci.Placeholder = "Say something nice (or not)"
	ci.CharLimit = domain.MaxCommentLength
	ci.Width = 60

	ti := textinput.New()
	ti.Placeholder = "tag"
	ti.Prompt = "#"
	ti.CharLimit = 40
	ti.Width = 30

	ri := textinput.New()
	ri.Prompt = "Reason (optional): "
	ri.Placeholder = "spam, harassment, ..."
	ri.CharLimit = 200
	ri.Width = 50

	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		engine:       d.Engine,
		composer:     d.Composer,
		feed:         d.Feed,
		siteURL:      d.SiteURL,
		now:          d.Now,
		keys:         common.DefaultKeyMap(),
		spinner:      s,
		state:        feedstate.New(d.Filter),
		commentInput: ci,
		tagInput:     ti,
		reasonInput:  ri,
		popularIdx:   -1,
		viewCtx:      ctx,
		viewCancel:   cancel,
	}
}

// Init starts the spinner and loads the first page.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchPage(m.state.Request(false)))
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

// State exposes the current feed state.
func (m Model) State() feedstate.State { return m.state }

// Filter is the active sort mode and tag.
func (m Model) Filter() feedstate.Filter { return m.state.Filter }

// Cursor is the index of the selected post.
func (m Model) Cursor() int { return m.cursor }

// SelectedPost returns the post under the cursor.
func (m Model) SelectedPost() (domain.Post, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Posts) {
		return domain.Post{}, false
	}
	return m.state.Posts[m.cursor], true
}

// Capturing reports whether a text input owns the keyboard.
func (m Model) Capturing() bool {
	return m.commenting || m.tagging || m.confirmReport || m.reportReasoning
}

// InDetail reports whether the detail view or the viewer is open.
func (m Model) InDetail() bool { return m.showDetail || m.showViewer }

// Reload restarts the current query from the first page.
func (m Model) Reload() (Model, tea.Cmd) {
	m.state = feedstate.Reduce(m.state, feedstate.Reloaded{})
	return m, m.fetchPage(m.state.Request(false))
}

// SetNotice shows a one-line message under the feed.
func (m Model) SetNotice(text string, isErr bool) Model {
	m.notice = text
	m.noticeErr = isErr
	return m
}

func (m *Model) setError(err error) {
	m.notice = domain.UserMessage(err)
	m.noticeErr = true
}

// resetViewContext abandons view increments still in flight.
func (m *Model) resetViewContext() {
	if m.viewCancel != nil {
		m.viewCancel()
	}
	m.viewCtx, m.viewCancel = context.WithCancel(context.Background())
}
