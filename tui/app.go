package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/engage"
	"github.com/mathfra-rgb/cancelme-mvp/infra/config"
	"github.com/mathfra-rgb/cancelme-mvp/infra/logging"
	"github.com/mathfra-rgb/cancelme-mvp/tui/common"
	"github.com/mathfra-rgb/cancelme-mvp/tui/compose"
	"github.com/mathfra-rgb/cancelme-mvp/tui/feed"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Feed       feed.Deps
	Publisher  *engage.Publisher
	Editor     app.Editor // nil disables the $EDITOR flows
	KV         app.KV     // UI preferences
	UI         config.UIState
	FileLoader compose.FileLoader // nil reads from disk
}

type activeView int

const (
	feedView activeView = iota
	composeView
)

// publishedMsg carries the result of a publish started from the composer.
type publishedMsg struct {
	post domain.Post
	err  error
}

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps    Deps
	active  activeView
	feed    feed.Model
	compose compose.Model
	keys    common.KeyMap
	ui      config.UIState

	naming    bool
	nameInput textinput.Model

	status    string
	statusErr bool
}

// NewApp creates the root model with all dependencies wired. The saved
// sort, tag and theme are applied before the first frame.
func NewApp(deps Deps) App {
	common.ApplyTheme(deps.UI.Theme)
	if deps.Feed.Filter.Sort == "" {
		deps.Feed.Filter.Sort = deps.UI.Sort
		deps.Feed.Filter.Tag = deps.UI.Tag
	}

	ni := textinput.New()
	ni.Placeholder = "leave empty to stay anonymous"
	ni.CharLimit = domain.MaxDisplayNameLength
	ni.Width = 40
	ni.Prompt = "Display name: "

	return App{
		deps:      deps,
		active:    feedView,
		feed:      feed.New(deps.Feed),
		keys:      common.DefaultKeyMap(),
		ui:        deps.UI,
		nameInput: ni,
	}
}

// Init delegates to the feed.
func (a App) Init() tea.Cmd {
	return a.feed.Init()
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if a.naming {
			return a.handleNameKey(msg)
		}
		if a.active == feedView {
			a.status = ""
		}

	case tea.WindowSizeMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		// The feed spinner keeps ticking while the composer is open.
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd

	case feed.OpenComposerMsg:
		a.status = ""
		if msg.UseEditor && a.deps.Editor != nil {
			a.compose = compose.NewPostEditor(a.deps.Editor)
		} else {
			a.compose = compose.NewPostInline()
		}
		if a.deps.FileLoader != nil {
			a.compose = a.compose.WithFileLoader(a.deps.FileLoader)
		}
		a.active = composeView
		return a, a.compose.Init()

	case feed.OpenCommentEditorMsg:
		if a.deps.Editor == nil {
			a.setStatus("No editor configured. Set $EDITOR or use c.", true)
			return a, nil
		}
		a.status = ""
		a.compose = compose.NewCommentEditor(a.deps.Editor, msg.PostID)
		a.active = composeView
		return a, a.compose.Init()

	case compose.DoneMsg:
		return a.handleComposeDone(msg)

	case publishedMsg:
		if msg.err != nil {
			logging.Warn("publishing post", "err", msg.err)
			a.compose = a.compose.Failed(msg.err)
			return a, nil
		}
		logging.Info("post published", "id", msg.post.ID)
		a.active = feedView
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(feed.PostPublishedMsg{Post: msg.post})
		return a, cmd

	case feed.PrefsChangedMsg:
		a.ui.Sort = msg.Filter.Sort
		a.ui.Tag = msg.Filter.Tag
		a.saveUI()
		return a, nil

	case feed.ToggleThemeMsg:
		if a.ui.Theme == config.ThemeLight {
			a.ui.Theme = config.ThemeDark
		} else {
			a.ui.Theme = config.ThemeLight
		}
		common.ApplyTheme(a.ui.Theme)
		a.saveUI()
		return a, nil

	case feed.EditNameMsg:
		a.naming = true
		a.status = ""
		a.nameInput.SetValue(a.identityName())
		a.nameInput.CursorEnd()
		cmd := a.nameInput.Focus()
		return a, cmd
	}

	// Delegate to the active sub-model.
	switch a.active {
	case composeView:
		var cmd tea.Cmd
		a.compose, cmd = a.compose.Update(msg)
		return a, cmd
	}
	if a.naming {
		var cmd tea.Cmd
		a.nameInput, cmd = a.nameInput.Update(msg)
		return a, cmd
	}
	var cmd tea.Cmd
	a.feed, cmd = a.feed.Update(msg)
	return a, cmd
}

func (a App) handleComposeDone(msg compose.DoneMsg) (App, tea.Cmd) {
	switch {
	case msg.Cancelled:
		a.active = feedView
		a.setStatus("Cancelled.", false)
		return a, nil

	case msg.Err != nil:
		a.active = feedView
		logging.Warn("composer failed", "err", msg.Err)
		a.setStatus(domain.UserMessage(msg.Err), true)
		return a, nil

	case msg.PostID != "":
		a.active = feedView
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(feed.SubmitCommentMsg{PostID: msg.PostID, Content: msg.Comment})
		return a, cmd
	}

	pub := a.deps.Publisher
	draft := msg.Draft
	return a, func() tea.Msg {
		p, err := pub.Publish(context.Background(), draft)
		return publishedMsg{post: p, err: err}
	}
}

func (a App) handleNameKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.naming = false
		a.nameInput.Blur()
		return a, nil
	case tea.KeyEnter:
		id := a.identity()
		if id == nil {
			a.naming = false
			return a, nil
		}
		name := strings.TrimSpace(a.nameInput.Value())
		if err := id.SetDisplayName(name); err != nil {
			a.setStatus(domain.UserMessage(err), true)
			return a, nil
		}
		a.naming = false
		a.nameInput.Blur()
		if name == "" {
			a.setStatus("You are anonymous now.", false)
		} else {
			a.setStatus("You are now "+name+".", false)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	return a, cmd
}

func (a App) identity() *engage.Identity {
	if a.deps.Feed.Engine == nil {
		return nil
	}
	return a.deps.Feed.Engine.Identity()
}

func (a App) identityName() string {
	if id := a.identity(); id != nil {
		return id.DisplayName()
	}
	return ""
}

func (a *App) saveUI() {
	if a.deps.KV == nil {
		return
	}
	if err := config.SaveUIState(a.deps.KV, a.ui); err != nil {
		logging.Warn("saving ui state", "err", err)
	}
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case feedView:
		s = a.feed.View()
	case composeView:
		s = a.compose.View()
	}

	if a.naming {
		s += "\n  " + a.nameInput.View() + "\n" +
			common.TimestampStyle.Render("  enter: save • esc: cancel")
	}

	if a.status != "" {
		style := common.StatusBarStyle
		if a.statusErr {
			style = common.ErrorStyle
		}
		s += "\n" + style.Render(a.status)
	}
	return s
}
