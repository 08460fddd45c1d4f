package compose

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/engage"
	"github.com/mathfra-rgb/cancelme-mvp/infra/media"
)

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

type target int

const (
	targetPost target = iota
	targetComment
)

// form fields in focus order
const (
	fieldCaption = iota
	fieldHashtags
	fieldMediaURL
	fieldFile
	fieldCount
)

// --- Messages ---

// DoneMsg is sent when composing is complete. Cancelled is set when the user
// backed out; Draft is filled for posts, Comment and PostID for comments.
type DoneMsg struct {
	Draft     engage.Draft
	PostID    string
	Comment   string
	Cancelled bool
	Err       error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// fileLoadedMsg carries the result of reading the selected file.
type fileLoadedMsg struct {
	path   string
	upload app.Upload
	err    error
}

// FileLoader reads and gates a local file for upload.
type FileLoader func(path string) (app.Upload, error)

// --- Model ---

// Model holds the state for the compose view.
type Model struct {
	mode   mode
	target target
	editor app.Editor
	load   FileLoader

	postID  string
	caption textarea.Model
	inputs  [fieldCount - 1]textinput.Model
	focus   int

	// file is kept across failed submissions so the user does not have to
	// pick it again.
	file     *app.Upload
	filePath string

	status     string
	err        error
	submitting bool
	tmpPath    string
}

// NewPostEditor creates a post composer that opens $EDITOR for the caption
// first, then shows the form with the caption filled in.
func NewPostEditor(ed app.Editor) Model {
	m := NewPostInline()
	m.mode = editorMode
	m.editor = ed
	m.status = "Opening editor..."
	return m
}

// NewPostInline creates a post composer with inline fields.
func NewPostInline() Model {
	ta := textarea.New()
	ta.Placeholder = "Spill it. Who deserves to be cancelled today?"
	ta.CharLimit = 2000
	ta.SetWidth(72)
	ta.SetHeight(6)
	ta.Focus()

	m := Model{
		mode:    inlineMode,
		target:  targetPost,
		load:    media.LoadFile,
		caption: ta,
	}
	placeholders := [fieldCount - 1]string{
		"#tags, comma or space separated",
		"https:// image or YouTube link",
		"path to a local image or video",
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 512
		ti.Width = 68
		m.inputs[i] = ti
	}
	return m
}

// NewCommentEditor creates a composer that writes one comment on postID in
// $EDITOR.
func NewCommentEditor(ed app.Editor, postID string) Model {
	return Model{
		mode:   editorMode,
		target: targetComment,
		editor: ed,
		postID: postID,
		status: "Opening editor...",
	}
}

// WithFileLoader swaps the file reader, mainly for tests.
func (m Model) WithFileLoader(load FileLoader) Model {
	m.load = load
	return m
}

// Init returns the initial command for the active mode.
func (m Model) Init() tea.Cmd {
	switch m.mode {
	case editorMode:
		return m.launchEditor(m.caption.Value())
	case inlineMode:
		return textarea.Blink
	}
	return nil
}

// launchEditor prepares the editor command and uses tea.ExecProcess so the
// editor gets the terminal while Bubble Tea is suspended.
func (m Model) launchEditor(content string) tea.Cmd {
	if m.editor == nil {
		return done(DoneMsg{Err: fmt.Errorf("no editor configured")})
	}
	cmd, tmpPath, err := m.editor.Cmd(content)
	if err != nil {
		return done(DoneMsg{Err: fmt.Errorf("preparing editor: %w", err)})
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Submitting reports whether a submission is in flight.
func (m Model) Submitting() bool { return m.submitting }

// Failed returns the composer after a rejected submission: the error is
// shown inline and every field, including the loaded file, is kept.
func (m Model) Failed(err error) Model {
	m.submitting = false
	m.err = err
	m.status = ""
	return m
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case editorFinishedMsg:
		return m.handleEditorFinished(msg)

	case fileLoadedMsg:
		if msg.path != strings.TrimSpace(m.inputs[fieldFile-1].Value()) {
			return m, nil
		}
		if msg.err != nil {
			m.submitting = false
			m.err = msg.err
			return m, nil
		}
		u := msg.upload
		m.file = &u
		m.filePath = msg.path
		return m.submit()

	case tea.KeyMsg:
		if m.mode != inlineMode {
			break
		}
		return m.handleKey(msg)
	}

	if m.mode == inlineMode {
		return m.updateFocused(msg)
	}
	return m, nil
}

func (m Model) handleEditorFinished(msg editorFinishedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		return m, done(DoneMsg{Err: fmt.Errorf("editor: %w", msg.err)})
	}
	content, err := m.editor.ReadContent(msg.tmpPath)
	if err != nil {
		return m, done(DoneMsg{Err: err})
	}

	if m.target == targetComment {
		if content == "" {
			return m, done(DoneMsg{PostID: m.postID, Cancelled: true})
		}
		return m, done(DoneMsg{PostID: m.postID, Comment: content})
	}

	// Posts continue in the form so tags and media can be added.
	m.mode = inlineMode
	m.status = ""
	m.caption.SetValue(content)
	m.setFocus(fieldCaption)
	return m, textarea.Blink
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.submitting {
		if msg.String() == "esc" {
			return m, done(DoneMsg{Cancelled: true})
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, done(DoneMsg{Cancelled: true})

	case "ctrl+d":
		return m.submit()

	case "tab":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil

	case "shift+tab":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil

	case "ctrl+e":
		if m.editor != nil && m.focus == fieldCaption {
			m.mode = editorMode
			m.status = "Opening editor..."
			return m, m.launchEditor(m.caption.Value())
		}
		return m, nil
	}

	m.err = nil
	return m.updateFocused(msg)
}

// submit emits the draft, loading the selected file first when it changed.
func (m Model) submit() (Model, tea.Cmd) {
	path := strings.TrimSpace(m.inputs[fieldFile-1].Value())
	if path == "" {
		m.file, m.filePath = nil, ""
	} else if m.file == nil || path != m.filePath {
		m.submitting = true
		m.status = "Reading file..."
		load := m.load
		return m, func() tea.Msg {
			u, err := load(path)
			return fileLoadedMsg{path: path, upload: u, err: err}
		}
	}

	d := m.Draft()
	if d.Empty() {
		m.err = &domain.ValidationError{Field: "post", Err: domain.ErrEmptyPost}
		return m, nil
	}
	m.submitting = true
	m.err = nil
	m.status = "Publishing..."
	return m, done(DoneMsg{Draft: d})
}

// Draft collects the current field values.
func (m Model) Draft() engage.Draft {
	return engage.Draft{
		Caption:  m.caption.Value(),
		Hashtags: m.inputs[fieldHashtags-1].Value(),
		MediaURL: m.inputs[fieldMediaURL-1].Value(),
		File:     m.file,
	}
}

func (m *Model) setFocus(field int) {
	m.focus = field
	m.caption.Blur()
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if field == fieldCaption {
		m.caption.Focus()
		return
	}
	m.inputs[field-1].Focus()
}

func (m Model) updateFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == fieldCaption {
		m.caption, cmd = m.caption.Update(msg)
		return m, cmd
	}
	m.inputs[m.focus-1], cmd = m.inputs[m.focus-1].Update(msg)
	return m, cmd
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
