package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phravins/notepane/assets"
	"github.com/phravins/notepane/internal/debug"
	"github.com/phravins/notepane/internal/host"
	"github.com/phravins/notepane/internal/render"
	"github.com/phravins/notepane/internal/session"
	"github.com/phravins/notepane/internal/watch"
)

type focus int

const (
	focusList focus = iota
	focusEditor
	focusPreview
)

type promptKind int

const (
	promptNone promptKind = iota
	promptDirectory
	promptFile
	promptFilter
)

const (
	minListWidth = 24
	headerHeight = 1
	statusHeight = 1
)

// Options wires the model to the rest of the application.
type Options struct {
	Worker   *session.Worker
	Bridge   *host.Bridge
	Watcher  *watch.DirectoryWatcher // nil disables refresh on change
	Renderer *render.Renderer
	// PreviewWidth fixes the markdown wrap width; 0 follows the pane.
	PreviewWidth int
	// Start is the result of the startup directory load, if any.
	Start <-chan session.Result
}

// Model is the notepane screen: note list, editor and preview.
type Model struct {
	worker   *session.Worker
	bridge   *host.Bridge
	watcher  *watch.DirectoryWatcher
	renderer *render.Renderer
	start    <-chan session.Result
	stop     chan struct{}

	snap session.Snapshot

	focus   focus
	list    listPane
	editor  textarea.Model
	preview viewport.Model

	prompt     textinput.Model
	promptKind promptKind

	showHelp   bool
	helpView   viewport.Model
	sourceView bool

	status      string
	statusLevel session.Level

	previewWidth int
	width        int
	height       int
	quitting     bool
}

// Stop ends the background listeners started by Init.
func (m Model) Stop() {
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
}

func New(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Open a directory with ctrl+o"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Blur()

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorCyan)

	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.New(render.DefaultStyle)
	}

	m := Model{
		worker:       opts.Worker,
		bridge:       opts.Bridge,
		watcher:      opts.Watcher,
		renderer:     renderer,
		start:        opts.Start,
		stop:         make(chan struct{}),
		snap:         session.Snapshot{ActiveIndex: -1},
		focus:        focusList,
		editor:       ta,
		preview:      viewport.New(40, 20),
		prompt:       ti,
		helpView:     viewport.New(80, 20),
		previewWidth: opts.PreviewWidth,
		width:        100,
		height:       30,
		status:       "ctrl+o open a directory, ? help",
	}
	m.updateLayout()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, waitForNotice(m.bridge.Notices(), m.stop)}
	if m.start != nil {
		cmds = append(cmds, waitForResult(m.start, true))
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher, m.stop))
	}
	return tea.Batch(cmds...)
}

func (m Model) submit(op session.Op, reload bool) tea.Cmd {
	return waitForResult(m.worker.Submit(op), reload)
}

func (m Model) editable() bool {
	return m.snap.Phase == session.PhaseEditing || m.snap.Phase == session.PhaseDetached
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			debug.Log(debug.UI, "op finished with %v", msg.err)
		}
		m.applySnapshot(msg.snap, msg.reload)
		m.watchDirectory()
		return m, nil

	case noticeMsg:
		n := session.Notice(msg)
		m.setStatus(n.Level, n.String())
		return m, waitForNotice(m.bridge.Notices(), m.stop)

	case dirChangedMsg:
		cmds := []tea.Cmd{waitForChange(m.watcher, m.stop)}
		if string(msg) == m.snap.Directory {
			cmds = append(cmds, m.submit(refreshOp(m.snap.Directory), false))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		var cmd tea.Cmd
		if m.showHelp {
			m.helpView, cmd = m.helpView.Update(msg)
			return m, cmd
		}
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and other internal messages.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)
	if m.promptKind != promptNone {
		m.prompt, cmd = m.prompt.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "esc", "?", "f1":
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}

	if m.promptKind != promptNone {
		return m.handlePromptKey(msg)
	}

	switch msg.String() {
	case "f1":
		return m.openHelp(), nil
	case "tab":
		m.setFocus((m.focus + 1) % 3)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + 2) % 3)
		return m, nil
	case "ctrl+s":
		return m, waitForResult(m.bridge.OnSaveRequested(), false)
	case "ctrl+o":
		return m.openPrompt(promptDirectory, "directory", m.snap.Directory)
	case "ctrl+f":
		return m.openPrompt(promptFile, "file to open", "")
	case "ctrl+p":
		m.sourceView = !m.sourceView
		m.renderPreview()
		return m, nil
	case "ctrl+r":
		if !m.snap.HasDirectory() {
			return m, nil
		}
		return m, m.submit(refreshOp(m.snap.Directory), false)
	}

	switch m.focus {
	case focusList:
		return m.handleListKey(msg)
	case focusPreview:
		if msg.String() == "?" {
			return m.openHelp(), nil
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	default:
		return m.handleEditorKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?":
		return m.openHelp(), nil
	case "/":
		return m.openPrompt(promptFilter, "filter", m.list.filter)
	case "esc":
		if m.list.filter != "" {
			m.list.filter = ""
			m.list.update(m.snap.Listing)
		}
	case "up", "k":
		m.list.move(-1)
	case "down", "j":
		m.list.move(1)
	case "home", "g":
		m.list.cursor = 0
	case "end", "G":
		m.list.cursor = len(m.list.visible) - 1
		m.list.clamp()
	case "enter":
		idx, ok := m.list.selected()
		if !ok {
			return m, nil
		}
		path := m.snap.Listing[idx].Path
		if idx == m.snap.ActiveIndex {
			m.setFocus(focusEditor)
			return m, nil
		}
		return m, m.submit(selectOp(path), true)
	}
	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.editable() {
		return m, nil
	}
	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	after := m.editor.Value()
	if after == before {
		return m, cmd
	}
	m.renderPreview()
	return m, tea.Batch(cmd, m.submit(editOp(m.snap.Path, after), false))
}

func (m Model) openPrompt(kind promptKind, placeholder, value string) (tea.Model, tea.Cmd) {
	m.promptKind = kind
	m.prompt.Placeholder = placeholder
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.editor.Blur()
	m.updateLayout()
	return m, m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.promptKind = promptNone
	m.prompt.Blur()
	m.prompt.SetValue("")
	m.setFocus(m.focus)
	m.updateLayout()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.promptKind
	switch msg.String() {
	case "esc":
		if kind == promptFilter {
			m.list.filter = ""
			m.list.update(m.snap.Listing)
		}
		m.closePrompt()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		switch kind {
		case promptDirectory:
			if value == "" {
				return m, nil
			}
			return m, waitForResult(m.bridge.OnDirectoryChosen(value), true)
		case promptFile:
			if value == "" {
				return m, nil
			}
			return m, waitForResult(m.bridge.OnFileChosen(value), true)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	if kind == promptFilter {
		m.list.filter = m.prompt.Value()
		m.list.cursor = 0
		m.list.update(m.snap.Listing)
	}
	return m, cmd
}

func (m Model) openHelp() Model {
	m.showHelp = true
	m.helpView.SetContent(m.renderer.Markdown(assets.Help(), m.helpView.Width-4))
	m.helpView.GotoTop()
	return m
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusEditor && m.promptKind == promptNone {
		m.editor.Focus()
	} else {
		m.editor.Blur()
	}
}

func (m *Model) setStatus(level session.Level, text string) {
	m.statusLevel = level
	m.status = text
}

// applySnapshot takes a session snapshot. The editor content is replaced
// only when asked to or when another file became active, so keystrokes
// typed while an op was in flight survive.
func (m *Model) applySnapshot(snap session.Snapshot, reload bool) {
	prevPath, prevPhase := m.snap.Path, m.snap.Phase
	m.snap = snap
	m.list.update(snap.Listing)

	if reload || snap.Path != prevPath || snap.Phase != prevPhase {
		if m.editor.Value() != snap.Buffer {
			m.editor.SetValue(snap.Buffer)
		}
		if snap.ActiveIndex >= 0 {
			m.list.focusIndex(snap.ActiveIndex)
		}
		m.preview.GotoTop()
	}
	m.renderPreview()
}

func (m *Model) watchDirectory() {
	if m.watcher == nil || m.snap.Directory == "" || m.watcher.Dir() == m.snap.Directory {
		return
	}
	if err := m.watcher.Watch(m.snap.Directory); err != nil {
		m.setStatus(session.LevelWarn, "not watching "+m.snap.Directory+": "+err.Error())
	}
}

func (m Model) noteName() string {
	if m.snap.Path != "" {
		return filepath.Base(m.snap.Path)
	}
	return "untitled.md"
}

func (m *Model) renderPreview() {
	width := m.preview.Width - 2
	if m.previewWidth > 0 && m.previewWidth < width {
		width = m.previewWidth
	}

	var content string
	switch {
	case m.snap.Phase == session.PhaseEmpty:
		content = m.renderer.Markdown(assets.Welcome(), width)
	case !m.editable():
		content = subtleStyle.Render(fmt.Sprintf("No .md, .markdown or .txt files in %s.\nCreate one and press ctrl+r.", m.snap.Directory))
	case m.sourceView:
		content = render.Source(m.editor.Value(), m.noteName())
	default:
		content = m.renderer.Preview(m.noteName(), m.editor.Value(), width)
	}
	m.preview.SetContent(content)
}

func (m *Model) updateLayout() {
	paneHeight := m.height - headerHeight - statusHeight - 2 // borders
	if m.promptKind != promptNone {
		paneHeight -= 3
	}
	if paneHeight < 3 {
		paneHeight = 3
	}
	bodyHeight := paneHeight - 1 // pane title

	_, editorWidth, previewWidth := m.paneWidths()

	m.editor.SetWidth(editorWidth - 2)
	m.editor.SetHeight(bodyHeight)
	m.preview.Width = previewWidth - 2
	m.preview.Height = bodyHeight
	m.prompt.Width = m.width - 8

	m.helpView.Width = m.width - 6
	m.helpView.Height = m.height - headerHeight - 4

	m.renderPreview()
}

func (m Model) paneWidths() (list, editor, preview int) {
	list = m.width / 5
	if list < minListWidth {
		list = minListWidth
	}
	rest := m.width - list
	if rest < 20 {
		rest = 20
	}
	editor = rest / 2
	preview = rest - editor
	return list, editor, preview
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	dir := m.snap.Directory
	if dir == "" {
		dir = "no directory"
	}
	header := headerStyle.Render("notepane") + headerPathStyle.Render(dir)

	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, header, helpBoxStyle.Render(m.helpView.View()))
	}

	listWidth, editorWidth, previewWidth := m.paneWidths()
	bodyHeight := m.editor.Height()

	pane := func(f focus, title, body string, width int) string {
		style := paneStyle
		if f == m.focus && m.promptKind == promptNone {
			style = focusedPaneStyle
		}
		content := paneTitleStyle.Render(title) + "\n" + body
		return style.Width(width - 2).Height(bodyHeight + 1).MaxHeight(bodyHeight + 3).Render(content)
	}

	listTitle := "Notes"
	if m.list.filter != "" {
		listTitle = fmt.Sprintf("Notes /%s", m.list.filter)
	}
	list := m.list.render(m.snap.Listing, m.snap.ActiveIndex, m.snap.Dirty, listWidth-2, bodyHeight)

	editorTitle := m.noteName()
	if !m.editable() {
		editorTitle = "Editor"
	} else if m.snap.Dirty {
		editorTitle += dirtyMarkStyle.Render(" [+]")
	}
	if m.snap.Phase == session.PhaseDetached {
		editorTitle += subtleStyle.Render(" (outside directory)")
	}

	previewTitle := "Preview"
	if m.sourceView {
		previewTitle = "Source"
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		pane(focusList, listTitle, list, listWidth),
		pane(focusEditor, editorTitle, m.editor.View(), editorWidth),
		pane(focusPreview, previewTitle, m.preview.View(), previewWidth),
	)

	parts := []string{header}
	if m.promptKind != promptNone {
		parts = append(parts, promptBoxStyle.Width(m.width-4).Render(m.prompt.View()))
	}
	parts = append(parts, panes, m.statusLine())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) statusLine() string {
	style := infoStyle
	switch m.statusLevel {
	case session.LevelWarn:
		style = warnStyle
	case session.LevelError:
		style = errorStyle
	}
	left := style.Render(truncate(m.status, m.width-24))
	right := subtleStyle.Render(fmt.Sprintf("%s  ? help", m.snap.Phase))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
