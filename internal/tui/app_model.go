package tui

import (
	"context"
	"time"

	"todos-cli/internal/docs"
	"todos-cli/internal/todos"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// appModel owns the todos.State. Rows and the footer only report intent
// through key handling; every remote call is issued from Update.
type appModel struct {
	ctx    context.Context
	remote todos.Remote
	userID int

	st     todos.State
	editor todos.ItemEditor

	width  int
	height int

	focus     focusArea
	input     textinput.Model
	editInput textinput.Model
	list      list.Model
	rowState  *rowRenderState
	spinner   spinner.Model
	keys      keyMap

	showHelp bool
	help     viewport.Model

	errorTimeout time.Duration

	// Double-click detection.
	now       func() time.Time
	lastClick time.Time
	lastRow   int
}

const (
	// Lines above the first task row: title, blank, input line.
	listTopRow     = 3
	chromeLines    = 7
	maxContentW    = 80
	doubleClickGap = 400 * time.Millisecond
)

func newAppModel(remote todos.Remote, userID int) appModel {
	m := appModel{
		ctx:          context.Background(),
		remote:       remote,
		userID:       userID,
		keys:         defaultKeyMap(),
		rowState:     &rowRenderState{},
		errorTimeout: todos.ErrorTimeout,
		now:          time.Now,
		lastRow:      -1,
	}

	m.input = textinput.New()
	m.input.Placeholder = "What needs to be done?"
	m.input.Prompt = ""
	m.input.CharLimit = 200
	m.input.Width = 40
	m.input.Focus()

	m.editInput = textinput.New()
	m.editInput.Prompt = ""
	m.editInput.CharLimit = 200

	m.list = newList(m.rowState)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	m.help = viewport.New(maxContentW, 20)

	if userID != 0 {
		m.st.BeginLoad()
	}
	m.syncList()
	return m
}

func newList(state *rowRenderState) list.Model {
	l := list.New([]list.Item{}, newRowDelegate(state), 0, 0)
	l.Title = "Todos"
	// Header, footer and filters are drawn by the app.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.KeyMap.CursorUp.SetKeys("up", "k", "ctrl+p")
	l.KeyMap.CursorDown.SetKeys("down", "j", "ctrl+n")
	// Letters are app keys; keep paging on the page keys only.
	l.KeyMap.NextPage.SetKeys("pgdown")
	l.KeyMap.PrevPage.SetKeys("pgup")
	l.KeyMap.GoToStart.SetKeys("home", "g", "<")
	l.KeyMap.GoToEnd.SetKeys("end", "G", ">")
	return l
}

func (m appModel) Init() tea.Cmd {
	if m.userID == 0 {
		return nil
	}
	return tea.Batch(loadCmd(m.ctx, m.remote), m.spinner.Tick, textinput.Blink)
}

// syncList rebuilds the list items from the visible rows, keeping the
// selection on the same task when it is still visible.
func (m *appModel) syncList() {
	selID, hadSel := m.selectedID()
	rows := m.st.Visible()
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, rowItem{row: r})
	}
	m.list.SetItems(items)
	if hadSel {
		m.selectTask(selID)
	}
}

func (m appModel) selectedID() (int, bool) {
	it, ok := m.list.SelectedItem().(rowItem)
	if !ok {
		return 0, false
	}
	return it.row.ID, true
}

func (m appModel) selectedRow() (todos.Row, bool) {
	id, ok := m.selectedID()
	if !ok {
		return todos.Row{}, false
	}
	return m.st.Find(id)
}

func (m *appModel) selectTask(id int) {
	for i, it := range m.list.Items() {
		if r, ok := it.(rowItem); ok && r.row.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *appModel) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput && m.st.FocusInput() {
		m.input.Focus()
		return
	}
	m.input.Blur()
}

// editing reports whether keys go to the row title field.
func (m appModel) editing() bool {
	return m.editor.Mode == todos.Editing && !m.editor.Committing
}

func (m *appModel) resize() {
	w := m.contentWidth()
	h := m.height - chromeLines
	if h < 3 {
		h = 3
	}
	m.list.SetSize(w, h)
	m.input.Width = w - 6
	m.editInput.Width = w - 8
	m.help.Width = w
	m.help.Height = m.height - 2
	m.refreshHelp()
}

func (m appModel) contentWidth() int {
	w := m.width
	if w > maxContentW {
		w = maxContentW
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m *appModel) refreshHelp() {
	md, _ := docs.Get(docs.DefaultTopic)
	m.help.SetContent(renderMarkdown(md, m.help.Width))
}
