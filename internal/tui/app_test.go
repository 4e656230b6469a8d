package tui

import (
	"strings"
	"testing"
	"time"

	"todos-cli/internal/model"
	"todos-cli/internal/testutil"
	"todos-cli/internal/todos"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T, remote *testutil.FakeRemote) appModel {
	t.Helper()
	m := newAppModel(remote, 1)
	m.errorTimeout = time.Millisecond
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	tasks, err := remote.List(m.ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return send(t, m, tasksLoadedMsg{tasks: tasks})
}

func send(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(appModel)
}

// sendRun delivers msg, runs the returned command (expanding batches) and
// delivers every message it produced.
func sendRun(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(appModel)
	for _, out := range collect(cmd) {
		m = send(t, m, out)
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyClear = tea.KeyMsg{Type: tea.KeyCtrlU}
)

func TestCreateBlankTitleSendsNothing(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	m := newTestModel(t, remote)
	m = send(t, m, keyRunes("   "))
	m = send(t, m, keyEnter)

	if n := remote.CallCount("create"); n != 0 {
		t.Fatalf("create calls = %d", n)
	}
	if m.st.Banner.Message != todos.MsgEmptyTitle {
		t.Fatalf("banner = %q", m.st.Banner.Message)
	}
	if m.st.Optimistic != nil {
		t.Fatalf("unexpected placeholder")
	}
}

func TestCreateShowsPlaceholderThenRow(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	m := newTestModel(t, remote)
	m = send(t, m, keyRunes("Buy milk"))

	next, cmd := m.Update(keyEnter)
	m = next.(appModel)
	if m.st.Optimistic == nil || !m.st.Submitting {
		t.Fatalf("expected optimistic placeholder while submitting")
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Fatalf("placeholder not rendered")
	}
	for _, msg := range collect(cmd) {
		m = send(t, m, msg)
	}

	if m.st.Optimistic != nil || m.st.Submitting {
		t.Fatalf("placeholder should be cleared")
	}
	if len(m.st.Rows) != 1 || m.st.Rows[0].Title != "Buy milk" || m.st.Rows[0].ID == 0 {
		t.Fatalf("rows = %+v", m.st.Rows)
	}
	if m.input.Value() != "" || m.focus != focusInput {
		t.Fatalf("input not reset: %q focus=%v", m.input.Value(), m.focus)
	}
}

func TestCreateFailureKeepsInput(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	remote.CreateErr = testutil.ErrInjected
	m := newTestModel(t, remote)
	m = send(t, m, keyRunes("x"))
	m = sendRun(t, m, keyEnter)

	if len(m.st.Rows) != 0 || m.st.Optimistic != nil {
		t.Fatalf("rows = %+v", m.st.Rows)
	}
	if m.input.Value() != "x" {
		t.Fatalf("input = %q", m.input.Value())
	}
	if m.st.Banner.Message != todos.MsgAddFailed {
		t.Fatalf("banner = %q", m.st.Banner.Message)
	}
}

func TestEditCommitUpdatesTitle(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	a := remote.AddTask("A", false)
	m := newTestModel(t, remote)

	m = send(t, m, keyTab)
	m = send(t, m, keyEnter)
	if !m.editing() || m.editInput.Value() != "A" {
		t.Fatalf("expected editing with buffer A, got %+v", m.editor)
	}
	m = send(t, m, keyClear)
	m = send(t, m, keyRunes("B"))
	m = sendRun(t, m, keyEnter)

	calls := remote.Calls()
	last := calls[len(calls)-1]
	if last.Op != "update" || last.ID != a.ID || last.Patch.Title == nil || *last.Patch.Title != "B" {
		t.Fatalf("last call = %+v", last)
	}
	r, _ := m.st.Find(a.ID)
	if r.Title != "B" || r.Updating {
		t.Fatalf("row = %+v", r)
	}
	if m.editor.Mode != todos.Viewing {
		t.Fatalf("expected viewing after success")
	}
}

func TestEditFailureStaysEditing(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	a := remote.AddTask("A", false)
	remote.FailUpdate(a.ID, testutil.ErrInjected)
	m := newTestModel(t, remote)

	m = send(t, m, keyTab)
	m = send(t, m, keyEnter)
	m = send(t, m, keyRunes("!"))
	next, cmd := m.Update(keyEnter)
	m = next.(appModel)
	for _, msg := range collect(cmd) {
		if _, ok := msg.(errorExpiredMsg); ok {
			continue
		}
		m = send(t, m, msg)
	}

	if !m.editing() || m.editInput.Value() != "A!" {
		t.Fatalf("expected to stay editing, editor=%+v", m.editor)
	}
	if m.st.Banner.Message != todos.MsgUpdateFailed {
		t.Fatalf("banner = %q", m.st.Banner.Message)
	}
	if r, _ := m.st.Find(a.ID); r.Title != "A" {
		t.Fatalf("title changed: %+v", r)
	}
}

func TestEditBlankDeletes(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	remote.AddTask("A", false)
	m := newTestModel(t, remote)

	m = send(t, m, keyTab)
	m = send(t, m, keyEnter)
	m = send(t, m, keyClear)
	m = sendRun(t, m, keyEnter)

	if remote.CallCount("update") != 0 || remote.CallCount("delete") != 1 {
		t.Fatalf("calls = %+v", remote.Calls())
	}
	if len(m.st.Rows) != 0 {
		t.Fatalf("rows = %+v", m.st.Rows)
	}
}

func TestEditEscapeDiscards(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	remote.AddTask("A", false)
	m := newTestModel(t, remote)

	m = send(t, m, keyTab)
	m = send(t, m, keyEnter)
	m = send(t, m, keyRunes("zzz"))
	m = send(t, m, keyEsc)

	if m.editing() {
		t.Fatalf("still editing")
	}
	if len(remote.Calls()) != 1 {
		t.Fatalf("unexpected calls %+v", remote.Calls())
	}
}

func TestToggleSelected(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	a := remote.AddTask("A", false)
	m := newTestModel(t, remote)

	m = send(t, m, keyTab)
	next, cmd := m.Update(keySpace)
	m = next.(appModel)
	if r, _ := m.st.Find(a.ID); !r.Updating {
		t.Fatalf("expected busy row")
	}
	// A busy row ignores a second toggle.
	if _, again := m.Update(keySpace); again != nil {
		t.Fatalf("second toggle issued a command")
	}
	for _, msg := range collect(cmd) {
		m = send(t, m, msg)
	}
	if r, _ := m.st.Find(a.ID); !r.Completed || r.Updating {
		t.Fatalf("row = %+v", r)
	}
}

func TestToggleAllFailureChangesNothing(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	remote.AddTask("A", false)
	b := remote.AddTask("B", false)
	remote.FailUpdate(b.ID, testutil.ErrInjected)
	m := newTestModel(t, remote)

	m = send(t, m, keyTab)
	next, cmd := m.Update(keyRunes("T"))
	m = next.(appModel)
	for _, msg := range collect(cmd) {
		m = send(t, m, msg)
	}
	for _, r := range m.st.Rows {
		if r.Completed || r.Updating {
			t.Fatalf("row = %+v", r)
		}
	}
	if m.st.Banner.Message != todos.MsgToggleAllFail {
		t.Fatalf("banner = %q", m.st.Banner.Message)
	}
}

func TestClearCompletedRemovesSucceeded(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	remote.AddTask("A", true)
	b := remote.AddTask("B", true)
	remote.AddTask("C", false)
	remote.FailDelete(b.ID, testutil.ErrInjected)
	m := newTestModel(t, remote)

	m = send(t, m, keyTab)
	next, cmd := m.Update(keyRunes("C"))
	m = next.(appModel)
	for _, msg := range collect(cmd) {
		if _, ok := msg.(errorExpiredMsg); ok {
			continue
		}
		m = send(t, m, msg)
	}
	if len(m.st.Rows) != 2 {
		t.Fatalf("rows = %+v", m.st.Rows)
	}
	if m.st.Banner.Message != todos.MsgDeleteFailed {
		t.Fatalf("banner = %q", m.st.Banner.Message)
	}
}

func TestBannerExpiryIgnoresStaleSeq(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testutil.NewFakeRemote(1))
	m = send(t, m, keyEnter)
	first := m.st.Banner.Seq
	m = send(t, m, keyEnter)
	second := m.st.Banner.Seq

	m = send(t, m, errorExpiredMsg{seq: first})
	if !m.st.Banner.Visible() {
		t.Fatalf("stale expiry cleared the banner")
	}
	if !strings.Contains(m.View(), todos.MsgEmptyTitle) {
		t.Fatalf("banner not rendered")
	}
	m = send(t, m, errorExpiredMsg{seq: second})
	if m.st.Banner.Visible() {
		t.Fatalf("banner should be cleared")
	}
}

func TestDismissBanner(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testutil.NewFakeRemote(1))
	m = send(t, m, keyEnter)
	m = send(t, m, keyTab)
	m = send(t, m, keyRunes("x"))
	if m.st.Banner.Visible() {
		t.Fatalf("banner still visible")
	}
}

func TestDismissBannerFromInput(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testutil.NewFakeRemote(1))
	m = send(t, m, keyEnter)
	if !strings.Contains(m.View(), "esc: hide") {
		t.Fatalf("input hint missing:\n%s", m.View())
	}
	m = send(t, m, keyEsc)
	if m.st.Banner.Visible() {
		t.Fatalf("banner still visible")
	}
	if m.input.Value() != "" {
		t.Fatalf("input = %q", m.input.Value())
	}

	m = send(t, m, keyEnter)
	m = send(t, m, keyTab)
	if !strings.Contains(m.View(), "x: hide") {
		t.Fatalf("list hint missing:\n%s", m.View())
	}
}

func TestRowActionsReturnFocusToInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   tea.KeyMsg
		setup func(*testutil.FakeRemote)
	}{
		{name: "delete", key: keyRunes("d"), setup: func(r *testutil.FakeRemote) { r.AddTask("A", false) }},
		{name: "clear completed", key: keyRunes("C"), setup: func(r *testutil.FakeRemote) { r.AddTask("A", true) }},
		{name: "toggle all", key: keyRunes("T"), setup: func(r *testutil.FakeRemote) { r.AddTask("A", false) }},
		{
			name: "failed delete",
			key:  keyRunes("d"),
			setup: func(r *testutil.FakeRemote) {
				a := r.AddTask("A", false)
				r.FailDelete(a.ID, testutil.ErrInjected)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			remote := testutil.NewFakeRemote(1)
			tt.setup(remote)
			m := newTestModel(t, remote)

			m = send(t, m, keyTab)
			next, cmd := m.Update(tt.key)
			m = next.(appModel)
			if m.focus != focusList {
				t.Fatalf("focus moved before the request settled")
			}
			for _, msg := range collect(cmd) {
				m = send(t, m, msg)
			}
			if m.focus != focusInput || !m.input.Focused() {
				t.Fatalf("focus=%v inputFocused=%v", m.focus, m.input.Focused())
			}
		})
	}
}

func TestFilterKeys(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	remote.AddTask("open", false)
	remote.AddTask("done", true)
	m := newTestModel(t, remote)
	m = send(t, m, keyTab)

	m = send(t, m, keyRunes("3"))
	if m.st.Filter != model.FilterCompleted || len(m.list.Items()) != 1 {
		t.Fatalf("filter=%v items=%d", m.st.Filter, len(m.list.Items()))
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.st.Filter != model.FilterAll {
		t.Fatalf("filter = %v", m.st.Filter)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.st.Filter != model.FilterCompleted {
		t.Fatalf("filter = %v", m.st.Filter)
	}
}

func TestFooterRendering(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	remote.AddTask("a", false)
	remote.AddTask("b", false)
	m := newTestModel(t, remote)
	v := m.View()
	for _, want := range []string{"2 items left", "All", "Active", "Completed", "Clear completed"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}

	empty := newTestModel(t, testutil.NewFakeRemote(1))
	if strings.Contains(empty.View(), "items left") {
		t.Fatalf("footer shown without todos")
	}
}

func TestDoubleClickStartsEditing(t *testing.T) {
	t.Parallel()

	remote := testutil.NewFakeRemote(1)
	remote.AddTask("a", false)
	remote.AddTask("b", false)
	m := newTestModel(t, remote)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	click := tea.MouseMsg{X: 4, Y: listTopRow + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m = send(t, m, click)
	if m.editing() || m.list.Index() != 1 {
		t.Fatalf("single click should select row 1 only")
	}
	now = now.Add(100 * time.Millisecond)
	m = send(t, m, click)
	if !m.editing() || m.editor.TaskID != 2 {
		t.Fatalf("double click should edit row 1, editor=%+v", m.editor)
	}
}

func TestUserWarningWithoutUserID(t *testing.T) {
	t.Parallel()

	m := newAppModel(testutil.NewFakeRemote(0), 0)
	if m.Init() != nil {
		t.Fatalf("expected no commands without a user id")
	}
	if !strings.Contains(m.View(), "No user id") {
		t.Fatalf("expected warning view")
	}
	next, cmd := m.Update(keyRunes("q"))
	_ = next
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestLoadFailureShowsBanner(t *testing.T) {
	t.Parallel()

	m := newAppModel(testutil.NewFakeRemote(1), 1)
	if !m.st.Loading {
		t.Fatalf("expected loading before the first list")
	}
	m = send(t, m, tasksLoadedMsg{err: testutil.ErrInjected})
	if m.st.Loading || m.st.Banner.Message != todos.MsgLoadFailed {
		t.Fatalf("state = %+v", m.st)
	}
}
