package tui

import (
	"todos-cli/internal/logx"
	"todos-cli/internal/model"
	"todos-cli/internal/todos"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case errorExpiredMsg:
		m.st.ExpireError(msg.seq)
		return m, nil

	case tasksLoadedMsg:
		eff := m.st.FinishLoad(msg.tasks, msg.err)
		m.syncList()
		cmd := m.applyEffect(eff)
		return m, cmd

	case taskCreatedMsg:
		eff := m.st.FinishCreate(msg.task, msg.err)
		if eff.ClearInput {
			m.input.SetValue("")
		}
		m.syncList()
		m.setFocus(focusInput)
		cmd := m.applyEffect(eff)
		return m, cmd

	case taskDeletedMsg:
		eff := m.st.FinishDelete(msg.id, msg.err)
		m.syncList()
		cmd := m.applyEffect(eff)
		return m, cmd

	case taskUpdatedMsg:
		eff := m.st.FinishUpdate(msg.id, msg.task, msg.err)
		if msg.fromEdit {
			m.editor.Finish(msg.id, msg.err)
			if msg.err != nil {
				// Back to the field the user was editing.
				m.setFocus(focusList)
				m.selectTask(msg.id)
				m.editInput.Focus()
			} else if !m.editing() {
				m.editInput.Blur()
			}
		}
		m.syncList()
		cmd := m.applyEffect(eff)
		return m, cmd

	case clearedCompletedMsg:
		eff := m.st.FinishClearCompleted(msg.results)
		m.syncList()
		cmd := m.applyEffect(eff)
		return m, cmd

	case toggledAllMsg:
		eff := m.st.FinishToggleAll(msg.ids, msg.updated, msg.err)
		m.syncList()
		cmd := m.applyEffect(eff)
		return m, cmd

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		logx.L().Debug("tui key", "key", msg.String(), "focus", m.focus.String(), "editing", m.editing(), "help", m.showHelp)
		return m.updateKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyEffect applies a transition's Effect to the model and returns the
// banner expiry, if any. An open title editor keeps focus.
func (m *appModel) applyEffect(eff todos.Effect) tea.Cmd {
	if eff.FocusInput && !m.editing() {
		m.setFocus(focusInput)
	}
	if eff.ErrorSeq == 0 {
		return nil
	}
	return expireErrorCmd(m.errorTimeout, eff.ErrorSeq)
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.userID == 0 {
		if key.Matches(msg, m.keys.Quit) || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) || msg.Type == tea.KeyEsc {
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}
	if m.editing() {
		return m.updateEditing(msg)
	}
	if m.focus == focusInput {
		return m.updateInput(msg)
	}
	return m.updateList(msg)
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitNew()
	case key.Matches(msg, m.keys.FocusList):
		m.setFocus(focusList)
		return m, nil
	case key.Matches(msg, m.keys.Help) && m.input.Value() == "":
		m.openHelp()
		return m, nil
	case key.Matches(msg, m.keys.DismissInput) && m.st.Banner.Visible():
		m.st.DismissError()
		return m, nil
	}
	if m.st.Submitting {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) submitNew() (tea.Model, tea.Cmd) {
	trimmed, ok, eff := m.st.BeginCreate(m.input.Value(), m.userID)
	if !ok {
		cmd := m.applyEffect(eff)
		return m, cmd
	}
	m.input.Blur()
	m.syncList()
	return m, createCmd(m.ctx, m.remote, trimmed)
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.openHelp()
		return m, nil
	case key.Matches(msg, m.keys.FocusInput):
		m.setFocus(focusInput)
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		return m.toggleSelected()
	case key.Matches(msg, m.keys.Edit):
		m.startEdit()
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()
	case key.Matches(msg, m.keys.ToggleAll):
		return m.toggleAll()
	case key.Matches(msg, m.keys.ClearCompleted):
		return m.clearCompleted()
	case key.Matches(msg, m.keys.FilterAll):
		return m.setFilter(model.FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		return m.setFilter(model.FilterActive)
	case key.Matches(msg, m.keys.FilterCompleted):
		return m.setFilter(model.FilterCompleted)
	case key.Matches(msg, m.keys.FilterNext):
		return m.setFilter(model.Filters[(int(m.st.Filter)+1)%len(model.Filters)])
	case key.Matches(msg, m.keys.FilterPrev):
		return m.setFilter(model.Filters[(int(m.st.Filter)+len(model.Filters)-1)%len(model.Filters)])
	case key.Matches(msg, m.keys.Dismiss):
		m.st.DismissError()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		if m.st.Loading {
			return m, nil
		}
		m.st.BeginLoad()
		return m, loadCmd(m.ctx, m.remote)
	case key.Matches(msg, m.keys.Up) && m.list.Index() == 0:
		m.setFocus(focusInput)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, ok := m.st.Find(m.editor.TaskID)
	if !ok {
		m.editor = todos.ItemEditor{}
		m.editInput.Blur()
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Save):
		return m.commitEdit(m.editor.Commit(row))
	case key.Matches(msg, m.keys.Cancel):
		m.editor.Cancel(row)
		m.editInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Blur):
		c := m.editor.Blur(row)
		if c.Kind == todos.CommitNone {
			// A blank title cannot be left by blurring.
			return m, nil
		}
		next, cmd := m.commitEdit(c)
		nm := next.(appModel)
		if msg.Type == tea.KeyTab {
			nm.setFocus(focusInput)
			return nm, cmd
		}
		var lcmd tea.Cmd
		nm.list, lcmd = nm.list.Update(msg)
		return nm, tea.Batch(cmd, lcmd)
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.editor.SetBuffer(m.editInput.Value())
	return m, cmd
}

func (m appModel) commitEdit(c todos.Commit) (tea.Model, tea.Cmd) {
	switch c.Kind {
	case todos.CommitUpdate:
		if !m.st.BeginUpdate(c.ID) {
			m.editor.Finish(c.ID, todos.ErrBusy)
			return m, nil
		}
		m.editInput.Blur()
		m.syncList()
		return m, updateCmd(m.ctx, m.remote, c.ID, model.TitlePatch(c.Title), true)
	case todos.CommitDelete:
		eff := m.st.ShowError(todos.MsgEmptyTitle)
		m.editor = todos.ItemEditor{}
		m.editInput.Blur()
		cmds := []tea.Cmd{m.applyEffect(eff)}
		if m.st.BeginDelete(c.ID) {
			cmds = append(cmds, deleteCmd(m.ctx, m.remote, c.ID))
		}
		m.syncList()
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m *appModel) startEdit() {
	row, ok := m.selectedRow()
	if !ok || m.editor.Busy(row.ID) {
		return
	}
	if !m.editor.Start(row) {
		return
	}
	m.editInput.SetValue(row.Title)
	m.editInput.CursorEnd()
	m.editInput.Focus()
}

func (m appModel) toggleSelected() (tea.Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok || m.editor.Busy(row.ID) || !m.st.BeginUpdate(row.ID) {
		return m, nil
	}
	m.syncList()
	return m, updateCmd(m.ctx, m.remote, row.ID, model.CompletedPatch(!row.Completed), false)
}

func (m appModel) deleteSelected() (tea.Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok || m.editor.Editing(row.ID) || !m.st.BeginDelete(row.ID) {
		return m, nil
	}
	m.syncList()
	return m, deleteCmd(m.ctx, m.remote, row.ID)
}

func (m appModel) toggleAll() (tea.Model, tea.Cmd) {
	if m.st.Loading {
		return m, nil
	}
	target, ids := m.st.BeginToggleAll()
	if len(ids) == 0 {
		return m, nil
	}
	m.syncList()
	return m, toggleAllCmd(m.ctx, m.remote, ids, target)
}

func (m appModel) clearCompleted() (tea.Model, tea.Cmd) {
	ids := m.st.BeginClearCompleted()
	if len(ids) == 0 {
		return m, nil
	}
	m.syncList()
	return m, clearCompletedCmd(m.ctx, m.remote, ids)
}

func (m appModel) setFilter(f model.Filter) (tea.Model, tea.Cmd) {
	m.st.SetFilter(f)
	m.syncList()
	return m, nil
}

func (m *appModel) openHelp() {
	m.showHelp = true
	m.refreshHelp()
	m.help.GotoTop()
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.userID == 0 || m.showHelp || m.editing() {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	offset := msg.Y - listTopRow
	if offset < 0 || offset >= m.list.Paginator.PerPage {
		return m, nil
	}
	idx := m.list.Paginator.Page*m.list.Paginator.PerPage + offset
	if idx >= len(m.list.Items()) {
		return m, nil
	}

	now := m.now()
	double := idx == m.lastRow && now.Sub(m.lastClick) <= doubleClickGap
	m.lastClick = now
	m.lastRow = idx

	m.list.Select(idx)
	m.setFocus(focusList)
	if double {
		m.lastRow = -1
		m.startEdit()
	}
	return m, nil
}
