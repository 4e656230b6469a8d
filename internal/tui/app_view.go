package tui

import (
	"fmt"
	"strings"

	"todos-cli/internal/model"
	"todos-cli/internal/todos"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.userID == 0 {
		return m.viewUserWarning()
	}
	w := m.contentWidth()
	if m.showHelp {
		return normalizePane(m.help.View(), w, max(m.height-1, 1)) + "\n" +
			styleMuted().Render("esc/?: close  ↑/↓: scroll")
	}

	m.rowState.listFocused = m.focus == focusList && !m.editing()
	m.rowState.editing = m.editor.Mode == todos.Editing
	m.rowState.editingID = m.editor.TaskID
	m.rowState.committing = m.editor.Committing
	m.rowState.editView = m.editInput.View()
	m.rowState.spinner = m.spinner.View()

	lines := []string{
		styleTitle().Render("todos"),
		"",
		m.viewHeader(w),
		m.viewBody(),
	}
	if footer := m.viewFooter(w); footer != "" {
		lines = append(lines, footer)
	}
	if m.st.Banner.Visible() {
		lines = append(lines, m.viewBanner(w))
	}
	lines = append(lines, styleMuted().Render(m.viewHelpLine()))
	return strings.Join(lines, "\n")
}

// viewHeader renders the toggle-all control and the new todo input.
func (m appModel) viewHeader(w int) string {
	toggle := " "
	if len(m.st.Rows) > 0 && !m.st.Loading {
		toggle = styleMuted().Render(glyphToggleAll())
		if m.st.AllCompleted() {
			toggle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(glyphToggleAll())
		}
	}
	inputView := m.input.View()
	if m.st.Submitting {
		inputView = styleMuted().Render(m.input.Value())
	}
	return renderInputLine(w, toggle, inputView)
}

func (m appModel) viewBody() string {
	if m.st.Loading {
		return " " + m.spinner.View() + " " + styleMuted().Render("Loading…")
	}
	if len(m.list.Items()) == 0 {
		if len(m.st.Rows) == 0 {
			return styleMuted().Render(" Nothing to do.")
		}
		return styleMuted().Render(fmt.Sprintf(" No %s todos.", strings.ToLower(m.st.Filter.Label())))
	}
	return m.list.View()
}

// viewFooter is the filter bar; it is only shown when there is a todo.
func (m appModel) viewFooter(w int) string {
	if len(m.st.Rows) == 0 {
		return ""
	}
	left := itemsLeft(m.st.ActiveCount())

	var filters []string
	for _, f := range model.Filters {
		st := styleFilterIdle()
		if f == m.st.Filter {
			st = styleFilterActive()
		}
		filters = append(filters, st.Render(f.Label()))
	}

	clear := "Clear completed"
	if m.st.CompletedCount() == 0 {
		clear = styleMuted().Render(clear)
	}

	line := left + "  " + strings.Join(filters, "") + "  " + clear
	return fitWidth(line, w)
}

func (m appModel) viewBanner(w int) string {
	msg := m.st.Banner.Message
	if k := m.dismissKey(); k != "" {
		msg += "   " + k + ": hide"
	}
	return styleBanner().Width(w).Render(msg)
}

// dismissKey is the key that hides the banner from the focused area. The
// title editor has none; it expires on its own.
func (m appModel) dismissKey() string {
	switch {
	case m.editing():
		return ""
	case m.focus == focusList:
		return m.keys.Dismiss.Help().Key
	default:
		return m.keys.DismissInput.Help().Key
	}
}

func (m appModel) viewHelpLine() string {
	switch {
	case m.editing():
		return helpLine(m.keys.editHelp())
	case m.focus == focusList:
		return helpLine(m.keys.listHelp())
	default:
		return helpLine(m.keys.inputHelp())
	}
}

func (m appModel) viewUserWarning() string {
	body := strings.Join([]string{
		styleTitle().Render("todos"),
		"",
		"No user id is configured, so there is no todo list to show.",
		"",
		"Set one with " + lipgloss.NewStyle().Bold(true).Render("--user-id") + ", the " +
			lipgloss.NewStyle().Bold(true).Render("TODOS_API_USER_ID") + " environment variable,",
		"or " + lipgloss.NewStyle().Bold(true).Render("api.user_id") + " in ~/.todos/config.yaml.",
		"",
		styleMuted().Render("q: quit"),
	}, "\n")
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func itemsLeft(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}
