package tui

import (
	"fmt"
	"io"
	"strings"

	"todos-cli/internal/todos"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type rowItem struct {
	row todos.Row
}

func (it rowItem) FilterValue() string { return it.row.Title }
func (it rowItem) Title() string       { return it.row.Title }

// rowRenderState is shared between the model and its delegate. The model
// refreshes it before each render; it lives on the heap so copies of the
// model see the same values.
type rowRenderState struct {
	listFocused bool
	editingID   int
	editing     bool
	editView    string
	spinner     string
	committing  bool
}

type rowDelegate struct {
	state *rowRenderState
}

func newRowDelegate(state *rowRenderState) rowDelegate {
	return rowDelegate{state: state}
}

func (d rowDelegate) Height() int  { return 1 }
func (d rowDelegate) Spacing() int { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	it, ok := item.(rowItem)
	if contentW < 8 || !ok {
		fmt.Fprint(w, "")
		return
	}
	r := it.row
	st := d.state
	selected := index == m.Index() && st.listFocused

	cursor := " "
	if selected {
		cursor = glyphCursor()
	}

	busy := r.Busy() || (st.committing && st.editingID == r.ID)
	status := glyphUnchecked()
	switch {
	case busy:
		status = " " + st.spinner + " "
	case r.Completed:
		status = glyphChecked()
	}

	var title string
	switch {
	case st.editing && st.editingID == r.ID:
		title = st.editView
	case r.IsPlaceholder():
		title = styleMuted().Render(r.Title)
	case r.Completed:
		title = styleCompleted().Render(r.Title)
	default:
		title = r.Title
	}

	line := cursor + status + " " + title
	line = fitWidth(line, contentW)
	if selected && !(st.editing && st.editingID == r.ID) {
		line = styleSelected().Render(xansi.Strip(line))
	}
	fmt.Fprint(w, line)
}

// fitWidth pads or cuts s to exactly w columns, ANSI-aware.
func fitWidth(s string, w int) string {
	sw := xansi.StringWidth(s)
	if sw < w {
		return s + strings.Repeat(" ", w-sw)
	}
	if sw > w {
		if w <= 1 {
			return xansi.Cut(s, 0, w)
		}
		return xansi.Cut(s, 0, w-1) + "…" + "\x1b[0m"
	}
	return s
}
