package todos

import "strings"

type EditMode int

const (
	Viewing EditMode = iota
	Editing
)

type CommitKind int

const (
	CommitNone CommitKind = iota
	CommitUpdate
	CommitDelete
)

// Commit is what the surface should send after an edit is committed.
type Commit struct {
	Kind  CommitKind
	ID    int
	Title string
}

// ItemEditor is the per-row edit state. Only the buffer text lives here; the
// title and completion always come from the root's Row.
type ItemEditor struct {
	TaskID     int
	Mode       EditMode
	Buffer     string
	Committing bool
}

func (e *ItemEditor) Editing(id int) bool {
	return e.Mode == Editing && e.TaskID == id
}

// Start enters Editing with the buffer set to the row's title.
func (e *ItemEditor) Start(r Row) bool {
	if r.Busy() || e.Committing {
		return false
	}
	*e = ItemEditor{TaskID: r.ID, Mode: Editing, Buffer: r.Title}
	return true
}

func (e *ItemEditor) SetBuffer(s string) {
	if e.Mode == Editing {
		e.Buffer = s
	}
}

// Cancel discards the buffer without any request.
func (e *ItemEditor) Cancel(r Row) {
	if e.Committing {
		return
	}
	e.Buffer = r.Title
	e.Mode = Viewing
}

// Commit decides between update and delete. A blank buffer resets to the
// original title and asks for a delete; the surface also shows MsgEmptyTitle.
// A second commit while one is outstanding is ignored.
func (e *ItemEditor) Commit(r Row) Commit {
	if e.Mode != Editing || e.Committing || e.TaskID != r.ID {
		return Commit{}
	}
	title := strings.TrimSpace(e.Buffer)
	if title == "" {
		e.Buffer = r.Title
		return Commit{Kind: CommitDelete, ID: r.ID}
	}
	e.Committing = true
	return Commit{Kind: CommitUpdate, ID: r.ID, Title: title}
}

// Blur commits only a non-blank buffer.
func (e *ItemEditor) Blur(r Row) Commit {
	if strings.TrimSpace(e.Buffer) == "" {
		return Commit{}
	}
	return e.Commit(r)
}

// Finish settles an outstanding update commit: success returns to Viewing,
// failure keeps Editing.
func (e *ItemEditor) Finish(id int, err error) {
	if !e.Committing || e.TaskID != id {
		return
	}
	e.Committing = false
	if err != nil {
		e.Mode = Editing
		return
	}
	e.Mode = Viewing
}

// Busy reports a local commit in flight for id.
func (e *ItemEditor) Busy(id int) bool {
	return e.Committing && e.TaskID == id
}
