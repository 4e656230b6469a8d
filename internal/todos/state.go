package todos

import (
	"strings"

	"todos-cli/internal/model"
)

// Row is a task plus client-only flags. The flags are never sent remotely.
type Row struct {
	model.Task
	Deleting bool
	Updating bool
}

// Busy reports whether the row's controls are disabled. The optimistic
// placeholder is always busy.
func (r Row) Busy() bool {
	return r.Deleting || r.Updating || r.IsPlaceholder()
}

// Banner is the single global error message. Seq identifies the message so a
// stale expiry never clears a newer one.
type Banner struct {
	Message string
	Seq     int
}

func (b Banner) Visible() bool { return b.Message != "" }

// Effect tells a surface what to do after a transition.
type Effect struct {
	// ErrorSeq is set when a banner was raised; call ExpireError(ErrorSeq)
	// after ErrorTimeout.
	ErrorSeq int
	// ClearInput empties the new-task input.
	ClearInput bool
	// FocusInput returns focus to the new-task input.
	FocusInput bool
}

// State is the application root. Every transition replaces Rows with a new
// slice computed from the previous one; rows are never edited in place, so a
// snapshot taken before a transition stays valid.
type State struct {
	Rows       []Row
	Filter     model.Filter
	Banner     Banner
	Optimistic *model.Task
	Submitting bool
	Loading    bool
}

func (s *State) ShowError(msg string) Effect {
	s.Banner = Banner{Message: msg, Seq: s.Banner.Seq + 1}
	return Effect{ErrorSeq: s.Banner.Seq}
}

// ExpireError clears the banner if seq is still the current message.
func (s *State) ExpireError(seq int) bool {
	if seq != s.Banner.Seq || s.Banner.Message == "" {
		return false
	}
	s.Banner.Message = ""
	return true
}

func (s *State) DismissError() {
	s.Banner.Message = ""
}

func (s *State) SetFilter(f model.Filter) {
	s.Filter = f
}

func (s *State) BeginLoad() {
	s.Loading = true
}

func (s *State) FinishLoad(tasks []model.Task, err error) Effect {
	s.Loading = false
	if err != nil {
		return s.ShowError(MsgLoadFailed)
	}
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, Row{Task: t})
	}
	s.Rows = rows
	return Effect{}
}

// BeginCreate validates the title and installs the optimistic placeholder.
// ok is false when nothing should be sent.
func (s *State) BeginCreate(title string, userID int) (trimmed string, ok bool, eff Effect) {
	trimmed = strings.TrimSpace(title)
	if trimmed == "" {
		return "", false, s.ShowError(MsgEmptyTitle)
	}
	if s.Submitting {
		return "", false, Effect{}
	}
	s.Optimistic = &model.Task{
		ID:     model.PlaceholderID,
		UserID: userID,
		Title:  trimmed,
	}
	s.Submitting = true
	return trimmed, true, Effect{}
}

func (s *State) FinishCreate(task model.Task, err error) Effect {
	s.Optimistic = nil
	s.Submitting = false
	eff := Effect{FocusInput: true}
	if err != nil {
		eff.ErrorSeq = s.ShowError(MsgAddFailed).ErrorSeq
		return eff
	}
	rows := make([]Row, 0, len(s.Rows)+1)
	for _, r := range s.Rows {
		if !r.IsPlaceholder() {
			rows = append(rows, r)
		}
	}
	s.Rows = append(rows, Row{Task: task})
	eff.ClearInput = true
	return eff
}

func (s *State) BeginDelete(id int) bool {
	r, ok := s.Find(id)
	if !ok || r.Busy() {
		return false
	}
	s.Rows = mapRows(s.Rows, id, func(r Row) Row {
		r.Deleting = true
		return r
	})
	return true
}

func (s *State) FinishDelete(id int, err error) Effect {
	eff := Effect{FocusInput: true}
	if err != nil {
		s.Rows = mapRows(s.Rows, id, func(r Row) Row {
			r.Deleting = false
			return r
		})
		eff.ErrorSeq = s.ShowError(MsgDeleteFailed).ErrorSeq
		return eff
	}
	s.Rows = removeRows(s.Rows, map[int]bool{id: true})
	return eff
}

// DeleteResult is the settled outcome of one delete in a batch.
type DeleteResult struct {
	ID  int
	Err error
}

// BeginClearCompleted snapshots the completed tasks and marks them deleting.
// Rows with a request already in flight are left to that request.
func (s *State) BeginClearCompleted() []int {
	var ids []int
	for _, r := range s.Rows {
		if r.Completed && !r.Busy() {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	set := idSet(ids)
	rows := make([]Row, len(s.Rows))
	for i, r := range s.Rows {
		if set[r.ID] {
			r.Deleting = true
		}
		rows[i] = r
	}
	s.Rows = rows
	return ids
}

// FinishClearCompleted removes exactly the rows whose delete succeeded.
func (s *State) FinishClearCompleted(results []DeleteResult) Effect {
	succeeded := map[int]bool{}
	failed := map[int]bool{}
	for _, res := range results {
		if res.Err != nil {
			failed[res.ID] = true
		} else {
			succeeded[res.ID] = true
		}
	}
	kept := removeRows(s.Rows, succeeded)
	rows := make([]Row, len(kept))
	for i, r := range kept {
		if failed[r.ID] {
			r.Deleting = false
		}
		rows[i] = r
	}
	s.Rows = rows

	eff := Effect{FocusInput: true}
	if len(failed) > 0 {
		eff.ErrorSeq = s.ShowError(MsgDeleteFailed).ErrorSeq
	}
	return eff
}

// BeginToggleAll picks the target completion (all complete → incomplete,
// otherwise complete) and marks every idle row that differs from it.
func (s *State) BeginToggleAll() (target bool, ids []int) {
	if len(s.Rows) == 0 {
		return false, nil
	}
	target = !s.AllCompleted()
	rows := make([]Row, len(s.Rows))
	for i, r := range s.Rows {
		if r.Completed != target && !r.Busy() {
			r.Updating = true
			ids = append(ids, r.ID)
		}
		rows[i] = r
	}
	s.Rows = rows
	return target, ids
}

// FinishToggleAll merges the server's tasks only when every update succeeded.
// On any failure nothing is merged, including updates the server accepted.
func (s *State) FinishToggleAll(ids []int, updated []model.Task, err error) Effect {
	set := idSet(ids)
	byID := map[int]model.Task{}
	if err == nil {
		for _, t := range updated {
			byID[t.ID] = t
		}
	}
	rows := make([]Row, len(s.Rows))
	for i, r := range s.Rows {
		if t, ok := byID[r.ID]; ok {
			r.Task = t
		}
		if set[r.ID] {
			r.Updating = false
		}
		rows[i] = r
	}
	s.Rows = rows

	eff := Effect{FocusInput: true}
	if err != nil {
		eff.ErrorSeq = s.ShowError(MsgToggleAllFail).ErrorSeq
	}
	return eff
}

func (s *State) BeginUpdate(id int) bool {
	r, ok := s.Find(id)
	if !ok || r.Busy() {
		return false
	}
	s.Rows = mapRows(s.Rows, id, func(r Row) Row {
		r.Updating = true
		return r
	})
	return true
}

// FinishUpdate takes the server's representation of the task. On failure the
// displayed values never changed, so only the flag is cleared. Other flags
// belong to other requests and survive either way.
func (s *State) FinishUpdate(id int, task model.Task, err error) Effect {
	if err != nil {
		s.Rows = mapRows(s.Rows, id, func(r Row) Row {
			r.Updating = false
			return r
		})
		return s.ShowError(MsgUpdateFailed)
	}
	s.Rows = mapRows(s.Rows, id, func(r Row) Row {
		r.Task = task
		r.Updating = false
		return r
	})
	return Effect{}
}

func (s *State) Find(id int) (Row, bool) {
	for _, r := range s.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// Filtered returns the rows matching the current filter.
func (s *State) Filtered() []Row {
	out := make([]Row, 0, len(s.Rows))
	for _, r := range s.Rows {
		if s.Filter.Match(r.Task) {
			out = append(out, r)
		}
	}
	return out
}

// Visible is Filtered plus the optimistic placeholder, if any.
func (s *State) Visible() []Row {
	out := s.Filtered()
	if s.Optimistic != nil {
		out = append(out, Row{Task: *s.Optimistic})
	}
	return out
}

func (s *State) ActiveCount() int {
	n := 0
	for _, r := range s.Rows {
		if !r.Completed {
			n++
		}
	}
	return n
}

func (s *State) CompletedCount() int {
	return len(s.Rows) - s.ActiveCount()
}

// AllCompleted is true for an empty collection, like the toggle-all control.
func (s *State) AllCompleted() bool {
	for _, r := range s.Rows {
		if !r.Completed {
			return false
		}
	}
	return true
}

// FocusInput reports whether the new-task input should hold focus.
func (s *State) FocusInput() bool {
	return !s.Submitting
}

func mapRows(rows []Row, id int, fn func(Row) Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		if r.ID == id {
			r = fn(r)
		}
		out[i] = r
	}
	return out
}

func removeRows(rows []Row, ids map[int]bool) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !ids[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

func idSet(ids []int) map[int]bool {
	m := make(map[int]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
