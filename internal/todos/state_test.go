package todos

import (
	"errors"
	"testing"

	"todos-cli/internal/model"
)

func seeded(tasks ...model.Task) State {
	var st State
	st.FinishLoad(tasks, nil)
	return st
}

func TestFilteredPartitionsRows(t *testing.T) {
	st := seeded(
		model.Task{ID: 1, Title: "a"},
		model.Task{ID: 2, Title: "b", Completed: true},
		model.Task{ID: 3, Title: "c"},
	)

	seen := map[int]int{}
	for _, f := range []model.Filter{model.FilterActive, model.FilterCompleted} {
		st.SetFilter(f)
		for _, r := range st.Filtered() {
			seen[r.ID]++
		}
	}
	for _, r := range st.Rows {
		if seen[r.ID] != 1 {
			t.Fatalf("task %d seen %d times across active/completed", r.ID, seen[r.ID])
		}
	}

	st.SetFilter(model.FilterAll)
	if got := len(st.Filtered()); got != len(st.Rows) {
		t.Fatalf("all filter returned %d rows, want %d", got, len(st.Rows))
	}
}

func TestFinishLoadFailureShowsBanner(t *testing.T) {
	var st State
	st.BeginLoad()
	eff := st.FinishLoad(nil, errors.New("boom"))
	if st.Loading {
		t.Fatalf("expected loading cleared")
	}
	if st.Banner.Message != MsgLoadFailed || eff.ErrorSeq != st.Banner.Seq {
		t.Fatalf("unexpected banner %+v effect %+v", st.Banner, eff)
	}
}

func TestBeginCreateBlankTitleRaisesError(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		var st State
		_, ok, eff := st.BeginCreate(title, 1)
		if ok {
			t.Fatalf("blank title %q accepted", title)
		}
		if st.Banner.Message != MsgEmptyTitle || eff.ErrorSeq == 0 {
			t.Fatalf("expected empty-title banner, got %+v", st.Banner)
		}
		if st.Optimistic != nil || st.Submitting {
			t.Fatalf("blank title must not start a create")
		}
	}
}

func TestCreateSuccessReplacesPlaceholder(t *testing.T) {
	st := seeded(model.Task{ID: 1, Title: "a"})
	trimmed, ok, _ := st.BeginCreate("  new  ", 7)
	if !ok || trimmed != "new" {
		t.Fatalf("BeginCreate = %q, %v", trimmed, ok)
	}
	vis := st.Visible()
	if last := vis[len(vis)-1]; !last.IsPlaceholder() || !last.Busy() || last.Title != "new" {
		t.Fatalf("expected busy placeholder last, got %+v", last)
	}
	if st.FocusInput() {
		t.Fatalf("input should lose focus while submitting")
	}
	if _, ok, _ := st.BeginCreate("again", 7); ok {
		t.Fatalf("second create accepted while submitting")
	}
	if _, ok, eff := st.BeginCreate("  ", 7); ok || st.Banner.Message != MsgEmptyTitle || eff.ErrorSeq == 0 {
		t.Fatalf("blank create while submitting: ok=%v banner=%q", ok, st.Banner.Message)
	}

	eff := st.FinishCreate(model.Task{ID: 42, UserID: 7, Title: "new"}, nil)
	if !eff.ClearInput || !eff.FocusInput {
		t.Fatalf("unexpected effect %+v", eff)
	}
	if st.Optimistic != nil || st.Submitting {
		t.Fatalf("placeholder should be gone")
	}
	if len(st.Rows) != 2 || st.Rows[1].ID != 42 {
		t.Fatalf("unexpected rows %+v", st.Rows)
	}
	for _, r := range st.Visible() {
		if r.IsPlaceholder() {
			t.Fatalf("placeholder still visible")
		}
	}
}

func TestCreateFailureKeepsCollection(t *testing.T) {
	st := seeded(model.Task{ID: 1, Title: "a"})
	before := append([]Row(nil), st.Rows...)
	st.BeginCreate("new", 7)
	eff := st.FinishCreate(model.Task{}, errors.New("boom"))
	if eff.ClearInput {
		t.Fatalf("failed create must keep the input text")
	}
	if st.Banner.Message != MsgAddFailed {
		t.Fatalf("banner = %q", st.Banner.Message)
	}
	if st.Optimistic != nil || len(st.Rows) != len(before) || st.Rows[0] != before[0] {
		t.Fatalf("collection changed: %+v", st.Rows)
	}
}

func TestDeleteFlags(t *testing.T) {
	st := seeded(model.Task{ID: 1, Title: "a"}, model.Task{ID: 2, Title: "b"})
	if !st.BeginDelete(1) {
		t.Fatalf("BeginDelete refused")
	}
	if st.BeginDelete(1) {
		t.Fatalf("BeginDelete accepted a busy row")
	}
	if st.BeginUpdate(1) {
		t.Fatalf("BeginUpdate accepted a deleting row")
	}
	st.FinishDelete(1, errors.New("boom"))
	if r, _ := st.Find(1); r.Deleting {
		t.Fatalf("flag not cleared on failure")
	}
	if st.Banner.Message != MsgDeleteFailed {
		t.Fatalf("banner = %q", st.Banner.Message)
	}

	st.BeginDelete(2)
	st.FinishDelete(2, nil)
	if _, ok := st.Find(2); ok {
		t.Fatalf("deleted row still present")
	}
}

func TestClearCompletedPartialFailure(t *testing.T) {
	st := seeded(
		model.Task{ID: 1, Title: "a", Completed: true},
		model.Task{ID: 2, Title: "b", Completed: true},
		model.Task{ID: 3, Title: "c", Completed: true},
		model.Task{ID: 4, Title: "d"},
	)
	ids := st.BeginClearCompleted()
	if len(ids) != 3 {
		t.Fatalf("ids = %v", ids)
	}
	for _, id := range ids {
		if r, _ := st.Find(id); !r.Deleting {
			t.Fatalf("row %d not marked deleting", id)
		}
	}

	eff := st.FinishClearCompleted([]DeleteResult{
		{ID: 1},
		{ID: 2, Err: errors.New("boom")},
		{ID: 3},
	})
	if eff.ErrorSeq == 0 || st.Banner.Message != MsgDeleteFailed {
		t.Fatalf("expected delete banner")
	}
	if len(st.Rows) != 2 {
		t.Fatalf("rows = %+v", st.Rows)
	}
	r, ok := st.Find(2)
	if !ok || r.Deleting {
		t.Fatalf("failed row should remain idle: %+v", r)
	}
}

func TestClearCompletedAllSucceedNoBanner(t *testing.T) {
	st := seeded(model.Task{ID: 1, Completed: true}, model.Task{ID: 2})
	ids := st.BeginClearCompleted()
	st.FinishClearCompleted([]DeleteResult{{ID: ids[0]}})
	if st.Banner.Visible() {
		t.Fatalf("unexpected banner %q", st.Banner.Message)
	}
	if st.CompletedCount() != 0 || st.ActiveCount() != 1 {
		t.Fatalf("counts = %d/%d", st.ActiveCount(), st.CompletedCount())
	}
}

func TestClearCompletedNothingToDo(t *testing.T) {
	st := seeded(model.Task{ID: 1})
	if ids := st.BeginClearCompleted(); ids != nil {
		t.Fatalf("ids = %v", ids)
	}
}

func TestToggleAllTargets(t *testing.T) {
	st := seeded(model.Task{ID: 1, Completed: true}, model.Task{ID: 2})
	target, ids := st.BeginToggleAll()
	if !target || len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("mixed: target=%v ids=%v", target, ids)
	}

	st = seeded(model.Task{ID: 1, Completed: true}, model.Task{ID: 2, Completed: true})
	target, ids = st.BeginToggleAll()
	if target || len(ids) != 2 {
		t.Fatalf("all complete: target=%v ids=%v", target, ids)
	}
	st.FinishToggleAll(ids, []model.Task{{ID: 1}, {ID: 2}}, nil)
	for _, r := range st.Rows {
		if r.Completed || r.Updating {
			t.Fatalf("row %+v not toggled", r)
		}
	}
}

func TestToggleAllFailureMergesNothing(t *testing.T) {
	st := seeded(model.Task{ID: 1}, model.Task{ID: 2})
	_, ids := st.BeginToggleAll()
	eff := st.FinishToggleAll(ids, nil, errors.New("boom"))
	if eff.ErrorSeq == 0 || st.Banner.Message != MsgToggleAllFail {
		t.Fatalf("banner = %q", st.Banner.Message)
	}
	for _, r := range st.Rows {
		if r.Completed || r.Updating {
			t.Fatalf("row %+v changed after failed toggle-all", r)
		}
	}
}

func TestUpdateFailureKeepsValues(t *testing.T) {
	st := seeded(model.Task{ID: 1, Title: "A"})
	st.BeginUpdate(1)
	st.FinishUpdate(1, model.Task{}, errors.New("boom"))
	r, _ := st.Find(1)
	if r.Title != "A" || r.Updating {
		t.Fatalf("row = %+v", r)
	}
	if st.Banner.Message != MsgUpdateFailed {
		t.Fatalf("banner = %q", st.Banner.Message)
	}
}

func TestUpdateSuccessKeepsOtherFlags(t *testing.T) {
	st := seeded(model.Task{ID: 1, Title: "A"})
	st.Rows = []Row{{Task: st.Rows[0].Task, Updating: true, Deleting: true}}
	st.FinishUpdate(1, model.Task{ID: 1, Title: "B"}, nil)
	r, _ := st.Find(1)
	if r.Title != "B" || r.Updating {
		t.Fatalf("row = %+v", r)
	}
	if !r.Deleting {
		t.Fatalf("update settle dropped the in-flight delete")
	}
}

func TestBatchesSkipBusyRows(t *testing.T) {
	st := seeded(
		model.Task{ID: 1, Completed: true},
		model.Task{ID: 2, Completed: true},
		model.Task{ID: 3},
		model.Task{ID: 4},
	)
	st.BeginUpdate(1)
	if ids := st.BeginClearCompleted(); len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("clear-completed ids = %v", ids)
	}

	_, first := st.BeginToggleAll()
	if len(first) != 2 || first[0] != 3 || first[1] != 4 {
		t.Fatalf("first toggle-all ids = %v", first)
	}
	if _, again := st.BeginToggleAll(); len(again) != 0 {
		t.Fatalf("second toggle-all resent %v", again)
	}
}

func TestExpireErrorIgnoresStaleSeq(t *testing.T) {
	var st State
	first := st.ShowError("one").ErrorSeq
	second := st.ShowError("two").ErrorSeq
	if st.ExpireError(first) {
		t.Fatalf("stale expiry cleared newer banner")
	}
	if st.Banner.Message != "two" {
		t.Fatalf("banner = %q", st.Banner.Message)
	}
	if !st.ExpireError(second) || st.Banner.Visible() {
		t.Fatalf("expected banner cleared")
	}
}

func TestTransitionsDoNotMutateSnapshots(t *testing.T) {
	st := seeded(model.Task{ID: 1, Title: "A"})
	snap := st.Rows
	st.BeginUpdate(1)
	if snap[0].Updating {
		t.Fatalf("transition mutated earlier snapshot")
	}
}

func TestAllCompletedEmpty(t *testing.T) {
	var st State
	if !st.AllCompleted() {
		t.Fatalf("empty collection should count as all completed")
	}
	if _, ids := st.BeginToggleAll(); ids != nil {
		t.Fatalf("toggle-all on empty produced ids %v", ids)
	}
}
