package tui

import (
	"todos-cli/internal/model"
	"todos-cli/internal/todos"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

func (f focusArea) String() string {
	if f == focusList {
		return "list"
	}
	return "input"
}

type tasksLoadedMsg struct {
	tasks []model.Task
	err   error
}

type taskCreatedMsg struct {
	task model.Task
	err  error
}

type taskDeletedMsg struct {
	id  int
	err error
}

type taskUpdatedMsg struct {
	id   int
	task model.Task
	err  error
	// fromEdit marks a title commit from the row editor.
	fromEdit bool
}

type clearedCompletedMsg struct {
	results []todos.DeleteResult
}

type toggledAllMsg struct {
	ids     []int
	updated []model.Task
	err     error
}

// errorExpiredMsg clears the banner only if seq is still current.
type errorExpiredMsg struct{ seq int }
