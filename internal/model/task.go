package model

import (
	"fmt"
	"strings"
)

// Task is one entry of the remote collection. ID 0 is never assigned by the
// server; it marks the optimistic placeholder shown while a create is pending.
type Task struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// PlaceholderID is the id carried by a task that has not been persisted yet.
const PlaceholderID = 0

func (t Task) IsPlaceholder() bool { return t.ID == PlaceholderID }

// TaskPatch is a sparse update. Only non-nil fields are sent.
type TaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func TitlePatch(title string) TaskPatch {
	return TaskPatch{Title: &title}
}

func CompletedPatch(completed bool) TaskPatch {
	return TaskPatch{Completed: &completed}
}

func (p TaskPatch) IsEmpty() bool { return p.Title == nil && p.Completed == nil }

// Apply returns t with the patch fields applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists the options in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// Label is the user-facing name of the filter option.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter: %q (want all|active|completed)", s)
	}
}
