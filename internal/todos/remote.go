// Package todos owns the authoritative task collection and every transition
// applied to it. Surfaces (TUI, web, CLI) report intent; this package decides
// what changes and which remote calls follow.
package todos

import (
	"context"
	"errors"
	"time"

	"todos-cli/internal/model"
)

// Remote is the task collection. *api.Client satisfies it.
type Remote interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, title string) (model.Task, error)
	Update(ctx context.Context, id int, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, id int) error
}

// Banner messages.
const (
	MsgLoadFailed    = "Unable to load todos"
	MsgEmptyTitle    = "Title should not be empty"
	MsgAddFailed     = "Unable to add a todo"
	MsgDeleteFailed  = "Unable to delete a todo"
	MsgUpdateFailed  = "Unable to update a todo"
	MsgToggleAllFail = "Unable to update todos"
)

// ErrorTimeout is how long a banner message stays visible.
const ErrorTimeout = 3 * time.Second

var (
	ErrEmptyTitle = errors.New("title should not be empty")
	ErrBusy       = errors.New("todo has a request in flight")
	ErrNotFound   = errors.New("todo not found")
)
