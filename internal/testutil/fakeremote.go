// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"todos-cli/internal/model"
)

// ErrInjected is a convenient error for failure injection.
var ErrInjected = errors.New("injected failure")

// ErrNotFound is returned for an unknown task id.
var ErrNotFound = errors.New("not found")

// Call records one request made against FakeRemote.
type Call struct {
	Op    string
	ID    int
	Title string
	Patch model.TaskPatch
}

// FakeRemote is an in-memory implementation of todos.Remote for testing.
type FakeRemote struct {
	mu     sync.Mutex
	tasks  map[int]model.Task
	nextID int
	userID int
	calls  []Call

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr map[int]error // id -> error
	DeleteErr map[int]error // id -> error

	// Gate, when set, blocks every request until it is closed or receives.
	Gate chan struct{}
}

// NewFakeRemote creates an empty FakeRemote for userID.
func NewFakeRemote(userID int) *FakeRemote {
	return &FakeRemote{
		tasks:     make(map[int]model.Task),
		nextID:    1,
		userID:    userID,
		UpdateErr: make(map[int]error),
		DeleteErr: make(map[int]error),
	}
}

// AddTask seeds a task and returns it.
func (f *FakeRemote) AddTask(title string, completed bool) model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := model.Task{ID: f.nextID, UserID: f.userID, Title: title, Completed: completed}
	f.tasks[t.ID] = t
	f.nextID++
	return t
}

// Tasks returns the stored tasks ordered by id.
func (f *FakeRemote) Tasks() []model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked()
}

// Calls returns a copy of the recorded requests.
func (f *FakeRemote) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount counts the recorded requests for op.
func (f *FakeRemote) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (f *FakeRemote) wait(ctx context.Context) error {
	if f.Gate == nil {
		return nil
	}
	select {
	case <-f.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List implements todos.Remote.
func (f *FakeRemote) List(ctx context.Context) ([]model.Task, error) {
	f.record(Call{Op: "list"})
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked(), nil
}

// Create implements todos.Remote.
func (f *FakeRemote) Create(ctx context.Context, title string) (model.Task, error) {
	f.record(Call{Op: "create", Title: title})
	if err := f.wait(ctx); err != nil {
		return model.Task{}, err
	}
	if f.CreateErr != nil {
		return model.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := model.Task{ID: f.nextID, UserID: f.userID, Title: title}
	f.tasks[t.ID] = t
	f.nextID++
	return t, nil
}

// Update implements todos.Remote.
func (f *FakeRemote) Update(ctx context.Context, id int, patch model.TaskPatch) (model.Task, error) {
	f.record(Call{Op: "update", ID: id, Patch: patch})
	if err := f.wait(ctx); err != nil {
		return model.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.UpdateErr[id]; err != nil {
		return model.Task{}, err
	}
	t, ok := f.tasks[id]
	if !ok {
		return model.Task{}, fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	t = patch.Apply(t)
	f.tasks[id] = t
	return t, nil
}

// Delete implements todos.Remote.
func (f *FakeRemote) Delete(ctx context.Context, id int) error {
	f.record(Call{Op: "delete", ID: id})
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.DeleteErr[id]; err != nil {
		return err
	}
	if _, ok := f.tasks[id]; !ok {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	delete(f.tasks, id)
	return nil
}

// FailUpdate makes every update of id fail with err.
func (f *FakeRemote) FailUpdate(id int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateErr[id] = err
}

// FailDelete makes every delete of id fail with err.
func (f *FakeRemote) FailDelete(id int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteErr[id] = err
}

func (f *FakeRemote) record(c Call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *FakeRemote) sortedLocked() []model.Task {
	out := make([]model.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
