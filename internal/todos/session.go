package todos

import (
	"context"
	"strings"
	"sync"
	"time"

	"todos-cli/internal/logx"
	"todos-cli/internal/model"
)

// Session owns a State for callers that work synchronously (web handlers,
// scripted commands). Transitions run under the mutex; the mutex is never held
// across a remote call.
type Session struct {
	mu     sync.Mutex
	st     State
	remote Remote
	runner Runner
	userID int

	errorTimeout time.Duration

	subsMu sync.Mutex
	subs   map[chan struct{}]struct{}
}

type SessionOption func(*Session)

// WithErrorTimeout overrides ErrorTimeout (tests).
func WithErrorTimeout(d time.Duration) SessionOption {
	return func(s *Session) { s.errorTimeout = d }
}

func NewSession(remote Remote, userID int, opts ...SessionOption) *Session {
	s := &Session{
		remote:       remote,
		runner:       Runner{Remote: remote},
		userID:       userID,
		errorTimeout: ErrorTimeout,
		subs:         map[chan struct{}]struct{}{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) UserID() int { return s.userID }

// Snapshot returns a copy safe to read without the lock.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.st
	if st.Optimistic != nil {
		t := *st.Optimistic
		st.Optimistic = &t
	}
	return st
}

// Subscribe returns a channel that receives after every state change.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 8)
	s.subsMu.Lock()
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()
	return ch, func() {
		s.subsMu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.subsMu.Unlock()
	}
}

func (s *Session) notify() {
	s.subsMu.Lock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	s.subsMu.Unlock()
}

func (s *Session) apply(fn func(st *State) Effect) Effect {
	s.mu.Lock()
	eff := fn(&s.st)
	s.mu.Unlock()
	if eff.ErrorSeq != 0 {
		s.scheduleExpiry(eff.ErrorSeq)
	}
	s.notify()
	return eff
}

func (s *Session) scheduleExpiry(seq int) {
	time.AfterFunc(s.errorTimeout, func() {
		s.mu.Lock()
		changed := s.st.ExpireError(seq)
		s.mu.Unlock()
		if changed {
			s.notify()
		}
	})
}

func (s *Session) Load(ctx context.Context) error {
	s.apply(func(st *State) Effect {
		st.BeginLoad()
		return Effect{}
	})
	tasks, err := s.remote.List(ctx)
	s.apply(func(st *State) Effect { return st.FinishLoad(tasks, err) })
	if err != nil {
		logx.L().Debug("load failed", "err", err)
	}
	return err
}

func (s *Session) Create(ctx context.Context, title string) (model.Task, error) {
	var (
		trimmed string
		ok      bool
	)
	s.apply(func(st *State) Effect {
		var eff Effect
		trimmed, ok, eff = st.BeginCreate(title, s.userID)
		return eff
	})
	if !ok {
		if strings.TrimSpace(title) == "" {
			return model.Task{}, ErrEmptyTitle
		}
		return model.Task{}, ErrBusy
	}
	task, err := s.remote.Create(ctx, trimmed)
	s.apply(func(st *State) Effect { return st.FinishCreate(task, err) })
	if err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *Session) Delete(ctx context.Context, id int) error {
	if err := s.begin(id, (*State).BeginDelete); err != nil {
		return err
	}
	err := s.remote.Delete(ctx, id)
	s.apply(func(st *State) Effect { return st.FinishDelete(id, err) })
	return err
}

// ClearCompleted deletes every completed task; failures are per task.
func (s *Session) ClearCompleted(ctx context.Context) []DeleteResult {
	var ids []int
	s.apply(func(st *State) Effect {
		ids = st.BeginClearCompleted()
		return Effect{}
	})
	if len(ids) == 0 {
		return nil
	}
	results := s.runner.DeleteAll(ctx, ids)
	s.apply(func(st *State) Effect { return st.FinishClearCompleted(results) })
	return results
}

func (s *Session) ToggleAll(ctx context.Context) error {
	var (
		target bool
		ids    []int
	)
	s.apply(func(st *State) Effect {
		target, ids = st.BeginToggleAll()
		return Effect{}
	})
	if len(ids) == 0 {
		return nil
	}
	updated, err := s.runner.UpdateAll(ctx, ids, model.CompletedPatch(target))
	s.apply(func(st *State) Effect { return st.FinishToggleAll(ids, updated, err) })
	return err
}

func (s *Session) Update(ctx context.Context, id int, patch model.TaskPatch) (model.Task, error) {
	if err := s.begin(id, (*State).BeginUpdate); err != nil {
		return model.Task{}, err
	}
	task, err := s.remote.Update(ctx, id, patch)
	s.apply(func(st *State) Effect { return st.FinishUpdate(id, task, err) })
	if err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// Toggle flips completion of one task.
func (s *Session) Toggle(ctx context.Context, id int) (model.Task, error) {
	st := s.Snapshot()
	r, ok := st.Find(id)
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return s.Update(ctx, id, model.CompletedPatch(!r.Completed))
}

// Rename commits an edited title: blank titles delete the task instead.
func (s *Session) Rename(ctx context.Context, id int, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		s.apply(func(st *State) Effect { return st.ShowError(MsgEmptyTitle) })
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
		return ErrEmptyTitle
	}
	_, err := s.Update(ctx, id, model.TitlePatch(title))
	return err
}

func (s *Session) SetFilter(f model.Filter) {
	s.apply(func(st *State) Effect {
		st.SetFilter(f)
		return Effect{}
	})
}

func (s *Session) DismissError() {
	s.apply(func(st *State) Effect {
		st.DismissError()
		return Effect{}
	})
}

func (s *Session) begin(id int, fn func(*State, int) bool) error {
	var (
		found bool
		ok    bool
	)
	s.apply(func(st *State) Effect {
		_, found = st.Find(id)
		ok = fn(st, id)
		return Effect{}
	})
	if !found {
		return ErrNotFound
	}
	if !ok {
		return ErrBusy
	}
	return nil
}
