package tui

import (
	"context"
	"time"

	"todos-cli/internal/logx"
	"todos-cli/internal/model"
	"todos-cli/internal/todos"

	tea "github.com/charmbracelet/bubbletea"
)

// Every remote call runs inside a tea.Cmd and reports back as a message; the
// state is only touched from Update.

func loadCmd(ctx context.Context, r todos.Remote) tea.Cmd {
	return func() tea.Msg {
		tasks, err := r.List(ctx)
		if err != nil {
			logx.L().Debug("tui load failed", "err", err)
		}
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func createCmd(ctx context.Context, r todos.Remote, title string) tea.Cmd {
	return func() tea.Msg {
		task, err := r.Create(ctx, title)
		return taskCreatedMsg{task: task, err: err}
	}
}

func deleteCmd(ctx context.Context, r todos.Remote, id int) tea.Cmd {
	return func() tea.Msg {
		return taskDeletedMsg{id: id, err: r.Delete(ctx, id)}
	}
}

func updateCmd(ctx context.Context, r todos.Remote, id int, patch model.TaskPatch, fromEdit bool) tea.Cmd {
	return func() tea.Msg {
		task, err := r.Update(ctx, id, patch)
		return taskUpdatedMsg{id: id, task: task, err: err, fromEdit: fromEdit}
	}
}

func clearCompletedCmd(ctx context.Context, r todos.Remote, ids []int) tea.Cmd {
	return func() tea.Msg {
		return clearedCompletedMsg{results: todos.Runner{Remote: r}.DeleteAll(ctx, ids)}
	}
}

func toggleAllCmd(ctx context.Context, r todos.Remote, ids []int, target bool) tea.Cmd {
	return func() tea.Msg {
		updated, err := todos.Runner{Remote: r}.UpdateAll(ctx, ids, model.CompletedPatch(target))
		return toggledAllMsg{ids: ids, updated: updated, err: err}
	}
}

func expireErrorCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return errorExpiredMsg{seq: seq} })
}
