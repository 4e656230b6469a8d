package todos

import (
	"context"

	"todos-cli/internal/model"

	"golang.org/x/sync/errgroup"
)

// Runner fans a batch out over Remote. The group has no derived context, so a
// failed request never cancels its siblings.
type Runner struct {
	Remote Remote
}

// DeleteAll settles every delete independently; results follow ids order.
func (r Runner) DeleteAll(ctx context.Context, ids []int) []DeleteResult {
	results := make([]DeleteResult, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			results[i] = DeleteResult{ID: id, Err: r.Remote.Delete(ctx, id)}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// UpdateAll applies patch to every id. It fails if any single update fails,
// after all of them have settled.
func (r Runner) UpdateAll(ctx context.Context, ids []int, patch model.TaskPatch) ([]model.Task, error) {
	out := make([]model.Task, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			t, err := r.Remote.Update(ctx, id, patch)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
