package cli

import (
	"github.com/spf13/cobra"
)

func newClearCompletedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			results := sess.ClearCompleted(cmd.Context())
			deleted := []int{}
			failed := []int{}
			for _, res := range results {
				if res.Err != nil {
					failed = append(failed, res.ID)
					continue
				}
				deleted = append(deleted, res.ID)
			}
			if err := writeOut(cmd, app, map[string]any{"deleted": deleted, "failed": failed}); err != nil {
				return err
			}
			if len(failed) > 0 {
				return writeErr(cmd, partialFailureError{op: "clear-completed", failed: len(failed), total: len(results)})
			}
			return nil
		},
	}
}

func newToggleAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-all",
		Short: "Complete every todo, or reopen them all when all are completed",
		Long:  "Complete every todo, or reopen them all when all are completed. Prints the whole collection afterwards.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.ToggleAll(cmd.Context()); err != nil {
				return writeErr(cmd, sessionErr(sess, 0, err))
			}
			st := sess.Snapshot()
			return writeOut(cmd, app, rowTasks(st.Rows))
		},
	}
}
