package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"todos-cli/internal/api"
	"todos-cli/internal/model"
	"todos-cli/internal/todos"

	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess.SetFilter(f)
			st := sess.Snapshot()
			return writeOut(cmd, app, rowTasks(st.Filtered()))
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "Which todos to list (all|active|completed)")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st := sess.Snapshot()
			r, ok := st.Find(id)
			if !ok {
				return writeErr(cmd, errNotFound("todo", id))
			}
			return writeOut(cmd, app, r.Task)
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Create a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := sess.Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, sessionErr(sess, 0, err))
			}
			return writeOut(cmd, app, t)
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title>",
		Short: "Rename a todo",
		Long: strings.TrimSpace(`
Rename a todo. The title is trimmed. A blank title deletes the todo, the same
as clearing the title while editing it in the list.
`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			err = sess.Rename(cmd.Context(), id, strings.Join(args[1:], " "))
			if errors.Is(err, todos.ErrEmptyTitle) {
				return writeOut(cmd, app, map[string]any{"id": id, "deleted": true})
			}
			if err != nil {
				return writeErr(cmd, sessionErr(sess, id, err))
			}
			st := sess.Snapshot()
			r, _ := st.Find(id)
			return writeOut(cmd, app, r.Task)
		},
	}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a todo between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := sess.Toggle(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, sessionErr(sess, id, err))
			}
			return writeOut(cmd, app, t)
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.Delete(cmd.Context(), id); err != nil {
				return writeErr(cmd, sessionErr(sess, id, err))
			}
			return writeOut(cmd, app, map[string]any{"id": id, "deleted": true})
		},
	}
}

// openSession loads the user's collection into a Session. Every scripted
// command runs its transition through it, like the TUI and web surfaces do.
func openSession(cmd *cobra.Command, app *App) (*todos.Session, error) {
	client, err := newClient(app)
	if err != nil {
		return nil, err
	}
	sess := todos.NewSession(client, client.UserID())
	if err := sess.Load(cmd.Context()); err != nil {
		return nil, sessionErr(sess, 0, err)
	}
	return sess, nil
}

// sessionErr maps a Session error to what a command reports. Remote failures
// are prefixed with the banner the interactive surfaces would show.
func sessionErr(sess *todos.Session, id int, err error) error {
	var rf *api.RequestFailedError
	switch {
	case errors.Is(err, todos.ErrNotFound):
		return errNotFound("todo", id)
	case errors.As(err, &rf) && rf.Status == http.StatusNotFound && id != 0:
		return errNotFound("todo", id)
	case errors.Is(err, todos.ErrEmptyTitle), errors.Is(err, todos.ErrBusy):
		return err
	}
	st := sess.Snapshot()
	if st.Banner.Visible() {
		return fmt.Errorf("%s: %w", st.Banner.Message, err)
	}
	return err
}

func rowTasks(rows []todos.Row) []model.Task {
	out := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Task)
	}
	return out
}
