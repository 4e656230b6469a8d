package format

import (
	"fmt"
	"io"
	"strings"

	"todos-cli/internal/model"
)

// WriteText prints tasks as one line each ("[x] 12  Buy milk"). Other values
// fall back to fmt's %v.
func WriteText(w io.Writer, v any) error {
	switch t := v.(type) {
	case []model.Task:
		for _, task := range t {
			if err := writeTaskLine(w, task); err != nil {
				return err
			}
		}
		return nil
	case model.Task:
		return writeTaskLine(w, t)
	case fmt.Stringer:
		_, err := fmt.Fprintln(w, t.String())
		return err
	default:
		_, err := fmt.Fprintf(w, "%v\n", v)
		return err
	}
}

func writeTaskLine(w io.Writer, t model.Task) error {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	_, err := fmt.Fprintf(w, "[%s] %-4d %s\n", mark, t.ID, strings.TrimSpace(t.Title))
	return err
}
