package web

import (
	"fmt"

	"todos-cli/internal/model"
	"todos-cli/internal/todos"
)

type pageVM struct {
	UserID int
	App    appVM
}

type appVM struct {
	Rows            []rowVM
	HasTodos        bool
	Loading         bool
	Submitting      bool
	ToggleAllActive bool
	ItemsLeft       string
	HasCompleted    bool
	Filters         []filterVM
	Banner          string
}

type rowVM struct {
	ID          int
	Title       string
	Completed   bool
	Busy        bool
	Placeholder bool
}

type filterVM struct {
	Key      string
	Label    string
	Hook     string
	Selected bool
}

func newAppVM(st todos.State) appVM {
	vm := appVM{
		HasTodos:        len(st.Rows) > 0,
		Loading:         st.Loading,
		Submitting:      st.Submitting,
		ToggleAllActive: st.AllCompleted(),
		ItemsLeft:       itemsLeft(st.ActiveCount()),
		HasCompleted:    st.CompletedCount() > 0,
		Banner:          st.Banner.Message,
	}
	for _, r := range st.Visible() {
		vm.Rows = append(vm.Rows, rowVM{
			ID:          r.ID,
			Title:       r.Title,
			Completed:   r.Completed,
			Busy:        r.Busy(),
			Placeholder: r.IsPlaceholder(),
		})
	}
	for _, f := range model.Filters {
		vm.Filters = append(vm.Filters, filterVM{
			Key:      f.String(),
			Label:    f.Label(),
			Hook:     "FilterLink" + f.Label(),
			Selected: f == st.Filter,
		})
	}
	return vm
}

func itemsLeft(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}
