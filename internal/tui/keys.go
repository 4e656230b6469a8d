package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding

	// New todo input.
	Submit       key.Binding
	FocusList    key.Binding
	DismissInput key.Binding

	// List.
	Up              key.Binding
	Down            key.Binding
	Toggle          key.Binding
	Edit            key.Binding
	Delete          key.Binding
	ToggleAll       key.Binding
	ClearCompleted  key.Binding
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding
	FilterNext      key.Binding
	FilterPrev      key.Binding
	Dismiss         key.Binding
	Reload          key.Binding
	FocusInput      key.Binding

	// Title editing.
	Save   key.Binding
	Cancel key.Binding
	Blur   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		FocusList:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "list")),
		DismissInput: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "hide error")),

		Up:              key.NewBinding(key.WithKeys("up", "k", "ctrl+p")),
		Down:            key.NewBinding(key.WithKeys("down", "j", "ctrl+n")),
		Toggle:          key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Edit:            key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("e", "edit")),
		Delete:          key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		ToggleAll:       key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "toggle all")),
		ClearCompleted:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		FilterAll:       key.NewBinding(key.WithKeys("1")),
		FilterActive:    key.NewBinding(key.WithKeys("2")),
		FilterCompleted: key.NewBinding(key.WithKeys("3")),
		FilterNext:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("←/→", "filter")),
		FilterPrev:      key.NewBinding(key.WithKeys("left", "h")),
		Dismiss:         key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hide error")),
		Reload:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		FocusInput:      key.NewBinding(key.WithKeys("tab", "i"), key.WithHelp("i", "new todo")),

		Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard")),
		Blur:   key.NewBinding(key.WithKeys("tab", "up", "down"), key.WithHelp("tab", "save & leave")),
	}
}

func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Submit, k.FocusList, k.Help, k.ForceQuit}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Edit, k.Delete, k.ToggleAll, k.ClearCompleted, k.FilterNext, k.FocusInput, k.Help, k.Quit}
}

func (k keyMap) editHelp() []key.Binding {
	return []key.Binding{k.Save, k.Cancel, k.Blur}
}

// helpLine renders "key: desc" pairs the way the footer shows them.
func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if !b.Enabled() || h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
