package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	Focus  key.Binding
	Dir    key.Binding
	Reload key.Binding
	Grow   key.Binding
	Shrink key.Binding
	Apply  key.Binding
	Cancel key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Dir: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "edit directory"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Grow: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "widen list"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "narrow list"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "watch directory"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Focus, k.Dir, k.Reload, k.Shrink, k.Grow, k.Quit}
}
