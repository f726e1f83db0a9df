package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Reveal       key.Binding
	Flag         key.Binding
	Chord        key.Binding
	NewGame      key.Binding
	Beginner     key.Binding
	Intermediate key.Binding
	Expert       key.Binding
	Quit         key.Binding
}

var Keys = KeyMap{
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Reveal:       key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "reveal")),
	Flag:         key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "flag")),
	Chord:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "chord")),
	NewGame:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new game")),
	Beginner:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "beginner")),
	Intermediate: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "intermediate")),
	Expert:       key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "expert")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reveal, k.Flag, k.Chord, k.NewGame, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Reveal, k.Flag, k.Chord},
		{k.NewGame, k.Beginner, k.Intermediate, k.Expert, k.Quit},
	}
}
