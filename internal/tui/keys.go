package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

func bind(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
	Play   key.Binding
	Stop   key.Binding
	Faster key.Binding
	Slower key.Binding
	Louder key.Binding
	Softer key.Binding
	Clear  key.Binding
	Random key.Binding
	Save   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Load   key.Binding
	Delete key.Binding
	Track  key.Binding
	Listen key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     bind("row up", "up", "k"),
	Down:   bind("row down", "down", "j"),
	Left:   bind("step left", "left", "h"),
	Right:  bind("step right", "right", "l"),
	Toggle: bind("toggle step", "enter", "x"),
	Play:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
	Stop:   bind("stop", "z"),
	Faster: bind("tempo +", "+", "="),
	Slower: bind("tempo -", "-", "_"),
	Louder: bind("volume +", "]"),
	Softer: bind("volume -", "["),
	Clear:  bind("clear", "c"),
	Random: bind("random", "r"),
	Save:   bind("save pattern", "n", "ctrl+s"),
	Prev:   bind("prev saved", "<", ","),
	Next:   bind("next saved", ">", "."),
	Load:   bind("load saved", "L"),
	Delete: bind("delete saved", "X"),
	Track:  bind("next track", "t"),
	Listen: bind("play/pause track", "p"),
	Help:   bind("help", "?"),
	Quit:   bind("quit", "ctrl+c"),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Play, k.Stop, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Toggle},
		{k.Play, k.Stop, k.Faster, k.Slower, k.Louder, k.Softer},
		{k.Clear, k.Random, k.Save, k.Prev, k.Next, k.Load, k.Delete},
		{k.Track, k.Listen, k.Help, k.Quit},
	}
}
