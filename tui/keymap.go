package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keymap defines the keyboard interactions available within the browser.
type keymap struct {
	quit, forceQuit,
	up, down,
	enter, back,
	top, bottom,
	preview key.Binding
}

func newKeymap() *keymap {
	return &keymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "open"),
		),
		back: key.NewBinding(
			key.WithKeys("backspace", "h", "left", "esc"),
			key.WithHelp("backspace", "parent directory"),
		),
		top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		preview: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "preview"),
		),
	}
}

// shortHelp returns the bindings rendered in the footer help line.
func (k *keymap) shortHelp() []key.Binding {
	return []key.Binding{k.up, k.down, k.enter, k.back, k.quit}
}
