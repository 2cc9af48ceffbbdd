// Package tui provides the interactive browser over a virtual filesystem backend.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vfs-kit/vfskit/vfs"
)

// Options encapsulates the runtime configuration for the browser.
type Options struct {
	Backend vfs.Backend
}

// Run initializes and executes the browser's Bubble Tea application loop.
func Run(options *Options) error {
	bubble, err := newBubble(options)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
