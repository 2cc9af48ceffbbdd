package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/vfs-kit/vfskit/key"
	"github.com/vfs-kit/vfskit/util"
	"github.com/vfs-kit/vfskit/vfs"
	"github.com/vfs-kit/vfskit/vpath"
)

// browserBubble encapsulates the browser state: the backend under
// inspection, the listing of the current directory, and an optional file
// preview pane.
type browserBubble struct {
	backend vfs.Backend
	keymap  *keymap
	help    help.Model

	listing []string // canonical inner paths of the current directory
	cursor  int

	previewing bool
	preview    string

	errMsg string

	width, height int
}

func newBubble(options *Options) (*browserBubble, error) {
	b := &browserBubble{
		backend: options.Backend,
		keymap:  newKeymap(),
		help:    help.New(),
	}

	// Seed dimensions before the first WindowSizeMsg arrives.
	if w, h, err := util.TerminalSize(); err == nil {
		b.width, b.height = w, h
	}

	if err := b.reload(); err != nil {
		return nil, err
	}
	return b, nil
}

// reload refreshes the listing of the backend's current working directory.
func (b *browserBubble) reload() error {
	listing, err := b.backend.Ls(b.backend.Cwd())
	if err != nil {
		return err
	}

	if !viper.GetBool(key.BrowserShowHidden) {
		listing = lo.Filter(listing, func(p string, _ int) bool {
			return !strings.HasPrefix(vpath.Base(p), ".")
		})
	}

	b.listing = listing
	b.cursor = 0
	b.previewing = false
	b.errMsg = ""
	return nil
}

// selected returns the canonical inner path under the cursor, if any.
func (b *browserBubble) selected() (string, bool) {
	if len(b.listing) == 0 || b.cursor >= len(b.listing) {
		return "", false
	}
	return b.listing[b.cursor], true
}

func (b *browserBubble) Init() tea.Cmd {
	return nil
}

func (b *browserBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		return b, nil

	case tea.KeyMsg:
		return b.handleKey(msg)
	}

	return b, nil
}

func (b *browserBubble) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := b.keymap

	switch {
	case bubblesKey.Matches(msg, k.forceQuit), bubblesKey.Matches(msg, k.quit):
		return b, tea.Quit

	case bubblesKey.Matches(msg, k.up):
		if b.cursor > 0 {
			b.cursor--
		}

	case bubblesKey.Matches(msg, k.down):
		if b.cursor < len(b.listing)-1 {
			b.cursor++
		}

	case bubblesKey.Matches(msg, k.top):
		b.cursor = 0

	case bubblesKey.Matches(msg, k.bottom):
		b.cursor = len(b.listing) - 1

	case bubblesKey.Matches(msg, k.enter):
		b.open()

	case bubblesKey.Matches(msg, k.preview):
		b.togglePreview()

	case bubblesKey.Matches(msg, k.back):
		if b.previewing {
			b.previewing = false
			break
		}
		if err := b.backend.Cd(".."); err != nil {
			b.errMsg = err.Error()
			break
		}
		util.Ignore(b.reload)
	}

	return b, nil
}

// open descends into the selected directory, or previews the selected file.
func (b *browserBubble) open() {
	target, ok := b.selected()
	if !ok {
		return
	}

	isDir, err := b.backend.IsDir(target)
	if err != nil {
		b.errMsg = err.Error()
		return
	}

	if !isDir {
		b.togglePreview()
		return
	}

	if err := b.backend.Cd(target); err != nil {
		b.errMsg = err.Error()
		return
	}
	util.Ignore(b.reload)
}

// togglePreview loads the selected file's content into the preview pane.
func (b *browserBubble) togglePreview() {
	if b.previewing {
		b.previewing = false
		return
	}

	target, ok := b.selected()
	if !ok {
		return
	}

	content, err := b.backend.Read(target)
	if err != nil {
		b.errMsg = err.Error()
		return
	}

	lines := strings.Split(string(content), "\n")
	if limit := viper.GetInt(key.BrowserPreviewLines); limit > 0 {
		lines = lines[:util.Min(limit, len(lines))]
	}

	b.preview = strings.Join(lines, "\n")
	b.previewing = true
	b.errMsg = ""
}
