package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"

	"github.com/vfs-kit/vfskit/color"
	"github.com/vfs-kit/vfskit/icon"
	"github.com/vfs-kit/vfskit/style"
	"github.com/vfs-kit/vfskit/util"
	"github.com/vfs-kit/vfskit/vpath"
)

var (
	paddingStyle  = lipgloss.NewStyle().Padding(1, 2)
	selectedStyle = style.Fg(color.HiCyan)
	dimStyle      = style.Faint
)

func (b *browserBubble) View() string {
	var sections []string

	sections = append(sections, style.Title(fmt.Sprintf("%s  %s", b.backend.Root(), b.backend.Cwd())))

	if b.previewing {
		sections = append(sections, b.viewPreview())
	} else {
		sections = append(sections, b.viewListing())
	}

	if b.errMsg != "" {
		sections = append(sections, style.Fg(color.Red)(b.errMsg))
	}

	if !b.previewing {
		sections = append(sections, dimStyle(util.Quantify(len(b.listing), "entry", "entries")))
	}

	sections = append(sections, b.help.ShortHelpView(b.keymap.shortHelp()))

	return paddingStyle.Render(strings.Join(sections, "\n\n"))
}

func (b *browserBubble) viewListing() string {
	if len(b.listing) == 0 {
		return dimStyle("(empty)")
	}

	rows := lo.Map(b.listing, func(p string, i int) string {
		marker := icon.Get(icon.File)
		if isDir, err := b.backend.IsDir(p); err == nil && isDir {
			marker = icon.Get(icon.Directory)
		}

		row := fmt.Sprintf("%s %s", marker, vpath.Base(p))
		if i == b.cursor {
			return selectedStyle("> " + row)
		}
		return "  " + row
	})

	return strings.Join(rows, "\n")
}

func (b *browserBubble) viewPreview() string {
	target, _ := b.selected()
	width := util.Max(20, b.width-6)

	header := style.Bold(vpath.Base(target))
	body := wordwrap.String(b.preview, width)
	if body == "" {
		body = dimStyle("(empty file)")
	}

	return header + "\n\n" + body
}
