// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Virtual Filesystem Semantics - these keys configure the default behavior of newly constructed backends.
const (
	VfsAutoClean    = "vfs.auto_clean"
	VfsStrictCreate = "vfs.strict_create"
)

// History Tracking - these keys configure the persistence of recently mounted roots.
const (
	HistoryWriteRoots = "history.write_roots"
	HistoryMaxRoots   = "history.max_roots"
)

// Browser (TUI) - these keys define the interactive browser's presentation.
const (
	BrowserShowHidden   = "browser.show_hidden"
	BrowserPreviewLines = "browser.preview_lines"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)
