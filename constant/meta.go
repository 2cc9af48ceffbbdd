// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Vfskit is the canonical application identifier used for filesystem paths and CLI branding.
	Vfskit = "vfskit"

	// Version is the current application semantic version string.
	Version = "0.1.0"
)

// Build metadata injected at link time via -ldflags.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
