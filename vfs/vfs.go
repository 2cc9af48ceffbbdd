// Package vfs implements virtual filesystem backends sharing a single
// path-resolution and entry-lifecycle model.
//
// A backend confines every effect to a declared root and tracks each entry it
// has created, so the whole tree can be torn down without touching
// pre-existing host state. Two implementations are provided: DirFS mirrors a
// subtree of the host filesystem through the afero storage port, and MapFS
// keeps everything, content included, in memory.
//
// Backends are not safe for concurrent use; callers sharing an instance
// across goroutines must provide their own mutual exclusion.
package vfs

// Backend is the common contract of every virtual filesystem in the package.
//
// All path parameters accept absolute or cwd-relative inner paths; each
// operation resolves its input against the current working directory before
// consulting the entry store. Root is the only method that reports a host
// path rather than an inner one.
type Backend interface {
	// Root returns the host-anchoring path of the backend.
	Root() string

	// Cwd returns the canonical inner current working directory.
	Cwd() string

	// Cd changes the current working directory to an existing inner path.
	Cd(path string) error

	// Exists reports whether the path is tracked.
	Exists(path string) bool

	// IsDir reports whether the tracked path denotes a directory.
	IsDir(path string) (bool, error)

	// IsFile reports whether the tracked path denotes a file.
	IsFile(path string) (bool, error)

	// Ls returns the direct children of a directory, or the path itself when
	// it denotes a file, in stable lexicographic order.
	Ls(path string) ([]string, error)

	// Tree returns every descendant of the path, in the same stable order as Ls.
	Tree(path string) ([]string, error)

	// Mkdir creates the directory and every missing intermediate ancestor.
	// The exact target must not already exist.
	Mkdir(path string) error

	// Mkfile creates a file with the given content, auto-creating missing
	// parent directories. Re-creating an existing file truncates it unless
	// strict creation is enabled.
	Mkfile(path string, content []byte) error

	// Read returns the full content of a file.
	Read(path string) ([]byte, error)

	// Write replaces the full content of an existing file.
	Write(path string, content []byte) error

	// Append concatenates bytes onto the content of an existing file.
	Append(path string, content []byte) error

	// Rm removes the entry and, for directories, its whole subtree.
	// The root itself can never be removed.
	Rm(path string) error

	// Find returns tracked paths fuzzy-matching the pattern, best match first.
	Find(pattern string) []string

	// Cleanup removes every tracked entry except the root, deepest first.
	// It reports whether every removal succeeded; failed entries stay tracked.
	Cleanup() bool

	// SetAutoClean toggles automatic cleanup on Close.
	SetAutoClean(clean bool)

	// Close disposes the backend, running cleanup when auto-clean is enabled.
	// Closing is idempotent and never fails the caller; host teardown
	// failures are logged.
	Close() error
}
