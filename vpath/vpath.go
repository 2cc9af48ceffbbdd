// Package vpath implements canonicalization of inner VFS paths.
//
// Inner paths always use the forward slash separator regardless of the host
// platform. A canonical path is absolute, contains no "." or ".." components,
// and carries no trailing separator unless it is the root itself.
package vpath

import (
	"strings"

	"github.com/vfs-kit/vfskit/util"
)

// Separator is the inner path component separator, identical on every platform.
const Separator = "/"

// Root is the canonical inner root path.
const Root = Separator

// Normalize converts an arbitrary path into its canonical absolute form.
// It is total: any input, including the empty string and paths that ".."
// beyond the root, yields a well-formed canonical path. Popping past the
// root clamps to the root instead of failing.
func Normalize(path string) string {
	var stack util.Stack[string]

	for _, component := range strings.Split(path, Separator) {
		switch component {
		case "", ".":
		case "..":
			stack.Pop()
		default:
			stack.Push(component)
		}
	}

	if stack.Len() == 0 {
		return Root
	}
	return Separator + strings.Join(stack.Items(), Separator)
}

// Resolve maps a possibly-relative path onto the given current working
// directory and normalizes the result. Empty input and "." resolve to cwd
// itself; an absolute input ignores cwd entirely.
func Resolve(cwd, path string) string {
	if path == "" || path == "." {
		return Normalize(cwd)
	}
	if IsAbs(path) {
		return Normalize(path)
	}
	return Normalize(cwd + Separator + path)
}

// IsAbs reports whether the path is expressed from the inner root.
func IsAbs(path string) bool {
	return strings.HasPrefix(path, Separator)
}

// IsRoot reports whether the canonical path denotes the inner root.
func IsRoot(path string) bool {
	return Normalize(path) == Root
}

// Parent returns the canonical parent of a canonical path.
// The root is its own parent.
func Parent(path string) string {
	path = Normalize(path)
	if path == Root {
		return Root
	}
	idx := strings.LastIndex(path, Separator)
	if idx <= 0 {
		return Root
	}
	return path[:idx]
}

// Base returns the last component of a canonical path.
// The root yields the separator itself.
func Base(path string) string {
	path = Normalize(path)
	if path == Root {
		return Root
	}
	return path[strings.LastIndex(path, Separator)+1:]
}

// Depth returns the number of components in a canonical path; the root has depth zero.
func Depth(path string) int {
	path = Normalize(path)
	if path == Root {
		return 0
	}
	return strings.Count(path, Separator)
}

// HasPrefix reports whether path lies at or beneath prefix, comparing whole
// components: "/ab" is not beneath "/a".
func HasPrefix(path, prefix string) bool {
	path, prefix = Normalize(path), Normalize(prefix)
	if prefix == Root {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+Separator)
}

// Join concatenates components and normalizes the result.
func Join(elem ...string) string {
	return Normalize(strings.Join(elem, Separator))
}
