package vfs

import (
	"fmt"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/vfs-kit/vfskit/entry"
	"github.com/vfs-kit/vfskit/key"
	"github.com/vfs-kit/vfskit/vpath"
)

// MapFS is a purely in-memory virtual filesystem. The entry store is the sole
// source of truth and file content lives inside the entries themselves, so
// nothing ever reaches host storage.
//
// The root is advisory: it anchors nothing and exists only so MapFS can stand
// in wherever a host-anchored backend is expected.
type MapFS struct {
	core

	root string

	autoClean    bool
	strictCreate bool
	closed       bool
}

var _ Backend = (*MapFS)(nil)

// NewMap constructs an empty in-memory backend rooted at the inner root.
//
// The auto-clean and strict-create toggles are read from configuration once,
// at construction; later configuration changes only affect backends
// constructed after them. Use SetAutoClean/SetStrictCreate to adjust an
// existing instance.
func NewMap() *MapFS {
	return &MapFS{
		core:         newCore(),
		root:         vpath.Root,
		autoClean:    boolSetting(key.VfsAutoClean, true),
		strictCreate: boolSetting(key.VfsStrictCreate, false),
	}
}

// Root returns the advisory host-anchoring path of the backend.
func (m *MapFS) Root() string {
	return m.root
}

// SetRoot updates the advisory root. The path must be absolute.
func (m *MapFS) SetRoot(path string) error {
	if !filepath.IsAbs(path) && !vpath.IsAbs(path) {
		return errInvalidPath("the root path must be absolute")
	}
	m.root = path
	return nil
}

// SetAutoClean toggles automatic cleanup on Close.
func (m *MapFS) SetAutoClean(clean bool) {
	m.autoClean = clean
}

// SetStrictCreate toggles whether Mkfile fails on an already-tracked file
// instead of replacing its content.
func (m *MapFS) SetStrictCreate(strict bool) {
	m.strictCreate = strict
}

// Mkdir creates the directory and every missing intermediate ancestor.
func (m *MapFS) Mkdir(path string) error {
	if path == "" {
		return errInvalidPath("empty")
	}

	inner := m.toInner(path)
	if m.entries.Has(inner) {
		return errAlreadyExists(inner)
	}

	missing, err := m.missingAncestors(inner)
	if err != nil {
		return err
	}
	for _, dir := range missing {
		m.entries.Insert(dir, entry.New(entry.Directory))
	}
	return nil
}

// Mkfile creates (or, unless strict creation is enabled, replaces) a file
// with the given content, auto-creating missing parent directories.
func (m *MapFS) Mkfile(path string, content []byte) error {
	if path == "" {
		return errInvalidPath("empty")
	}

	inner := m.toInner(path)
	if e, ok := m.entries.Get(inner); ok {
		if e.IsDir() {
			return errIsDirectory(inner)
		}
		if m.strictCreate {
			return errAlreadyExists(inner)
		}
	}

	parent := vpath.Parent(inner)
	if e, ok := m.entries.Get(parent); ok {
		if !e.IsDir() {
			return errInvalidPath(fmt.Sprintf("%s is not a directory", parent))
		}
	} else if err := m.Mkdir(parent); err != nil {
		return err
	}

	e := entry.New(entry.File)
	e.SetContent(content)
	m.entries.Insert(inner, e)
	return nil
}

// fileEntry resolves a path to a tracked file entry, enforcing the shared
// existence and kind preconditions of the content operations.
func (m *MapFS) fileEntry(path string) (*entry.Entry, error) {
	inner := m.toInner(path)
	e, ok := m.entries.Get(inner)
	if !ok {
		return nil, errNotFound(inner)
	}
	if e.IsDir() {
		return nil, errIsDirectory(inner)
	}
	return e, nil
}

// Read returns the full content of a file; an empty file yields an empty slice.
func (m *MapFS) Read(path string) ([]byte, error) {
	e, err := m.fileEntry(path)
	if err != nil {
		return nil, err
	}
	content := e.Content().OrElse(nil)
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

// Write replaces the full content of an existing file.
func (m *MapFS) Write(path string, content []byte) error {
	e, err := m.fileEntry(path)
	if err != nil {
		return err
	}
	e.SetContent(content)
	return nil
}

// Append concatenates bytes onto the content of an existing file.
func (m *MapFS) Append(path string, content []byte) error {
	e, err := m.fileEntry(path)
	if err != nil {
		return err
	}
	e.AppendContent(content)
	return nil
}

// Rm removes the entry and, for directories, its whole subtree.
func (m *MapFS) Rm(path string) error {
	if path == "" {
		return errInvalidPath("empty")
	}

	inner := m.toInner(path)
	if inner == vpath.Root {
		return errInvalidPath("the root cannot be removed")
	}
	if !m.entries.Has(inner) {
		return errNotFound(inner)
	}

	m.removeSubtree(inner)
	return nil
}

// Cleanup removes every tracked entry except the root. With no host to fail,
// the pass always fully succeeds.
func (m *MapFS) Cleanup() bool {
	for _, inner := range lo.Reverse(m.entries.Paths()) {
		m.entries.Remove(inner)
	}
	m.cwd = vpath.Root
	return true
}

// Close disposes the backend once, running cleanup when auto-clean is enabled.
func (m *MapFS) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	if m.autoClean {
		m.Cleanup()
		m.entries.Reset()
	}
	return nil
}
