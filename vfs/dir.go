package vfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/vfs-kit/vfskit/entry"
	"github.com/vfs-kit/vfskit/filesystem"
	"github.com/vfs-kit/vfskit/key"
	"github.com/vfs-kit/vfskit/log"
	"github.com/vfs-kit/vfskit/vpath"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644

	// sentinelName is the probe file written and deleted at construction to
	// verify the root is writable.
	sentinelName = ".access"
)

// DirFS is a virtual filesystem mirroring a subtree of the host filesystem
// rooted at an absolute host path.
//
// Every mutation is applied to the entry store and mirrored onto the host
// through the afero storage port. Directories created solely to satisfy root
// construction are remembered and removed again, in reverse creation order,
// when the backend is closed with auto-clean enabled.
//
// DirFS does not follow symbolic links; Read returns the link target path and
// Rm removes the link node itself.
type DirFS struct {
	core

	fs   afero.Afero
	root string // host-anchoring absolute path

	createdRootParents []string // host paths, in creation order
	autoClean          bool
	strictCreate       bool
	closed             bool
}

var _ Backend = (*DirFS)(nil)

// New constructs a DirFS anchored at the given absolute host path, creating
// the path (and remembering what it created) when it does not exist yet.
// Host access goes through the process-wide storage port.
//
// The auto-clean and strict-create toggles are read from configuration once,
// at construction; later configuration changes only affect backends
// constructed after them. Use SetAutoClean/SetStrictCreate to adjust an
// existing instance.
func New(root string) (*DirFS, error) {
	return NewFs(root, filesystem.API().Fs)
}

// NewFs constructs a DirFS over an explicit storage port. Tests inject an
// in-memory afero backend here to run without touching real disk. The
// configuration toggles are snapshotted exactly as in New.
func NewFs(root string, backend afero.Fs) (*DirFS, error) {
	if root == "" {
		return nil, errInvalidPath("empty root")
	}
	if !filepath.IsAbs(root) {
		return nil, errInvalidPath("the root path must be absolute")
	}

	fs := afero.Afero{Fs: backend}
	root = filepath.Clean(root)

	exists, err := fs.Exists(root)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}

	var createdRootParents []string
	if exists {
		isDir, err := fs.IsDir(root)
		if err != nil {
			return nil, fmt.Errorf("stat root %s: %w", root, err)
		}
		if !isDir {
			return nil, errInvalidPath(fmt.Sprintf("%s is not a directory", root))
		}
	} else {
		createdRootParents, err = mkdirAllTracked(fs, root)
		if err != nil {
			return nil, fmt.Errorf("create root %s: %w", root, err)
		}
	}

	if err := probeWritable(fs, root); err != nil {
		return nil, fmt.Errorf("access denied: %s: %w", root, err)
	}

	return &DirFS{
		core:               newCore(),
		fs:                 fs,
		root:               root,
		createdRootParents: createdRootParents,
		autoClean:          boolSetting(key.VfsAutoClean, true),
		strictCreate:       boolSetting(key.VfsStrictCreate, false),
	}, nil
}

// mkdirAllTracked creates the path and every missing ancestor, returning the
// host directories it actually created, in creation order.
func mkdirAllTracked(fs afero.Afero, path string) ([]string, error) {
	missing := []string{}
	for p := path; ; p = filepath.Dir(p) {
		exists, err := fs.Exists(p)
		if err != nil {
			return nil, err
		}
		if exists || filepath.Dir(p) == p {
			break
		}
		missing = append(missing, p)
	}

	created := make([]string, 0, len(missing))
	for _, dir := range lo.Reverse(missing) {
		if err := fs.Mkdir(dir, dirPerm); err != nil {
			return created, err
		}
		created = append(created, dir)
	}
	return created, nil
}

// probeWritable verifies write access by creating and deleting a sentinel file.
func probeWritable(fs afero.Afero, dir string) error {
	sentinel := filepath.Join(dir, sentinelName)
	if err := fs.WriteFile(sentinel, []byte("check"), filePerm); err != nil {
		return err
	}
	return fs.Remove(sentinel)
}

// Root returns the host-anchoring path of the backend.
func (d *DirFS) Root() string {
	return d.root
}

// toHost maps a canonical inner path to the corresponding host path.
func (d *DirFS) toHost(inner string) string {
	return filepath.Join(d.root, filepath.FromSlash(strings.TrimPrefix(inner, vpath.Separator)))
}

// SetAutoClean toggles automatic cleanup on Close.
func (d *DirFS) SetAutoClean(clean bool) {
	d.autoClean = clean
}

// SetStrictCreate toggles whether Mkfile fails on an already-tracked file
// instead of truncating it.
func (d *DirFS) SetStrictCreate(strict bool) {
	d.strictCreate = strict
}

// Mkdir creates the directory and every missing intermediate ancestor, both
// in the entry store and on the host. A host failure aborts the walk, leaving
// directories created so far in place and tracked.
func (d *DirFS) Mkdir(path string) error {
	if path == "" {
		return errInvalidPath("empty")
	}

	inner := d.toInner(path)
	if d.entries.Has(inner) {
		return errAlreadyExists(inner)
	}

	missing, err := d.missingAncestors(inner)
	if err != nil {
		return err
	}
	for _, dir := range missing {
		host := d.toHost(dir)
		if err := d.fs.Mkdir(host, dirPerm); err != nil {
			return fmt.Errorf("create directory %s: %w", host, err)
		}
		d.entries.Insert(dir, entry.New(entry.Directory))
	}
	return nil
}

// Mkfile creates (or, unless strict creation is enabled, truncates) a file
// with the given content, auto-creating missing parent directories.
func (d *DirFS) Mkfile(path string, content []byte) error {
	if path == "" {
		return errInvalidPath("empty")
	}

	inner := d.toInner(path)
	if e, ok := d.entries.Get(inner); ok {
		if e.IsDir() {
			return errIsDirectory(inner)
		}
		if d.strictCreate {
			return errAlreadyExists(inner)
		}
	}

	parent := vpath.Parent(inner)
	if e, ok := d.entries.Get(parent); ok {
		if !e.IsDir() {
			return errInvalidPath(fmt.Sprintf("%s is not a directory", parent))
		}
	} else if err := d.Mkdir(parent); err != nil {
		return err
	}

	host := d.toHost(inner)
	if err := d.fs.WriteFile(host, content, filePerm); err != nil {
		return fmt.Errorf("create file %s: %w", host, err)
	}
	d.entries.Insert(inner, entry.New(entry.File))
	return nil
}

// Read returns the full content of a file. Symbolic links are not followed:
// the link target path itself is returned.
func (d *DirFS) Read(path string) ([]byte, error) {
	inner := d.toInner(path)
	isDir, err := d.IsDir(inner)
	if err != nil {
		return nil, err
	}
	if isDir {
		return nil, errIsDirectory(inner)
	}

	host := d.toHost(inner)
	if target, ok := d.readLink(host); ok {
		return []byte(target), nil
	}

	content, err := d.fs.ReadFile(host)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", host, err)
	}
	return content, nil
}

// readLink reports whether the host path is a symbolic link and, if so,
// returns its target path. Storage ports without symlink support report false.
func (d *DirFS) readLink(host string) (string, bool) {
	lstater, ok := d.fs.Fs.(afero.Lstater)
	if !ok {
		return "", false
	}
	info, lstatCalled, err := lstater.LstatIfPossible(host)
	if err != nil || !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
		return "", false
	}
	reader, ok := d.fs.Fs.(afero.LinkReader)
	if !ok {
		return "", false
	}
	target, err := reader.ReadlinkIfPossible(host)
	if err != nil {
		return "", false
	}
	return target, true
}

// Write replaces the full content of an existing file in a single host call.
func (d *DirFS) Write(path string, content []byte) error {
	inner := d.toInner(path)
	isDir, err := d.IsDir(inner)
	if err != nil {
		return err
	}
	if isDir {
		return errIsDirectory(inner)
	}

	host := d.toHost(inner)
	if err := d.fs.WriteFile(host, content, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", host, err)
	}
	return nil
}

// Append concatenates bytes onto the content of an existing file.
func (d *DirFS) Append(path string, content []byte) error {
	inner := d.toInner(path)
	isDir, err := d.IsDir(inner)
	if err != nil {
		return err
	}
	if isDir {
		return errIsDirectory(inner)
	}

	host := d.toHost(inner)
	f, err := d.fs.OpenFile(host, os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return fmt.Errorf("open %s: %w", host, err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("append %s: %w", host, err)
	}
	return nil
}

// Rm removes the entry and, for directories, its whole subtree, from both the
// store and the host. A host artifact already removed out-of-band is treated
// as success; entry-store consistency takes priority.
func (d *DirFS) Rm(path string) error {
	if path == "" {
		return errInvalidPath("empty")
	}

	inner := d.toInner(path)
	if inner == vpath.Root {
		return errInvalidPath("the root cannot be removed")
	}
	if !d.entries.Has(inner) {
		return errNotFound(inner)
	}

	if err := d.removeOnHost(d.toHost(inner)); err != nil {
		return err
	}
	d.removeSubtree(inner)
	return nil
}

// removeOnHost deletes a host file or directory tree. An absent artifact is
// not an error.
func (d *DirFS) removeOnHost(host string) error {
	info, err := d.fs.Stat(host)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", host, err)
	}

	if info.IsDir() {
		err = d.fs.RemoveAll(host)
	} else {
		err = d.fs.Remove(host)
	}
	if err != nil {
		return fmt.Errorf("remove %s: %w", host, err)
	}
	return nil
}

// Add adopts an existing host subtree into the entry store, making it tracked
// (and therefore subject to cleanup).
func (d *DirFS) Add(path string) error {
	inner := d.toInner(path)
	host := d.toHost(inner)

	exists, err := d.fs.Exists(host)
	if err != nil {
		return fmt.Errorf("stat %s: %w", host, err)
	}
	if !exists {
		return errNotFound(inner)
	}
	return d.addRecursive(inner, host)
}

func (d *DirFS) addRecursive(inner, host string) error {
	isDir, err := d.fs.IsDir(host)
	if err != nil {
		return fmt.Errorf("stat %s: %w", host, err)
	}

	if !isDir {
		d.entries.Insert(inner, entry.New(entry.File))
		return nil
	}

	d.entries.Insert(inner, entry.New(entry.Directory))
	children, err := d.fs.ReadDir(host)
	if err != nil {
		return fmt.Errorf("list %s: %w", host, err)
	}
	for _, child := range children {
		if err := d.addRecursive(vpath.Join(inner, child.Name()), filepath.Join(host, child.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Forget stops tracking an entry (and, for directories, its subtree) without
// touching the host. The root cannot be forgotten.
func (d *DirFS) Forget(path string) error {
	inner := d.toInner(path)
	if inner == vpath.Root {
		return errInvalidPath("the root cannot be forgotten")
	}
	if !d.entries.Has(inner) {
		return errNotFound(inner)
	}
	d.removeSubtree(inner)
	return nil
}

// Cleanup removes every tracked entry except the root, deepest entries first
// so directories are already empty of tracked children when their turn comes.
// A host failure is logged, the entry stays tracked, and the pass continues.
func (d *DirFS) Cleanup() bool {
	ok := true
	for _, inner := range lo.Reverse(d.entries.Paths()) {
		if inner == vpath.Root {
			continue
		}
		host := d.toHost(inner)
		if err := d.removeOnHost(host); err != nil {
			ok = false
			log.Warnf("cleanup: unable to remove %s: %v", host, err)
			continue
		}
		d.entries.Remove(inner)
	}
	if !d.entries.Has(d.cwd) {
		d.cwd = vpath.Root
	}
	return ok
}

// Close disposes the backend once. With auto-clean enabled it removes every
// tracked entry and then the host directories created solely for root
// construction, in reverse creation order. Teardown is best-effort: failures
// are logged, never returned.
func (d *DirFS) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	if !d.autoClean {
		return nil
	}

	if d.Cleanup() {
		d.entries.Reset()
	}

	for _, parent := range lo.Reverse(d.createdRootParents) {
		if err := d.removeOnHost(parent); err != nil {
			log.Errorf("teardown: unable to remove created parent %s: %v", parent, err)
		}
	}
	d.createdRootParents = nil
	return nil
}
