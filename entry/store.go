package entry

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/vfs-kit/vfskit/vpath"
)

// Store maps canonical inner paths to entries.
//
// Invariants maintained by the backends on top of this structure: the root is
// always present as a directory and every non-root key's parent is present as
// a directory. Ordered views are lexicographic over the canonical paths, which
// sorts every parent before any of its descendants.
type Store struct {
	entries map[string]*Entry
}

// NewStore returns a store seeded with the root directory marker.
func NewStore() *Store {
	s := &Store{entries: make(map[string]*Entry)}
	s.entries[vpath.Root] = New(Directory)
	return s
}

// Insert adds or replaces the entry stored at the given canonical path.
func (s *Store) Insert(path string, e *Entry) {
	s.entries[path] = e
}

// Get returns the entry stored at the given canonical path.
func (s *Store) Get(path string) (*Entry, bool) {
	e, ok := s.entries[path]
	return e, ok
}

// Has reports whether a canonical path is tracked.
func (s *Store) Has(path string) bool {
	_, ok := s.entries[path]
	return ok
}

// Remove deletes a single entry. Removing the root is a no-op.
func (s *Store) Remove(path string) {
	if path == vpath.Root {
		return
	}
	delete(s.entries, path)
}

// Len returns the number of tracked entries, the root included.
func (s *Store) Len() int {
	return len(s.entries)
}

// Paths returns every tracked canonical path in ascending lexicographic order.
func (s *Store) Paths() []string {
	paths := lo.Keys(s.entries)
	slices.Sort(paths)
	return paths
}

// Children returns the tracked paths exactly one component beneath the target,
// in ascending order.
func (s *Store) Children(path string) []string {
	depth := vpath.Depth(path) + 1
	return lo.Filter(s.Paths(), func(p string, _ int) bool {
		return p != path && vpath.HasPrefix(p, path) && vpath.Depth(p) == depth
	})
}

// Descendants returns every tracked path strictly beneath the target, in
// ascending order.
func (s *Store) Descendants(path string) []string {
	return lo.Filter(s.Paths(), func(p string, _ int) bool {
		return p != path && vpath.HasPrefix(p, path)
	})
}

// Reset discards every entry and re-seeds the root directory marker.
func (s *Store) Reset() {
	s.entries = make(map[string]*Entry)
	s.entries[vpath.Root] = New(Directory)
}
