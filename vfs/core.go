package vfs

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"

	"github.com/vfs-kit/vfskit/entry"
	"github.com/vfs-kit/vfskit/vpath"
)

// core holds the state and the store-only operations shared by every backend:
// resolution against the current working directory, existence and kind
// queries, listing, and fuzzy search. Operations touching storage stay with
// the concrete backends.
type core struct {
	cwd     string
	entries *entry.Store
}

func newCore() core {
	return core{cwd: vpath.Root, entries: entry.NewStore()}
}

// toInner resolves an arbitrary input path against cwd into canonical form.
func (c *core) toInner(path string) string {
	return vpath.Resolve(c.cwd, path)
}

// Cwd returns the canonical inner current working directory.
func (c *core) Cwd() string {
	return c.cwd
}

// Cd changes the current working directory to an existing inner path.
func (c *core) Cd(path string) error {
	target := c.toInner(path)
	if !c.entries.Has(target) {
		return errNotFound(target)
	}
	c.cwd = target
	return nil
}

// Exists reports whether the path is tracked.
func (c *core) Exists(path string) bool {
	return c.entries.Has(c.toInner(path))
}

// IsDir reports whether the tracked path denotes a directory.
func (c *core) IsDir(path string) (bool, error) {
	inner := c.toInner(path)
	e, ok := c.entries.Get(inner)
	if !ok {
		return false, errNotFound(inner)
	}
	return e.IsDir(), nil
}

// IsFile reports whether the tracked path denotes a file.
func (c *core) IsFile(path string) (bool, error) {
	inner := c.toInner(path)
	e, ok := c.entries.Get(inner)
	if !ok {
		return false, errNotFound(inner)
	}
	return e.IsFile(), nil
}

// Ls returns the direct children of a directory in stable lexicographic
// order. A file is treated as a leaf of one and yields itself.
func (c *core) Ls(path string) ([]string, error) {
	inner := c.toInner(path)
	e, ok := c.entries.Get(inner)
	if !ok {
		return nil, errNotFound(inner)
	}
	if e.IsFile() {
		return []string{inner}, nil
	}
	return c.entries.Children(inner), nil
}

// Tree returns every descendant of the path, in the same order as Ls.
// A file has no descendants and yields an empty set.
func (c *core) Tree(path string) ([]string, error) {
	inner := c.toInner(path)
	if !c.entries.Has(inner) {
		return nil, errNotFound(inner)
	}
	return c.entries.Descendants(inner), nil
}

// Find returns tracked paths fuzzy-matching the pattern, best match first.
func (c *core) Find(pattern string) []string {
	ranks := fuzzy.RankFindNormalizedFold(pattern, c.entries.Paths())
	sort.Sort(ranks)
	return lo.Map(ranks, func(r fuzzy.Rank, _ int) string {
		return r.Target
	})
}

// missingAncestors returns the target and every absent ancestor between it
// and the nearest tracked ancestor, ordered top-down. The root is always
// tracked, so the walk terminates. The nearest tracked ancestor must be a
// directory; a file there can never hold children.
func (c *core) missingAncestors(inner string) ([]string, error) {
	var missing []string
	p := inner
	for !c.entries.Has(p) {
		missing = append(missing, p)
		p = vpath.Parent(p)
	}
	if e, _ := c.entries.Get(p); !e.IsDir() {
		return nil, errInvalidPath(fmt.Sprintf("%s is not a directory", p))
	}
	return lo.Reverse(missing), nil
}

// removeSubtree drops the target and, when it is a directory, every tracked
// descendant from the store.
func (c *core) removeSubtree(inner string) {
	e, ok := c.entries.Get(inner)
	if !ok {
		return
	}
	if e.IsDir() {
		for _, descendant := range c.entries.Descendants(inner) {
			c.entries.Remove(descendant)
		}
	}
	c.entries.Remove(inner)
}
