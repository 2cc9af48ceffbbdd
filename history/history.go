// Package history provides the implementation for tracking and persisting recently mounted VFS roots.
package history

import (
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/vfs-kit/vfskit/filesystem"
	"github.com/vfs-kit/vfskit/key"
	"github.com/vfs-kit/vfskit/where"
)

// SavedRoot is a single registry record describing a mounted VFS root.
type SavedRoot struct {
	Root      string    `json:"root"`
	Backend   string    `json:"backend"`
	MountedAt time.Time `json:"mounted_at"`
}

// cacher provides an abstracted, disk-backed registry for mounted root records.
var cacher = gache.New[map[string]*SavedRoot](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of recorded roots from the persistent store.
func Get() (map[string]*SavedRoot, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedRoot), nil
	}
	return cached, nil
}

// Save persists a mounted root to the registry, honoring the configured
// write toggle and size bound. Re-mounting a known root refreshes its timestamp.
func Save(root, backend string) error {
	if !viper.GetBool(key.HistoryWriteRoots) {
		return nil
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	saved[root] = &SavedRoot{
		Root:      root,
		Backend:   backend,
		MountedAt: time.Now(),
	}

	// Evict the oldest records beyond the configured bound.
	if limit := viper.GetInt(key.HistoryMaxRoots); limit > 0 {
		for len(saved) > limit {
			oldest := lo.MinBy(lo.Values(saved), func(a, b *SavedRoot) bool {
				return a.MountedAt.Before(b.MountedAt)
			})
			delete(saved, oldest.Root)
		}
	}

	return cacher.Set(saved)
}

// Remove permanently deletes a specific root record from the registry.
func Remove(root string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, root)
	return cacher.Set(saved)
}

// Clear discards every recorded root.
func Clear() error {
	return cacher.Set(make(map[string]*SavedRoot))
}
