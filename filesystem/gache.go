// Package filesystem provides the swappable storage port backing all host filesystem access.
package filesystem

import (
	"io"
	"os"
)

// GacheFs adapts the afero storage port to the gache.FileSystem interface.
// This allows the gache library to persist caches through the same swappable backend.
type GacheFs struct{}

// OpenFile opens a file using the current storage port.
func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

// MkdirAll creates a directory using the current storage port.
func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
