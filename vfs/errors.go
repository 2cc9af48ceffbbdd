package vfs

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the backend error taxonomy. Host storage failures
// are wrapped with context instead and match none of these; check with
// errors.Is.
var (
	ErrInvalidPath   = errors.New("invalid path")
	ErrNotFound      = errors.New("no such file or directory")
	ErrAlreadyExists = errors.New("path already exists")
	ErrIsDirectory   = errors.New("is a directory")
)

func errInvalidPath(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidPath, reason)
}

func errNotFound(path string) error {
	return fmt.Errorf("%s: %w", path, ErrNotFound)
}

func errAlreadyExists(path string) error {
	return fmt.Errorf("%s: %w", path, ErrAlreadyExists)
}

func errIsDirectory(path string) error {
	return fmt.Errorf("%s: %w", path, ErrIsDirectory)
}
