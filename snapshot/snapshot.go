// Package snapshot produces structured, machine-readable captures of a VFS tree.
package snapshot

import (
	"encoding/json"
	"io"

	"github.com/samber/lo"

	"github.com/vfs-kit/vfskit/vfs"
)

// Node describes a single captured VFS entry.
type Node struct {
	Path string `json:"path" jsonschema:"description=Canonical inner path of the entry"`
	Kind string `json:"kind" jsonschema:"enum=file,enum=directory"`
	Size int    `json:"size,omitempty" jsonschema:"description=Content length in bytes for readable files"`
}

// Output is the root object of a snapshot capture.
type Output struct {
	Root    string `json:"root" jsonschema:"description=Host-anchoring path of the backend"`
	Cwd     string `json:"cwd"`
	Entries []Node `json:"entries"`
}

// Build captures every entry beneath the given inner path of a backend.
func Build(backend vfs.Backend, path string) (*Output, error) {
	paths, err := backend.Tree(path)
	if err != nil {
		return nil, err
	}

	entries := lo.Map(paths, func(p string, _ int) Node {
		node := Node{Path: p, Kind: "directory"}
		if isFile, err := backend.IsFile(p); err == nil && isFile {
			node.Kind = "file"
			if content, err := backend.Read(p); err == nil {
				node.Size = len(content)
			}
		}
		return node
	})

	return &Output{
		Root:    backend.Root(),
		Cwd:     backend.Cwd(),
		Entries: entries,
	}, nil
}

// Write encodes the snapshot as JSON onto the given writer.
func (o *Output) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(o)
}
