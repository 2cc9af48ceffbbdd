// Package entry defines the VFS's internal record for a single node and the
// ordered store tracking every node a backend knows about.
package entry

import "github.com/samber/mo"

// Kind discriminates between the two node types a VFS can track.
type Kind uint8

const (
	File Kind = iota
	Directory
)

// String returns the human-readable identifier for the kind.
func (k Kind) String() string {
	if k == Directory {
		return "directory"
	}
	return "file"
}

// Entry represents one tracked VFS node.
//
// Content is only ever present for memory-backed files; host-backed files keep
// their bytes on host storage and the option stays absent.
type Entry struct {
	kind    Kind
	content mo.Option[[]byte]
}

// New constructs an Entry of the given kind with no content.
func New(kind Kind) *Entry {
	return &Entry{kind: kind, content: mo.None[[]byte]()}
}

// Kind returns the node type of the entry.
func (e *Entry) Kind() Kind {
	return e.kind
}

// IsFile reports whether the entry represents a file.
func (e *Entry) IsFile() bool {
	return e.kind == File
}

// IsDir reports whether the entry represents a directory.
func (e *Entry) IsDir() bool {
	return e.kind == Directory
}

// Content returns the in-memory byte content, if any.
func (e *Entry) Content() mo.Option[[]byte] {
	return e.content
}

// SetContent replaces the entry's in-memory content with a copy of the given bytes.
func (e *Entry) SetContent(content []byte) {
	buf := make([]byte, len(content))
	copy(buf, content)
	e.content = mo.Some(buf)
}

// AppendContent concatenates bytes onto the entry's existing in-memory content.
func (e *Entry) AppendContent(content []byte) {
	existing := e.content.OrElse(nil)
	e.SetContent(append(existing, content...))
}
