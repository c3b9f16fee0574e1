// Package linkindex holds the per-document result of link extraction: the
// landmarks a document proves to exist and the references it makes.
//
// A FileIndex is built once by a Builder and is read-only afterwards.
package linkindex

import (
	"git.home.luguber.info/inful/doclinks/internal/markdown"
	"git.home.luguber.info/inful/doclinks/internal/util/sets"
)

// Key addresses a file (Anchor == "") or a heading within it.
type Key struct {
	File   string `json:"file"`
	Anchor string `json:"anchor,omitempty"`
}

// FileKey returns the file-level key for path.
func FileKey(path string) Key { return Key{File: path} }

// IsFile reports whether k addresses a whole file.
func (k Key) IsFile() bool { return k.Anchor == "" }

// Reference is every occurrence, in one document, of links to one key.
type Reference struct {
	Key   Key
	Nodes []markdown.Node
}

// FileIndex is the extraction result of one document.
type FileIndex struct {
	path       string
	landmarks  sets.Ordered[Key]
	refKeys    sets.Ordered[Key]
	references map[Key][]markdown.Node
	opaque     bool
}

// Path is the canonical path of the document the index was built from.
func (f *FileIndex) Path() string { return f.path }

// Landmarks returns the landmarks in registration order.
func (f *FileIndex) Landmarks() []Key { return f.landmarks.Items() }

// HasLandmark reports whether k was registered as a landmark.
func (f *FileIndex) HasLandmark(k Key) bool { return f.landmarks.Has(k) }

// Opaque reports whether the file exists but its anchors cannot be known,
// such as a non-Markdown file. Any anchor reference into it is accepted.
func (f *FileIndex) Opaque() bool { return f.opaque }

// References returns the references in order of first occurrence.
func (f *FileIndex) References() []Reference {
	keys := f.refKeys.Items()
	out := make([]Reference, 0, len(keys))
	for _, k := range keys {
		nodes := f.references[k]
		out = append(out, Reference{Key: k, Nodes: append([]markdown.Node(nil), nodes...)})
	}
	return out
}

// ReferenceCount returns the number of link occurrences, counting every node.
func (f *FileIndex) ReferenceCount() int {
	n := 0
	for _, nodes := range f.references {
		n += len(nodes)
	}
	return n
}

// Builder accumulates landmarks and references for one document.
type Builder struct {
	index *FileIndex
}

// NewBuilder starts an index for the document at path.
func NewBuilder(path string) *Builder {
	return &Builder{index: &FileIndex{path: path, references: make(map[Key][]markdown.Node)}}
}

// AddLandmark registers k as existing.
func (b *Builder) AddLandmark(k Key) { b.index.landmarks.Add(k) }

// AddReference records that node links to k. Repeated keys accumulate nodes.
func (b *Builder) AddReference(k Key, node markdown.Node) {
	b.index.refKeys.Add(k)
	b.index.references[k] = append(b.index.references[k], node)
}

// MarkOpaque flags the document as one whose anchors cannot be listed.
func (b *Builder) MarkOpaque() { b.index.opaque = true }

// Build returns the finished index. The builder must not be used afterwards.
func (b *Builder) Build() *FileIndex {
	idx := b.index
	b.index = nil
	return idx
}
