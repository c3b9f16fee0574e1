// Package extract turns one parsed document into its link index: the
// landmarks it defines and the references it makes.
package extract

import (
	"path/filepath"

	"git.home.luguber.info/inful/doclinks/internal/linkindex"
	"git.home.luguber.info/inful/doclinks/internal/linkpath"
	"git.home.luguber.info/inful/doclinks/internal/markdown"
	"git.home.luguber.info/inful/doclinks/internal/util/sets"
)

// Mode selects whether references to other files are followed.
type Mode int

const (
	// Single checks one document in isolation; only its own headings are
	// validated.
	Single Mode = iota
	// Multi follows heading references into other files.
	Multi
)

// Extract builds the index of doc, located at path (empty for in-memory
// input). In Multi mode it also returns the files that must be parsed to
// validate heading references, in order of first reference.
func Extract(doc *markdown.Document, path string, n *linkpath.Normalizer, mode Mode) (*linkindex.FileIndex, []string) {
	b := linkindex.NewBuilder(path)
	readme := path != "" && linkpath.IsReadme(path)
	addLandmark := func(anchor string) {
		b.AddLandmark(linkindex.Key{File: path, Anchor: anchor})
		// A README also defines its directory, which may over-associate when
		// a directory holds several README variants.
		if readme {
			b.AddLandmark(linkindex.Key{File: filepath.Dir(path), Anchor: anchor})
		}
	}

	base := linkpath.Base{}
	if path != "" {
		base = linkpath.NewBase(path)
	}

	addLandmark("")
	slugs := markdown.NewSlugger()
	var schedule sets.Ordered[string]

	for _, node := range doc.Nodes {
		switch node.Kind {
		case markdown.KindHeading:
			id := node.ID
			if id == "" {
				id = slugs.Slug(node.Text)
			}
			if id != "" {
				addLandmark(id)
			}

		case markdown.KindAnchor:
			addLandmark(node.ID)

		case markdown.KindLink, markdown.KindImage:
			target, ok := n.Normalize(node.URL, base, node.Kind == markdown.KindImage)
			if !ok {
				continue
			}

			b.AddReference(linkindex.FileKey(target.File), node)
			if target.Anchor == "" {
				continue
			}

			if mode == Multi || target.File == path {
				b.AddReference(linkindex.Key{File: target.File, Anchor: target.Anchor}, node)
			}
			if mode == Multi && target.File != "" && target.File != path {
				schedule.Add(target.File)
			}
		}
	}

	return b.Build(), schedule.Items()
}
