package markdown

// Kind discriminates the nodes the link checker cares about.
type Kind string

const (
	KindLink    Kind = "link"
	KindImage   Kind = "image"
	KindHeading Kind = "heading"
	KindAnchor  Kind = "anchor"
)

// Position is a 1-based location in the original file, frontmatter included.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Node is the uniform record produced for every link, image, heading and
// explicit anchor in a document.
type Node struct {
	Kind     Kind
	URL      string // destination of links and images
	ID       string // explicit anchor: heading attribute or HTML id/name
	Text     string // plain text of headings
	Position Position
}

// Document is a parsed Markdown file reduced to its nodes in source order.
type Document struct {
	Nodes []Node
}

// Headings returns the heading nodes.
func (d *Document) Headings() []Node { return d.filter(KindHeading) }

// Links returns link and image nodes.
func (d *Document) Links() []Node {
	out := make([]Node, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.Kind == KindLink || n.Kind == KindImage {
			out = append(out, n)
		}
	}
	return out
}

func (d *Document) filter(kind Kind) []Node {
	out := make([]Node, 0)
	for _, n := range d.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
