// Package markdown parses Markdown with goldmark and reduces the syntax tree
// to the nodes the link checker consumes: links, images, headings and
// explicit anchors.
package markdown

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/doclinks/internal/frontmatter"
)

// ErrInvalidUTF8 is returned for content that is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

func newParser() parser.Parser {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
	return md.Parser()
}

// Parse parses a complete file. YAML frontmatter is removed before parsing
// and positions refer to lines of the original content.
func Parse(content []byte) (*Document, error) {
	if !utf8.Valid(content) {
		return nil, ErrInvalidUTF8
	}

	split, err := frontmatter.Parse(content)
	if err != nil && !errors.Is(err, frontmatter.ErrMissingClosingDelimiter) {
		return nil, err
	}

	return ParseBody(split.Body, split.LineOffset()), nil
}

// ParseBody parses a Markdown body (frontmatter already removed). lineOffset
// is added to every reported line.
func ParseBody(body []byte, lineOffset int) *Document {
	pc := parser.NewContext()
	root := newParser().Parse(text.NewReader(body), parser.WithContext(pc))
	w := &walker{source: body, lines: lineStarts(body), offset: lineOffset}
	_ = gmast.Walk(root, w.visit)
	w.definitions(pc.References())
	return &Document{Nodes: w.nodes}
}

type walker struct {
	source []byte
	lines  []int
	offset int
	nodes  []Node
}

func (w *walker) visit(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}

	switch node := n.(type) {
	case *gmast.Heading:
		w.nodes = append(w.nodes, Node{
			Kind:     KindHeading,
			ID:       attributeString(node, "id"),
			Text:     headingText(node, w.source),
			Position: w.position(blockStart(node)),
		})
	case *gmast.Link:
		w.nodes = append(w.nodes, Node{
			Kind:     KindLink,
			URL:      string(node.Destination),
			Position: w.position(w.inlineStart(node, node.Destination, 1)),
		})
	case *gmast.Image:
		w.nodes = append(w.nodes, Node{
			Kind:     KindImage,
			URL:      string(node.Destination),
			Position: w.position(w.inlineStart(node, node.Destination, 2)),
		})
	case *gmast.AutoLink:
		if node.AutoLinkType != gmast.AutoLinkURL {
			return gmast.WalkContinue, nil
		}
		url := node.URL(w.source)
		w.nodes = append(w.nodes, Node{
			Kind:     KindLink,
			URL:      string(url),
			Position: w.position(w.search(node, url)),
		})
	case *gmast.RawHTML:
		var raw []byte
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			raw = append(raw, seg.Value(w.source)...)
		}
		start := -1
		if node.Segments.Len() > 0 {
			start = node.Segments.At(0).Start
		}
		w.anchors(raw, start)
	case *gmast.HTMLBlock:
		var raw []byte
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			raw = append(raw, line.Value(w.source)...)
		}
		if node.HasClosure() {
			raw = append(raw, node.ClosureLine.Value(w.source)...)
		}
		w.anchors(raw, blockStart(node))
	}
	return gmast.WalkContinue, nil
}

// definitions adds link reference definitions whose destination no link in
// the document uses, so unused definitions are still checked. Used ones are
// reported at their usage sites.
func (w *walker) definitions(refs []parser.Reference) {
	used := make(map[string]bool)
	for _, n := range w.nodes {
		if n.Kind == KindLink || n.Kind == KindImage {
			used[n.URL] = true
		}
	}
	for _, ref := range refs {
		dest := string(ref.Destination())
		if dest == "" || used[dest] {
			continue
		}
		used[dest] = true
		w.nodes = append(w.nodes, Node{
			Kind:     KindLink,
			URL:      dest,
			Position: w.position(w.definitionStart(ref.Label())),
		})
	}
}

// definitionStart returns the offset of the `[label]:` line defining label.
func (w *walker) definitionStart(label []byte) int {
	want := util.ToLinkReference(label)
	for _, start := range w.lines {
		line := w.source[start:]
		if end := bytes.IndexByte(line, '\n'); end >= 0 {
			line = line[:end]
		}
		indent := 0
		for indent < len(line) && indent < 3 && line[indent] == ' ' {
			indent++
		}
		rest := line[indent:]
		if len(rest) == 0 || rest[0] != '[' {
			continue
		}
		closing := bytes.Index(rest, []byte("]:"))
		if closing < 0 {
			continue
		}
		if util.ToLinkReference(rest[1:closing]) == want {
			return start + indent
		}
	}
	return -1
}

func (w *walker) anchors(raw []byte, start int) {
	for _, id := range htmlAnchors(raw) {
		w.nodes = append(w.nodes, Node{Kind: KindAnchor, ID: id, Position: w.position(start)})
	}
}

// inlineStart finds the opening bracket of a link or image. Inline nodes
// carry no position, so it is recovered from the first text descendant or,
// for empty labels, by searching the enclosing block for the destination.
func (w *walker) inlineStart(n gmast.Node, dest []byte, marker int) int {
	if seg, ok := firstText(n); ok {
		lo, _ := blockRange(n)
		for i := seg.Start - 1; i >= 0 && i >= lo; i-- {
			if w.source[i] == '[' {
				return max(i-(marker-1), 0)
			}
		}
		return seg.Start
	}
	pos := w.search(n, append([]byte("]("), dest...))
	if pos > 0 && w.source[pos-1] == '[' {
		pos--
		if marker == 2 && pos > 0 && w.source[pos-1] == '!' {
			pos--
		}
	}
	return pos
}

func (w *walker) search(n gmast.Node, needle []byte) int {
	lo, hi := blockRange(n)
	if lo < 0 {
		return -1
	}
	if idx := bytes.Index(w.source[lo:hi], needle); idx >= 0 {
		return lo + idx
	}
	return lo
}

func (w *walker) position(offset int) Position {
	if offset < 0 {
		return Position{Line: w.offset + 1, Column: 1}
	}
	line := sort.Search(len(w.lines), func(i int) bool { return w.lines[i] > offset }) - 1
	line = max(line, 0)
	col := utf8.RuneCount(w.source[w.lines[line]:offset]) + 1
	return Position{Line: w.offset + line + 1, Column: col}
}

func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func firstText(n gmast.Node) (text.Segment, bool) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			return t.Segment, true
		}
		if seg, ok := firstText(c); ok {
			return seg, true
		}
	}
	return text.Segment{}, false
}

// blockRange returns the source byte range of the closest enclosing block
// that has lines, or -1 if there is none.
func blockRange(n gmast.Node) (int, int) {
	for p := n; p != nil; p = p.Parent() {
		if p.Type() != gmast.TypeBlock {
			continue
		}
		if lines := p.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0).Start, lines.At(lines.Len() - 1).Stop
		}
	}
	return -1, -1
}

func blockStart(n gmast.Node) int {
	lo, _ := blockRange(n)
	return lo
}

// headingText returns the rendered text of a heading. Entity and numeric
// character references are resolved except inside code spans.
func headingText(n gmast.Node, source []byte) string {
	var b strings.Builder
	var collect func(gmast.Node, bool)
	collect = func(n gmast.Node, literal bool) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *gmast.Text:
				value := node.Segment.Value(source)
				if !literal {
					value = util.ResolveNumericReferences(util.ResolveEntityNames(value))
				}
				b.Write(value)
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *gmast.String:
				b.Write(node.Value)
			case *gmast.CodeSpan:
				collect(c, true)
			case *gmast.Image, *gmast.RawHTML:
			default:
				collect(c, literal)
			}
		}
	}
	collect(n, false)
	return b.String()
}

func attributeString(n gmast.Node, name string) string {
	v, ok := n.AttributeString(name)
	if !ok {
		return ""
	}
	switch value := v.(type) {
	case []byte:
		return string(value)
	case string:
		return value
	}
	return ""
}
