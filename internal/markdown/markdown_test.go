package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `---
title: x
---
# Hello World

See [b](b.md#intro) and ![img](i.png).

## Custom {#my-id}

<a name="legacy"></a>

<div id="block-id">x</div>
`

func TestParse_Nodes(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	headings := doc.Headings()
	require.Len(t, headings, 2)
	assert.Equal(t, "Hello World", headings[0].Text)
	assert.Empty(t, headings[0].ID)
	assert.Equal(t, 4, headings[0].Position.Line)
	assert.Equal(t, "my-id", headings[1].ID)
	assert.Equal(t, "Custom", strings.TrimSpace(headings[1].Text))
	assert.Equal(t, 8, headings[1].Position.Line)

	links := doc.Links()
	require.Len(t, links, 2)
	assert.Equal(t, Node{Kind: KindLink, URL: "b.md#intro", Position: Position{Line: 6, Column: 5}}, links[0])
	assert.Equal(t, Node{Kind: KindImage, URL: "i.png", Position: Position{Line: 6, Column: 25}}, links[1])

	var anchors []Node
	for _, n := range doc.Nodes {
		if n.Kind == KindAnchor {
			anchors = append(anchors, n)
		}
	}
	require.Len(t, anchors, 2)
	assert.Equal(t, "legacy", anchors[0].ID)
	assert.Equal(t, 10, anchors[0].Position.Line)
	assert.Equal(t, "block-id", anchors[1].ID)
	assert.Equal(t, 12, anchors[1].Position.Line)
}

func TestParse_ReferenceLinksResolveAtUsage(t *testing.T) {
	doc, err := Parse([]byte("Intro [text][ref].\n\n[ref]: other.md#h\n"))
	require.NoError(t, err)

	links := doc.Links()
	require.Len(t, links, 1)
	assert.Equal(t, "other.md#h", links[0].URL)
	assert.Equal(t, Position{Line: 1, Column: 7}, links[0].Position)
}

func TestParse_UnusedDefinitionsAreLinks(t *testing.T) {
	doc, err := Parse([]byte("Intro [text][used].\n\n[used]: a.md\n  [Spare Ref]: d.md#gone\n"))
	require.NoError(t, err)

	links := doc.Links()
	require.Len(t, links, 2)
	assert.Equal(t, "a.md", links[0].URL)
	assert.Equal(t, Node{Kind: KindLink, URL: "d.md#gone", Position: Position{Line: 4, Column: 3}}, links[1])
}

func TestParse_EmptyLabel(t *testing.T) {
	doc, err := Parse([]byte("x [](a.md) ![](b.png)\n"))
	require.NoError(t, err)

	links := doc.Links()
	require.Len(t, links, 2)
	assert.Equal(t, Position{Line: 1, Column: 3}, links[0].Position)
	assert.Equal(t, Position{Line: 1, Column: 12}, links[1].Position)
}

func TestParse_Autolink(t *testing.T) {
	doc, err := Parse([]byte("Visit <https://example.com/a> or mail <me@example.com>.\n"))
	require.NoError(t, err)

	links := doc.Links()
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/a", links[0].URL)
}

func TestParse_HeadingTextSkipsImagesAndKeepsCode(t *testing.T) {
	doc, err := Parse([]byte("# Use `go test` ![badge](b.svg) now\n"))
	require.NoError(t, err)

	headings := doc.Headings()
	require.Len(t, headings, 1)
	assert.Equal(t, "Use go test  now", headings[0].Text)
}

func TestParse_HeadingTextResolvesCharacterReferences(t *testing.T) {
	doc, err := Parse([]byte("# A &amp; B\n\n# Caf&eacute; &#169; 2024\n\n# `&amp;` code\n"))
	require.NoError(t, err)

	var texts []string
	for _, h := range doc.Headings() {
		texts = append(texts, h.Text)
	}
	assert.Equal(t, []string{"A & B", "Café © 2024", "&amp; code"}, texts)
}

func TestParse_FrontmatterIsNotAHeading(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: x\n---\nbody\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Headings())
}

func TestParse_InvalidUTF8(t *testing.T) {
	_, err := Parse([]byte{0xff, 0xfe, '#'})
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestHTMLAnchors(t *testing.T) {
	assert.Equal(t, []string{"x", "y"}, htmlAnchors([]byte(`<a name="x" id="y">`)))
	assert.Empty(t, htmlAnchors([]byte(`<input name="q">`)))
	assert.Equal(t, []string{"d"}, htmlAnchors([]byte(`<div id="d"><span id="">x</span></div>`)))
}
