package markdown

import (
	"bytes"

	"golang.org/x/net/html"
)

// htmlAnchors returns the values of `id` attributes and of `name` attributes
// on `<a>` elements found in a raw HTML fragment, in source order.
func htmlAnchors(raw []byte) []string {
	var ids []string
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ids
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			anchor := string(name) == "a"
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if len(val) == 0 {
					continue
				}
				if string(key) == "id" || (anchor && string(key) == "name") {
					ids = append(ids, string(val))
				}
			}
		}
	}
}
