// Package frontmatter separates YAML frontmatter from a Markdown body so that
// `---` delimiters never reach the Markdown parser.
package frontmatter

import (
	"bytes"
	"errors"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split is the result of separating frontmatter from a document.
type Split struct {
	Raw  []byte // frontmatter without delimiters
	Body []byte
	Had  bool
}

// LineOffset returns the number of lines that precede the body in the
// original file: fileLine = LineOffset() + bodyLine.
func (s Split) LineOffset() int {
	if !s.Had {
		return 0
	}
	return 2 + bytes.Count(s.Raw, []byte("\n"))
}

// Parse separates YAML frontmatter (`---` delimited) from the Markdown body.
// Without an opening delimiter the whole input is the body.
func Parse(content []byte) (Split, error) {
	nl := newline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Split{Body: content}, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return Split{Raw: []byte{}, Body: content[start+len(open):], Had: true}, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		return Split{Body: content}, ErrMissingClosingDelimiter
	}

	return Split{
		Raw:  content[start : start+idx+len(nl)],
		Body: content[start+idx+len(closing):],
		Had:  true,
	}, nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
