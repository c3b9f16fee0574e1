// Package linkpath folds the many spellings of a link (relative paths, bare
// fragments, root-relative paths, full repository URLs) onto one canonical
// (file, anchor) pair.
package linkpath

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/doclinks/internal/hosting"
)

var lineLink = regexp.MustCompile(`(?i)^#l\d`)

// Base is the document a link was found in.
type Base struct {
	Path string // absolute path of the document; empty for in-memory input
	Dir  string // directory relative links resolve against
}

// NewBase returns the Base for an absolute document path.
func NewBase(path string) Base {
	return Base{Path: path, Dir: filepath.Dir(path)}
}

// Target is a normalized link destination. Anchor is empty when the link
// addresses the file as a whole.
type Target struct {
	File   string
	Anchor string
}

// Normalizer resolves raw link strings for one run.
type Normalizer struct {
	Host *hosting.Config
	Root string
}

// New returns a Normalizer; a nil host means no hosted-link support.
func New(host *hosting.Config, root string) *Normalizer {
	if host == nil {
		host = hosting.Empty()
	}
	return &Normalizer{Host: host, Root: root}
}

// Normalize resolves raw as found in base. It reports false for links that
// cannot be checked: external URLs, other schemes, links into other branches
// and root-relative paths without a known host.
func (n *Normalizer) Normalize(raw string, base Base, image bool) (Target, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Target{}, false
	}

	if strings.HasPrefix(value, "/") {
		if n.Host.Hostname == "" {
			return Target{}, false
		}
		value = "https://" + n.Host.Hostname + value
	}

	if u, err := url.Parse(value); err == nil && u.Scheme != "" {
		return n.fromURL(u, image)
	}

	return n.fromRelative(value, base, image)
}

func (n *Normalizer) fromURL(u *url.URL, image bool) (Target, bool) {
	host := n.Host
	if !host.Hosted() ||
		(u.Scheme != "http" && u.Scheme != "https") ||
		!strings.EqualFold(u.Hostname(), host.Hostname) ||
		!strings.HasPrefix(u.EscapedPath(), host.Prefix) {
		return Target{}, false
	}

	rest := strings.TrimPrefix(u.EscapedPath(), host.Prefix)

	// `a/b/c` may be `c` on branch `a/b` or `b/c` on branch `a`. Branch names
	// with slashes are not supported: the first segment is the branch.
	branch, rest, _ := strings.Cut(rest, "/")
	if host.Branch != "" && branch != host.Branch {
		return Target{}, false
	}

	file := filepath.Join(n.Root, filepath.FromSlash(decode(rest)))
	hash := ""
	if !image && (u.Fragment != "" || u.RawFragment != "") {
		hash = "#" + u.EscapedFragment()
	}
	return n.finish(file, hash), true
}

func (n *Normalizer) fromRelative(value string, base Base, image bool) (Target, bool) {
	hashIndex := strings.Index(value, "#")
	queryIndex := strings.Index(value, "?")

	// Drop the search, unless it is part of the fragment: `a.md#heading?`.
	if queryIndex != -1 && (hashIndex == -1 || hashIndex > queryIndex) {
		if hashIndex == -1 {
			value = value[:queryIndex]
		} else {
			value = value[:queryIndex] + value[hashIndex:]
		}
		hashIndex = strings.Index(value, "#")
	}

	// Fragments on images are metadata, not headings.
	if hashIndex != -1 && image {
		value = value[:hashIndex]
		hashIndex = -1
	}

	file, hash := value, ""
	if hashIndex != -1 {
		file, hash = value[:hashIndex], value[hashIndex:]
	}

	switch {
	case base.Path == "" && file == "":
		// Fragment in a document without a path.
	case base.Path == "":
		return Target{}, false
	case file == "":
		file = base.Path
	default:
		file = filepath.Join(base.Dir, filepath.FromSlash(decode(file)))
	}

	return n.finish(file, hash), true
}

// finish applies the host's heading rules to hash.
func (n *Normalizer) finish(file, hash string) Target {
	target := Target{File: file}
	if hash == "" {
		return target
	}

	host := n.Host
	hash = FoldCase(hash)
	prefix := host.HeadingPrefix
	if prefix == "" {
		prefix = hosting.DefaultHeadingPrefix
	}

	switch {
	case host.TopAnchor != "" && hash == host.TopAnchor:
	case host.Lines && lineLink.MatchString(hash):
	case !strings.HasPrefix(hash, prefix):
	default:
		target.Anchor = decode(strings.TrimPrefix(hash, prefix))
	}
	return target
}

// FoldCase lower-cases anchors and slugs the same way everywhere.
func FoldCase(s string) string {
	// A Caser is stateful, so one is created per call.
	return cases.Lower(language.Und).String(s)
}

func decode(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}

var readmeExtensions = map[string]bool{".markdown": true, ".mdown": true, ".mkdn": true, ".md": true}

// IsReadme reports whether name is a README that hosts render for its
// directory: `readme` in any case with a Markdown extension.
func IsReadme(name string) bool {
	ext := filepath.Ext(name)
	return readmeExtensions[ext] && strings.EqualFold(strings.TrimSuffix(filepath.Base(name), ext), "readme")
}
