package hosting

import (
	"path/filepath"
	"strings"
)

// Provider identifies a known hosted-git service.
type Provider string

const (
	ProviderNone      Provider = ""
	ProviderGitHub    Provider = "github"
	ProviderGitLab    Provider = "gitlab"
	ProviderBitbucket Provider = "bitbucket"
)

// DefaultHeadingPrefix is used whenever no provider-specific prefix applies.
const DefaultHeadingPrefix = "#"

// Config holds the URL-shape rules of the repository's web view.
// It is computed once per run and never modified afterwards.
type Config struct {
	Provider      Provider `json:"provider,omitempty"`
	Hostname      string   `json:"hostname,omitempty"`
	Prefix        string   `json:"prefix,omitempty"`         // e.g. /user/project/blob/
	HeadingPrefix string   `json:"heading_prefix,omitempty"` // e.g. # or #markdown-header-
	Lines         bool     `json:"lines,omitempty"`          // #L12 style links exist
	TopAnchor     string   `json:"top_anchor,omitempty"`     // e.g. #readme
	Branch        string   `json:"branch,omitempty"`         // checked-out branch, when known
}

type providerShape struct {
	domain        string
	view          string
	headingPrefix string
	topAnchor     string
	lines         bool
}

var providers = map[Provider]providerShape{
	ProviderGitHub:    {domain: "github.com", view: "blob", headingPrefix: "#", topAnchor: "#readme", lines: true},
	ProviderGitLab:    {domain: "gitlab.com", view: "blob", headingPrefix: "#", topAnchor: "#readme", lines: true},
	ProviderBitbucket: {domain: "bitbucket.org", view: "src", headingPrefix: "#markdown-header-"},
}

// Empty returns the configuration for unhosted or unknown repositories.
func Empty() *Config {
	return &Config{HeadingPrefix: DefaultHeadingPrefix}
}

// FromRepository builds the configuration for a parsed repository identifier.
func FromRepository(repo *Repository) *Config {
	if repo == nil {
		return Empty()
	}
	shape, ok := providers[repo.Provider]
	if !ok {
		return Empty()
	}
	return &Config{
		Provider:      repo.Provider,
		Hostname:      shape.domain,
		Prefix:        "/" + repo.User + "/" + repo.Project + "/" + shape.view + "/",
		HeadingPrefix: shape.headingPrefix,
		Lines:         shape.lines,
		TopAnchor:     shape.topAnchor,
		Branch:        repo.Committish,
	}
}

// Normalized fills defaults into an explicit override.
func (c Config) Normalized() *Config {
	if c.HeadingPrefix == "" {
		c.HeadingPrefix = DefaultHeadingPrefix
	}
	if c.Prefix != "" && !strings.HasSuffix(c.Prefix, "/") {
		c.Prefix += "/"
	}
	if c.TopAnchor != "" && !strings.HasPrefix(c.TopAnchor, "#") {
		c.TopAnchor = "#" + c.TopAnchor
	}
	c.TopAnchor = strings.ToLower(c.TopAnchor)
	return &c
}

// Hosted reports whether full repository URLs can be resolved.
func (c *Config) Hosted() bool {
	return c.Prefix != "" && c.Hostname != ""
}

// URLFor derives the web-view URL of filePath (absolute, below root) and an
// optional anchor. It is the inverse of link normalization, modulo branch.
func (c *Config) URLFor(root, filePath, anchor string) (string, bool) {
	if !c.Hosted() {
		return "", false
	}
	rel, err := filepath.Rel(root, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}

	branch := c.Branch
	if branch == "" {
		branch = "HEAD"
	}

	u := "https://" + c.Hostname + c.Prefix + branch
	if rel != "." {
		u += "/" + filepath.ToSlash(rel)
	}
	if anchor != "" {
		u += c.HeadingPrefix + anchor
	}
	return u, true
}
