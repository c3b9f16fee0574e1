package hosting

import (
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Repository is a parsed repository identifier.
type Repository struct {
	Provider   Provider
	Domain     string
	User       string
	Project    string
	Committish string
}

var shorthand = regexp.MustCompile(`^[^/:@\s]+/[^/:@\s#]+$`)

var domains = map[string]Provider{
	"github.com":    ProviderGitHub,
	"gitlab.com":    ProviderGitLab,
	"bitbucket.org": ProviderBitbucket,
}

// ParseRepository parses shorthands (`user/project`, `gitlab:user/project`),
// web and clone URLs and scp-like remotes (`git@host:user/project.git`).
// An optional `#committish` suffix selects a branch.
//
// Identifiers that do not point at a known provider come back with
// ProviderNone; gists are treated the same way.
func ParseRepository(identifier string) *Repository {
	value := strings.TrimSpace(identifier)
	repo := &Repository{}

	if before, after, ok := strings.Cut(value, "#"); ok {
		value, repo.Committish = before, after
	}
	if value == "" {
		return repo
	}

	if provider, rest, ok := strings.Cut(value, ":"); ok && isShortcutPrefix(provider, rest) {
		p := Provider(provider)
		if _, known := providers[p]; known && shorthand.MatchString(rest) {
			repo.Provider = p
			repo.Domain = providers[p].domain
			repo.User, repo.Project = splitShorthand(rest)
		}
		// Gists and other prefixes are not hosted repositories.
		return repo
	}

	if shorthand.MatchString(value) {
		repo.Provider = ProviderGitHub
		repo.Domain = providers[ProviderGitHub].domain
		repo.User, repo.Project = splitShorthand(value)
		return repo
	}

	endpoint, err := transport.NewEndpoint(strings.TrimPrefix(value, "git+"))
	if err != nil || endpoint.Protocol == "file" {
		return repo
	}

	host := strings.TrimPrefix(strings.ToLower(endpoint.Host), "www.")
	provider, ok := domains[host]
	if !ok {
		return repo
	}

	segments := strings.FieldsFunc(endpoint.Path, func(r rune) bool { return r == '/' })
	if len(segments) < 2 {
		return repo
	}

	repo.Provider = provider
	repo.Domain = host
	switch {
	case provider == ProviderGitLab:
		// GitLab allows nested groups; the project is the last segment.
		if i := indexOf(segments, "-"); i > 1 {
			segments = segments[:i]
		}
		repo.User = strings.Join(segments[:len(segments)-1], "/")
		repo.Project = strings.TrimSuffix(segments[len(segments)-1], ".git")
	default:
		repo.User = segments[0]
		repo.Project = strings.TrimSuffix(segments[1], ".git")
		if len(segments) > 3 && segments[2] == "tree" && repo.Committish == "" {
			repo.Committish = strings.Join(segments[3:], "/")
		}
	}
	return repo
}

// isShortcutPrefix distinguishes `gitlab:user/project` from URLs and
// scp-like remotes, which also contain a colon.
func isShortcutPrefix(prefix, rest string) bool {
	return !strings.ContainsAny(prefix, "/@.") && !strings.HasPrefix(rest, "//")
}

func splitShorthand(value string) (string, string) {
	user, project, _ := strings.Cut(value, "/")
	return user, strings.TrimSuffix(project, ".git")
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}
