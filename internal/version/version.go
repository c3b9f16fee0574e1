// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/doclinks/internal/version.Version=v0.3.0"
package version

import "fmt"

var (
	Version   = "unknown"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String renders the metadata for --version.
func String() string {
	if GitCommit == "unknown" && BuildTime == "unknown" {
		return "doclinks " + Version
	}
	return fmt.Sprintf("doclinks %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
