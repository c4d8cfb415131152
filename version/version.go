package version

import (
	"fmt"

	"github.com/bmeg/dbpedia-loader/log"
)

// Build and version details, set with -ldflags "-X ..." at build time
var (
	BuildDate   = "unknown"
	GitCommit   = "unknown"
	GitBranch   = "unknown"
	GitUpstream = "unknown"
	Version     = "unknown"
)

var tpl = `git commit: %s
git branch: %s
git upstream: %s
build date: %s
version: %s`

// String formats a string with version details.
func String() string {
	return fmt.Sprintf(tpl, GitCommit, GitBranch, GitUpstream, BuildDate, Version)
}

// LogFields returns build and version information as log fields.
func LogFields() log.Fields {
	return log.Fields{
		"GitCommit":   GitCommit,
		"GitBranch":   GitBranch,
		"GitUpstream": GitUpstream,
		"BuildDate":   BuildDate,
		"Version":     Version,
	}
}
