// Package version carries build metadata injected via -ldflags.
package version

import "fmt"

var (
	// Version is the current application version.
	Version = "dev"
	// GitSHA is the git commit SHA.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String renders the build metadata on one line for the -version flags and
// the dashboard footer.
func String() string {
	return fmt.Sprintf("laptrace.report %s (%s, built %s)", Version, GitSHA, BuildTime)
}
