// Package version provides centralized version information for ggo.
package version

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X ggo/internal/version.Version=1.0.0 -X ggo/internal/version.Commit=abc123"
var (
	// Version is the semantic version of ggo
	Version = "0.4.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// Info returns a short version string for display
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information
func Full() string {
	return "ggo version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
