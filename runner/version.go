package runner

var (
	// Version is the current application version,
	// injected at build time via -ldflags.
	Version = "dev"

	// BuildDate is the timestamp of the build,
	// injected at build time via -ldflags.
	BuildDate = "unknown"

	// Commit is the git commit hash,
	// injected at build time via -ldflags.
	Commit = "none"
)
