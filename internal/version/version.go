package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

var (
	// Version is the launcher release, matching the version of its npm package.
	// It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit, build time and platform.
func Full() string {
	return fmt.Sprintf("llc-launcher %s, commit: %s, built at: %s, %s/%s",
		Version, Commit, BuildTime, runtime.GOOS, runtime.GOARCH)
}

// Semver parses Version. Builds with a malformed version report an error so
// callers can skip version based decisions.
func Semver() (*semver.Version, error) {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("parse launcher version %q: %w", Version, err)
	}

	return v, nil
}

// OlderThan reports whether the running build is older than candidate.
// Unparsable versions are never considered newer.
func OlderThan(candidate string) bool {
	current, err := Semver()
	if err != nil {
		return false
	}

	other, err := semver.NewVersion(candidate)
	if err != nil {
		return false
	}

	return current.LessThan(other)
}
