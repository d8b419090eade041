// Package version exposes build metadata of the launcher.
//
// Version, Commit and BuildTime are injected at build time via Go ldflags.
// Version doubles as the baseline the self-update compares published
// launcher releases against.
package version
