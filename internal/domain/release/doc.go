// Package release holds the domain model of localization releases: versions,
// the descriptors reported by backends and the plans the installer executes.
package release
