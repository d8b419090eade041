// Package installer keeps the localization content directory up to date.
//
// Run reads the installed marker, resolves the latest release and, when the
// installation is behind, downloads and verifies the new archives before
// touching the directory. Old content is then removed (the Font directory is
// kept), the archive is extracted, the font is installed if needed, and the
// marker is written last.
package installer
