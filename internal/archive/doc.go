// Package archive extracts downloaded archives into the game directory.
//
// Tarballs from npm and 7z archives from the vendor are supported. A Mapper
// selects and renames entries, and every written file is stamped with the
// extraction time instead of the time recorded in the archive.
package archive
