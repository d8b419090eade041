// Package marker persists the installed localization version.
//
// The FileRepository reads and writes Info/version.json inside the content
// directory through protojson and structpb, so unknown fields written by
// other tools survive a rewrite.
package marker
