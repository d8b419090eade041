// Package resolver determines the latest localization release.
//
// Each Backend answers for one family (GitHub releases, the vendor API, an
// npm registry) and is itself backed by a mirrored fetch.SourceSet. Resolver
// races the families; Locators then turn the winning descriptor into a
// release.Plan with concrete download mirrors and digests.
package resolver
