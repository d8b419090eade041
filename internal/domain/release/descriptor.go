package release

import (
	"github.com/oshokin/llc-launcher/internal/fetch"
	"github.com/oshokin/llc-launcher/internal/integrity"
)

// Family names a backend that can report the latest release.
type Family string

const (
	// FamilyGitHub is the source-control releases API.
	FamilyGitHub Family = "github"
	// FamilyVendor is the vendor distribution API.
	FamilyVendor Family = "vendor"
	// FamilyRegistry is an npm compatible package registry.
	FamilyRegistry Family = "registry"
)

// Descriptor is what a backend knows about the latest release.
type Descriptor struct {
	// Version is the latest version reported by Family.
	Version Version
	// Family is the backend that produced the descriptor.
	Family Family
	// Content is set when the backend also knows where the archive lives.
	Content *Artifact
}

// Artifact is one downloadable archive.
type Artifact struct {
	// Name is the archive file name, used in logs and for cache files.
	Name string
	// Sources lists the mirrors serving the archive.
	Sources fetch.SourceSet
	// Expected verifies the downloaded bytes; nil skips verification.
	Expected integrity.Verifier
	// StripPrefix selects archive entries under this directory and removes it.
	StripPrefix string
}

// FontAsset is the auxiliary font that lives under the preserved Font directory.
type FontAsset struct {
	// Archive contains the font.
	Archive Artifact
	// Member, when set, is the only archive entry extracted, written to Path.
	// Otherwise entries are mapped with Archive.StripPrefix.
	Member string
	// Path is the font location relative to the content directory.
	Path string
	// Installed verifies an already installed font; nil means presence is enough.
	Installed integrity.Verifier
}

// Plan is everything needed to move the installation to a new version.
type Plan struct {
	// Version is the version being installed.
	Version Version
	// Content is the localization archive.
	Content Artifact
	// Font is the auxiliary font, nil when the channel ships none.
	Font *FontAsset
}
