package resolver

import (
	"context"
	"fmt"

	"github.com/oshokin/llc-launcher/internal/domain/release"
	"github.com/oshokin/llc-launcher/internal/fetch"
	"github.com/oshokin/llc-launcher/internal/integrity"
)

const (
	// vendorVersionPath reports the latest content counter.
	vendorVersionPath = "v2/resource/get_version"
	// vendorHashPath reports the digests of the content and font archives.
	vendorHashPath = "v2/hash/get_hash"
)

// Hashes are the archive digests published by the vendor API.
type Hashes struct {
	// Main is the digest of LimbusLocalize_<version>.7z.
	Main integrity.Digest `json:"main_hash"`
	// Font is the digest of the font archive.
	Font integrity.Digest `json:"font_hash"`
}

// vendorVersion is the response of the version endpoint.
type vendorVersion struct {
	Version uint64 `json:"version"`
}

// Vendor reads release information from the vendor API nodes.
type Vendor struct {
	fetcher *fetch.Client
	nodes   fetch.SourceSet
}

// NewVendor creates a backend over the vendor API nodes.
func NewVendor(fetcher *fetch.Client, nodes fetch.SourceSet) *Vendor {
	return &Vendor{
		fetcher: fetcher,
		nodes:   nodes,
	}
}

// Family implements Backend.
func (v *Vendor) Family() release.Family {
	return release.FamilyVendor
}

// Latest implements Backend.
func (v *Vendor) Latest(ctx context.Context) (*release.Descriptor, error) {
	latest, _, err := fetch.FetchJSON[vendorVersion](ctx, v.fetcher, v.nodes.Join(vendorVersionPath))
	if err != nil {
		return nil, fmt.Errorf("fetch vendor version: %w", err)
	}

	return &release.Descriptor{
		Version: release.NumberVersion(latest.Version),
		Family:  release.FamilyVendor,
	}, nil
}

// Hashes fetches the published archive digests.
func (v *Vendor) Hashes(ctx context.Context) (*Hashes, error) {
	hashes, _, err := fetch.FetchJSON[Hashes](ctx, v.fetcher, v.nodes.Join(vendorHashPath))
	if err != nil {
		return nil, fmt.Errorf("fetch vendor hashes: %w", err)
	}

	return &hashes, nil
}
