package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/oshokin/llc-launcher/internal/fetch"
	"github.com/oshokin/llc-launcher/internal/integrity"
	"github.com/oshokin/llc-launcher/internal/logger"
)

// AcceptHeader asks registries for the abbreviated install metadata.
const AcceptHeader = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8, */*"

var (
	errMissingLatest    = errors.New("registry metadata has no latest dist-tag")
	errMissingManifest  = errors.New("registry metadata has no manifest for the latest version")
	errMissingTarball   = errors.New("manifest has no tarball")
	errMissingIntegrity = errors.New("manifest has no integrity string")
)

// Dist is the distribution section of a version manifest.
type Dist struct {
	// Integrity is the subresource integrity string of the tarball.
	Integrity string `json:"integrity"`
	// Tarball is the canonical download URL.
	Tarball string `json:"tarball"`
}

// Manifest is the metadata of one published version.
type Manifest struct {
	// Name is the package name.
	Name string `json:"name"`
	// Version is the semantic version of the package.
	Version string `json:"version"`
	// GitHubTag is the upstream release tag the package was built from.
	GitHubTag Tag `json:"githubTag"`
	// Dist describes the tarball.
	Dist Dist `json:"dist"`
}

// Tag accepts both JSON strings and numbers.
type Tag string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*t = Tag(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("githubTag must be a string or a number: %w", err)
		}

		*t = Tag(n.String())
	}

	return nil
}

// packument is the registry document for a whole package.
type packument struct {
	DistTags struct {
		Latest string `json:"latest"`
	} `json:"dist-tags"`
	Versions map[string]Manifest `json:"versions"`
}

// Client reads package metadata from a set of mirrored registries.
type Client struct {
	fetcher    *fetch.Client
	registries fetch.SourceSet
}

// NewClient creates a registry client. The Accept header is added to fetcher's defaults.
func NewClient(fetcher *fetch.Client, registries fetch.SourceSet) *Client {
	return &Client{
		fetcher:    fetcher.With(fetch.WithHeader("Accept", AcceptHeader)),
		registries: registries,
	}
}

// Latest returns the manifest tagged latest for pkg.
func (c *Client) Latest(ctx context.Context, pkg string) (*Manifest, error) {
	doc, endpoint, err := fetch.FetchJSON[packument](ctx, c.fetcher, c.registries.Join(pkg))
	if err != nil {
		return nil, fmt.Errorf("fetch %s metadata: %w", pkg, err)
	}

	latest := doc.DistTags.Latest
	if latest == "" {
		return nil, fmt.Errorf("%s: %w", pkg, errMissingLatest)
	}

	manifest, ok := doc.Versions[latest]
	if !ok {
		return nil, fmt.Errorf("%s@%s: %w", pkg, latest, errMissingManifest)
	}

	logger.InfoKV(ctx, "Fetched registry metadata",
		"package", pkg,
		"version", manifest.Version,
		"github_tag", manifest.GitHubTag,
		"registry", endpoint)

	return &manifest, nil
}

// TarballSources lists the tarball URL published in the manifest followed by
// the same file on every configured registry.
func (c *Client) TarballSources(m *Manifest) (fetch.SourceSet, error) {
	if m.Dist.Tarball == "" {
		return fetch.SourceSet{}, fmt.Errorf("%s@%s: %w", m.Name, m.Version, errMissingTarball)
	}

	canonical, err := fetch.ParseEndpoint(m.Dist.Tarball)
	if err != nil {
		return fetch.SourceSet{}, err
	}

	var (
		file      = path.Base(canonical.URL().Path)
		seen      = map[string]struct{}{canonical.String(): {}}
		endpoints = []fetch.Endpoint{canonical}
	)

	for _, registry := range c.registries.Endpoints() {
		mirror := registry.Join(m.Name, "-", file)
		if _, dup := seen[mirror.String()]; dup {
			continue
		}

		seen[mirror.String()] = struct{}{}
		endpoints = append(endpoints, mirror)
	}

	return fetch.NewSourceSet(endpoints...)
}

// Verifier returns the integrity check for the manifest tarball.
func (m *Manifest) Verifier() (*integrity.SRI, error) {
	if m.Dist.Integrity == "" {
		return nil, fmt.Errorf("%s@%s: %w", m.Name, m.Version, errMissingIntegrity)
	}

	return integrity.ParseSRI(m.Dist.Integrity)
}
