package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/llc-launcher/internal/domain/release"
	"github.com/oshokin/llc-launcher/internal/registry"
)

var errMissingGitHubTag = errors.New("manifest has no githubTag")

// Registry reads the latest localization package from npm registries.
// The package version itself is a build number; the content version is the
// githubTag field, which matches what the vendor channel writes to the marker.
type Registry struct {
	client      *registry.Client
	pkg         string
	stripPrefix string
}

// NewRegistry creates a backend for pkg whose tarball keeps content under stripPrefix.
func NewRegistry(client *registry.Client, pkg, stripPrefix string) *Registry {
	return &Registry{
		client:      client,
		pkg:         pkg,
		stripPrefix: stripPrefix,
	}
}

// Family implements Backend.
func (r *Registry) Family() release.Family {
	return release.FamilyRegistry
}

// Latest implements Backend.
func (r *Registry) Latest(ctx context.Context) (*release.Descriptor, error) {
	manifest, err := r.client.Latest(ctx, r.pkg)
	if err != nil {
		return nil, err
	}

	if manifest.GitHubTag == "" {
		return nil, fmt.Errorf("%s@%s: %w", r.pkg, manifest.Version, errMissingGitHubTag)
	}

	sources, err := r.client.TarballSources(manifest)
	if err != nil {
		return nil, err
	}

	verifier, err := manifest.Verifier()
	if err != nil {
		return nil, err
	}

	return &release.Descriptor{
		Version: release.ParseVersion(string(manifest.GitHubTag)),
		Family:  release.FamilyRegistry,
		Content: &release.Artifact{
			Name:        fmt.Sprintf("%s-%s.tgz", r.pkg, manifest.Version),
			Sources:     sources,
			Expected:    verifier,
			StripPrefix: r.stripPrefix,
		},
	}, nil
}
