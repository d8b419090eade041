package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/llc-launcher/internal/domain/release"
	"github.com/oshokin/llc-launcher/internal/fetch"
)

// GitHubAccept is the media type recommended by the GitHub REST API.
const GitHubAccept = "application/vnd.github+json"

var errEmptyTag = errors.New("release has no tag")

// githubRelease is the subset of the releases API response we read.
type githubRelease struct {
	TagName string `json:"tag_name"`
}

// GitHub reads the latest release tag of a repository.
type GitHub struct {
	fetcher *fetch.Client
	apis    fetch.SourceSet
	owner   string
	repo    string
}

// NewGitHub creates a backend over the API mirrors in apis.
func NewGitHub(fetcher *fetch.Client, apis fetch.SourceSet, owner, repo string) *GitHub {
	return &GitHub{
		fetcher: fetcher.With(fetch.WithHeader("Accept", GitHubAccept)),
		apis:    apis,
		owner:   owner,
		repo:    repo,
	}
}

// Family implements Backend.
func (g *GitHub) Family() release.Family {
	return release.FamilyGitHub
}

// Latest implements Backend.
func (g *GitHub) Latest(ctx context.Context) (*release.Descriptor, error) {
	set := g.apis.Join("repos", g.owner, g.repo, "releases", "latest")

	latest, _, err := fetch.FetchJSON[githubRelease](ctx, g.fetcher, set)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release of %s/%s: %w", g.owner, g.repo, err)
	}

	version := release.ParseVersion(latest.TagName)
	if version.IsZero() {
		return nil, fmt.Errorf("%s/%s: %w", g.owner, g.repo, errEmptyTag)
	}

	return &release.Descriptor{
		Version: version,
		Family:  release.FamilyGitHub,
	}, nil
}
